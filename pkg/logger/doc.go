// Package logger builds *slog.Logger values from functional options and
// provides attribute helpers that keep key names consistent.
//
// New selects a text or JSON handler, applies static attributes and wraps the
// handler so that ContextExtractor callbacks can add values carried by the
// record context. Output goes to stderr unless WithOutput or
// WithRotatingFile says otherwise; the latter writes through a size based
// rotating file.
//
//	log, closeLog, err := logger.New(
//	    logger.WithEnvironment(environment.Production),
//	    logger.WithRotatingFile("/var/log/recordkit.log", logger.DefaultRotation),
//	)
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//
//	log.Info("record validated", logger.Schema("space_station"), logger.Outcome(true))
//
// ParseLevel and ParseFormat convert configuration strings.
package logger
