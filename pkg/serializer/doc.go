// Package serializer reads raw records from JSON or YAML input and writes
// validation results as JSON, YAML or an aligned text table.
//
//	records, err := serializer.ReadFile("missions.yaml", "")
//	...
//	w := serializer.NewWriter(serializer.FormatTable, os.Stdout)
//	err = w.WriteResults(results)
//
// The table format prints one row per validation error and a single row for
// each valid record.
package serializer
