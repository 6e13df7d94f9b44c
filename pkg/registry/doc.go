// Package registry keeps named schemas for lookup at runtime.
//
// Schemas come from two places: Register, for schemas declared in Go, and
// LoadDir or Watch, for YAML documents on disk. Lookups are safe for
// concurrent use while documents are being reloaded.
//
//	reg := registry.New(registry.WithLogger(log))
//	reg.MustRegister(crewMember)
//	if _, err := reg.LoadDir(ctx, "schemas"); err != nil {
//	    return err
//	}
//	s, err := reg.Get("space_mission")
package registry
