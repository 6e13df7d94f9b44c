package schemadoc_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recordkit/pkg/schema"
	"github.com/dmitrymomot/recordkit/pkg/schemadoc"
	"github.com/dmitrymomot/recordkit/pkg/validator"
)

const schemasDir = "../../schemas"

func loadSchemas(t *testing.T) schemadoc.Set {
	t.Helper()
	docs, err := schemadoc.LoadDir(context.Background(), schemasDir)
	require.NoError(t, err)
	built, err := schemadoc.BuildAll(docs, nil)
	require.NoError(t, err)
	return schemadoc.NewSet(built...)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid document", func(t *testing.T) {
		doc, err := schemadoc.Parse([]byte(`
name: lander
strict: true
fields:
  - name: lander_id
    type: string
    prefix: PR
  - name: readings
    type: list
    max_length: 3
    items:
      type: float
      min: 0
`))
		require.NoError(t, err)
		assert.Equal(t, "lander", doc.Name)
		assert.True(t, doc.Strict)
		require.Len(t, doc.Fields, 2)
		require.NotNil(t, doc.Fields[1].Items)
		assert.Equal(t, "float", doc.Fields[1].Items.Type)
	})

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not yaml", "name: [unclosed"},
		{"unknown key", "name: x\nfields:\n  - name: a\n    type: string\n    colour: red\n"},
		{"missing name", "fields:\n  - name: a\n    type: string\n"},
		{"no fields", "name: x\n"},
		{"field without type", "name: x\nfields:\n  - name: a\n"},
		{"field without name", "name: x\nfields:\n  - type: string\n"},
		{"rule without jq", "name: x\nfields:\n  - name: a\n    type: string\nrules:\n  - name: r\n    message: m\n"},
		{"rule without message", "name: x\nfields:\n  - name: a\n    type: string\nrules:\n  - name: r\n    jq: true\n"},
		{"schema and inline fields", "name: x\nfields:\n  - name: a\n    type: record\n    schema: y\n    fields:\n      - name: b\n        type: string\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schemadoc.Parse([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, schemadoc.ErrInvalidDocument)
		})
	}
}

func TestDocumentReferences(t *testing.T) {
	t.Parallel()

	doc, err := schemadoc.Parse([]byte(`
name: fleet
fields:
  - name: flagship
    type: record
    schema: ship
  - name: escorts
    type: list
    items:
      type: record
      schema: ship
  - name: base
    type: record
    fields:
      - name: commander
        type: record
        schema: crew_member
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"ship", "crew_member"}, doc.References())
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("unresolved reference", func(t *testing.T) {
		doc, err := schemadoc.Parse([]byte("name: x\nfields:\n  - name: a\n    type: record\n    schema: missing\n"))
		require.NoError(t, err)
		_, err = doc.Build(nil)
		assert.ErrorIs(t, err, schemadoc.ErrUnresolved)
		assert.ErrorIs(t, err, schemadoc.ErrInvalidDocument)
	})

	t.Run("definition errors are wrapped", func(t *testing.T) {
		doc, err := schemadoc.Parse([]byte("name: x\nfields:\n  - name: a\n    type: integer\n    min: 10\n    max: 1\n"))
		require.NoError(t, err)
		_, err = doc.Build(nil)
		assert.ErrorIs(t, err, schemadoc.ErrInvalidDocument)
		assert.ErrorIs(t, err, schema.ErrInvalidDefinition)
	})

	t.Run("bad jq", func(t *testing.T) {
		doc, err := schemadoc.Parse([]byte("name: x\nfields:\n  - name: a\n    type: string\nrules:\n  - name: r\n    message: m\n    jq: '.a | ('\n"))
		require.NoError(t, err)
		_, err = doc.Build(nil)
		assert.ErrorIs(t, err, schemadoc.ErrInvalidDocument)
	})

	t.Run("bad datetime bound", func(t *testing.T) {
		doc, err := schemadoc.Parse([]byte("name: x\nfields:\n  - name: a\n    type: datetime\n    earliest: soon\n"))
		require.NoError(t, err)
		_, err = doc.Build(nil)
		assert.ErrorIs(t, err, schemadoc.ErrInvalidDocument)
	})

	t.Run("inline nested fields", func(t *testing.T) {
		doc, err := schemadoc.Parse([]byte(`
name: station
fields:
  - name: location
    type: record
    fields:
      - name: orbit
        type: enum
        enum: [leo, geo]
      - name: altitude_km
        type: float
        min: 160
`))
		require.NoError(t, err)
		s, err := doc.Build(nil)
		require.NoError(t, err)

		errs := schema.Validate(map[string]any{
			"location": map[string]any{"orbit": "heo", "altitude_km": 100},
		}, s).Errors()
		assert.Equal(t, []string{"location.orbit", "location.altitude_km"}, errs.Paths())
	})

	t.Run("jq rule with runtime error fails", func(t *testing.T) {
		doc, err := schemadoc.Parse([]byte(`
name: x
fields:
  - name: a
    type: string
rules:
  - name: numeric
    message: a must be numeric
    jq: (.a | tonumber) > 0
`))
		require.NoError(t, err)
		s, err := doc.Build(nil)
		require.NoError(t, err)

		assert.True(t, schema.Validate(map[string]any{"a": "5"}, s).Ok())
		errs := schema.Validate(map[string]any{"a": "five"}, s).Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, "numeric", errs[0].Rule)
	})
}

func TestBuildAll(t *testing.T) {
	t.Parallel()

	t.Run("dependency order", func(t *testing.T) {
		set := loadSchemas(t)
		assert.Len(t, set, 4)

		docs, err := schemadoc.LoadDir(context.Background(), schemasDir)
		require.NoError(t, err)
		built, err := schemadoc.BuildAll(docs, nil)
		require.NoError(t, err)

		pos := map[string]int{}
		for i, s := range built {
			pos[s.Name()] = i
		}
		assert.Less(t, pos["crew_member"], pos["space_mission"])
	})

	t.Run("base resolver", func(t *testing.T) {
		crew := schema.MustDefine("crew_member", []schema.Field{schema.String("name")}, nil)
		doc, err := schemadoc.Parse([]byte("name: team\nfields:\n  - name: lead\n    type: record\n    schema: crew_member\n"))
		require.NoError(t, err)

		built, err := schemadoc.BuildAll([]*schemadoc.Document{doc}, schemadoc.NewSet(crew))
		require.NoError(t, err)
		require.Len(t, built, 1)
		f, ok := built[0].Field("lead")
		require.True(t, ok)
		assert.Same(t, crew, f.Schema())
	})

	t.Run("cycle", func(t *testing.T) {
		a, err := schemadoc.Parse([]byte("name: a\nfields:\n  - name: b\n    type: record\n    schema: b\n"))
		require.NoError(t, err)
		b, err := schemadoc.Parse([]byte("name: b\nfields:\n  - name: a\n    type: record\n    schema: a\n"))
		require.NoError(t, err)

		_, err = schemadoc.BuildAll([]*schemadoc.Document{a, b}, nil)
		assert.ErrorIs(t, err, schemadoc.ErrUnresolved)
	})

	t.Run("duplicate names", func(t *testing.T) {
		a, err := schemadoc.Parse([]byte("name: a\nfields:\n  - name: x\n    type: string\n"))
		require.NoError(t, err)
		_, err = schemadoc.BuildAll([]*schemadoc.Document{a, a}, nil)
		assert.ErrorIs(t, err, schemadoc.ErrDuplicateDocument)
	})
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: a\nfields:\n  - name: x\n    type: string\n")
	writeFile(t, dir, "notes.txt", "not a schema")
	writeFile(t, dir, ".hidden.yaml", "broken: [")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))
	writeFile(t, filepath.Join(dir, "nested"), "b.yml", "name: b\nfields:\n  - name: y\n    type: integer\n")

	docs, err := schemadoc.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Name)
	assert.Equal(t, filepath.Join(dir, "nested", "b.yml"), docs[1].Source)

	t.Run("duplicate document names", func(t *testing.T) {
		writeFile(t, dir, "c.yaml", "name: a\nfields:\n  - name: z\n    type: string\n")
		_, err := schemadoc.LoadDir(context.Background(), dir)
		assert.ErrorIs(t, err, schemadoc.ErrDuplicateDocument)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := schemadoc.LoadDir(ctx, t.TempDir())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := schemadoc.LoadDir(context.Background(), filepath.Join(dir, "absent"))
		assert.Error(t, err)
	})
}

func TestDocumentSchemas(t *testing.T) {
	t.Parallel()
	set := loadSchemas(t)

	crew := func(id, rank string, years int, active bool) map[string]any {
		return map[string]any{
			"member_id": id, "name": "Crew " + id, "rank": rank, "age": 30,
			"specialization": "Navigation", "years_experience": years, "is_active": active,
		}
	}
	mission := func(duration int, members ...any) map[string]any {
		return map[string]any{
			"mission_id": "M2024_MARS", "mission_name": "Mars Colony Establishment",
			"destination": "Mars", "launch_date": "2024-01-01", "duration_days": duration,
			"crew": members, "budget_millions": 2500.0,
		}
	}

	t.Run("station crew size", func(t *testing.T) {
		errs := schema.Validate(map[string]any{
			"station_id": "ISS001", "name": "International Space Station", "crew_size": 23,
			"power_level": 13.5, "oxygen_level": 56.7, "last_maintenance": "2024-01-15T10:30:00",
		}, set["space_station"]).Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, "crew_size", errs[0].Path)
		assert.Equal(t, validator.BoundMax, errs[0].Bound)
	})

	t.Run("mission experience rule", func(t *testing.T) {
		errs := schema.Validate(mission(900,
			crew("S001", "commander", 9, true),
			crew("J001", "lieutenant", 4, true),
			crew("A001", "officer", 3, true),
		), set["space_mission"]).Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, "experienced_crew", errs[0].Rule)
	})

	t.Run("mission valid", func(t *testing.T) {
		report := schema.Validate(mission(900,
			crew("S001", "commander", 9, true),
			crew("J001", "lieutenant", 7, true),
			crew("A001", "officer", 3, true),
		), set["space_mission"])
		require.True(t, report.Ok(), report.Errors())
		assert.Equal(t, "planned", report.Record().String("mission_status"))
	})

	t.Run("mission inactive crew", func(t *testing.T) {
		errs := schema.Validate(mission(100,
			crew("S001", "commander", 9, true),
			crew("J001", "lieutenant", 7, false),
		), set["space_mission"]).Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, "crew_active", errs[0].Rule)
	})

	t.Run("contact rules", func(t *testing.T) {
		contact := map[string]any{
			"contact_id": "AC2024_001", "contact_type": "telepathic", "timestamp": "2024-12-12",
			"location": "Area 51, Nevada", "signal_strength": 6.2, "duration_minutes": 30,
			"witness_count": 1,
		}
		errs := schema.Validate(contact, set["alien_contact"]).Errors()
		require.Len(t, errs, 1)
		assert.Equal(t, "telepathic_witnesses", errs[0].Rule)
		assert.Equal(t, "witness_count", errs[0].Path)

		contact["witness_count"] = 3
		assert.True(t, schema.Validate(contact, set["alien_contact"]).Ok(), "AC2024_001 has the literal AC prefix")
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	doc, err := schemadoc.ParseFile(filepath.Join(schemasDir, "crew_member.yaml"))
	require.NoError(t, err)

	data, err := doc.Marshal()
	require.NoError(t, err)

	again, err := schemadoc.Parse(data)
	require.NoError(t, err)
	again.Source = doc.Source
	assert.Equal(t, doc, again)
}
