package schema_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/recordkit/pkg/schema"
)

func TestDefine(t *testing.T) {
	t.Parallel()

	t.Run("keeps field order", func(t *testing.T) {
		s, err := schema.Define("station", []schema.Field{
			schema.String("station_id"),
			schema.Integer("crew_size"),
			schema.Boolean("is_operational", schema.Default(true)),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "station", s.Name())
		assert.Equal(t, []string{"station_id", "crew_size", "is_operational"}, s.FieldNames())

		f, ok := s.Field("is_operational")
		require.True(t, ok)
		assert.True(t, f.IsOptional())
		def, ok := f.Default()
		assert.True(t, ok)
		assert.Equal(t, true, def)
	})

	t.Run("coerces defaults", func(t *testing.T) {
		s, err := schema.Define("x", []schema.Field{
			schema.DateTime("since", schema.Default("2024-01-01")),
		}, nil)
		require.NoError(t, err)
		f, _ := s.Field("since")
		def, _ := f.Default()
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), def)
	})

	child := schema.MustDefine("child", []schema.Field{schema.String("id")}, nil)

	tests := []struct {
		name   string
		fields []schema.Field
		rules  []schema.Rule
	}{
		{"empty field name", []schema.Field{schema.String("")}, nil},
		{"path separator in name", []schema.Field{schema.String("crew.name")}, nil},
		{"duplicate field", []schema.Field{schema.String("id"), schema.Integer("id")}, nil},
		{"unknown type", []schema.Field{schema.Named("id", schema.Of("decimal"))}, nil},
		{"min above max", []schema.Field{schema.Integer("crew_size", schema.Range(20, 1))}, nil},
		{"fractional integer bound", []schema.Field{schema.Integer("crew_size", schema.Max(2.5))}, nil},
		{"integer bound beyond int64", []schema.Field{schema.Integer("crew_size", schema.Max(0x1p63))}, nil},
		{"numeric bound on string", []schema.Field{schema.String("id", schema.Min(1))}, nil},
		{"min length above max length", []schema.Field{schema.String("id", schema.Length(10, 3))}, nil},
		{"negative length", []schema.Field{schema.String("id", schema.MinLength(-1))}, nil},
		{"length on integer", []schema.Field{schema.Integer("n", schema.MaxLength(3))}, nil},
		{"empty enum", []schema.Field{schema.Enum("rank", nil)}, nil},
		{"duplicate enum value", []schema.Field{schema.Enum("rank", []string{"cadet", "cadet"})}, nil},
		{"bad pattern", []schema.Field{schema.String("id", schema.Pattern("[a-"))}, nil},
		{"unknown format", []schema.Field{schema.String("id", schema.WithFormat("phone"))}, nil},
		{"unknown normalizer", []schema.Field{schema.String("id", schema.Normalize("shout"))}, nil},
		{"prefix on float", []schema.Field{schema.Float("power", schema.Prefix("A"))}, nil},
		{"record without schema", []schema.Field{schema.Nested("owner", nil)}, nil},
		{"list without items", []schema.Field{schema.Named("crew", schema.Of(schema.TypeList))}, nil},
		{"invalid item constraint", []schema.Field{schema.List("crew", schema.RecordOf(nil))}, nil},
		{"child on scalar", []schema.Field{schema.String("id", schema.Child(child))}, nil},
		{"default violating bounds", []schema.Field{schema.Integer("crew_size", schema.Range(1, 20), schema.Default(30))}, nil},
		{"default of wrong type", []schema.Field{schema.Integer("crew_size", schema.Default("many"))}, nil},
		{"null default", []schema.Field{schema.String("status", schema.Default(nil))}, nil},
		{"item default of wrong type", []schema.Field{schema.List("xs", schema.Of(schema.TypeInteger, schema.Default("abc"), schema.Range(1, 5)))}, nil},
		{"item default violating bounds", []schema.Field{schema.List("xs", schema.Of(schema.TypeInteger, schema.Default(9), schema.Range(1, 5)))}, nil},
		{"nested item default violating bounds", []schema.Field{schema.List("grid", schema.Of(schema.TypeList,
			schema.Items(schema.Of(schema.TypeInteger, schema.Default(9), schema.Range(1, 5)))))}, nil},
		{"unnamed rule", []schema.Field{schema.String("id")}, []schema.Rule{schema.Func("", "msg", func(schema.Record) bool { return true })}},
		{"duplicate rule", []schema.Field{schema.String("id")}, []schema.Rule{
			schema.HasPrefix("prefix", "id", "A", "msg"),
			schema.HasPrefix("prefix", "id", "B", "msg"),
		}},
		{"rule without check", []schema.Field{schema.String("id")}, []schema.Rule{{Name: "empty"}}},
		{"rule path to unknown field", []schema.Field{schema.String("id")}, []schema.Rule{schema.HasPrefix("prefix", "code", "A", "msg")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := schema.Define("broken", tt.fields, tt.rules)
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrInvalidDefinition)
			assert.Nil(t, s)
		})
	}

	t.Run("reports every problem", func(t *testing.T) {
		_, err := schema.Define("broken", []schema.Field{
			schema.Integer("a", schema.Range(5, 1)),
			schema.Enum("b", nil),
		}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `field "a"`)
		assert.Contains(t, err.Error(), `field "b"`)
	})

	t.Run("empty schema name", func(t *testing.T) {
		_, err := schema.Define(" ", nil, nil)
		assert.ErrorIs(t, err, schema.ErrInvalidDefinition)
	})

	t.Run("must define panics", func(t *testing.T) {
		assert.Panics(t, func() {
			schema.MustDefine("broken", []schema.Field{schema.Enum("rank", nil)}, nil)
		})
	})

	t.Run("rule path may point into a list", func(t *testing.T) {
		_, err := schema.Define("mission", []schema.Field{
			schema.List("crew", schema.RecordOf(child), schema.MinLength(1)),
		}, []schema.Rule{
			schema.Func("first", "msg", func(schema.Record) bool { return true }).At("crew[0].id"),
		})
		assert.NoError(t, err)
	})
}

func TestConstraintAccessors(t *testing.T) {
	t.Parallel()

	c := schema.Of(schema.TypeString,
		schema.Length(3, 10),
		schema.Prefix("ISS"),
		schema.Pattern(`^[A-Z0-9]+$`),
		schema.WithFormat(schema.FormatAlphanumeric),
		schema.Normalize("trim", "upper"),
		schema.Describe("station identifier"),
	)

	minLen, ok := c.MinLength()
	assert.True(t, ok)
	assert.Equal(t, 3, minLen)
	maxLen, _ := c.MaxLength()
	assert.Equal(t, 10, maxLen)
	_, ok = c.Min()
	assert.False(t, ok)
	assert.Equal(t, "ISS", c.Prefix())
	assert.Equal(t, `^[A-Z0-9]+$`, c.Pattern())
	assert.Equal(t, schema.FormatAlphanumeric, c.Format())
	assert.Equal(t, []string{"trim", "upper"}, c.Normalizers())
	assert.Equal(t, "station identifier", c.Description())

	enum := schema.Enum("rank", []string{"cadet", "captain"})
	values := enum.Enum()
	values[0] = "admiral"
	assert.Equal(t, []string{"cadet", "captain"}, enum.Enum(), "accessor must return a copy")
}
