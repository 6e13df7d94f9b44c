package validator_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/recordkit/pkg/validator"
)

func TestStringLength(t *testing.T) {
	tests := []struct {
		name  string
		rule  validator.Rule
		valid bool
	}{
		{"min length met", validator.MinLen("id", "ISS", 3), true},
		{"min length missed", validator.MinLen("id", "IS", 3), false},
		{"max length met", validator.MaxLen("id", "ISS0000001", 10), true},
		{"max length exceeded", validator.MaxLen("id", "ISS00000001", 10), false},
		{"counts runes not bytes", validator.MaxLen("name", "Zürich", 6), true},
		{"exact length", validator.Len("code", "abc", 3), true},
		{"exact length missed", validator.Len("code", "abcd", 3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.rule.Check())
			assert.Equal(t, validator.BoundLength, tt.rule.Error.Bound)
			assert.Equal(t, validator.CodeBoundViolation, tt.rule.Error.Code)
		})
	}

	assert.Equal(t, "must be at least 3 characters long", validator.MinLen("id", "", 3).Error.Message)
	assert.Equal(t, "must be at most 10 characters long", validator.MaxLen("id", "", 10).Error.Message)
}

func TestNumericBounds(t *testing.T) {
	t.Run("min", func(t *testing.T) {
		assert.True(t, validator.Min("crew_size", 1, 1).Check())
		rule := validator.Min("crew_size", 0, 1)
		assert.False(t, rule.Check())
		assert.Equal(t, validator.BoundMin, rule.Error.Bound)
		assert.Equal(t, "must be greater than or equal to 1", rule.Error.Message)
	})

	t.Run("max", func(t *testing.T) {
		assert.True(t, validator.Max("crew_size", 20, 20).Check())
		rule := validator.Max("crew_size", 23, 20)
		assert.False(t, rule.Check())
		assert.Equal(t, validator.BoundMax, rule.Error.Bound)
		assert.Equal(t, 23, rule.Error.Value)
	})

	t.Run("floats", func(t *testing.T) {
		assert.True(t, validator.Max("power", 100.0, 100.0).Check())
		assert.False(t, validator.Min("power", -0.1, 0.0).Check())
	})
}

func TestMembership(t *testing.T) {
	ranks := []string{"cadet", "officer", "captain"}

	assert.True(t, validator.OneOf("rank", "captain", ranks).Check())

	rule := validator.OneOf("rank", "Captain", ranks)
	assert.False(t, rule.Check(), "membership is case-sensitive")
	assert.Equal(t, validator.BoundMembership, rule.Error.Bound)
	assert.Equal(t, "must be one of: cadet, officer, captain", rule.Error.Message)
}

func TestItems(t *testing.T) {
	assert.False(t, validator.MinItems("crew", []int{}, 1).Check())
	assert.True(t, validator.MinItems("crew", []int{1}, 1).Check())
	assert.False(t, validator.MaxItems("crew", make([]int, 13), 12).Check())

	rule := validator.MaxItems("crew", make([]int, 13), 12)
	assert.Equal(t, validator.BoundLength, rule.Error.Bound)
	assert.Equal(t, "must have at most 12 items", rule.Error.Message)
}

func TestPatterns(t *testing.T) {
	t.Run("regexp", func(t *testing.T) {
		re := regexp.MustCompile(`^[A-Z]{3}\d+$`)
		assert.True(t, validator.MatchesPattern("id", "ISS001", re, "").Check())

		rule := validator.MatchesPattern("id", "iss001", re, "")
		assert.False(t, rule.Check())
		assert.Equal(t, validator.BoundPattern, rule.Error.Bound)
		assert.Equal(t, `must match pattern ^[A-Z]{3}\d+$`, rule.Error.Message)
	})

	t.Run("prefix is literal", func(t *testing.T) {
		assert.True(t, validator.HasPrefix("contact_id", "AC2024_001", "AC").Check())
		assert.True(t, validator.HasPrefix("contact_id", "AC_2024_001", "AC").Check())
		assert.False(t, validator.HasPrefix("contact_id", "ac_2024", "AC").Check())
	})
}

func TestFormats(t *testing.T) {
	tests := []struct {
		name  string
		rule  validator.Rule
		valid bool
	}{
		{"email ok", validator.ValidEmail("email", "crew@station.space"), true},
		{"email without domain dot", validator.ValidEmail("email", "crew@station"), false},
		{"email empty", validator.ValidEmail("email", " "), false},
		{"url ok", validator.ValidURL("link", "https://nasa.gov/missions"), true},
		{"url relative", validator.ValidURL("link", "/missions"), false},
		{"alphanumeric ok", validator.ValidAlphanumeric("code", "ISS001"), true},
		{"alphanumeric with separator", validator.ValidAlphanumeric("code", "ISS_001"), false},
		{"uuid ok", validator.ValidUUID("id", uuid.NewString()), true},
		{"uuid malformed", validator.ValidUUID("id", "not-a-uuid"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.rule.Check())
			assert.Equal(t, validator.BoundPattern, tt.rule.Error.Bound)
		})
	}
}

func TestDateBounds(t *testing.T) {
	min := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	max := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	assert.True(t, validator.NotBefore("launch", min, min).Check())
	assert.False(t, validator.NotBefore("launch", min.Add(-time.Second), min).Check())
	assert.True(t, validator.NotAfter("launch", max, max).Check())

	rule := validator.NotAfter("launch", max.Add(time.Hour), max)
	assert.False(t, rule.Check())
	assert.Equal(t, validator.BoundMax, rule.Error.Bound)
	assert.Equal(t, "must not be after 2024-12-31T00:00:00Z", rule.Error.Message)
}

func TestBusiness(t *testing.T) {
	rule := validator.Business("contact_id", "contact_prefix", "Contact ID must start with AC", func() bool { return false })
	assert.False(t, rule.Check())
	assert.Equal(t, validator.CodeBusinessRule, rule.Error.Code)
	assert.Equal(t, "contact_prefix", rule.Error.Rule)
	assert.Equal(t, "contact_id", rule.Error.Path)
}
