package schema

import (
	"slices"

	"github.com/dmitrymomot/recordkit/pkg/coerce"
)

// Type is the semantic type of a field.
type Type string

const (
	TypeString   Type = coerce.TypeString
	TypeInteger  Type = coerce.TypeInteger
	TypeFloat    Type = coerce.TypeFloat
	TypeBoolean  Type = coerce.TypeBoolean
	TypeDateTime Type = coerce.TypeDateTime
	TypeEnum     Type = "enum"
	TypeUUID     Type = coerce.TypeUUID
	TypeRecord   Type = coerce.TypeRecord
	TypeList     Type = coerce.TypeList
)

var knownTypes = []Type{
	TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeDateTime,
	TypeEnum, TypeUUID, TypeRecord, TypeList,
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	return slices.Contains(knownTypes, t)
}

func (t Type) textual() bool {
	return t == TypeString || t == TypeEnum
}

func (t Type) numeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// Format names a well-known string format.
type Format string

const (
	FormatEmail        Format = "email"
	FormatURL          Format = "url"
	FormatUUID         Format = "uuid"
	FormatAlphanumeric Format = "alphanumeric"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatEmail, FormatURL, FormatUUID, FormatAlphanumeric:
		return true
	}
	return false
}
