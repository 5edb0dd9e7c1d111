// Package primitive validates the lexical form of FHIR R4 primitive values.
//
// Every validator has the shape func(value any, path string) error and
// reports failures as *fhirschema.Violation of kind format.
package primitive

import (
	"encoding/base64"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	fhs "github.com/gofhir/fhirschema"
)

// Func validates one primitive value found at path.
type Func func(value any, path string) error

// Type tags of the FHIR R4 primitives.
const (
	TypeBoolean      = "boolean"
	TypeInteger      = "integer"
	TypeUnsignedInt  = "unsignedInt"
	TypePositiveInt  = "positiveInt"
	TypeDecimal      = "decimal"
	TypeString       = "string"
	TypeURI          = "uri"
	TypeURL          = "url"
	TypeCanonical    = "canonical"
	TypeCode         = "code"
	TypeID           = "id"
	TypeOID          = "oid"
	TypeUUID         = "uuid"
	TypeMarkdown     = "markdown"
	TypeBase64Binary = "base64Binary"
	TypeInstant      = "instant"
	TypeDate         = "date"
	TypeDateTime     = "dateTime"
	TypeTime         = "time"
	TypeXHTML        = "xhtml"
)

var (
	urlRegex       = regexp.MustCompile(`^\S+$`)
	canonicalRegex = regexp.MustCompile(`^\S+(\|\S+)?$`)
	codeRegex      = regexp.MustCompile(`^\S+( \S+)*$`)
	idRegex        = regexp.MustCompile(`^[A-Za-z0-9\-.]{1,64}$`)
	oidRegex       = regexp.MustCompile(`^urn:oid:[012](\.(0|[1-9]\d*))+$`)
	timeRegex      = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:([0-5]\d|60)(\.\d+)?$`)
)

// Validators returns a fresh map of every primitive validator keyed by tag.
func Validators() map[string]Func {
	return map[string]Func{
		TypeBoolean:      Boolean,
		TypeInteger:      Integer,
		TypeUnsignedInt:  UnsignedInt,
		TypePositiveInt:  PositiveInt,
		TypeDecimal:      Decimal,
		TypeString:       String,
		TypeURI:          URI,
		TypeURL:          URL,
		TypeCanonical:    Canonical,
		TypeCode:         Code,
		TypeID:           ID,
		TypeOID:          OID,
		TypeUUID:         UUID,
		TypeMarkdown:     Markdown,
		TypeBase64Binary: Base64Binary,
		TypeInstant:      Instant,
		TypeDate:         Date,
		TypeDateTime:     DateTime,
		TypeTime:         Time,
		TypeXHTML:        XHTML,
	}
}

func invalid(tag, path string, value any) error {
	return fhs.NewFormat(path, tag, value)
}

// stringOf returns the string value or a format violation.
func stringOf(tag, path string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", invalid(tag, path, value)
	}
	return s, nil
}

// Boolean accepts only JSON booleans.
func Boolean(value any, path string) error {
	if _, ok := value.(bool); !ok {
		return invalid(TypeBoolean, path, value)
	}
	return nil
}

// Integer accepts whole numbers in the signed 32-bit range.
func Integer(value any, path string) error {
	return intInRange(TypeInteger, value, path, math.MinInt32)
}

// UnsignedInt accepts whole numbers in [0, 2147483647].
func UnsignedInt(value any, path string) error {
	return intInRange(TypeUnsignedInt, value, path, 0)
}

// PositiveInt accepts whole numbers in [1, 2147483647].
func PositiveInt(value any, path string) error {
	return intInRange(TypePositiveInt, value, path, 1)
}

func intInRange(tag string, value any, path string, low int64) error {
	d, ok := ToDecimal(value)
	if !ok || !d.IsInteger() {
		return invalid(tag, path, value)
	}
	if d.LessThan(decimal.NewFromInt(low)) || d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return invalid(tag, path, value)
	}
	return nil
}

// Decimal accepts any finite JSON number.
func Decimal(value any, path string) error {
	if _, ok := ToDecimal(value); !ok {
		return invalid(TypeDecimal, path, value)
	}
	return nil
}

// numberLike matches json.Number from either JSON package.
type numberLike interface {
	String() string
	Float64() (float64, error)
}

// ToDecimal converts a decoded JSON number to an exact decimal. Strings are
// not numbers in FHIR JSON and are rejected.
func ToDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		return ToDecimal(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case numberLike:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}

// String accepts valid UTF-8 without leading or trailing whitespace.
func String(value any, path string) error {
	s, err := stringOf(TypeString, path, value)
	if err != nil {
		return err
	}
	if !utf8.ValidString(s) {
		return invalid(TypeString, path, value)
	}
	if s != "" && strings.TrimSpace(s) != s {
		return invalid(TypeString, path, value)
	}
	return nil
}

// URI accepts a non-empty string without whitespace.
func URI(value any, path string) error {
	s, err := stringOf(TypeURI, path, value)
	if err != nil {
		return err
	}
	if s == "" || strings.ContainsAny(s, " \t\n\r") {
		return invalid(TypeURI, path, value)
	}
	return nil
}

// URL accepts a non-empty string without whitespace.
func URL(value any, path string) error {
	s, err := stringOf(TypeURL, path, value)
	if err != nil {
		return err
	}
	if !urlRegex.MatchString(s) {
		return invalid(TypeURL, path, value)
	}
	return nil
}

// Canonical accepts a URI with an optional |version suffix.
func Canonical(value any, path string) error {
	s, err := stringOf(TypeCanonical, path, value)
	if err != nil {
		return err
	}
	if !canonicalRegex.MatchString(s) {
		return invalid(TypeCanonical, path, value)
	}
	return nil
}

// Code accepts tokens separated by single spaces.
func Code(value any, path string) error {
	s, err := stringOf(TypeCode, path, value)
	if err != nil {
		return err
	}
	if !codeRegex.MatchString(s) {
		return invalid(TypeCode, path, value)
	}
	return nil
}

// ID accepts 1-64 characters from [A-Za-z0-9-.].
func ID(value any, path string) error {
	s, err := stringOf(TypeID, path, value)
	if err != nil {
		return err
	}
	if !idRegex.MatchString(s) {
		return invalid(TypeID, path, value)
	}
	return nil
}

// OID accepts urn:oid: identifiers.
func OID(value any, path string) error {
	s, err := stringOf(TypeOID, path, value)
	if err != nil {
		return err
	}
	if !oidRegex.MatchString(s) {
		return invalid(TypeOID, path, value)
	}
	return nil
}

// UUID accepts urn:uuid: followed by a canonical lower-case UUID.
func UUID(value any, path string) error {
	s, err := stringOf(TypeUUID, path, value)
	if err != nil {
		return err
	}
	if !IsURNUUID(s) {
		return invalid(TypeUUID, path, value)
	}
	return nil
}

// IsURNUUID reports whether s is urn:uuid: plus a 36-character UUID.
func IsURNUUID(s string) bool {
	rest, ok := strings.CutPrefix(s, "urn:uuid:")
	if !ok || len(rest) != 36 {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// IsURNOID reports whether s is a urn:oid: identifier.
func IsURNOID(s string) bool {
	return oidRegex.MatchString(s)
}

// Markdown accepts any valid UTF-8 string.
func Markdown(value any, path string) error {
	s, err := stringOf(TypeMarkdown, path, value)
	if err != nil {
		return err
	}
	if !utf8.ValidString(s) {
		return invalid(TypeMarkdown, path, value)
	}
	return nil
}

// Base64Binary accepts standard padded base64.
func Base64Binary(value any, path string) error {
	s, err := stringOf(TypeBase64Binary, path, value)
	if err != nil {
		return err
	}
	if _, err := base64.StdEncoding.DecodeString(s); err != nil {
		return invalid(TypeBase64Binary, path, value)
	}
	return nil
}

// XHTML accepts a fragment rooted at a div element.
func XHTML(value any, path string) error {
	s, err := stringOf(TypeXHTML, path, value)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(strings.TrimSpace(s), "<div") {
		return invalid(TypeXHTML, path, value)
	}
	return nil
}

// Time accepts hh:mm:ss with optional fractional seconds.
func Time(value any, path string) error {
	s, err := stringOf(TypeTime, path, value)
	if err != nil {
		return err
	}
	if !timeRegex.MatchString(s) {
		return invalid(TypeTime, path, value)
	}
	return nil
}
