package fhirschema

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ViolationKind classifies a failed check.
type ViolationKind int

// Violation kinds. Every kind maps to exactly one message template.
const (
	KindUnknown ViolationKind = iota
	KindInvalidField
	KindRequired
	KindFormat
	KindEnum
	KindArray
	KindReferenceFormat
	KindReferenceTarget
	KindChoice
	KindResourceType
	KindInvariant
)

var kindNames = map[ViolationKind]string{
	KindUnknown:         "unknown",
	KindInvalidField:    "invalid-field",
	KindRequired:        "required",
	KindFormat:          "format",
	KindEnum:            "enum",
	KindArray:           "array",
	KindReferenceFormat: "reference-format",
	KindReferenceTarget: "reference-target",
	KindChoice:          "choice",
	KindResourceType:    "resource-type",
	KindInvariant:       "invariant",
}

// String returns the kebab-case name of the kind.
func (k ViolationKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// IssueType returns the OperationOutcome code used for this kind.
func (k ViolationKind) IssueType() IssueType {
	switch k {
	case KindEnum:
		return IssueTypeCodeInvalid
	case KindInvariant:
		return IssueTypeInvariant
	default:
		return IssueTypeInvalid
	}
}

// Violation is the error value produced by every check. Primitive validators,
// custom registry validators and the structural walker all signal failures
// with it; the walker turns it into an Issue.
type Violation struct {
	Kind ViolationKind

	// Entity is the name of the schema being walked.
	Entity string

	// Path is the node path. For field-level kinds (required, enum, array)
	// it is the parent path and Field names the child.
	Path string

	// Field is the offending field for required, enum and array violations.
	Field string

	// Fields lists offending keys for invalid-field and choice violations.
	Fields []string

	// Type is the expected type tag for format and resourceType violations.
	Type string

	// Value is the offending input.
	Value any

	// Allowed lists the permitted values (enum) or target types (reference).
	Allowed []string

	// Key and Human describe a failed invariant.
	Key   string
	Human string

	// Severity overrides the default error severity (invariants only).
	Severity IssueSeverity
}

// Error implements error using the current message style.
func (v *Violation) Error() string {
	return v.Render(StyleCurrent)
}

// Expression returns the element path(s) the violation points at.
func (v *Violation) Expression() []string {
	switch v.Kind {
	case KindInvalidField:
		paths := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			paths = append(paths, v.Path+"."+f)
		}
		return paths
	case KindRequired, KindEnum, KindArray:
		return []string{v.Path + "." + v.Field}
	default:
		return []string{v.Path}
	}
}

// Render formats the diagnostic message in the given style.
func (v *Violation) Render(style MessageStyle) string {
	switch v.Kind {
	case KindInvalidField:
		fields := strings.Join(v.Fields, ", ")
		if style == StyleLegacy {
			return fmt.Sprintf(tmplInvalidFieldLegacy, fields, v.Entity)
		}
		return fmt.Sprintf(tmplInvalidField, fields, v.Path)
	case KindRequired:
		if style == StyleLegacy {
			return fmt.Sprintf(tmplRequiredLegacy, v.Field, v.Entity)
		}
		return fmt.Sprintf(tmplRequired, v.Field, v.Path)
	case KindEnum:
		return fmt.Sprintf(tmplEnum, strings.Join(v.Allowed, ", "), v.Path, v.Field)
	case KindArray:
		if _, isArray := v.Value.([]any); isArray {
			return fmt.Sprintf(tmplNotArray, v.Field, v.Path)
		}
		return fmt.Sprintf(tmplArray, v.Field, v.Path)
	case KindReferenceFormat:
		return fmt.Sprintf(tmplReferenceFormat, RenderValue(v.Value), v.Path)
	case KindReferenceTarget:
		return fmt.Sprintf(tmplReferenceTarget, RenderValue(v.Value), strings.Join(v.Allowed, ", "), v.Path)
	case KindFormat:
		return fmt.Sprintf(tmplFormat, RenderValue(v.Value), v.Type, v.Path)
	case KindChoice:
		return fmt.Sprintf(tmplChoice, strings.Join(v.Fields, ", "), v.Path)
	case KindResourceType:
		return fmt.Sprintf(tmplResourceType, RenderValue(v.Value), v.Type, v.Path)
	case KindInvariant:
		return fmt.Sprintf(tmplInvariant, v.Key, v.Human, v.Path)
	default:
		return fmt.Sprintf("validation failed at %s", v.Path)
	}
}

// Issue converts the violation into an OperationOutcome issue.
func (v *Violation) Issue(style MessageStyle) Issue {
	expr := v.Expression()
	detailPath := v.Path
	if v.Kind != KindInvalidField && len(expr) > 0 {
		detailPath = expr[0]
	}
	b := Error(v.Kind.IssueType())
	if v.Severity == SeverityWarning {
		b = Warning(v.Kind.IssueType())
	}
	return b.
		Details(fmt.Sprintf("Path: %s. Value: %s", detailPath, RenderValue(v.Value))).
		Diagnostics(v.Render(style)).
		AtPaths(expr...).
		Kind(v.Kind).
		Build()
}

// RenderValue renders an offending value for messages: strings verbatim,
// nil as "null", everything else as compact JSON.
func RenderValue(value any) string {
	switch val := value.(type) {
	case nil:
		return "null"
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(b)
}

// NewInvalidField reports keys not declared by the schema.
func NewInvalidField(entity, path string, fields []string, payload any) *Violation {
	return &Violation{Kind: KindInvalidField, Entity: entity, Path: path, Fields: fields, Value: payload}
}

// NewRequired reports a missing mandatory field.
func NewRequired(entity, path, field string, value any) *Violation {
	return &Violation{Kind: KindRequired, Entity: entity, Path: path, Field: field, Value: value}
}

// NewEnum reports a value outside its enumerated set.
func NewEnum(entity, path, field string, value any, allowed []string) *Violation {
	return &Violation{Kind: KindEnum, Entity: entity, Path: path, Field: field, Value: value, Allowed: allowed}
}

// NewArray reports an array-shape mismatch. value decides the direction.
func NewArray(entity, path, field string, value any) *Violation {
	return &Violation{Kind: KindArray, Entity: entity, Path: path, Field: field, Value: value}
}

// NewFormat reports a malformed literal of the given type.
func NewFormat(path, typeName string, value any) *Violation {
	return &Violation{Kind: KindFormat, Path: path, Type: typeName, Value: value}
}

// NewReferenceFormat reports a reference string that cannot be parsed.
func NewReferenceFormat(path string, value any) *Violation {
	return &Violation{Kind: KindReferenceFormat, Path: path, Value: value}
}

// NewReferenceTarget reports a reference to a type outside the allowed set.
func NewReferenceTarget(path, resourceType string, allowed []string) *Violation {
	return &Violation{Kind: KindReferenceTarget, Path: path, Value: resourceType, Allowed: allowed}
}

// NewChoice reports more than one variant of a choice field.
func NewChoice(entity, path string, fields []string, payload any) *Violation {
	return &Violation{Kind: KindChoice, Entity: entity, Path: path, Fields: fields, Value: payload}
}

// NewResourceType reports a resourceType that does not match the schema.
func NewResourceType(path, expected string, value any) *Violation {
	return &Violation{Kind: KindResourceType, Path: path, Type: expected, Value: value}
}

// NewInvariant reports a failed invariant.
func NewInvariant(entity, path, key, human string, severity IssueSeverity, payload any) *Violation {
	return &Violation{Kind: KindInvariant, Entity: entity, Path: path, Key: key, Human: human, Severity: severity, Value: payload}
}
