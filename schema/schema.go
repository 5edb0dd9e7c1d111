// Package schema describes the shape of FHIR structural types as ordered
// tables of attribute definitions.
package schema

import (
	"strings"

	fhs "github.com/gofhir/fhirschema"
)

// AnyResource is the reference target sentinel allowing any resource type.
const AnyResource = "Any"

// Kind distinguishes datatypes, backbone elements and resources.
type Kind int

const (
	// Datatype is a reusable structure such as CodeableConcept or Period.
	Datatype Kind = iota
	// Backbone is a named sub-structure inside a resource.
	Backbone
	// Resource is a top-level record carrying resourceType.
	Resource
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Backbone:
		return "backbone"
	case Resource:
		return "resource"
	default:
		return "datatype"
	}
}

// ParseKind maps "datatype", "backbone" and "resource" to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(s) {
	case "datatype", "":
		return Datatype, true
	case "backbone":
		return Backbone, true
	case "resource":
		return Resource, true
	}
	return Datatype, false
}

// AttributeDefinition describes one declared field of a schema.
type AttributeDefinition struct {
	// Name is the JSON key. For choice fields it is the stem ("value").
	Name string

	// Type is the registry tag the value is dispatched to.
	Type string

	Required bool
	Array    bool

	// EnumValues is the closed set of allowed codes, in declared order.
	EnumValues []string

	// References lists allowed target resource types for Reference fields.
	// nil means no target constraint; []string{AnyResource} allows any type.
	References []string

	// Choices lists the types of a polymorphic name[x] field.
	Choices []string
}

// IsChoice reports whether the definition is a name[x] field.
func (d AttributeDefinition) IsChoice() bool {
	return len(d.Choices) > 0
}

// ChoiceKey returns the JSON key for one variant, e.g. valueQuantity.
func (d AttributeDefinition) ChoiceKey(typ string) string {
	if typ == "" {
		return d.Name
	}
	return d.Name + strings.ToUpper(typ[:1]) + typ[1:]
}

// ChoiceKeys returns the JSON keys of every variant in declared order.
func (d AttributeDefinition) ChoiceKeys() []string {
	keys := make([]string, 0, len(d.Choices))
	for _, c := range d.Choices {
		keys = append(keys, d.ChoiceKey(c))
	}
	return keys
}

// ConstrainsTarget reports whether reference targets must be checked.
func (d AttributeDefinition) ConstrainsTarget() bool {
	if d.References == nil {
		return false
	}
	for _, r := range d.References {
		if r == AnyResource {
			return false
		}
	}
	return true
}

// AllowsTarget reports whether resourceType is a permitted target.
func (d AttributeDefinition) AllowsTarget(resourceType string) bool {
	if !d.ConstrainsTarget() {
		return true
	}
	for _, r := range d.References {
		if r == resourceType {
			return true
		}
	}
	return false
}

// Invariant is a named cross-field rule evaluated on a whole node.
// Either Check or Expression (FHIRPath) is set; Check wins when both are.
type Invariant struct {
	Key        string
	Human      string
	Severity   fhs.IssueSeverity
	Expression string
	Check      func(node map[string]any) bool
}

// Schema is an immutable ordered list of attribute definitions for one type.
type Schema struct {
	name       string
	kind       Kind
	defs       []AttributeDefinition
	index      map[string]int
	variants   map[string]variant
	invariants []Invariant
}

type variant struct {
	def int
	typ string
}

// Option configures a schema under construction.
type Option func(*Schema)

// WithInvariants attaches invariants, evaluated in the given order.
func WithInvariants(invs ...Invariant) Option {
	return func(s *Schema) {
		s.invariants = append(s.invariants, invs...)
	}
}

// New builds a schema from caller fields and appends the implicit fields of
// the kind. Implicit fields already declared by the caller are not repeated.
func New(name string, kind Kind, fields []AttributeDefinition, opts ...Option) *Schema {
	s := &Schema{
		name:     name,
		kind:     kind,
		defs:     make([]AttributeDefinition, 0, len(fields)+8),
		index:    make(map[string]int, len(fields)+8),
		variants: make(map[string]variant),
	}
	for _, f := range fields {
		s.add(f)
	}
	for _, f := range implicitFields(kind) {
		if _, ok := s.index[f.Name]; !ok {
			s.add(f)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Schema) add(f AttributeDefinition) {
	f.EnumValues = cloneStrings(f.EnumValues)
	f.References = cloneStrings(f.References)
	f.Choices = cloneStrings(f.Choices)
	i := len(s.defs)
	s.defs = append(s.defs, f)
	s.index[f.Name] = i
	for _, c := range f.Choices {
		s.variants[f.ChoiceKey(c)] = variant{def: i, typ: c}
	}
}

func implicitFields(kind Kind) []AttributeDefinition {
	var fields []AttributeDefinition
	switch kind {
	case Resource:
		fields = append(fields,
			AttributeDefinition{Name: "meta", Type: "Meta"},
			AttributeDefinition{Name: "implicitRules", Type: "uri"},
			AttributeDefinition{Name: "language", Type: "code"},
			AttributeDefinition{Name: "text", Type: "Narrative"},
			AttributeDefinition{Name: "contained", Type: "Resource", Array: true},
			AttributeDefinition{Name: "modifierExtension", Type: "Extension", Array: true},
		)
	case Backbone:
		fields = append(fields, AttributeDefinition{Name: "modifierExtension", Type: "Extension", Array: true})
	}
	return append(fields,
		AttributeDefinition{Name: "id", Type: "string"},
		AttributeDefinition{Name: "extension", Type: "Extension", Array: true},
	)
}

// Name returns the type name, used as entity in messages.
func (s *Schema) Name() string { return s.name }

// Kind returns the schema kind.
func (s *Schema) Kind() Kind { return s.kind }

// IsResource reports whether the schema describes a resource.
func (s *Schema) IsResource() bool { return s.kind == Resource }

// Len returns the number of definitions, implicit fields included.
func (s *Schema) Len() int { return len(s.defs) }

// Definitions returns a copy of the definitions in declaration order.
func (s *Schema) Definitions() []AttributeDefinition {
	out := make([]AttributeDefinition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Each calls fn for every definition in declaration order.
func (s *Schema) Each(fn func(d AttributeDefinition)) {
	for _, d := range s.defs {
		fn(d)
	}
}

// Lookup returns the definition declared under name.
func (s *Schema) Lookup(name string) (AttributeDefinition, bool) {
	i, ok := s.index[name]
	if !ok {
		return AttributeDefinition{}, false
	}
	return s.defs[i], true
}

// Resolve maps a JSON key to its definition and effective type tag. Keys of
// choice fields resolve through their variants; the bare stem does not.
func (s *Schema) Resolve(key string) (AttributeDefinition, string, bool) {
	if i, ok := s.index[key]; ok && !s.defs[i].IsChoice() {
		return s.defs[i], s.defs[i].Type, true
	}
	if v, ok := s.variants[key]; ok {
		return s.defs[v.def], v.typ, true
	}
	return AttributeDefinition{}, "", false
}

// Invariants returns a copy of the schema invariants.
func (s *Schema) Invariants() []Invariant {
	out := make([]Invariant, len(s.invariants))
	copy(out, s.invariants)
	return out
}

// Tags returns every type tag referenced by the definitions, choice variants
// included, in first-seen order.
func (s *Schema) Tags() []string {
	seen := make(map[string]bool)
	var tags []string
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	for _, d := range s.defs {
		if d.IsChoice() {
			for _, c := range d.Choices {
				add(c)
			}
			continue
		}
		add(d.Type)
	}
	return tags
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
