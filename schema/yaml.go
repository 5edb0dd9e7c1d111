package schema

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	fhs "github.com/gofhir/fhirschema"
)

// document is the on-disk form of a schema file:
//
//	schemas:
//	  - name: Dosage
//	    kind: datatype
//	    fields:
//	      - {name: text, type: string}
//	      - {name: timing, type: Timing, required: true}
//	    invariants:
//	      - {key: dos-1, human: "...", expression: "..."}
type document struct {
	Schemas []schemaDoc `yaml:"schemas"`
}

type schemaDoc struct {
	Name       string         `yaml:"name"`
	Kind       string         `yaml:"kind"`
	Fields     []fieldDoc     `yaml:"fields"`
	Invariants []invariantDoc `yaml:"invariants,omitempty"`
}

type fieldDoc struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type,omitempty"`
	Required   bool     `yaml:"required,omitempty"`
	Array      bool     `yaml:"array,omitempty"`
	Enum       []string `yaml:"enum,omitempty"`
	References []string `yaml:"references,omitempty"`
	Choices    []string `yaml:"choices,omitempty"`
}

type invariantDoc struct {
	Key        string `yaml:"key"`
	Human      string `yaml:"human"`
	Severity   string `yaml:"severity,omitempty"`
	Expression string `yaml:"expression"`
}

// LoadYAML reads schema documents. Invariants loaded this way are always
// FHIRPath expressions.
func LoadYAML(r io.Reader) ([]*Schema, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode schema document: %w", err)
	}

	out := make([]*Schema, 0, len(doc.Schemas))
	for i, sd := range doc.Schemas {
		s, err := sd.build()
		if err != nil {
			return nil, fmt.Errorf("schema %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (sd schemaDoc) build() (*Schema, error) {
	if sd.Name == "" {
		return nil, errors.New("missing name")
	}
	kind, ok := ParseKind(sd.Kind)
	if !ok {
		return nil, fmt.Errorf("%s: unknown kind %q", sd.Name, sd.Kind)
	}

	fields := make([]AttributeDefinition, 0, len(sd.Fields))
	for _, f := range sd.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%s: field without name", sd.Name)
		}
		if f.Type == "" && len(f.Choices) == 0 {
			return nil, fmt.Errorf("%s.%s: missing type", sd.Name, f.Name)
		}
		fields = append(fields, AttributeDefinition{
			Name:       f.Name,
			Type:       f.Type,
			Required:   f.Required,
			Array:      f.Array,
			EnumValues: f.Enum,
			References: f.References,
			Choices:    f.Choices,
		})
	}

	invs := make([]Invariant, 0, len(sd.Invariants))
	for _, inv := range sd.Invariants {
		if inv.Key == "" || inv.Expression == "" {
			return nil, fmt.Errorf("%s: invariant needs key and expression", sd.Name)
		}
		severity := fhs.SeverityError
		if inv.Severity == string(fhs.SeverityWarning) {
			severity = fhs.SeverityWarning
		}
		invs = append(invs, Invariant{
			Key:        inv.Key,
			Human:      inv.Human,
			Severity:   severity,
			Expression: inv.Expression,
		})
	}

	return New(sd.Name, kind, fields, WithInvariants(invs...)), nil
}

// MarshalYAML renders the schema in the document form read by LoadYAML.
// Implicit fields are included; Go-only invariant checks are omitted.
func (s *Schema) MarshalYAML() (any, error) {
	sd := schemaDoc{Name: s.name, Kind: s.kind.String()}
	for _, d := range s.defs {
		sd.Fields = append(sd.Fields, fieldDoc{
			Name:       d.Name,
			Type:       d.Type,
			Required:   d.Required,
			Array:      d.Array,
			Enum:       d.EnumValues,
			References: d.References,
			Choices:    d.Choices,
		})
	}
	for _, inv := range s.invariants {
		if inv.Expression == "" {
			continue
		}
		sd.Invariants = append(sd.Invariants, invariantDoc{
			Key:        inv.Key,
			Human:      inv.Human,
			Severity:   string(inv.Severity),
			Expression: inv.Expression,
		})
	}
	return sd, nil
}
