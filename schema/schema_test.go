package schema

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	fhs "github.com/gofhir/fhirschema"
)

func names(s *Schema) []string {
	var out []string
	for _, d := range s.Definitions() {
		out = append(out, d.Name)
	}
	return out
}

func TestNew_ImplicitFields(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want []string
	}{
		{"datatype", Datatype, []string{"text", "id", "extension"}},
		{"backbone", Backbone, []string{"text", "modifierExtension", "id", "extension"}},
		{"resource", Resource, []string{"text", "meta", "implicitRules", "language", "contained", "modifierExtension", "id", "extension"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("X", tt.kind, []AttributeDefinition{{Name: "text", Type: "string"}})
			got := strings.Join(names(s), ",")
			want := strings.Join(tt.want, ",")
			if got != want {
				t.Errorf("fields = %s; want %s", got, want)
			}
		})
	}
}

func TestNew_ImplicitNotDuplicated(t *testing.T) {
	s := New("X", Datatype, []AttributeDefinition{
		{Name: "id", Type: "id"},
		{Name: "value", Type: "string"},
	})

	count := 0
	for _, d := range s.Definitions() {
		if d.Name == "id" {
			count++
			if d.Type != "id" {
				t.Errorf("id type = %s; want caller's declaration", d.Type)
			}
		}
	}
	if count != 1 {
		t.Errorf("id declared %d times; want 1", count)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d; want 3", s.Len())
	}
}

func TestSchema_Immutable(t *testing.T) {
	fields := []AttributeDefinition{{Name: "use", Type: "code", EnumValues: []string{"a", "b"}}}
	s := New("X", Datatype, fields)

	fields[0].EnumValues[0] = "changed"
	defs := s.Definitions()
	defs[0].Name = "changed"

	d, ok := s.Lookup("use")
	if !ok {
		t.Fatal("Lookup(use) not found")
	}
	if d.EnumValues[0] != "a" {
		t.Errorf("EnumValues[0] = %s; want a", d.EnumValues[0])
	}
	if s.Definitions()[0].Name != "use" {
		t.Error("Definitions() exposed internal state")
	}
}

func TestSchema_Resolve(t *testing.T) {
	s := New("Extension", Datatype, []AttributeDefinition{
		{Name: "url", Type: "uri", Required: true},
		{Name: "value", Choices: []string{"string", "Quantity", "dateTime"}},
	})

	tests := []struct {
		key     string
		wantOK  bool
		wantTag string
	}{
		{"url", true, "uri"},
		{"valueString", true, "string"},
		{"valueQuantity", true, "Quantity"},
		{"valueDateTime", true, "dateTime"},
		{"value", false, ""},
		{"valueBoolean", false, ""},
		{"id", true, "string"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, tag, ok := s.Resolve(tt.key)
			if ok != tt.wantOK || tag != tt.wantTag {
				t.Errorf("Resolve(%s) = %q, %v; want %q, %v", tt.key, tag, ok, tt.wantTag, tt.wantOK)
			}
		})
	}
}

func TestAttributeDefinition_Targets(t *testing.T) {
	tests := []struct {
		name       string
		refs       []string
		target     string
		constrains bool
		allows     bool
	}{
		{"nil", nil, "Patient", false, true},
		{"any", []string{AnyResource}, "Patient", false, true},
		{"listed", []string{"Organization"}, "Organization", true, true},
		{"not listed", []string{"Organization"}, "Patient", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := AttributeDefinition{Name: "r", Type: "Reference", References: tt.refs}
			if got := d.ConstrainsTarget(); got != tt.constrains {
				t.Errorf("ConstrainsTarget() = %v; want %v", got, tt.constrains)
			}
			if got := d.AllowsTarget(tt.target); got != tt.allows {
				t.Errorf("AllowsTarget(%s) = %v; want %v", tt.target, got, tt.allows)
			}
		})
	}
}

func TestSchema_Tags(t *testing.T) {
	s := New("X", Datatype, []AttributeDefinition{
		{Name: "a", Type: "string"},
		{Name: "b", Choices: []string{"boolean", "string"}},
	})
	got := strings.Join(s.Tags(), ",")
	if got != "string,boolean,Extension" {
		t.Errorf("Tags() = %s", got)
	}
}

const dosageYAML = `
schemas:
  - name: Dosage
    kind: backbone
    fields:
      - name: text
        type: string
      - name: route
        type: code
        enum: [oral, iv]
      - name: asNeeded
        choices: [boolean, CodeableConcept]
    invariants:
      - key: dos-x
        human: text or route
        severity: warning
        expression: text.exists() or route.exists()
`

func TestLoadYAML(t *testing.T) {
	schemas, err := LoadYAML(strings.NewReader(dosageYAML))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	if len(schemas) != 1 {
		t.Fatalf("len(schemas) = %d; want 1", len(schemas))
	}

	s := schemas[0]
	if s.Name() != "Dosage" || s.Kind() != Backbone {
		t.Errorf("got %s/%s; want Dosage/backbone", s.Name(), s.Kind())
	}
	route, ok := s.Lookup("route")
	if !ok || strings.Join(route.EnumValues, ",") != "oral,iv" {
		t.Errorf("route = %+v", route)
	}
	if _, tag, ok := s.Resolve("asNeededBoolean"); !ok || tag != "boolean" {
		t.Errorf("Resolve(asNeededBoolean) = %s, %v", tag, ok)
	}
	if _, ok := s.Lookup("modifierExtension"); !ok {
		t.Error("backbone schema missing modifierExtension")
	}

	invs := s.Invariants()
	if len(invs) != 1 || invs[0].Severity != fhs.SeverityWarning {
		t.Errorf("invariants = %+v", invs)
	}
}

func TestLoadYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", "schemas:\n  - kind: datatype\n"},
		{"bad kind", "schemas:\n  - name: X\n    kind: thing\n"},
		{"field without type", "schemas:\n  - name: X\n    fields:\n      - name: a\n"},
		{"invariant without expression", "schemas:\n  - name: X\n    invariants:\n      - key: x-1\n"},
		{"not yaml", "schemas: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadYAML(strings.NewReader(tt.doc)); err == nil {
				t.Error("LoadYAML() error = nil; want error")
			}
		})
	}
}

func TestLoadYAML_Empty(t *testing.T) {
	schemas, err := LoadYAML(strings.NewReader(""))
	if err != nil || len(schemas) != 0 {
		t.Errorf("LoadYAML(empty) = %v, %v", schemas, err)
	}
}

func TestSchema_MarshalYAML(t *testing.T) {
	schemas, err := LoadYAML(strings.NewReader(dosageYAML))
	if err != nil {
		t.Fatal(err)
	}
	out, err := yaml.Marshal(schemas[0])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{"name: Dosage", "kind: backbone", "key: dos-x", "- oral"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
