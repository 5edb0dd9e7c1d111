// Package models holds typed FHIR R4 resources, fluent builders and their
// JSON form. Models carry no validation logic of their own: Validate hands
// the encoded instance to the engine.
package models

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/engine"
	"github.com/gofhir/fhirschema/registry"
)

// ErrUnknownResource is returned by Parse for a resourceType with no model.
var ErrUnknownResource = errors.New("unknown resource type")

// Resource is implemented by every resource model.
type Resource interface {
	ResourceType() string
	ResourceID() string
}

// DomainResource holds the elements shared by all resources.
type DomainResource struct {
	ID                string            `json:"id,omitempty"`
	Meta              *Meta             `json:"meta,omitempty"`
	ImplicitRules     string            `json:"implicitRules,omitempty"`
	Language          string            `json:"language,omitempty"`
	Text              *Narrative        `json:"text,omitempty"`
	Contained         []json.RawMessage `json:"contained,omitempty"`
	Extension         []Extension       `json:"extension,omitempty"`
	ModifierExtension []Extension       `json:"modifierExtension,omitempty"`
}

// ResourceID returns the logical id.
func (d *DomainResource) ResourceID() string {
	return d.ID
}

// AddContained encodes r into the contained list.
func (d *DomainResource) AddContained(r Resource) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("contain %s: %w", r.ResourceType(), err)
	}
	d.Contained = append(d.Contained, raw)
	return nil
}

// Ref returns a relative reference (Type/id) to r.
func Ref(r Resource) *Reference {
	return &Reference{Reference: r.ResourceType() + "/" + r.ResourceID()}
}

// ToJSON encodes r including its resourceType.
func ToJSON(r Resource) ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON decodes data into a new T.
func FromJSON[T any](data []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Parse decodes a resource, choosing the model from its resourceType.
func Parse(data []byte) (Resource, error) {
	var head struct {
		ResourceType string `json:"resourceType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	var r Resource
	switch head.ResourceType {
	case "Patient":
		r = &Patient{}
	case "Observation":
		r = &Observation{}
	case "Procedure":
		r = &Procedure{}
	case "Coverage":
		r = &Coverage{}
	case "Organization":
		r = &Organization{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, head.ResourceType)
	}
	if err := json.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks r against its schema with the default engine and returns
// every issue.
func Validate(r Resource) (*fhs.ValidationResult, error) {
	e := engine.Default()
	s, ok := e.Registry().Resource(r.ResourceType())
	if !ok {
		return nil, fmt.Errorf("models: %w %q", registry.ErrUnknownType, r.ResourceType())
	}
	return e.ValidateAll(r, s, "")
}

// Check validates r and returns the first error message as an error, or nil
// when r is valid.
func Check(r Resource) error {
	e := engine.Default()
	s, ok := e.Registry().Resource(r.ResourceType())
	if !ok {
		return fmt.Errorf("models: %w %q", registry.ErrUnknownType, r.ResourceType())
	}
	sc, err := e.ValidateShortCircuit(r, s, "")
	if err != nil {
		return err
	}
	if sc.Error != nil {
		return errors.New(*sc.Error)
	}
	return nil
}

func marshalResource(resourceType string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	head := `{"resourceType":"` + resourceType + `"`
	if len(raw) <= 2 {
		return []byte(head + "}"), nil
	}
	return append([]byte(head+","), raw[1:]...), nil
}
