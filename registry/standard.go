package registry

import (
	"fmt"

	"github.com/gofhir/fhirschema/definitions"
	"github.com/gofhir/fhirschema/primitive"
	"github.com/gofhir/fhirschema/schema"
)

// Standard returns a new registry with every FHIR primitive and every
// built-in datatype, backbone element and resource. It panics if the
// built-in tables reference an unregistered tag.
func Standard() *Registry {
	r := New()
	for tag, fn := range primitive.Validators() {
		if err := r.RegisterPrimitive(tag, ValidatorFunc(fn)); err != nil {
			panic(err)
		}
	}
	for _, s := range definitions.All() {
		if err := r.RegisterSchema(s); err != nil {
			panic(err)
		}
	}
	if err := r.Verify(); err != nil {
		panic(fmt.Sprintf("registry: built-in schemas are inconsistent: %v", err))
	}
	return r
}

// RegisterAll registers schemas in order and verifies the result.
func (r *Registry) RegisterAll(schemas ...*schema.Schema) error {
	for _, s := range schemas {
		if err := r.RegisterSchema(s); err != nil {
			return err
		}
	}
	return r.Verify()
}
