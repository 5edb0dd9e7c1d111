// Package definitions holds the schema tables of the built-in FHIR R4
// datatypes, backbone elements and resources.
package definitions

import (
	"github.com/gofhir/fhirschema/codes"
	"github.com/gofhir/fhirschema/schema"
)

type field = schema.AttributeDefinition

// extensionValueTypes are the value[x] types allowed on Extension.
var extensionValueTypes = []string{
	"base64Binary", "boolean", "canonical", "code", "date", "dateTime", "decimal",
	"id", "instant", "integer", "markdown", "oid", "positiveInt", "string", "time",
	"unsignedInt", "uri", "url", "uuid",
	"Address", "Annotation", "Attachment", "CodeableConcept", "Coding", "ContactPoint",
	"HumanName", "Identifier", "Meta", "Money", "Period", "Quantity", "Range", "Ratio", "Reference",
}

// Datatypes.
var (
	Element = schema.New("Element", schema.Datatype, nil)

	Extension = schema.New("Extension", schema.Datatype, []field{
		{Name: "url", Type: "uri", Required: true},
		{Name: "value", Choices: extensionValueTypes},
	}, schema.WithInvariants(ext1))

	Coding = schema.New("Coding", schema.Datatype, []field{
		{Name: "system", Type: "uri"},
		{Name: "version", Type: "string"},
		{Name: "code", Type: "code"},
		{Name: "display", Type: "string"},
		{Name: "userSelected", Type: "boolean"},
	})

	CodeableConcept = schema.New("CodeableConcept", schema.Datatype, []field{
		{Name: "coding", Type: "Coding", Array: true},
		{Name: "text", Type: "string"},
	})

	Reference = schema.New("Reference", schema.Datatype, []field{
		{Name: "reference", Type: "string"},
		{Name: "type", Type: "uri"},
		{Name: "identifier", Type: "Identifier"},
		{Name: "display", Type: "string"},
	})

	Identifier = schema.New("Identifier", schema.Datatype, []field{
		{Name: "use", Type: "code", EnumValues: codes.Values(codes.IdentifierUse)},
		{Name: "type", Type: "CodeableConcept"},
		{Name: "system", Type: "uri"},
		{Name: "value", Type: "string"},
		{Name: "period", Type: "Period"},
		{Name: "assigner", Type: "Reference", References: []string{"Organization"}},
	})

	Period = schema.New("Period", schema.Datatype, []field{
		{Name: "start", Type: "dateTime"},
		{Name: "end", Type: "dateTime"},
	}, schema.WithInvariants(per1))

	HumanName = schema.New("HumanName", schema.Datatype, []field{
		{Name: "use", Type: "code", EnumValues: codes.Values(codes.NameUse)},
		{Name: "text", Type: "string"},
		{Name: "family", Type: "string"},
		{Name: "given", Type: "string", Array: true},
		{Name: "prefix", Type: "string", Array: true},
		{Name: "suffix", Type: "string", Array: true},
		{Name: "period", Type: "Period"},
	})

	Address = schema.New("Address", schema.Datatype, []field{
		{Name: "use", Type: "code", EnumValues: codes.Values(codes.AddressUse)},
		{Name: "type", Type: "code", EnumValues: codes.Values(codes.AddressType)},
		{Name: "text", Type: "string"},
		{Name: "line", Type: "string", Array: true},
		{Name: "city", Type: "string"},
		{Name: "district", Type: "string"},
		{Name: "state", Type: "string"},
		{Name: "postalCode", Type: "string"},
		{Name: "country", Type: "string"},
		{Name: "period", Type: "Period"},
	})

	ContactPoint = schema.New("ContactPoint", schema.Datatype, []field{
		{Name: "system", Type: "code", EnumValues: codes.Values(codes.ContactPointSystem)},
		{Name: "value", Type: "string"},
		{Name: "use", Type: "code", EnumValues: codes.Values(codes.ContactPointUse)},
		{Name: "rank", Type: "positiveInt"},
		{Name: "period", Type: "Period"},
	}, schema.WithInvariants(cpt2))

	Attachment = schema.New("Attachment", schema.Datatype, []field{
		{Name: "contentType", Type: "code"},
		{Name: "language", Type: "code"},
		{Name: "data", Type: "base64Binary"},
		{Name: "url", Type: "url"},
		{Name: "size", Type: "unsignedInt"},
		{Name: "hash", Type: "base64Binary"},
		{Name: "title", Type: "string"},
		{Name: "creation", Type: "dateTime"},
	}, schema.WithInvariants(att1))

	Quantity = schema.New("Quantity", schema.Datatype, []field{
		{Name: "value", Type: "decimal"},
		{Name: "comparator", Type: "code", EnumValues: codes.Values(codes.QuantityComparator)},
		{Name: "unit", Type: "string"},
		{Name: "system", Type: "uri"},
		{Name: "code", Type: "code"},
	}, schema.WithInvariants(qty3))

	SimpleQuantity = schema.New("SimpleQuantity", schema.Datatype, Quantity.Definitions()[:5],
		schema.WithInvariants(qty3, sqty1))

	Range = schema.New("Range", schema.Datatype, []field{
		{Name: "low", Type: "SimpleQuantity"},
		{Name: "high", Type: "SimpleQuantity"},
	}, schema.WithInvariants(rng2))

	Ratio = schema.New("Ratio", schema.Datatype, []field{
		{Name: "numerator", Type: "Quantity"},
		{Name: "denominator", Type: "Quantity"},
	}, schema.WithInvariants(rat1))

	Annotation = schema.New("Annotation", schema.Datatype, []field{
		{Name: "author", Choices: []string{"Reference", "string"}},
		{Name: "time", Type: "dateTime"},
		{Name: "text", Type: "markdown", Required: true},
	})

	Meta = schema.New("Meta", schema.Datatype, []field{
		{Name: "versionId", Type: "id"},
		{Name: "lastUpdated", Type: "instant"},
		{Name: "source", Type: "uri"},
		{Name: "profile", Type: "canonical", Array: true},
		{Name: "security", Type: "Coding", Array: true},
		{Name: "tag", Type: "Coding", Array: true},
	})

	Narrative = schema.New("Narrative", schema.Datatype, []field{
		{Name: "status", Type: "code", Required: true, EnumValues: codes.Values(codes.NarrativeStatus)},
		{Name: "div", Type: "xhtml", Required: true},
	})

	Money = schema.New("Money", schema.Datatype, []field{
		{Name: "value", Type: "decimal"},
		{Name: "currency", Type: "code"},
	})
)

// Datatypes returns the datatype schemas in registration order.
func Datatypes() []*schema.Schema {
	return []*schema.Schema{
		Element, Extension, Coding, CodeableConcept, Reference, Identifier, Period,
		HumanName, Address, ContactPoint, Attachment, Quantity, SimpleQuantity,
		Range, Ratio, Annotation, Meta, Narrative, Money,
	}
}
