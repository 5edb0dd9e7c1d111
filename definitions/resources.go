package definitions

import (
	"github.com/gofhir/fhirschema/codes"
	"github.com/gofhir/fhirschema/schema"
)

var anyResource = []string{schema.AnyResource}

// Patient.
var (
	PatientContact = schema.New("PatientContact", schema.Backbone, []field{
		{Name: "relationship", Type: "CodeableConcept", Array: true},
		{Name: "name", Type: "HumanName"},
		{Name: "telecom", Type: "ContactPoint", Array: true},
		{Name: "address", Type: "Address"},
		{Name: "gender", Type: "code", EnumValues: codes.Values(codes.AdministrativeGender)},
		{Name: "organization", Type: "Reference", References: []string{"Organization"}},
		{Name: "period", Type: "Period"},
	}, schema.WithInvariants(pat1))

	PatientCommunication = schema.New("PatientCommunication", schema.Backbone, []field{
		{Name: "language", Type: "CodeableConcept", Required: true},
		{Name: "preferred", Type: "boolean"},
	})

	PatientLink = schema.New("PatientLink", schema.Backbone, []field{
		{Name: "other", Type: "Reference", Required: true, References: []string{"Patient", "RelatedPerson"}},
		{Name: "type", Type: "code", Required: true, EnumValues: codes.Values(codes.LinkType)},
	})

	Patient = schema.New("Patient", schema.Resource, []field{
		{Name: "identifier", Type: "Identifier", Array: true},
		{Name: "active", Type: "boolean"},
		{Name: "name", Type: "HumanName", Array: true},
		{Name: "telecom", Type: "ContactPoint", Array: true},
		{Name: "gender", Type: "code", EnumValues: codes.Values(codes.AdministrativeGender)},
		{Name: "birthDate", Type: "date"},
		{Name: "deceased", Choices: []string{"boolean", "dateTime"}},
		{Name: "address", Type: "Address", Array: true},
		{Name: "maritalStatus", Type: "CodeableConcept"},
		{Name: "multipleBirth", Choices: []string{"boolean", "integer"}},
		{Name: "photo", Type: "Attachment", Array: true},
		{Name: "contact", Type: "PatientContact", Array: true},
		{Name: "communication", Type: "PatientCommunication", Array: true},
		{Name: "generalPractitioner", Type: "Reference", Array: true, References: []string{"Organization", "Practitioner", "PractitionerRole"}},
		{Name: "managingOrganization", Type: "Reference", References: []string{"Organization"}},
		{Name: "link", Type: "PatientLink", Array: true},
	})
)

// Observation.
var (
	observationValueTypes = []string{"Quantity", "CodeableConcept", "string", "boolean", "integer", "Range", "Ratio", "time", "dateTime", "Period"}

	ObservationReferenceRange = schema.New("ObservationReferenceRange", schema.Backbone, []field{
		{Name: "low", Type: "SimpleQuantity"},
		{Name: "high", Type: "SimpleQuantity"},
		{Name: "type", Type: "CodeableConcept"},
		{Name: "appliesTo", Type: "CodeableConcept", Array: true},
		{Name: "age", Type: "Range"},
		{Name: "text", Type: "string"},
	}, schema.WithInvariants(obs3))

	ObservationComponent = schema.New("ObservationComponent", schema.Backbone, []field{
		{Name: "code", Type: "CodeableConcept", Required: true},
		{Name: "value", Choices: observationValueTypes},
		{Name: "dataAbsentReason", Type: "CodeableConcept"},
		{Name: "interpretation", Type: "CodeableConcept", Array: true},
		{Name: "referenceRange", Type: "ObservationReferenceRange", Array: true},
	})

	Observation = schema.New("Observation", schema.Resource, []field{
		{Name: "identifier", Type: "Identifier", Array: true},
		{Name: "basedOn", Type: "Reference", Array: true, References: []string{"CarePlan", "DeviceRequest", "ImmunizationRecommendation", "MedicationRequest", "NutritionOrder", "ServiceRequest"}},
		{Name: "partOf", Type: "Reference", Array: true, References: []string{"MedicationAdministration", "MedicationDispense", "MedicationStatement", "Procedure", "Immunization", "ImagingStudy"}},
		{Name: "status", Type: "code", Required: true, EnumValues: codes.Values(codes.ObservationStatus)},
		{Name: "category", Type: "CodeableConcept", Array: true},
		{Name: "code", Type: "CodeableConcept", Required: true},
		{Name: "subject", Type: "Reference", References: []string{"Patient", "Group", "Device", "Location"}},
		{Name: "focus", Type: "Reference", Array: true, References: anyResource},
		{Name: "encounter", Type: "Reference", References: []string{"Encounter"}},
		{Name: "effective", Choices: []string{"dateTime", "Period", "instant"}},
		{Name: "issued", Type: "instant"},
		{Name: "performer", Type: "Reference", Array: true, References: []string{"Practitioner", "PractitionerRole", "Organization", "CareTeam", "Patient", "RelatedPerson"}},
		{Name: "value", Choices: observationValueTypes},
		{Name: "dataAbsentReason", Type: "CodeableConcept"},
		{Name: "interpretation", Type: "CodeableConcept", Array: true},
		{Name: "note", Type: "Annotation", Array: true},
		{Name: "bodySite", Type: "CodeableConcept"},
		{Name: "method", Type: "CodeableConcept"},
		{Name: "specimen", Type: "Reference", References: []string{"Specimen"}},
		{Name: "device", Type: "Reference", References: []string{"Device", "DeviceMetric"}},
		{Name: "referenceRange", Type: "ObservationReferenceRange", Array: true},
		{Name: "hasMember", Type: "Reference", Array: true, References: []string{"Observation", "QuestionnaireResponse", "MolecularSequence"}},
		{Name: "derivedFrom", Type: "Reference", Array: true, References: anyResource},
		{Name: "component", Type: "ObservationComponent", Array: true},
	}, schema.WithInvariants(obs6, obs7))
)

// Procedure.
var (
	ProcedurePerformer = schema.New("ProcedurePerformer", schema.Backbone, []field{
		{Name: "function", Type: "CodeableConcept"},
		{Name: "actor", Type: "Reference", Required: true, References: []string{"Practitioner", "PractitionerRole", "Organization", "Patient", "RelatedPerson", "Device"}},
		{Name: "onBehalfOf", Type: "Reference", References: []string{"Organization"}},
	})

	ProcedureFocalDevice = schema.New("ProcedureFocalDevice", schema.Backbone, []field{
		{Name: "action", Type: "CodeableConcept"},
		{Name: "manipulated", Type: "Reference", Required: true, References: []string{"Device"}},
	})

	Procedure = schema.New("Procedure", schema.Resource, []field{
		{Name: "identifier", Type: "Identifier", Array: true},
		{Name: "instantiatesCanonical", Type: "canonical", Array: true},
		{Name: "instantiatesUri", Type: "uri", Array: true},
		{Name: "basedOn", Type: "Reference", Array: true, References: []string{"CarePlan", "ServiceRequest"}},
		{Name: "partOf", Type: "Reference", Array: true, References: []string{"Procedure", "Observation", "MedicationAdministration"}},
		{Name: "status", Type: "code", Required: true, EnumValues: codes.Values(codes.EventStatus)},
		{Name: "statusReason", Type: "CodeableConcept"},
		{Name: "category", Type: "CodeableConcept"},
		{Name: "code", Type: "CodeableConcept"},
		{Name: "subject", Type: "Reference", Required: true, References: []string{"Patient", "Group"}},
		{Name: "encounter", Type: "Reference", References: []string{"Encounter"}},
		{Name: "performed", Choices: []string{"dateTime", "Period", "string", "Range"}},
		{Name: "recorder", Type: "Reference", References: []string{"Patient", "RelatedPerson", "Practitioner", "PractitionerRole"}},
		{Name: "asserter", Type: "Reference", References: []string{"Patient", "RelatedPerson", "Practitioner", "PractitionerRole"}},
		{Name: "performer", Type: "ProcedurePerformer", Array: true},
		{Name: "location", Type: "Reference", References: []string{"Location"}},
		{Name: "reasonCode", Type: "CodeableConcept", Array: true},
		{Name: "reasonReference", Type: "Reference", Array: true, References: []string{"Condition", "Observation", "Procedure", "DiagnosticReport", "DocumentReference"}},
		{Name: "bodySite", Type: "CodeableConcept", Array: true},
		{Name: "outcome", Type: "CodeableConcept"},
		{Name: "report", Type: "Reference", Array: true, References: []string{"DiagnosticReport", "DocumentReference", "Composition"}},
		{Name: "complication", Type: "CodeableConcept", Array: true},
		{Name: "complicationDetail", Type: "Reference", Array: true, References: []string{"Condition"}},
		{Name: "followUp", Type: "CodeableConcept", Array: true},
		{Name: "note", Type: "Annotation", Array: true},
		{Name: "focalDevice", Type: "ProcedureFocalDevice", Array: true},
		{Name: "usedReference", Type: "Reference", Array: true, References: []string{"Device", "Medication", "Substance"}},
		{Name: "usedCode", Type: "CodeableConcept", Array: true},
	})
)

// Coverage.
var (
	CoverageClass = schema.New("CoverageClass", schema.Backbone, []field{
		{Name: "type", Type: "CodeableConcept", Required: true},
		{Name: "value", Type: "string", Required: true},
		{Name: "name", Type: "string"},
	})

	CoverageException = schema.New("CoverageException", schema.Backbone, []field{
		{Name: "type", Type: "CodeableConcept", Required: true},
		{Name: "period", Type: "Period"},
	})

	CoverageCostToBeneficiary = schema.New("CoverageCostToBeneficiary", schema.Backbone, []field{
		{Name: "type", Type: "CodeableConcept"},
		{Name: "value", Required: true, Choices: []string{"Quantity", "Money"}},
		{Name: "exception", Type: "CoverageException", Array: true},
	})

	Coverage = schema.New("Coverage", schema.Resource, []field{
		{Name: "identifier", Type: "Identifier", Array: true},
		{Name: "status", Type: "code", Required: true, EnumValues: codes.Values(codes.FinancialResourceStatus)},
		{Name: "type", Type: "CodeableConcept"},
		{Name: "policyHolder", Type: "Reference", References: []string{"Patient", "RelatedPerson", "Organization"}},
		{Name: "subscriber", Type: "Reference", References: []string{"Patient", "RelatedPerson"}},
		{Name: "subscriberId", Type: "string"},
		{Name: "beneficiary", Type: "Reference", Required: true, References: []string{"Patient"}},
		{Name: "dependent", Type: "string"},
		{Name: "relationship", Type: "CodeableConcept"},
		{Name: "period", Type: "Period"},
		{Name: "payor", Type: "Reference", Required: true, Array: true, References: []string{"Organization", "Patient", "RelatedPerson"}},
		{Name: "class", Type: "CoverageClass", Array: true},
		{Name: "order", Type: "positiveInt"},
		{Name: "network", Type: "string"},
		{Name: "costToBeneficiary", Type: "CoverageCostToBeneficiary", Array: true},
		{Name: "subrogation", Type: "boolean"},
		{Name: "contract", Type: "Reference", Array: true, References: []string{"Contract"}},
	})
)

// Organization.
var (
	OrganizationContact = schema.New("OrganizationContact", schema.Backbone, []field{
		{Name: "purpose", Type: "CodeableConcept"},
		{Name: "name", Type: "HumanName"},
		{Name: "telecom", Type: "ContactPoint", Array: true},
		{Name: "address", Type: "Address"},
	})

	Organization = schema.New("Organization", schema.Resource, []field{
		{Name: "identifier", Type: "Identifier", Array: true},
		{Name: "active", Type: "boolean"},
		{Name: "type", Type: "CodeableConcept", Array: true},
		{Name: "name", Type: "string"},
		{Name: "alias", Type: "string", Array: true},
		{Name: "telecom", Type: "ContactPoint", Array: true},
		{Name: "address", Type: "Address", Array: true},
		{Name: "partOf", Type: "Reference", References: []string{"Organization"}},
		{Name: "contact", Type: "OrganizationContact", Array: true},
		{Name: "endpoint", Type: "Reference", Array: true, References: []string{"Endpoint"}},
	}, schema.WithInvariants(org1, org2, org3))
)

// Bundle.
var (
	BundleLink = schema.New("BundleLink", schema.Backbone, []field{
		{Name: "relation", Type: "string", Required: true},
		{Name: "url", Type: "uri", Required: true},
	})

	BundleEntrySearch = schema.New("BundleEntrySearch", schema.Backbone, []field{
		{Name: "mode", Type: "code", EnumValues: codes.Values(codes.SearchEntryMode)},
		{Name: "score", Type: "decimal"},
	})

	BundleEntryRequest = schema.New("BundleEntryRequest", schema.Backbone, []field{
		{Name: "method", Type: "code", Required: true, EnumValues: codes.Values(codes.HTTPVerb)},
		{Name: "url", Type: "uri", Required: true},
		{Name: "ifNoneMatch", Type: "string"},
		{Name: "ifModifiedSince", Type: "instant"},
		{Name: "ifMatch", Type: "string"},
		{Name: "ifNoneExist", Type: "string"},
	})

	BundleEntryResponse = schema.New("BundleEntryResponse", schema.Backbone, []field{
		{Name: "status", Type: "string", Required: true},
		{Name: "location", Type: "uri"},
		{Name: "etag", Type: "string"},
		{Name: "lastModified", Type: "instant"},
		{Name: "outcome", Type: "Resource"},
	})

	BundleEntry = schema.New("BundleEntry", schema.Backbone, []field{
		{Name: "link", Type: "BundleLink", Array: true},
		{Name: "fullUrl", Type: "uri"},
		{Name: "resource", Type: "Resource"},
		{Name: "search", Type: "BundleEntrySearch"},
		{Name: "request", Type: "BundleEntryRequest"},
		{Name: "response", Type: "BundleEntryResponse"},
	}, schema.WithInvariants(bdlFullURL))

	Bundle = schema.New("Bundle", schema.Resource, []field{
		{Name: "identifier", Type: "Identifier"},
		{Name: "type", Type: "code", Required: true, EnumValues: codes.Values(codes.BundleType)},
		{Name: "timestamp", Type: "instant"},
		{Name: "total", Type: "unsignedInt"},
		{Name: "link", Type: "BundleLink", Array: true},
		{Name: "entry", Type: "BundleEntry", Array: true},
	}, schema.WithInvariants(bdl1, bdl2, bdl7))
)

// Backbones returns the backbone element schemas in registration order.
func Backbones() []*schema.Schema {
	return []*schema.Schema{
		PatientContact, PatientCommunication, PatientLink,
		ObservationReferenceRange, ObservationComponent,
		ProcedurePerformer, ProcedureFocalDevice,
		CoverageClass, CoverageException, CoverageCostToBeneficiary,
		OrganizationContact,
		BundleLink, BundleEntrySearch, BundleEntryRequest, BundleEntryResponse, BundleEntry,
	}
}

// Resources returns the resource schemas in registration order.
func Resources() []*schema.Schema {
	return []*schema.Schema{Patient, Observation, Procedure, Coverage, Organization, Bundle}
}

// All returns every built-in schema: datatypes, backbones, then resources.
func All() []*schema.Schema {
	out := Datatypes()
	out = append(out, Backbones()...)
	return append(out, Resources()...)
}

// ByName returns the built-in schema with the given name.
func ByName(name string) (*schema.Schema, bool) {
	for _, s := range All() {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}
