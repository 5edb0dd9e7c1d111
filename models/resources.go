package models

import fhs "github.com/gofhir/fhirschema"

// Patient is demographics and administrative information about a person
// receiving care.
type Patient struct {
	DomainResource
	Identifier           []Identifier           `json:"identifier,omitempty"`
	Active               *bool                  `json:"active,omitempty"`
	Name                 []HumanName            `json:"name,omitempty"`
	Telecom              []ContactPoint         `json:"telecom,omitempty"`
	Gender               string                 `json:"gender,omitempty"`
	BirthDate            string                 `json:"birthDate,omitempty"`
	DeceasedBoolean      *bool                  `json:"deceasedBoolean,omitempty"`
	DeceasedDateTime     string                 `json:"deceasedDateTime,omitempty"`
	Address              []Address              `json:"address,omitempty"`
	MaritalStatus        *CodeableConcept       `json:"maritalStatus,omitempty"`
	MultipleBirthBoolean *bool                  `json:"multipleBirthBoolean,omitempty"`
	MultipleBirthInteger *int                   `json:"multipleBirthInteger,omitempty"`
	Contact              []PatientContact       `json:"contact,omitempty"`
	Communication        []PatientCommunication `json:"communication,omitempty"`
	GeneralPractitioner  []Reference            `json:"generalPractitioner,omitempty"`
	ManagingOrganization *Reference             `json:"managingOrganization,omitempty"`
	Link                 []PatientLink          `json:"link,omitempty"`
}

type PatientContact struct {
	Relationship []CodeableConcept `json:"relationship,omitempty"`
	Name         *HumanName        `json:"name,omitempty"`
	Telecom      []ContactPoint    `json:"telecom,omitempty"`
	Address      *Address          `json:"address,omitempty"`
	Gender       string            `json:"gender,omitempty"`
	Organization *Reference        `json:"organization,omitempty"`
	Period       *Period           `json:"period,omitempty"`
}

type PatientCommunication struct {
	Language  *CodeableConcept `json:"language,omitempty"`
	Preferred *bool            `json:"preferred,omitempty"`
}

type PatientLink struct {
	Other *Reference `json:"other,omitempty"`
	Type  string     `json:"type,omitempty"`
}

func (p Patient) ResourceType() string { return "Patient" }

// MarshalJSON adds the resourceType member.
func (p Patient) MarshalJSON() ([]byte, error) {
	type plain Patient
	return marshalResource(p.ResourceType(), plain(p))
}

// Validate checks the patient against the Patient schema.
func (p *Patient) Validate() (*fhs.ValidationResult, error) {
	return Validate(p)
}

// Observation is a measurement or assertion made about a subject.
type Observation struct {
	DomainResource
	Identifier           []Identifier                `json:"identifier,omitempty"`
	BasedOn              []Reference                 `json:"basedOn,omitempty"`
	PartOf               []Reference                 `json:"partOf,omitempty"`
	Status               string                      `json:"status,omitempty"`
	Category             []CodeableConcept           `json:"category,omitempty"`
	Code                 *CodeableConcept            `json:"code,omitempty"`
	Subject              *Reference                  `json:"subject,omitempty"`
	Focus                []Reference                 `json:"focus,omitempty"`
	Encounter            *Reference                  `json:"encounter,omitempty"`
	EffectiveDateTime    string                      `json:"effectiveDateTime,omitempty"`
	EffectivePeriod      *Period                     `json:"effectivePeriod,omitempty"`
	EffectiveInstant     string                      `json:"effectiveInstant,omitempty"`
	Issued               string                      `json:"issued,omitempty"`
	Performer            []Reference                 `json:"performer,omitempty"`
	ValueQuantity        *Quantity                   `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept            `json:"valueCodeableConcept,omitempty"`
	ValueString          string                      `json:"valueString,omitempty"`
	ValueBoolean         *bool                       `json:"valueBoolean,omitempty"`
	ValueInteger         *int                        `json:"valueInteger,omitempty"`
	ValueRange           *Range                      `json:"valueRange,omitempty"`
	ValueRatio           *Ratio                      `json:"valueRatio,omitempty"`
	ValueTime            string                      `json:"valueTime,omitempty"`
	ValueDateTime        string                      `json:"valueDateTime,omitempty"`
	ValuePeriod          *Period                     `json:"valuePeriod,omitempty"`
	DataAbsentReason     *CodeableConcept            `json:"dataAbsentReason,omitempty"`
	Interpretation       []CodeableConcept           `json:"interpretation,omitempty"`
	Note                 []Annotation                `json:"note,omitempty"`
	BodySite             *CodeableConcept            `json:"bodySite,omitempty"`
	Method               *CodeableConcept            `json:"method,omitempty"`
	Specimen             *Reference                  `json:"specimen,omitempty"`
	Device               *Reference                  `json:"device,omitempty"`
	ReferenceRange       []ObservationReferenceRange `json:"referenceRange,omitempty"`
	HasMember            []Reference                 `json:"hasMember,omitempty"`
	DerivedFrom          []Reference                 `json:"derivedFrom,omitempty"`
	Component            []ObservationComponent      `json:"component,omitempty"`
}

type ObservationReferenceRange struct {
	Low       *Quantity         `json:"low,omitempty"`
	High      *Quantity         `json:"high,omitempty"`
	Type      *CodeableConcept  `json:"type,omitempty"`
	AppliesTo []CodeableConcept `json:"appliesTo,omitempty"`
	Age       *Range            `json:"age,omitempty"`
	Text      string            `json:"text,omitempty"`
}

type ObservationComponent struct {
	Code                 *CodeableConcept            `json:"code,omitempty"`
	ValueQuantity        *Quantity                   `json:"valueQuantity,omitempty"`
	ValueCodeableConcept *CodeableConcept            `json:"valueCodeableConcept,omitempty"`
	ValueString          string                      `json:"valueString,omitempty"`
	ValueBoolean         *bool                       `json:"valueBoolean,omitempty"`
	ValueInteger         *int                        `json:"valueInteger,omitempty"`
	DataAbsentReason     *CodeableConcept            `json:"dataAbsentReason,omitempty"`
	Interpretation       []CodeableConcept           `json:"interpretation,omitempty"`
	ReferenceRange       []ObservationReferenceRange `json:"referenceRange,omitempty"`
}

func (o Observation) ResourceType() string { return "Observation" }

// MarshalJSON adds the resourceType member.
func (o Observation) MarshalJSON() ([]byte, error) {
	type plain Observation
	return marshalResource(o.ResourceType(), plain(o))
}

// Validate checks the observation against the Observation schema.
func (o *Observation) Validate() (*fhs.ValidationResult, error) {
	return Validate(o)
}

// Procedure is an action performed on or for a patient.
type Procedure struct {
	DomainResource
	Identifier            []Identifier         `json:"identifier,omitempty"`
	InstantiatesCanonical []string             `json:"instantiatesCanonical,omitempty"`
	InstantiatesURI       []string             `json:"instantiatesUri,omitempty"`
	BasedOn               []Reference          `json:"basedOn,omitempty"`
	PartOf                []Reference          `json:"partOf,omitempty"`
	Status                string               `json:"status,omitempty"`
	StatusReason          *CodeableConcept     `json:"statusReason,omitempty"`
	Category              *CodeableConcept     `json:"category,omitempty"`
	Code                  *CodeableConcept     `json:"code,omitempty"`
	Subject               *Reference           `json:"subject,omitempty"`
	Encounter             *Reference           `json:"encounter,omitempty"`
	PerformedDateTime     string               `json:"performedDateTime,omitempty"`
	PerformedPeriod       *Period              `json:"performedPeriod,omitempty"`
	PerformedString       string               `json:"performedString,omitempty"`
	PerformedRange        *Range               `json:"performedRange,omitempty"`
	Recorder              *Reference           `json:"recorder,omitempty"`
	Asserter              *Reference           `json:"asserter,omitempty"`
	Performer             []ProcedurePerformer `json:"performer,omitempty"`
	Location              *Reference           `json:"location,omitempty"`
	ReasonCode            []CodeableConcept    `json:"reasonCode,omitempty"`
	ReasonReference       []Reference          `json:"reasonReference,omitempty"`
	BodySite              []CodeableConcept    `json:"bodySite,omitempty"`
	Outcome               *CodeableConcept     `json:"outcome,omitempty"`
	Report                []Reference          `json:"report,omitempty"`
	Complication          []CodeableConcept    `json:"complication,omitempty"`
	ComplicationDetail    []Reference          `json:"complicationDetail,omitempty"`
	FollowUp              []CodeableConcept    `json:"followUp,omitempty"`
	Note                  []Annotation         `json:"note,omitempty"`
	UsedReference         []Reference          `json:"usedReference,omitempty"`
	UsedCode              []CodeableConcept    `json:"usedCode,omitempty"`
}

type ProcedurePerformer struct {
	Function   *CodeableConcept `json:"function,omitempty"`
	Actor      *Reference       `json:"actor,omitempty"`
	OnBehalfOf *Reference       `json:"onBehalfOf,omitempty"`
}

func (p Procedure) ResourceType() string { return "Procedure" }

// MarshalJSON adds the resourceType member.
func (p Procedure) MarshalJSON() ([]byte, error) {
	type plain Procedure
	return marshalResource(p.ResourceType(), plain(p))
}

// Validate checks the procedure against the Procedure schema.
func (p *Procedure) Validate() (*fhs.ValidationResult, error) {
	return Validate(p)
}

// Coverage is the insurance or payment plan that may pay for care.
type Coverage struct {
	DomainResource
	Identifier        []Identifier                `json:"identifier,omitempty"`
	Status            string                      `json:"status,omitempty"`
	Type              *CodeableConcept            `json:"type,omitempty"`
	PolicyHolder      *Reference                  `json:"policyHolder,omitempty"`
	Subscriber        *Reference                  `json:"subscriber,omitempty"`
	SubscriberID      string                      `json:"subscriberId,omitempty"`
	Beneficiary       *Reference                  `json:"beneficiary,omitempty"`
	Dependent         string                      `json:"dependent,omitempty"`
	Relationship      *CodeableConcept            `json:"relationship,omitempty"`
	Period            *Period                     `json:"period,omitempty"`
	Payor             []Reference                 `json:"payor,omitempty"`
	Class             []CoverageClass             `json:"class,omitempty"`
	Order             *int                        `json:"order,omitempty"`
	Network           string                      `json:"network,omitempty"`
	CostToBeneficiary []CoverageCostToBeneficiary `json:"costToBeneficiary,omitempty"`
	Subrogation       *bool                       `json:"subrogation,omitempty"`
	Contract          []Reference                 `json:"contract,omitempty"`
}

type CoverageClass struct {
	Type  *CodeableConcept `json:"type,omitempty"`
	Value string           `json:"value,omitempty"`
	Name  string           `json:"name,omitempty"`
}

type CoverageCostToBeneficiary struct {
	Type          *CodeableConcept    `json:"type,omitempty"`
	ValueQuantity *Quantity           `json:"valueQuantity,omitempty"`
	ValueMoney    *Money              `json:"valueMoney,omitempty"`
	Exception     []CoverageException `json:"exception,omitempty"`
}

type CoverageException struct {
	Type   *CodeableConcept `json:"type,omitempty"`
	Period *Period          `json:"period,omitempty"`
}

func (c Coverage) ResourceType() string { return "Coverage" }

// MarshalJSON adds the resourceType member.
func (c Coverage) MarshalJSON() ([]byte, error) {
	type plain Coverage
	return marshalResource(c.ResourceType(), plain(c))
}

// Validate checks the coverage against the Coverage schema.
func (c *Coverage) Validate() (*fhs.ValidationResult, error) {
	return Validate(c)
}

// Organization is a formally recognized grouping of people or organizations.
type Organization struct {
	DomainResource
	Identifier []Identifier          `json:"identifier,omitempty"`
	Active     *bool                 `json:"active,omitempty"`
	Type       []CodeableConcept     `json:"type,omitempty"`
	Name       string                `json:"name,omitempty"`
	Alias      []string              `json:"alias,omitempty"`
	Telecom    []ContactPoint        `json:"telecom,omitempty"`
	Address    []Address             `json:"address,omitempty"`
	PartOf     *Reference            `json:"partOf,omitempty"`
	Contact    []OrganizationContact `json:"contact,omitempty"`
	Endpoint   []Reference           `json:"endpoint,omitempty"`
}

type OrganizationContact struct {
	Purpose *CodeableConcept `json:"purpose,omitempty"`
	Name    *HumanName       `json:"name,omitempty"`
	Telecom []ContactPoint   `json:"telecom,omitempty"`
	Address *Address         `json:"address,omitempty"`
}

func (o Organization) ResourceType() string { return "Organization" }

// MarshalJSON adds the resourceType member.
func (o Organization) MarshalJSON() ([]byte, error) {
	type plain Organization
	return marshalResource(o.ResourceType(), plain(o))
}

// Validate checks the organization against the Organization schema.
func (o *Organization) Validate() (*fhs.ValidationResult, error) {
	return Validate(o)
}
