package models

import (
	"github.com/google/uuid"

	fhs "github.com/gofhir/fhirschema"
)

// NewID returns a fresh logical id.
func NewID() string {
	return uuid.NewString()
}

// PatientBuilder provides a fluent API for constructing Patient resources.
type PatientBuilder struct {
	patient *Patient
}

// NewPatientBuilder creates a builder for a patient with a generated id.
func NewPatientBuilder() *PatientBuilder {
	return &PatientBuilder{patient: &Patient{DomainResource: DomainResource{ID: NewID()}}}
}

func (b *PatientBuilder) ID(id string) *PatientBuilder {
	b.patient.ID = id
	return b
}

func (b *PatientBuilder) Identifier(system, value string) *PatientBuilder {
	b.patient.Identifier = append(b.patient.Identifier, Identifier{System: system, Value: value})
	return b
}

func (b *PatientBuilder) Active(active bool) *PatientBuilder {
	b.patient.Active = &active
	return b
}

// Name adds an official name.
func (b *PatientBuilder) Name(family string, given ...string) *PatientBuilder {
	b.patient.Name = append(b.patient.Name, HumanName{Use: "official", Family: family, Given: given})
	return b
}

func (b *PatientBuilder) Telecom(system, value, use string) *PatientBuilder {
	b.patient.Telecom = append(b.patient.Telecom, ContactPoint{System: system, Value: value, Use: use})
	return b
}

func (b *PatientBuilder) Gender(gender string) *PatientBuilder {
	b.patient.Gender = gender
	return b
}

func (b *PatientBuilder) BirthDate(date string) *PatientBuilder {
	b.patient.BirthDate = date
	return b
}

func (b *PatientBuilder) Deceased(deceased bool) *PatientBuilder {
	b.patient.DeceasedBoolean = &deceased
	return b
}

func (b *PatientBuilder) Address(addr Address) *PatientBuilder {
	b.patient.Address = append(b.patient.Address, addr)
	return b
}

func (b *PatientBuilder) Contact(contact PatientContact) *PatientBuilder {
	b.patient.Contact = append(b.patient.Contact, contact)
	return b
}

func (b *PatientBuilder) ManagingOrganization(org Resource) *PatientBuilder {
	b.patient.ManagingOrganization = Ref(org)
	return b
}

// Build returns the constructed patient.
func (b *PatientBuilder) Build() *Patient {
	return b.patient
}

// BuildValid returns the patient together with its validation result.
func (b *PatientBuilder) BuildValid() (*Patient, *fhs.ValidationResult, error) {
	res, err := b.patient.Validate()
	return b.patient, res, err
}

// ObservationBuilder provides a fluent API for constructing Observation resources.
type ObservationBuilder struct {
	obs *Observation
}

// NewObservationBuilder creates a builder for an observation with the given
// status and a generated id.
func NewObservationBuilder(status string) *ObservationBuilder {
	return &ObservationBuilder{obs: &Observation{
		DomainResource: DomainResource{ID: NewID()},
		Status:         status,
	}}
}

func (b *ObservationBuilder) ID(id string) *ObservationBuilder {
	b.obs.ID = id
	return b
}

func (b *ObservationBuilder) Category(system, code, display string) *ObservationBuilder {
	b.obs.Category = append(b.obs.Category, *Concept(system, code, display))
	return b
}

func (b *ObservationBuilder) Code(system, code, display string) *ObservationBuilder {
	b.obs.Code = Concept(system, code, display)
	return b
}

func (b *ObservationBuilder) Subject(subject Resource) *ObservationBuilder {
	b.obs.Subject = Ref(subject)
	return b
}

func (b *ObservationBuilder) Effective(dateTime string) *ObservationBuilder {
	b.obs.EffectiveDateTime = dateTime
	return b
}

func (b *ObservationBuilder) Performer(performer Resource) *ObservationBuilder {
	b.obs.Performer = append(b.obs.Performer, *Ref(performer))
	return b
}

// Quantity sets valueQuantity and clears the other value variants.
func (b *ObservationBuilder) Quantity(q *Quantity) *ObservationBuilder {
	b.clearValue()
	b.obs.ValueQuantity = q
	return b
}

// ValueString sets valueString and clears the other value variants.
func (b *ObservationBuilder) ValueString(s string) *ObservationBuilder {
	b.clearValue()
	b.obs.ValueString = s
	return b
}

// Concept sets valueCodeableConcept and clears the other value variants.
func (b *ObservationBuilder) Concept(system, code, display string) *ObservationBuilder {
	b.clearValue()
	b.obs.ValueCodeableConcept = Concept(system, code, display)
	return b
}

func (b *ObservationBuilder) DataAbsentReason(system, code string) *ObservationBuilder {
	b.obs.DataAbsentReason = Concept(system, code, "")
	return b
}

func (b *ObservationBuilder) Component(c ObservationComponent) *ObservationBuilder {
	b.obs.Component = append(b.obs.Component, c)
	return b
}

func (b *ObservationBuilder) ReferenceRange(low, high *Quantity) *ObservationBuilder {
	b.obs.ReferenceRange = append(b.obs.ReferenceRange, ObservationReferenceRange{Low: low, High: high})
	return b
}

func (b *ObservationBuilder) clearValue() {
	o := b.obs
	o.ValueQuantity, o.ValueCodeableConcept, o.ValueString = nil, nil, ""
	o.ValueBoolean, o.ValueInteger, o.ValueRange, o.ValueRatio = nil, nil, nil, nil
	o.ValueTime, o.ValueDateTime, o.ValuePeriod = "", "", nil
}

// Build returns the constructed observation.
func (b *ObservationBuilder) Build() *Observation {
	return b.obs
}

// BuildValid returns the observation together with its validation result.
func (b *ObservationBuilder) BuildValid() (*Observation, *fhs.ValidationResult, error) {
	res, err := b.obs.Validate()
	return b.obs, res, err
}

// ProcedureBuilder provides a fluent API for constructing Procedure resources.
type ProcedureBuilder struct {
	proc *Procedure
}

// NewProcedureBuilder creates a builder for a procedure on subject.
func NewProcedureBuilder(status string, subject Resource) *ProcedureBuilder {
	return &ProcedureBuilder{proc: &Procedure{
		DomainResource: DomainResource{ID: NewID()},
		Status:         status,
		Subject:        Ref(subject),
	}}
}

func (b *ProcedureBuilder) ID(id string) *ProcedureBuilder {
	b.proc.ID = id
	return b
}

func (b *ProcedureBuilder) Code(system, code, display string) *ProcedureBuilder {
	b.proc.Code = Concept(system, code, display)
	return b
}

func (b *ProcedureBuilder) Performed(dateTime string) *ProcedureBuilder {
	b.proc.PerformedPeriod = nil
	b.proc.PerformedDateTime = dateTime
	return b
}

func (b *ProcedureBuilder) PerformedPeriod(start, end string) *ProcedureBuilder {
	b.proc.PerformedDateTime = ""
	b.proc.PerformedPeriod = &Period{Start: start, End: end}
	return b
}

func (b *ProcedureBuilder) Performer(actor Resource) *ProcedureBuilder {
	b.proc.Performer = append(b.proc.Performer, ProcedurePerformer{Actor: Ref(actor)})
	return b
}

func (b *ProcedureBuilder) Reason(system, code, display string) *ProcedureBuilder {
	b.proc.ReasonCode = append(b.proc.ReasonCode, *Concept(system, code, display))
	return b
}

func (b *ProcedureBuilder) Note(text string) *ProcedureBuilder {
	b.proc.Note = append(b.proc.Note, Annotation{Text: text})
	return b
}

// Build returns the constructed procedure.
func (b *ProcedureBuilder) Build() *Procedure {
	return b.proc
}

// BuildValid returns the procedure together with its validation result.
func (b *ProcedureBuilder) BuildValid() (*Procedure, *fhs.ValidationResult, error) {
	res, err := b.proc.Validate()
	return b.proc, res, err
}

// CoverageBuilder provides a fluent API for constructing Coverage resources.
type CoverageBuilder struct {
	cov *Coverage
}

// NewCoverageBuilder creates a builder for an active coverage of beneficiary.
func NewCoverageBuilder(beneficiary Resource) *CoverageBuilder {
	return &CoverageBuilder{cov: &Coverage{
		DomainResource: DomainResource{ID: NewID()},
		Status:         "active",
		Beneficiary:    Ref(beneficiary),
	}}
}

func (b *CoverageBuilder) ID(id string) *CoverageBuilder {
	b.cov.ID = id
	return b
}

func (b *CoverageBuilder) Status(status string) *CoverageBuilder {
	b.cov.Status = status
	return b
}

func (b *CoverageBuilder) Payor(payor Resource) *CoverageBuilder {
	b.cov.Payor = append(b.cov.Payor, *Ref(payor))
	return b
}

func (b *CoverageBuilder) Subscriber(subscriber Resource, id string) *CoverageBuilder {
	b.cov.Subscriber = Ref(subscriber)
	b.cov.SubscriberID = id
	return b
}

func (b *CoverageBuilder) Period(start, end string) *CoverageBuilder {
	b.cov.Period = &Period{Start: start, End: end}
	return b
}

func (b *CoverageBuilder) Class(typeCode, value, name string) *CoverageBuilder {
	b.cov.Class = append(b.cov.Class, CoverageClass{
		Type:  Concept("http://terminology.hl7.org/CodeSystem/coverage-class", typeCode, ""),
		Value: value,
		Name:  name,
	})
	return b
}

// Copay adds a cost to the beneficiary expressed as money.
func (b *CoverageBuilder) Copay(amount float64, currency string) *CoverageBuilder {
	b.cov.CostToBeneficiary = append(b.cov.CostToBeneficiary, CoverageCostToBeneficiary{
		Type:       Concept("http://terminology.hl7.org/CodeSystem/coverage-copay-type", "copay", ""),
		ValueMoney: &Money{Value: &amount, Currency: currency},
	})
	return b
}

// Build returns the constructed coverage.
func (b *CoverageBuilder) Build() *Coverage {
	return b.cov
}

// BuildValid returns the coverage together with its validation result.
func (b *CoverageBuilder) BuildValid() (*Coverage, *fhs.ValidationResult, error) {
	res, err := b.cov.Validate()
	return b.cov, res, err
}

// OrganizationBuilder provides a fluent API for constructing Organization resources.
type OrganizationBuilder struct {
	org *Organization
}

// NewOrganizationBuilder creates a builder for a named organization.
func NewOrganizationBuilder(name string) *OrganizationBuilder {
	return &OrganizationBuilder{org: &Organization{
		DomainResource: DomainResource{ID: NewID()},
		Name:           name,
	}}
}

func (b *OrganizationBuilder) ID(id string) *OrganizationBuilder {
	b.org.ID = id
	return b
}

func (b *OrganizationBuilder) Identifier(system, value string) *OrganizationBuilder {
	b.org.Identifier = append(b.org.Identifier, Identifier{System: system, Value: value})
	return b
}

func (b *OrganizationBuilder) Active(active bool) *OrganizationBuilder {
	b.org.Active = &active
	return b
}

func (b *OrganizationBuilder) Telecom(system, value, use string) *OrganizationBuilder {
	b.org.Telecom = append(b.org.Telecom, ContactPoint{System: system, Value: value, Use: use})
	return b
}

func (b *OrganizationBuilder) Address(addr Address) *OrganizationBuilder {
	b.org.Address = append(b.org.Address, addr)
	return b
}

func (b *OrganizationBuilder) PartOf(parent Resource) *OrganizationBuilder {
	b.org.PartOf = Ref(parent)
	return b
}

// Build returns the constructed organization.
func (b *OrganizationBuilder) Build() *Organization {
	return b.org
}

// BuildValid returns the organization together with its validation result.
func (b *OrganizationBuilder) BuildValid() (*Organization, *fhs.ValidationResult, error) {
	res, err := b.org.Validate()
	return b.org, res, err
}
