package fhirschema

// MessageStyle selects the wording of invalid-field and required messages.
// Two generations of wording exist in callers' tests; StyleCurrent is the
// default and StyleLegacy keeps the older entity-based sentences.
type MessageStyle int

const (
	// StyleCurrent renders path-based messages.
	StyleCurrent MessageStyle = iota
	// StyleLegacy renders entity-based messages.
	StyleLegacy
)

// String returns the configuration name of the style.
func (s MessageStyle) String() string {
	if s == StyleLegacy {
		return "legacy"
	}
	return "current"
}

// ParseMessageStyle maps "current" / "legacy" to a style. Unknown names yield StyleCurrent.
func ParseMessageStyle(name string) MessageStyle {
	if name == "legacy" {
		return StyleLegacy
	}
	return StyleCurrent
}

// Message templates. The wording is part of the public contract.
const (
	tmplInvalidField       = "InvalidFieldException. Field(s): '%s'. Path: %s."
	tmplInvalidFieldLegacy = "InvalidFieldException: Fields [%s] are not allowed in %s."
	tmplRequired           = "RequiredFieldException: Field: '%s'. Path: %s"
	tmplRequiredLegacy     = "RequiredFieldException: Field [%s] is required in %s."
	tmplEnum               = "Field must be one of [%s] in %s.%s"
	tmplArray              = "Field %s must be an array in %s"
	tmplNotArray           = "Field %s must not be an array in %s"
	tmplReferenceFormat    = "ReferenceException: [value=%s]. Reference must be in the format {ResourceType}/{id}. Path: %s"
	tmplReferenceTarget    = "ReferenceException: [value=%s]. ResourceType must be one of the following: [%s]. Path: %s"
	tmplFormat             = "FormatException: [value=%s]. Value must be a valid %s. Path: %s"
	tmplChoice             = "ChoiceException: Only one of [%s] is allowed. Path: %s"
	tmplResourceType       = "ResourceTypeException: [value=%s]. ResourceType must be %s. Path: %s"
	tmplInvariant          = "InvariantException: [%s] %s. Path: %s"
)
