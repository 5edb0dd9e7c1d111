package fhirschema

// Result contains every issue found while validating one instance.
type Result struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool `json:"valid"`

	// Issues contains all validation issues, in report order
	Issues []Issue `json:"issues,omitempty"`

	// ResourceType is the type that was validated
	ResourceType string `json:"resourceType,omitempty"`
}

// NewResult creates an empty, valid result.
func NewResult() *Result {
	return &Result{
		Valid:  true,
		Issues: make([]Issue, 0, 8),
	}
}

// AddIssue adds a validation issue to the result.
func (r *Result) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.IsError() {
		r.Valid = false
	}
}

// AddIssues adds multiple issues to the result.
func (r *Result) AddIssues(issues []Issue) {
	for _, issue := range issues {
		r.AddIssue(issue)
	}
}

// AddViolation renders v in the given style and records it.
func (r *Result) AddViolation(v *Violation, style MessageStyle) {
	r.AddIssue(v.Issue(style))
}

// HasErrors returns true if there are any error issues.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.IsError() {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.IsError() {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning issues.
func (r *Result) WarningCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.IsWarning() {
			count++
		}
	}
	return count
}

// Outcome returns the OperationOutcome view of the result.
func (r *Result) Outcome() *OperationOutcome {
	return ToOutcome(r.Issues)
}

// ValidationResult returns the accumulating view of the result.
func (r *Result) ValidationResult() *ValidationResult {
	return NewValidationResult(r.Issues)
}

// ShortCircuit returns the first-error view of the result.
func (r *Result) ShortCircuit() ShortCircuitResult {
	return ToShortCircuit(r.Issues)
}

// OperationOutcome is the FHIR OperationOutcome shape: a list of issues.
type OperationOutcome struct {
	ResourceType string  `json:"resourceType"`
	Issue        []Issue `json:"issue"`
}

// ValidationResult is the accumulating view: validity plus every issue.
type ValidationResult struct {
	IsValid          bool              `json:"isValid"`
	OperationOutcome *OperationOutcome `json:"operationOutcome"`
}

// ShortCircuitResult is the first-violation view. Error is nil when valid.
type ShortCircuitResult struct {
	Error *string `json:"error"`
}

// Message returns the error message, or "" when valid.
func (s ShortCircuitResult) Message() string {
	if s.Error == nil {
		return ""
	}
	return *s.Error
}

// ToOutcome wraps issues in an OperationOutcome. The slice is copied.
func ToOutcome(issues []Issue) *OperationOutcome {
	out := &OperationOutcome{
		ResourceType: "OperationOutcome",
		Issue:        make([]Issue, len(issues)),
	}
	copy(out.Issue, issues)
	return out
}

// NewValidationResult builds the accumulating view. Warnings do not
// affect validity.
func NewValidationResult(issues []Issue) *ValidationResult {
	valid := true
	for _, issue := range issues {
		if issue.IsError() {
			valid = false
			break
		}
	}
	return &ValidationResult{
		IsValid:          valid,
		OperationOutcome: ToOutcome(issues),
	}
}

// ToShortCircuit takes the first error issue and exposes its rendered
// message. Warnings never short-circuit.
func ToShortCircuit(issues []Issue) ShortCircuitResult {
	for _, issue := range issues {
		if issue.IsError() {
			msg := issue.Diagnostics
			return ShortCircuitResult{Error: &msg}
		}
	}
	return ShortCircuitResult{}
}
