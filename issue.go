package fhirschema

// IssueSeverity represents the severity of a validation issue.
// Maps to OperationOutcome.issue.severity in FHIR.
type IssueSeverity string

const (
	// SeverityError indicates a violation that makes the instance invalid.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a problem that does not invalidate the instance,
	// e.g. an invariant that could not be evaluated.
	SeverityWarning IssueSeverity = "warning"
)

// IssueType represents the type of validation issue.
// Maps to OperationOutcome.issue.code in FHIR.
type IssueType string

const (
	// IssueTypeInvalid is used for every schema and format violation.
	IssueTypeInvalid IssueType = "invalid"
	// IssueTypeInvariant indicates a named cross-field rule failed.
	IssueTypeInvariant IssueType = "invariant"
	// IssueTypeCodeInvalid indicates a code outside its enumerated set.
	IssueTypeCodeInvalid IssueType = "code-invalid"
	// IssueTypeProcessing indicates an invariant could not be compiled or evaluated.
	IssueTypeProcessing IssueType = "processing"
)

// IssueDetails mirrors the text part of OperationOutcome.issue.details.
type IssueDetails struct {
	Text string `json:"text"`
}

// Issue represents a single validation issue.
// It maps to OperationOutcome.issue in FHIR.
type Issue struct {
	// Severity of the issue (error, warning)
	Severity IssueSeverity `json:"severity"`

	// Code identifying the type of issue
	Code IssueType `json:"code"`

	// Details carries "Path: <path>. Value: <value>"
	Details *IssueDetails `json:"details,omitempty"`

	// Diagnostics is the rendered message for the violation
	Diagnostics string `json:"diagnostics,omitempty"`

	// Expression contains the path(s) of the element(s) in error
	Expression []string `json:"expression,omitempty"`

	// Kind is the violation class that produced this issue
	Kind ViolationKind `json:"-"`
}

func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// Path returns the first expression, or "" if none is set.
func (i Issue) Path() string {
	if len(i.Expression) == 0 {
		return ""
	}
	return i.Expression[0]
}

// String renders "severity: diagnostics at path" for logs and CLI output.
func (i Issue) String() string {
	if p := i.Path(); p != "" {
		return string(i.Severity) + ": " + i.Diagnostics + " at " + p
	}
	return string(i.Severity) + ": " + i.Diagnostics
}

// IssueBuilder assembles an Issue field by field. Violations build their
// issues through it; callers outside the walker use it for processing
// issues.
type IssueBuilder struct {
	issue Issue
}

func NewIssue(severity IssueSeverity, code IssueType) *IssueBuilder {
	return &IssueBuilder{issue: Issue{Severity: severity, Code: code}}
}

// Error starts an error issue with the given code.
func Error(code IssueType) *IssueBuilder { return NewIssue(SeverityError, code) }

// Warning starts a warning issue with the given code.
func Warning(code IssueType) *IssueBuilder { return NewIssue(SeverityWarning, code) }

func (b *IssueBuilder) Diagnostics(msg string) *IssueBuilder {
	b.issue.Diagnostics = msg
	return b
}

// Details sets details.text, conventionally "Path: p. Value: v".
func (b *IssueBuilder) Details(text string) *IssueBuilder {
	b.issue.Details = &IssueDetails{Text: text}
	return b
}

// At sets a single expression path.
func (b *IssueBuilder) At(path string) *IssueBuilder {
	b.issue.Expression = []string{path}
	return b
}

func (b *IssueBuilder) AtPaths(paths ...string) *IssueBuilder {
	b.issue.Expression = paths
	return b
}

// Kind sets the violation kind.
func (b *IssueBuilder) Kind(kind ViolationKind) *IssueBuilder {
	b.issue.Kind = kind
	return b
}

func (b *IssueBuilder) Build() Issue {
	return b.issue
}
