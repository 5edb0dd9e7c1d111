// Package reference parses FHIR reference literals and checks their targets.
package reference

import (
	"regexp"
	"strings"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/primitive"
	"github.com/gofhir/fhirschema/schema"
)

// Form is the syntactic form of a reference literal.
type Form int

const (
	// Relative is Type/id, optionally with /_history/vid.
	Relative Form = iota
	// Absolute is an http(s) URL ending in Type/id.
	Absolute
	// Fragment is #id, pointing into contained resources.
	Fragment
	// URN is urn:uuid: or urn:oid:, used inside Bundles.
	URN
)

// Reference format patterns.
var (
	relativeRefPattern = regexp.MustCompile(`^([A-Z][A-Za-z]+)/([A-Za-z0-9\-.]{1,64})(?:/_history/([A-Za-z0-9\-.]{1,64}))?$`)
	absoluteRefPattern = regexp.MustCompile(`^(https?://\S+)/([A-Z][A-Za-z]+)/([A-Za-z0-9\-.]{1,64})(?:/_history/([A-Za-z0-9\-.]{1,64}))?$`)
	fragmentRefPattern = regexp.MustCompile(`^#([A-Za-z0-9\-.]{1,64})?$`)
)

// Literal is a parsed reference string.
type Literal struct {
	Form         Form
	Base         string
	ResourceType string
	ID           string
	Version      string
}

// HasType reports whether the literal names its target type.
func (l Literal) HasType() bool {
	return l.ResourceType != ""
}

// Parse parses a reference literal. The second result is false when the
// string is not a valid literal in any form.
func Parse(ref string) (Literal, bool) {
	if m := relativeRefPattern.FindStringSubmatch(ref); m != nil {
		return Literal{Form: Relative, ResourceType: m[1], ID: m[2], Version: m[3]}, true
	}
	if m := absoluteRefPattern.FindStringSubmatch(ref); m != nil {
		return Literal{Form: Absolute, Base: m[1], ResourceType: m[2], ID: m[3], Version: m[4]}, true
	}
	if m := fragmentRefPattern.FindStringSubmatch(ref); m != nil {
		return Literal{Form: Fragment, ID: m[1]}, true
	}
	if primitive.IsURNUUID(ref) || primitive.IsURNOID(ref) {
		return Literal{Form: URN, ID: ref}, true
	}
	return Literal{}, false
}

// Check validates the reference string of a Reference-typed field. path is
// the path of the reference element itself (...assigner.reference). Target
// types are only checked for literals that name one.
func Check(value any, path string, d schema.AttributeDefinition) error {
	s, ok := value.(string)
	if !ok {
		return fhs.NewReferenceFormat(path, value)
	}
	lit, ok := Parse(s)
	if !ok {
		return fhs.NewReferenceFormat(path, value)
	}
	if lit.HasType() && !d.AllowsTarget(lit.ResourceType) {
		return fhs.NewReferenceTarget(path, lit.ResourceType, d.References)
	}
	return nil
}

// IDFromFullURL extracts the resource id from a Bundle entry fullUrl.
// "http://example.org/fhir/Patient/123/_history/1" yields "123"; URNs and
// malformed URLs yield "".
func IDFromFullURL(fullURL string) string {
	if strings.HasPrefix(fullURL, "urn:") {
		return ""
	}
	if i := strings.Index(fullURL, "/_history/"); i != -1 {
		fullURL = fullURL[:i]
	}
	lastSlash := strings.LastIndex(fullURL, "/")
	if lastSlash == -1 || lastSlash == len(fullURL)-1 {
		return ""
	}
	return fullURL[lastSlash+1:]
}
