// Package codes holds the closed code sets bound to enumerated fields,
// expressed as R4 ValueSet resources.
package codes

import (
	"sort"

	"github.com/gofhir/fhir/r4"
)

const (
	baseSystem   = "http://hl7.org/fhir/"
	baseValueSet = "http://hl7.org/fhir/ValueSet/"
)

// Required bindings used by the built-in schemas.
var (
	AdministrativeGender    = newValueSet("administrative-gender", "male", "female", "other", "unknown")
	AddressUse              = newValueSet("address-use", "home", "work", "temp", "old", "billing")
	AddressType             = newValueSet("address-type", "postal", "physical", "both")
	ContactPointSystem      = newValueSet("contact-point-system", "phone", "fax", "email", "pager", "url", "sms", "other")
	ContactPointUse         = newValueSet("contact-point-use", "home", "work", "temp", "old", "mobile")
	IdentifierUse           = newValueSet("identifier-use", "usual", "official", "temp", "secondary", "old")
	NameUse                 = newValueSet("name-use", "usual", "official", "temp", "nickname", "anonymous", "old", "maiden")
	QuantityComparator      = newValueSet("quantity-comparator", "<", "<=", ">=", ">")
	ObservationStatus       = newValueSet("observation-status", "registered", "preliminary", "final", "amended", "corrected", "cancelled", "entered-in-error", "unknown")
	EventStatus             = newValueSet("event-status", "preparation", "in-progress", "not-done", "on-hold", "stopped", "completed", "entered-in-error", "unknown")
	FinancialResourceStatus = newValueSet("fm-status", "active", "cancelled", "draft", "entered-in-error")
	NarrativeStatus         = newValueSet("narrative-status", "generated", "extensions", "additional", "empty")
	LinkType                = newValueSet("link-type", "replaced-by", "replaces", "refer", "seealso")
	BundleType              = newValueSet("bundle-type", "document", "message", "transaction", "transaction-response", "batch", "batch-response", "history", "searchset", "collection")
	SearchEntryMode         = newValueSet("search-entry-mode", "match", "include", "outcome")
	HTTPVerb                = newValueSet("http-verb", "GET", "HEAD", "POST", "PUT", "DELETE", "PATCH")
)

var byURL = index(
	AdministrativeGender, AddressUse, AddressType, ContactPointSystem, ContactPointUse,
	IdentifierUse, NameUse, QuantityComparator, ObservationStatus, EventStatus,
	FinancialResourceStatus, NarrativeStatus, LinkType, BundleType, SearchEntryMode, HTTPVerb,
)

func newValueSet(name string, codes ...string) *r4.ValueSet {
	url := baseValueSet + name
	system := baseSystem + name
	concepts := make([]r4.ValueSetComposeIncludeConcept, 0, len(codes))
	for _, c := range codes {
		code := c
		concepts = append(concepts, r4.ValueSetComposeIncludeConcept{Code: &code})
	}
	return &r4.ValueSet{
		Url: &url,
		Compose: &r4.ValueSetCompose{
			Include: []r4.ValueSetComposeInclude{{System: &system, Concept: concepts}},
		},
	}
}

func index(sets ...*r4.ValueSet) map[string]*r4.ValueSet {
	m := make(map[string]*r4.ValueSet, len(sets))
	for _, vs := range sets {
		m[*vs.Url] = vs
	}
	return m
}

// Values returns the codes of a value set in declared order. The expansion
// is used when present, otherwise the explicit compose concepts.
func Values(vs *r4.ValueSet) []string {
	if vs == nil {
		return nil
	}
	var out []string
	if vs.Expansion != nil {
		var walk func(contains []r4.ValueSetExpansionContains)
		walk = func(contains []r4.ValueSetExpansionContains) {
			for i := range contains {
				if contains[i].Code != nil {
					out = append(out, *contains[i].Code)
				}
				walk(contains[i].Contains)
			}
		}
		walk(vs.Expansion.Contains)
		return out
	}
	if vs.Compose == nil {
		return nil
	}
	for i := range vs.Compose.Include {
		for j := range vs.Compose.Include[i].Concept {
			if c := vs.Compose.Include[i].Concept[j].Code; c != nil {
				out = append(out, *c)
			}
		}
	}
	return out
}

// Contains reports whether code is a member of vs.
func Contains(vs *r4.ValueSet, code string) bool {
	for _, c := range Values(vs) {
		if c == code {
			return true
		}
	}
	return false
}

// Lookup returns the value set with the given canonical URL.
func Lookup(url string) (*r4.ValueSet, bool) {
	vs, ok := byURL[url]
	return vs, ok
}

// URLs returns the canonical URLs of every value set, sorted.
func URLs() []string {
	out := make([]string, 0, len(byURL))
	for url := range byURL {
		out = append(out, url)
	}
	sort.Strings(out)
	return out
}
