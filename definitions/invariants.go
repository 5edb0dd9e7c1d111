package definitions

import (
	"strings"
	"unicode"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/primitive"
	"github.com/gofhir/fhirschema/reference"
	"github.com/gofhir/fhirschema/schema"
)

// Built-in invariants carry both a Go check and the FHIRPath text from the
// R4 definitions. The check is what runs; the expression is exported with
// the schema.

// has reports whether key holds a non-empty value.
func has(node map[string]any, key string) bool {
	v, ok := node[key]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	return true
}

// hasChoice reports whether any stem[x] variant is present.
func hasChoice(node map[string]any, stem string) bool {
	for k := range node {
		rest, ok := strings.CutPrefix(k, stem)
		if !ok || rest == "" {
			continue
		}
		if unicode.IsUpper(rune(rest[0])) && has(node, k) {
			return true
		}
	}
	return false
}

func child(node map[string]any, key string) map[string]any {
	m, _ := node[key].(map[string]any)
	return m
}

func children(node map[string]any, key string) []map[string]any {
	arr, _ := node[key].([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

var ext1 = schema.Invariant{
	Key:        "ext-1",
	Human:      "Must have either extensions or value[x], not both",
	Severity:   fhs.SeverityError,
	Expression: "extension.exists() != value.exists()",
	Check: func(node map[string]any) bool {
		return has(node, "extension") != hasChoice(node, "value")
	},
}

var per1 = schema.Invariant{
	Key:        "per-1",
	Human:      "If present, start SHALL have a lower value than end",
	Severity:   fhs.SeverityError,
	Expression: "start.hasValue().not() or end.hasValue().not() or (start <= end)",
	Check: func(node map[string]any) bool {
		start, ok1 := node["start"].(string)
		end, ok2 := node["end"].(string)
		if !ok1 || !ok2 {
			return true
		}
		s, err := primitive.ParseDateTime(start)
		if err != nil {
			return true
		}
		e, err := primitive.ParseDateTime(end)
		if err != nil {
			return true
		}
		return s.Before(e)
	},
}

var att1 = schema.Invariant{
	Key:        "att-1",
	Human:      "If the Attachment has data, it SHALL have a contentType",
	Severity:   fhs.SeverityError,
	Expression: "data.empty() or contentType.exists()",
	Check: func(node map[string]any) bool {
		return !has(node, "data") || has(node, "contentType")
	},
}

var cpt2 = schema.Invariant{
	Key:        "cpt-2",
	Human:      "A system is required if a value is provided.",
	Severity:   fhs.SeverityError,
	Expression: "value.empty() or system.exists()",
	Check: func(node map[string]any) bool {
		return !has(node, "value") || has(node, "system")
	},
}

var qty3 = schema.Invariant{
	Key:        "qty-3",
	Human:      "If a code for the unit is present, the system SHALL also be present",
	Severity:   fhs.SeverityError,
	Expression: "code.empty() or system.exists()",
	Check: func(node map[string]any) bool {
		return !has(node, "code") || has(node, "system")
	},
}

var sqty1 = schema.Invariant{
	Key:        "sqty-1",
	Human:      "The comparator is not used on a SimpleQuantity",
	Severity:   fhs.SeverityError,
	Expression: "comparator.empty()",
	Check: func(node map[string]any) bool {
		return !has(node, "comparator")
	},
}

var rng2 = schema.Invariant{
	Key:        "rng-2",
	Human:      "If present, low SHALL have a lower value than high",
	Severity:   fhs.SeverityError,
	Expression: "low.empty() or high.empty() or (low <= high)",
	Check: func(node map[string]any) bool {
		low, high := child(node, "low"), child(node, "high")
		if low == nil || high == nil {
			return true
		}
		l, ok1 := primitive.ToDecimal(low["value"])
		h, ok2 := primitive.ToDecimal(high["value"])
		if !ok1 || !ok2 {
			return true
		}
		return l.LessThanOrEqual(h)
	},
}

var rat1 = schema.Invariant{
	Key:        "rat-1",
	Human:      "Numerator and denominator SHALL both be present, or both are absent. If both are absent, there SHALL be some extension present",
	Severity:   fhs.SeverityError,
	Expression: "(numerator.empty() xor denominator.exists()) and (numerator.exists() or extension.exists())",
	Check: func(node map[string]any) bool {
		num, den := has(node, "numerator"), has(node, "denominator")
		return num == den && (num || has(node, "extension"))
	},
}

var pat1 = schema.Invariant{
	Key:        "pat-1",
	Human:      "SHALL at least contain a contact's details or a reference to an organization",
	Severity:   fhs.SeverityError,
	Expression: "name.exists() or telecom.exists() or address.exists() or organization.exists()",
	Check: func(node map[string]any) bool {
		return has(node, "name") || has(node, "telecom") || has(node, "address") || has(node, "organization")
	},
}

var obs3 = schema.Invariant{
	Key:        "obs-3",
	Human:      "Must have at least a low or a high or text",
	Severity:   fhs.SeverityError,
	Expression: "low.exists() or high.exists() or text.exists()",
	Check: func(node map[string]any) bool {
		return has(node, "low") || has(node, "high") || has(node, "text")
	},
}

var obs6 = schema.Invariant{
	Key:        "obs-6",
	Human:      "dataAbsentReason SHALL only be present if Observation.value[x] is not present",
	Severity:   fhs.SeverityError,
	Expression: "dataAbsentReason.empty() or value.empty()",
	Check: func(node map[string]any) bool {
		return !has(node, "dataAbsentReason") || !hasChoice(node, "value")
	},
}

var obs7 = schema.Invariant{
	Key:        "obs-7",
	Human:      "If Observation.code is the same as an Observation.component.code then the value element associated with the code SHALL NOT be present",
	Severity:   fhs.SeverityError,
	Expression: "value.empty() or component.code.where(coding.intersect(%resource.code.coding).exists()).empty()",
	Check: func(node map[string]any) bool {
		if !hasChoice(node, "value") {
			return true
		}
		own := codingKeys(child(node, "code"))
		for _, comp := range children(node, "component") {
			for k := range codingKeys(child(comp, "code")) {
				if own[k] {
					return false
				}
			}
		}
		return true
	},
}

func codingKeys(cc map[string]any) map[string]bool {
	keys := make(map[string]bool)
	for _, c := range children(cc, "coding") {
		system, _ := c["system"].(string)
		code, _ := c["code"].(string)
		if code != "" {
			keys[system+"|"+code] = true
		}
	}
	return keys
}

var org1 = schema.Invariant{
	Key:        "org-1",
	Human:      "The organization SHALL at least have a name or an identifier, and possibly more than one",
	Severity:   fhs.SeverityError,
	Expression: "(identifier.count() + name.count()) > 0",
	Check: func(node map[string]any) bool {
		return has(node, "identifier") || has(node, "name")
	},
}

var org2 = schema.Invariant{
	Key:        "org-2",
	Human:      "An address of an organization can never be of use 'home'",
	Severity:   fhs.SeverityError,
	Expression: "address.where(use = 'home').empty()",
	Check:      noneWithUse("address", "home"),
}

var org3 = schema.Invariant{
	Key:        "org-3",
	Human:      "The telecom of an organization can never be of use 'home'",
	Severity:   fhs.SeverityError,
	Expression: "telecom.where(use = 'home').empty()",
	Check:      noneWithUse("telecom", "home"),
}

func noneWithUse(key, use string) func(map[string]any) bool {
	return func(node map[string]any) bool {
		for _, c := range children(node, key) {
			if u, _ := c["use"].(string); u == use {
				return false
			}
		}
		return true
	}
}

var bdl1 = schema.Invariant{
	Key:        "bdl-1",
	Human:      "total only when a search or history",
	Severity:   fhs.SeverityError,
	Expression: "total.empty() or (type = 'searchset') or (type = 'history')",
	Check: func(node map[string]any) bool {
		if !has(node, "total") {
			return true
		}
		t, _ := node["type"].(string)
		return t == "searchset" || t == "history"
	},
}

var bdl2 = schema.Invariant{
	Key:        "bdl-2",
	Human:      "entry.search only when a search",
	Severity:   fhs.SeverityError,
	Expression: "entry.search.empty() or (type = 'searchset')",
	Check: func(node map[string]any) bool {
		if t, _ := node["type"].(string); t == "searchset" {
			return true
		}
		for _, e := range children(node, "entry") {
			if has(e, "search") {
				return false
			}
		}
		return true
	},
}

var bdl7 = schema.Invariant{
	Key:        "bdl-7",
	Human:      "FullUrl must be unique in a bundle, or else entries with the same fullUrl must have different meta.versionId (except in history bundles)",
	Severity:   fhs.SeverityError,
	Expression: "(type = 'history') or entry.where(fullUrl.exists()).select(fullUrl&resource.meta.versionId).isDistinct()",
	Check: func(node map[string]any) bool {
		if t, _ := node["type"].(string); t == "history" {
			return true
		}
		seen := make(map[string]bool)
		for _, e := range children(node, "entry") {
			fullURL, _ := e["fullUrl"].(string)
			if fullURL == "" {
				continue
			}
			version, _ := child(child(e, "resource"), "meta")["versionId"].(string)
			key := fullURL + "|" + version
			if seen[key] {
				return false
			}
			seen[key] = true
		}
		return true
	},
}

var bdlFullURL = schema.Invariant{
	Key:      "bdl-fullurl",
	Human:    "fullUrl SHALL NOT disagree with the id in the resource",
	Severity: fhs.SeverityError,
	Check: func(node map[string]any) bool {
		fullURL, _ := node["fullUrl"].(string)
		id, _ := child(node, "resource")["id"].(string)
		if fullURL == "" || id == "" {
			return true
		}
		expected := reference.IDFromFullURL(fullURL)
		return expected == "" || expected == id
	},
}
