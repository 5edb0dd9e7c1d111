// Package fhirschema validates FHIR R4 instances against declarative schemas.
//
// A schema is an ordered table of attribute definitions (see package schema).
// Type tags in those definitions resolve through an explicit registry
// (package registry) to primitive lexical validators or to further schemas.
// The structural walker (package structural) checks an instance against a
// schema and collects every violation as an Issue.
//
// Two views are derived from the same issue list:
//
//	res, _ := engine.ValidateAll(data, definitions.Period, "Period")
//	res.IsValid                      // false
//	res.OperationOutcome.Issue[0]    // code "invariant"
//
//	sc, _ := engine.ValidateShortCircuit(data, definitions.Period, "Period")
//	sc.Message()                     // "InvariantException: [per-1] ..."
//
// Messages follow fixed templates. StyleCurrent renders path-based wording and
// StyleLegacy the older entity-based wording; see MessageStyle.
package fhirschema
