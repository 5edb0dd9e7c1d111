// Package structural walks decoded JSON against a schema and reports every
// violation it finds.
//
// The walk is read-only and keeps no state between calls, so one Validator
// can serve any number of goroutines.
package structural

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/cache"
	"github.com/gofhir/fhirschema/invariant"
	"github.com/gofhir/fhirschema/pool"
	"github.com/gofhir/fhirschema/reference"
	"github.com/gofhir/fhirschema/registry"
	"github.com/gofhir/fhirschema/schema"
)

// ElementTag is the schema shadow fields (_name) are validated against.
const ElementTag = "Element"

// Validator performs structural validation against registered schemas.
type Validator struct {
	registry   *registry.Registry
	style      fhs.MessageStyle
	eval       *invariant.Evaluator
	invariants bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithStyle sets the message style of reported issues.
func WithStyle(style fhs.MessageStyle) Option {
	return func(v *Validator) {
		v.style = style
	}
}

// WithEvaluator sets the invariant evaluator.
func WithEvaluator(e *invariant.Evaluator) Option {
	return func(v *Validator) {
		if e != nil {
			v.eval = e
		}
	}
}

// WithInvariants enables or disables invariant evaluation.
func WithInvariants(enabled bool) Option {
	return func(v *Validator) {
		v.invariants = enabled
	}
}

// New creates a Validator resolving type tags through reg.
func New(reg *registry.Registry, opts ...Option) *Validator {
	v := &Validator{
		registry:   reg,
		style:      fhs.StyleCurrent,
		invariants: true,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.eval == nil {
		v.eval = invariant.New(cache.DefaultCapacity, zerolog.Nop())
	}
	return v
}

// Registry returns the registry the validator resolves tags with.
func (v *Validator) Registry() *registry.Registry {
	return v.registry
}

// Validate checks data against s. path is the root path and defaults to the
// schema name. limit caps the number of error issues: 1 stops at the first
// error, 0 collects everything.
//
// A non-nil error means a schema names a tag that is not registered; it
// wraps registry.ErrUnknownType and no result is returned.
func (v *Validator) Validate(data any, s *schema.Schema, path string, limit int) (*fhs.Result, error) {
	if s == nil {
		return nil, errors.New("structural: nil schema")
	}
	if path == "" {
		path = s.Name()
	}
	w := &walker{
		v:      v,
		result: fhs.NewResult(),
		limit:  limit,
	}
	w.result.ResourceType = s.Name()
	w.node(data, s, path)
	if w.err != nil {
		return nil, w.err
	}
	return w.result, nil
}

// ValidateResource checks a resource against the schema its resourceType
// names. path defaults to the resourceType, or Resource when it is missing.
func (v *Validator) ValidateResource(data any, path string, limit int) (*fhs.Result, error) {
	rt := ""
	if obj, ok := data.(map[string]any); ok {
		rt, _ = obj["resourceType"].(string)
	}
	if path == "" {
		path = rt
	}
	if path == "" {
		path = registry.ResourceTag
	}
	w := &walker{
		v:      v,
		result: fhs.NewResult(),
		limit:  limit,
	}
	w.result.ResourceType = rt
	w.resource(data, path)
	if w.err != nil {
		return nil, w.err
	}
	return w.result, nil
}

// walker holds the state of one Validate call.
type walker struct {
	v      *Validator
	result *fhs.Result
	limit  int
	errors int
	err    error
}

func (w *walker) done() bool {
	return w.err != nil || (w.limit > 0 && w.errors >= w.limit)
}

func (w *walker) report(viol *fhs.Violation) {
	if w.done() {
		return
	}
	issue := viol.Issue(w.v.style)
	w.result.AddIssue(issue)
	if issue.IsError() {
		w.errors++
	}
}

func (w *walker) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// node fans arrays out element by element and validates everything else
// as a single value.
func (w *walker) node(data any, s *schema.Schema, path string) {
	arr, ok := data.([]any)
	if !ok {
		w.value(data, s, path)
		return
	}
	for i, el := range arr {
		if w.done() {
			return
		}
		w.value(el, s, pool.Index(path, i))
	}
}

func (w *walker) value(data any, s *schema.Schema, path string) {
	if w.done() {
		return
	}
	obj, ok := data.(map[string]any)
	if !ok {
		w.report(fhs.NewFormat(path, s.Name(), data))
		return
	}
	w.object(obj, s, path)
}

func (w *walker) object(obj map[string]any, s *schema.Schema, path string) {
	before := w.errors

	w.extras(obj, s, path)

	if s.IsResource() {
		if rt, ok := obj["resourceType"]; ok && rt != s.Name() {
			w.report(fhs.NewResourceType(pool.Field(path, "resourceType"), s.Name(), rt))
		}
	}

	s.Each(func(d schema.AttributeDefinition) {
		if w.done() {
			return
		}
		if d.IsChoice() {
			w.choice(obj, s, d, path)
			return
		}
		value := obj[d.Name]
		if d.Required && isEmpty(value) {
			w.report(fhs.NewRequired(s.Name(), path, d.Name, value))
		}
		w.field(obj, s, d, d.Name, d.Type, path)
	})

	if w.v.invariants && w.errors == before && !w.done() {
		failed, warnings := w.v.eval.Run(s.Name(), path, s.Invariants(), obj)
		w.result.AddIssues(warnings)
		for _, viol := range failed {
			w.report(viol)
		}
	}
}

// extras reports every undeclared key of obj as one violation.
func (w *walker) extras(obj map[string]any, s *schema.Schema, path string) {
	keys := pool.AcquireKeys()
	defer pool.ReleaseKeys(keys)

	for k := range obj {
		if !w.allowed(s, k) {
			*keys = append(*keys, k)
		}
	}
	if len(*keys) == 0 {
		return
	}
	sort.Strings(*keys)
	fields := make([]string, len(*keys))
	copy(fields, *keys)
	w.report(fhs.NewInvalidField(s.Name(), path, fields, obj))
}

func (w *walker) allowed(s *schema.Schema, key string) bool {
	if _, _, ok := s.Resolve(key); ok {
		return true
	}
	if key == "resourceType" && s.IsResource() {
		return true
	}
	if name, ok := strings.CutPrefix(key, "_"); ok && name != "" {
		if _, tag, ok := s.Resolve(name); ok {
			return w.v.registry.IsPrimitive(tag)
		}
	}
	return false
}

// choice checks that at most one variant of a name[x] field is present and
// validates the ones that are.
func (w *walker) choice(obj map[string]any, s *schema.Schema, d schema.AttributeDefinition, path string) {
	var present []string
	for _, key := range d.ChoiceKeys() {
		if v, ok := obj[key]; ok && v != nil {
			present = append(present, key)
		}
	}
	switch {
	case len(present) == 0 && d.Required:
		w.report(fhs.NewRequired(s.Name(), path, d.Name+"[x]", nil))
	case len(present) > 1:
		w.report(fhs.NewChoice(s.Name(), path, present, obj))
	}
	for _, typ := range d.Choices {
		w.field(obj, s, d, d.ChoiceKey(typ), typ, path)
	}
}

// field validates the value stored under key, then its shadow sibling.
func (w *walker) field(obj map[string]any, s *schema.Schema, d schema.AttributeDefinition, key, tag, path string) {
	if w.done() {
		return
	}
	value := obj[key]
	if !isEmpty(value) {
		w.present(s, d, key, tag, value, path)
	}
	if shadow, ok := obj["_"+key]; ok && shadow != nil {
		w.shadow(shadow, tag, pool.Field(path, "_"+key))
	}
}

func (w *walker) present(s *schema.Schema, d schema.AttributeDefinition, key, tag string, value any, path string) {
	arr, isArray := value.([]any)

	if len(d.EnumValues) > 0 && !d.Array && !isArray && !contains(d.EnumValues, value) {
		w.report(fhs.NewEnum(s.Name(), path, key, value, d.EnumValues))
		return
	}
	if d.Array != isArray {
		w.report(fhs.NewArray(s.Name(), path, key, value))
		return
	}

	fieldPath := pool.Field(path, key)
	if !isArray {
		w.dispatch(value, tag, d, fieldPath)
		return
	}
	for i, el := range arr {
		if w.done() {
			return
		}
		w.dispatch(el, tag, d, pool.Index(fieldPath, i))
	}
}

// dispatch validates one value against the entry registered for tag.
func (w *walker) dispatch(value any, tag string, d schema.AttributeDefinition, path string) {
	entry, ok := w.v.registry.Lookup(tag)
	if !ok {
		w.fail(fmt.Errorf("structural: %s: %w %q", path, registry.ErrUnknownType, tag))
		return
	}
	switch entry.Kind {
	case registry.Primitive:
		if viol := entry.Check(value, path); viol != nil {
			w.report(viol)
		}
	case registry.Composite:
		w.value(value, entry.Schema, path)
		if tag == "Reference" {
			w.reference(value, d, path)
		}
	case registry.Polymorphic:
		w.resource(value, path)
	}
}

// reference checks the literal of a Reference value against d's targets.
func (w *walker) reference(value any, d schema.AttributeDefinition, path string) {
	obj, ok := value.(map[string]any)
	if !ok {
		return
	}
	ref, ok := obj["reference"]
	if !ok || ref == nil {
		return
	}
	refPath := pool.Field(path, "reference")
	err := reference.Check(ref, refPath, d)
	if err == nil {
		return
	}
	var viol *fhs.Violation
	if !errors.As(err, &viol) {
		viol = fhs.NewReferenceFormat(refPath, ref)
	}
	w.report(viol)
}

// resource validates an inline resource against the schema its
// resourceType names.
func (w *walker) resource(value any, path string) {
	if w.done() {
		return
	}
	obj, ok := value.(map[string]any)
	if !ok {
		w.report(fhs.NewFormat(path, registry.ResourceTag, value))
		return
	}
	rt, _ := obj["resourceType"].(string)
	if rt == "" {
		w.report(fhs.NewRequired(registry.ResourceTag, path, "resourceType", nil))
		return
	}
	s, ok := w.v.registry.Resource(rt)
	if !ok {
		expected := "one of [" + strings.Join(w.v.registry.Resources(), ", ") + "]"
		w.report(fhs.NewResourceType(pool.Field(path, "resourceType"), expected, rt))
		return
	}
	w.object(obj, s, path)
}

// shadow validates a primitive extension (_name) against Element. Arrays
// align with the primitive array and may hold nulls.
func (w *walker) shadow(value any, tag, path string) {
	if !w.v.registry.IsPrimitive(tag) {
		return
	}
	el, ok := w.v.registry.Schema(ElementTag)
	if !ok {
		w.fail(fmt.Errorf("structural: %s: %w %q", path, registry.ErrUnknownType, ElementTag))
		return
	}
	arr, isArray := value.([]any)
	if !isArray {
		w.value(value, el, path)
		return
	}
	for i, item := range arr {
		if item == nil {
			continue
		}
		if w.done() {
			return
		}
		w.value(item, el, pool.Index(path, i))
	}
}

// isEmpty reports absent, null, empty-string and empty-array values.
func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	}
	return false
}

func contains(values []string, v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, allowed := range values {
		if allowed == s {
			return true
		}
	}
	return false
}
