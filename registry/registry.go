// Package registry maps type tags to validators.
//
// A tag resolves either to a primitive validator function or to a schema the
// structural walker recurses into. The Resource tag is polymorphic: the
// walker picks the registered resource schema named by resourceType.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	fhs "github.com/gofhir/fhirschema"
	"github.com/gofhir/fhirschema/schema"
)

// ResourceTag is the polymorphic tag used for inline resources
// (contained, Bundle.entry.resource).
const ResourceTag = "Resource"

// ErrUnknownType is returned when a schema names a tag nobody registered.
// It signals an authoring bug, never bad input.
var ErrUnknownType = errors.New("unknown type tag")

// ValidatorFunc validates a value found at path. Failures should be returned
// as *fhirschema.Violation; other errors are reported as format violations.
type ValidatorFunc func(value any, path string) error

// EntryKind says how the walker treats a tag.
type EntryKind int

const (
	// Primitive entries call a ValidatorFunc.
	Primitive EntryKind = iota
	// Composite entries recurse into a schema.
	Composite
	// Polymorphic entries dispatch on resourceType.
	Polymorphic
)

func (k EntryKind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Composite:
		return "composite"
	case Polymorphic:
		return "polymorphic"
	}
	return "unknown"
}

// Entry is a registered tag.
type Entry struct {
	Tag    string
	Kind   EntryKind
	Func   ValidatorFunc
	Schema *schema.Schema
}

// Check runs a primitive entry and normalises its error into a violation.
func (e Entry) Check(value any, path string) *fhs.Violation {
	if e.Func == nil {
		return nil
	}
	err := e.Func(value, path)
	if err == nil {
		return nil
	}
	var v *fhs.Violation
	if errors.As(err, &v) {
		return v
	}
	return fhs.NewFormat(path, e.Tag, value)
}

// Registry is a set of tag entries. It is safe for concurrent use; the
// walker only reads from it.
type Registry struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	resources map[string]*schema.Schema
}

// New creates a registry holding only the polymorphic Resource tag.
func New() *Registry {
	r := &Registry{
		entries:   make(map[string]Entry),
		resources: make(map[string]*schema.Schema),
	}
	r.entries[ResourceTag] = Entry{Tag: ResourceTag, Kind: Polymorphic}
	return r
}

// RegisterPrimitive registers or replaces a validator function for tag.
func (r *Registry) RegisterPrimitive(tag string, fn ValidatorFunc) error {
	if tag == "" || fn == nil {
		return fmt.Errorf("register %q: tag and function are required", tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[tag] = Entry{Tag: tag, Kind: Primitive, Func: fn}
	return nil
}

// RegisterSchema registers or replaces a composite type under its name.
// Resource schemas also become targets of the Resource tag.
func (r *Registry) RegisterSchema(s *schema.Schema) error {
	if s == nil || s.Name() == "" {
		return errors.New("register schema: schema has no name")
	}
	if s.Name() == ResourceTag {
		return fmt.Errorf("register schema: %q is reserved", ResourceTag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s.Name()] = Entry{Tag: s.Name(), Kind: Composite, Schema: s}
	if s.IsResource() {
		r.resources[s.Name()] = s
	} else {
		delete(r.resources, s.Name())
	}
	return nil
}

// Lookup returns the entry for tag.
func (r *Registry) Lookup(tag string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[tag]
	return e, ok
}

// Schema returns the composite schema registered under name.
func (r *Registry) Schema(name string) (*schema.Schema, bool) {
	e, ok := r.Lookup(name)
	if !ok || e.Kind != Composite {
		return nil, false
	}
	return e.Schema, true
}

// Resource returns the resource schema registered under name.
func (r *Registry) Resource(name string) (*schema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.resources[name]
	return s, ok
}

// IsPrimitive reports whether tag is a registered primitive.
func (r *Registry) IsPrimitive(tag string) bool {
	e, ok := r.Lookup(tag)
	return ok && e.Kind == Primitive
}

// Tags returns every registered tag, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.entries))
	for t := range r.entries {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Resources returns the names of registered resource schemas, sorted.
func (r *Registry) Resources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.resources))
	for n := range r.resources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Verify checks that every tag named by a registered schema is itself
// registered. All problems are returned joined.
func (r *Registry) Verify() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for n, e := range r.entries {
		if e.Kind == Composite {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	var errs []error
	for _, n := range names {
		s := r.entries[n].Schema
		for _, d := range s.Definitions() {
			tags := d.Choices
			if !d.IsChoice() {
				tags = []string{d.Type}
			}
			for _, t := range tags {
				if _, ok := r.entries[t]; !ok {
					errs = append(errs, fmt.Errorf("%s.%s: %w %q", n, d.Name, ErrUnknownType, t))
				}
			}
		}
	}
	return errors.Join(errs...)
}
