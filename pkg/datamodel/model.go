package datamodel

import (
	"cmp"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
)

// FactBinding is one (fact, source, destination, direction) tuple.
// An empty Destination means the fact binds to its source only.
// FactBinding is comparable and can be used as a map key.
type FactBinding struct {
	Name          string `json:"name"`
	Source        string `json:"source"`
	Destination   string `json:"destination,omitempty"`
	Bidirectional bool   `json:"bidirectional,omitempty"`
}

// IsUnary reports whether the binding has no destination object type.
func (b FactBinding) IsUnary() bool { return b.Destination == "" }

func (b FactBinding) String() string {
	switch {
	case b.IsUnary():
		return fmt.Sprintf("%s(%s)", b.Name, b.Source)
	case b.Bidirectional:
		return fmt.Sprintf("%s(%s <-> %s)", b.Name, b.Source, b.Destination)
	default:
		return fmt.Sprintf("%s(%s -> %s)", b.Name, b.Source, b.Destination)
	}
}

func compareBindings(a, b FactBinding) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Destination, b.Destination); c != 0 {
		return c
	}
	switch {
	case a.Bidirectional == b.Bidirectional:
		return 0
	case b.Bidirectional:
		return -1
	default:
		return 1
	}
}

// Model is the type model of one fetch. It is immutable after construction.
// The zero value is a poisoned model.
type Model struct {
	objects   *ObjectTypeList
	facts     *FactTypeList
	anomalies []Anomaly
}

// Option configures a Model.
type Option func(*options)

type options struct {
	logger *log.Logger
}

// WithLogger sets the logger that receives malformed entry notices.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New wraps the decoded catalogs. Passing nil for either catalog yields a
// poisoned model whose views are both empty.
//
// Malformed entries are reported once, here, to the configured logger; the
// views skip them silently.
func New(objects *ObjectTypeList, facts *FactTypeList, opts ...Option) *Model {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Model{}
	if objects == nil || facts == nil {
		o.logger.Debug("model has no catalog data")
		return m
	}
	m.objects = objects
	m.facts = facts
	m.anomalies = inspect(objects, facts)
	for _, a := range m.anomalies {
		o.logger.Warn("malformed entry skipped", "catalog", a.Catalog, "index", a.Index, "reason", a.Reason)
	}
	return m
}

// Loaded reports whether the model holds catalog data.
func (m *Model) Loaded() bool {
	return m != nil && m.objects != nil && m.facts != nil
}

// Anomalies returns the malformed entries found when the model was built.
func (m *Model) Anomalies() []Anomaly {
	if m == nil {
		return nil
	}
	return slices.Clone(m.anomalies)
}

// Objects yields the object type names in catalog order.
// Entries that are null or have no name are skipped.
func (m *Model) Objects() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !m.Loaded() {
			return
		}
		for _, obj := range m.objects.Data {
			if obj == nil || obj.Name == "" {
				continue
			}
			if !yield(obj.Name) {
				return
			}
		}
	}
}

// Facts yields one FactBinding per binding of every fact type, in catalog order.
// Fact types without bindings are skipped, as are null or nameless entries.
func (m *Model) Facts() iter.Seq[FactBinding] {
	return func(yield func(FactBinding) bool) {
		if !m.Loaded() {
			return
		}
		for _, fact := range m.facts.Data {
			if fact == nil || fact.Name == "" {
				continue
			}
			for _, b := range fact.RelevantObjectBindings {
				if b == nil || b.SourceObjectType == nil || b.SourceObjectType.Name == "" {
					continue
				}
				fb := FactBinding{
					Name:          fact.Name,
					Source:        b.SourceObjectType.Name,
					Bidirectional: b.BidirectionalBinding,
				}
				if b.DestinationObjectType != nil {
					fb.Destination = b.DestinationObjectType.Name
				}
				if !yield(fb) {
					return
				}
			}
		}
	}
}

// Equal reports whether m and other have the same object name set and the
// same fact binding set. A nil other is never equal.
//
// Equal does not look at Loaded: a poisoned model compares like an empty one.
// Callers that must not confuse the two check Loaded first.
func (m *Model) Equal(other *Model) bool {
	if m == nil || other == nil {
		return false
	}
	return maps.Equal(set(m.Objects()), set(other.Objects())) &&
		maps.Equal(set(m.Facts()), set(other.Facts()))
}

func set[T comparable](seq iter.Seq[T]) map[T]struct{} {
	s := make(map[T]struct{})
	for v := range seq {
		s[v] = struct{}{}
	}
	return s
}

// Stats summarises the de-duplicated content of a model.
type Stats struct {
	Objects   int // distinct object type names
	FactTypes int // distinct fact type names with at least one binding
	Bindings  int // distinct fact bindings
	Unary     int // bindings without destination
	Binary    int // bindings with destination
}

// Stats counts the distinct objects and bindings of m.
func (m *Model) Stats() Stats {
	s := Stats{Objects: len(set(m.Objects()))}
	names := make(map[string]struct{})
	for b := range set(m.Facts()) {
		names[b.Name] = struct{}{}
		s.Bindings++
		if b.IsUnary() {
			s.Unary++
		} else {
			s.Binary++
		}
	}
	s.FactTypes = len(names)
	return s
}
