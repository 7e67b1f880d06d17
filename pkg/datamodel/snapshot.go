package datamodel

import (
	"maps"
	"slices"
)

// Snapshot is the comparable projection of a Model: its distinct object names
// and fact bindings, sorted. It carries no fetch metadata.
type Snapshot struct {
	Objects []string      `json:"objects"`
	Facts   []FactBinding `json:"facts"`
}

// Snapshot returns the comparable projection of m.
// Two models are Equal exactly when their snapshots are deeply equal.
func (m *Model) Snapshot() Snapshot {
	objects := slices.Sorted(maps.Keys(set(m.Objects())))
	facts := slices.SortedFunc(maps.Keys(set(m.Facts())), compareBindings)
	if objects == nil {
		objects = []string{}
	}
	if facts == nil {
		facts = []FactBinding{}
	}
	return Snapshot{Objects: objects, Facts: facts}
}

// FromSnapshot rebuilds a loaded Model from a snapshot. The result compares
// Equal to the model the snapshot was taken from.
func FromSnapshot(s Snapshot, opts ...Option) *Model {
	objects := &ObjectTypeList{Data: make([]*ObjectType, 0, len(s.Objects))}
	for _, name := range s.Objects {
		objects.Data = append(objects.Data, &ObjectType{Name: name})
	}

	facts := &FactTypeList{}
	byName := make(map[string]*FactType)
	for _, b := range s.Facts {
		ft, ok := byName[b.Name]
		if !ok {
			ft = &FactType{Name: b.Name}
			byName[b.Name] = ft
			facts.Data = append(facts.Data, ft)
		}
		ob := &ObjectBinding{
			SourceObjectType:     &TypeRef{Name: b.Source},
			BidirectionalBinding: b.Bidirectional,
		}
		if !b.IsUnary() {
			ob.DestinationObjectType = &TypeRef{Name: b.Destination}
		}
		ft.RelevantObjectBindings = append(ft.RelevantObjectBindings, ob)
	}
	return New(objects, facts, opts...)
}
