package datamodel

import "fmt"

// Anomaly describes a catalog entry that the views skip.
type Anomaly struct {
	Catalog string // "objectType" or "factType"
	Index   int    // position in the catalog's data array
	Binding int    // position in relevantObjectBindings, -1 for the entry itself
	Reason  string
}

func (a Anomaly) String() string {
	if a.Binding >= 0 {
		return fmt.Sprintf("%s[%d].relevantObjectBindings[%d]: %s", a.Catalog, a.Index, a.Binding, a.Reason)
	}
	return fmt.Sprintf("%s[%d]: %s", a.Catalog, a.Index, a.Reason)
}

func inspect(objects *ObjectTypeList, facts *FactTypeList) []Anomaly {
	var out []Anomaly
	for i, obj := range objects.Data {
		switch {
		case obj == nil:
			out = append(out, Anomaly{Catalog: "objectType", Index: i, Binding: -1, Reason: "null entry"})
		case obj.Name == "":
			out = append(out, Anomaly{Catalog: "objectType", Index: i, Binding: -1, Reason: "missing name"})
		}
	}
	for i, fact := range facts.Data {
		switch {
		case fact == nil:
			out = append(out, Anomaly{Catalog: "factType", Index: i, Binding: -1, Reason: "null entry"})
			continue
		case fact.Name == "":
			out = append(out, Anomaly{Catalog: "factType", Index: i, Binding: -1, Reason: "missing name"})
			continue
		}
		for j, b := range fact.RelevantObjectBindings {
			switch {
			case b == nil:
				out = append(out, Anomaly{Catalog: "factType", Index: i, Binding: j, Reason: "null binding"})
			case b.SourceObjectType == nil || b.SourceObjectType.Name == "":
				out = append(out, Anomaly{Catalog: "factType", Index: i, Binding: j, Reason: "binding without source object type"})
			}
		}
	}
	return out
}
