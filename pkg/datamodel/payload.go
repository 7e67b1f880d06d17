package datamodel

// ObjectTypeList is the body of GET /v1/objectType.
type ObjectTypeList struct {
	Data []*ObjectType `json:"data"`
}

// ObjectType is one entry of the object type catalog.
type ObjectType struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Validator string `json:"validator,omitempty"`
}

// FactTypeList is the body of GET /v1/factType.
type FactTypeList struct {
	Data []*FactType `json:"data"`
}

// FactType is one entry of the fact type catalog.
type FactType struct {
	ID                     string           `json:"id,omitempty"`
	Name                   string           `json:"name"`
	RelevantObjectBindings []*ObjectBinding `json:"relevantObjectBindings"`
}

// ObjectBinding says which object types a fact type may bind.
// A nil DestinationObjectType marks a fact bound to its source only.
type ObjectBinding struct {
	SourceObjectType      *TypeRef `json:"sourceObjectType"`
	DestinationObjectType *TypeRef `json:"destinationObjectType"`
	BidirectionalBinding  bool     `json:"bidirectionalBinding"`
}

// TypeRef references an object type inside a binding.
type TypeRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}
