package runner

import "ptb/internal/domain"

// Entity is one node in the reported result tree. The shape is a tagged
// union in all but syntax: collection nodes carry Children and no Status,
// case nodes carry a Status and no Children. A node with neither (a case
// the runner never finalized) is still a valid Entity; classification of
// such nodes is the extract package's concern.
type Entity struct {
	// Name is the display name as the runner reports it: a
	// project-relative path for files, a class name for suites, a method
	// name for cases.
	Name string

	// Children holds child entities in declaration order. Non-nil exactly
	// when this node is a collection, even if the collection is empty.
	Children []*Entity

	// Status is the terminal outcome of a case node. Empty when the node
	// is a collection or the outcome never settled.
	Status domain.Status

	// Error carries failure detail for failed case nodes.
	Error *domain.ErrorInfo
}

// NewCollection builds a collection node with the given ordered children.
func NewCollection(name string, children ...*Entity) *Entity {
	if children == nil {
		children = []*Entity{}
	}
	return &Entity{Name: name, Children: children}
}

// NewCase builds a finalized case node.
func NewCase(name string, status domain.Status, errInfo *domain.ErrorInfo) *Entity {
	return &Entity{Name: name, Status: status, Error: errInfo}
}
