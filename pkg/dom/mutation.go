package dom

// MutationKind classifies a Mutation.
type MutationKind uint8

const (
	MutationAttributes MutationKind = iota // an attribute was set or removed
	MutationChildList                      // children were added or removed
)

// String returns the kind name.
func (k MutationKind) String() string {
	switch k {
	case MutationAttributes:
		return "attributes"
	case MutationChildList:
		return "childList"
	default:
		return "unknown"
	}
}

// Mutation describes one change to the document.
type Mutation struct {
	Target  *Element
	Kind    MutationKind
	Name    string // attribute name for MutationAttributes
	Value   string // new attribute value
	Removed bool   // the attribute was removed
}
