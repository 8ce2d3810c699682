package value

import "strings"

// TypeSpec describes a declared column type, including the element types of
// collections and the field names of UDTs. It is the in-memory form of the
// type tag attached to every result-set column.
type TypeSpec struct {
	Kind Kind

	// Args holds element types: one for list/set, two (key, value) for map,
	// one per element for tuple, one per field for udt.
	Args []TypeSpec

	// FieldNames parallels Args for udt specs.
	FieldNames []string
}

func (t TypeSpec) String() string {
	switch t.Kind {
	case KindList, KindSet, KindMap, KindTuple:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = a.String()
		}
		return t.Kind.String() + "<" + strings.Join(parts, ", ") + ">"
	case KindUDT:
		parts := make([]string, len(t.Args))
		for i, a := range t.Args {
			parts[i] = t.FieldNames[i] + " " + a.String()
		}
		return "udt<" + strings.Join(parts, ", ") + ">"
	default:
		return t.Kind.String()
	}
}
