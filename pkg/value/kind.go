package value

// Kind identifies the variant held by a [Value]. The set of kinds is closed
// and mirrors the CQL data types carried by the Stargate gRPC protocol.
type Kind uint8

const (
	KindInvalid Kind = iota // zero-value is an invalid kind

	KindNull
	KindUnset // bind-side marker: "do not modify the stored value"
	KindBoolean
	KindInt
	KindFloat  // 32-bit floating point
	KindDouble // 64-bit floating point
	KindDecimal
	KindVarint
	KindString
	KindBytes
	KindUUID
	KindInet
	KindDate // days relative to the Unix epoch
	KindTime // nanoseconds since midnight
	KindDuration
	KindList
	KindSet
	KindMap
	KindTuple
	KindUDT
)

// String returns the CQL-ish name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUnset:
		return "unset"
	case KindBoolean:
		return "boolean"
	case KindInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindDecimal:
		return "decimal"
	case KindVarint:
		return "varint"
	case KindString:
		return "text"
	case KindBytes:
		return "blob"
	case KindUUID:
		return "uuid"
	case KindInet:
		return "inet"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDuration:
		return "duration"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindTuple:
		return "tuple"
	case KindUDT:
		return "udt"
	default:
		return "invalid"
	}
}
