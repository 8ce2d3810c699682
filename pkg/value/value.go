// Package value implements the protocol-neutral tagged-union representation
// of CQL values exchanged with Stargate, and the conversion engine between
// those values and Go types.
package value

import (
	"fmt"
	"math/big"
	"net"
	"strings"

	"github.com/google/uuid"
)

// A Value holds exactly one variant of the closed set described by [Kind].
// The zero Value is invalid; use the XxxValue constructors.
type Value struct {
	kind Kind

	boolean bool
	num     int64   // Int, Date (days), Time (nanos since midnight)
	float   float64 // Float (stored rounded to 32 bits), Double
	str     string
	bytes   []byte // Bytes, Inet
	id      uuid.UUID
	big     *big.Int // Varint, Decimal unscaled part
	scale   uint32   // Decimal

	dur Duration // Duration

	elems  []Value    // List, Set, Tuple
	pairs  []Pair     // Map
	fields []UDTField // UDT
}

// Pair is a single map entry. Maps travel as ordered pair sequences; the
// value layer neither deduplicates nor reorders them.
type Pair struct {
	Key Value
	Val Value
}

// UDTField is a single named field of a user-defined-type value.
type UDTField struct {
	Name string
	Val  Value
}

// Duration is the CQL duration: months, days and nanoseconds are carried
// separately because their relative lengths depend on the calendar.
type Duration struct {
	Months      int32
	Days        int32
	Nanoseconds int64
}

// Decimal is an arbitrary-precision decimal: Unscaled * 10^(-Scale).
type Decimal struct {
	Unscaled *big.Int
	Scale    uint32
}

// NullValue returns the CQL null.
func NullValue() Value { return Value{kind: KindNull} }

// UnsetValue returns the unset marker. Unset bind parameters are ignored by
// the server; unset is not a legal result-set value.
func UnsetValue() Value { return Value{kind: KindUnset} }

func BoolValue(v bool) Value { return Value{kind: KindBoolean, boolean: v} }

func IntValue(v int64) Value { return Value{kind: KindInt, num: v} }

func FloatValue(v float32) Value { return Value{kind: KindFloat, float: float64(v)} }

func DoubleValue(v float64) Value { return Value{kind: KindDouble, float: v} }

func StringValue(v string) Value { return Value{kind: KindString, str: v} }

func BytesValue(v []byte) Value { return Value{kind: KindBytes, bytes: v} }

func UUIDValue(v uuid.UUID) Value { return Value{kind: KindUUID, id: v} }

// InetValue wraps the raw address bytes of an IP address (4 or 16 bytes).
func InetValue(ip net.IP) Value {
	b := ip
	if v4 := ip.To4(); v4 != nil {
		b = v4
	}
	return Value{kind: KindInet, bytes: []byte(b)}
}

// DateValue wraps a number of days relative to the Unix epoch.
func DateValue(days int32) Value { return Value{kind: KindDate, num: int64(days)} }

// TimeValue wraps a number of nanoseconds since midnight.
func TimeValue(nanos int64) Value { return Value{kind: KindTime, num: nanos} }

func DurationValue(d Duration) Value { return Value{kind: KindDuration, dur: d} }

func DecimalValue(d Decimal) Value {
	return Value{kind: KindDecimal, big: d.Unscaled, scale: d.Scale}
}

func VarintValue(v *big.Int) Value { return Value{kind: KindVarint, big: v} }

func ListValue(elems ...Value) Value { return Value{kind: KindList, elems: elems} }

// SetValue wraps an ordered element sequence. Uniqueness is the server's
// business, not this layer's.
func SetValue(elems ...Value) Value { return Value{kind: KindSet, elems: elems} }

func MapValue(pairs ...Pair) Value { return Value{kind: KindMap, pairs: pairs} }

// TupleValue wraps a fixed-arity element sequence. The arity is fixed at
// construction for comparison and extraction purposes.
func TupleValue(elems ...Value) Value { return Value{kind: KindTuple, elems: elems} }

// UDTValue wraps named fields in caller-determined order. Lookup during
// decoding is by name, never by position.
func UDTValue(fields ...UDTField) Value { return Value{kind: KindUDT, fields: fields} }

// Kind returns the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsUnset() bool { return v.kind == KindUnset }

func (v Value) Bool() (bool, error) {
	if v.kind != KindBoolean {
		return false, typeMismatch(v, "bool")
	}
	return v.boolean, nil
}

func (v Value) Int() (int64, error) {
	if v.kind != KindInt {
		return 0, typeMismatch(v, "int64")
	}
	return v.num, nil
}

func (v Value) Float() (float32, error) {
	if v.kind != KindFloat {
		return 0, typeMismatch(v, "float32")
	}
	return float32(v.float), nil
}

func (v Value) Double() (float64, error) {
	if v.kind != KindDouble {
		return 0, typeMismatch(v, "float64")
	}
	return v.float, nil
}

func (v Value) Text() (string, error) {
	if v.kind != KindString {
		return "", typeMismatch(v, "string")
	}
	return v.str, nil
}

func (v Value) Bytes() ([]byte, error) {
	if v.kind != KindBytes {
		return nil, typeMismatch(v, "[]byte")
	}
	return v.bytes, nil
}

func (v Value) UUID() (uuid.UUID, error) {
	if v.kind != KindUUID {
		return uuid.UUID{}, typeMismatch(v, "uuid.UUID")
	}
	return v.id, nil
}

func (v Value) Inet() (net.IP, error) {
	if v.kind != KindInet {
		return nil, typeMismatch(v, "net.IP")
	}
	return net.IP(v.bytes), nil
}

// Date returns the number of days relative to the Unix epoch.
func (v Value) Date() (int32, error) {
	if v.kind != KindDate {
		return 0, typeMismatch(v, "date")
	}
	return int32(v.num), nil
}

// Time returns the number of nanoseconds since midnight.
func (v Value) Time() (int64, error) {
	if v.kind != KindTime {
		return 0, typeMismatch(v, "time")
	}
	return v.num, nil
}

func (v Value) Duration() (Duration, error) {
	if v.kind != KindDuration {
		return Duration{}, typeMismatch(v, "value.Duration")
	}
	return v.dur, nil
}

func (v Value) Decimal() (Decimal, error) {
	if v.kind != KindDecimal {
		return Decimal{}, typeMismatch(v, "value.Decimal")
	}
	return Decimal{Unscaled: v.big, Scale: v.scale}, nil
}

func (v Value) Varint() (*big.Int, error) {
	if v.kind != KindVarint {
		return nil, typeMismatch(v, "*big.Int")
	}
	return v.big, nil
}

// Elements returns the element sequence of a list, set or tuple.
func (v Value) Elements() ([]Value, error) {
	switch v.kind {
	case KindList, KindSet, KindTuple:
		return v.elems, nil
	default:
		return nil, typeMismatch(v, "[]value.Value")
	}
}

// Pairs returns the ordered entries of a map.
func (v Value) Pairs() ([]Pair, error) {
	if v.kind != KindMap {
		return nil, typeMismatch(v, "[]value.Pair")
	}
	return v.pairs, nil
}

// Fields returns the named fields of a UDT in construction order.
func (v Value) Fields() ([]UDTField, error) {
	if v.kind != KindUDT {
		return nil, typeMismatch(v, "[]value.UDTField")
	}
	return v.fields, nil
}

// Field looks up a UDT field by name. The first pair with a matching name
// wins; field order is not significant during decoding.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Val, true
		}
	}
	return Value{}, false
}

// Equal reports structural equality of two values. Values of different kinds
// are never equal; payloads are compared element-wise in order, without any
// canonical sort.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull, KindUnset:
		return true
	case KindBoolean:
		return a.boolean == b.boolean
	case KindInt, KindDate, KindTime:
		return a.num == b.num
	case KindFloat, KindDouble:
		return a.float == b.float
	case KindString:
		return a.str == b.str
	case KindBytes, KindInet:
		return string(a.bytes) == string(b.bytes)
	case KindUUID:
		return a.id == b.id
	case KindVarint:
		return bigEqual(a.big, b.big)
	case KindDecimal:
		return a.scale == b.scale && bigEqual(a.big, b.big)
	case KindDuration:
		return a.dur == b.dur
	case KindList, KindSet, KindTuple:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.pairs) != len(b.pairs) {
			return false
		}
		for i := range a.pairs {
			if !Equal(a.pairs[i].Key, b.pairs[i].Key) || !Equal(a.pairs[i].Val, b.pairs[i].Val) {
				return false
			}
		}
		return true
	case KindUDT:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Name != b.fields[i].Name || !Equal(a.fields[i].Val, b.fields[i].Val) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}

// String returns a debug representation. It is meant for logs and error
// messages, not for wire use.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindUnset:
		return "unset"
	case KindBoolean:
		return fmt.Sprintf("%t", v.boolean)
	case KindInt:
		return fmt.Sprintf("%d", v.num)
	case KindFloat, KindDouble:
		return fmt.Sprintf("%g", v.float)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindBytes:
		return fmt.Sprintf("0x%x", v.bytes)
	case KindUUID:
		return v.id.String()
	case KindInet:
		return net.IP(v.bytes).String()
	case KindDate:
		return fmt.Sprintf("date(%d)", int32(v.num))
	case KindTime:
		return fmt.Sprintf("time(%d)", v.num)
	case KindDuration:
		return fmt.Sprintf("duration(%dmo%dd%dns)", v.dur.Months, v.dur.Days, v.dur.Nanoseconds)
	case KindVarint:
		return v.big.String()
	case KindDecimal:
		return fmt.Sprintf("decimal(%s, %d)", v.big.String(), v.scale)
	case KindList, KindSet, KindTuple:
		parts := make([]string, len(v.elems))
		for i, e := range v.elems {
			parts[i] = e.String()
		}
		return v.kind.String() + "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, len(v.pairs))
		for i, p := range v.pairs {
			parts[i] = p.Key.String() + ": " + p.Val.String()
		}
		return "map{" + strings.Join(parts, ", ") + "}"
	case KindUDT:
		parts := make([]string, len(v.fields))
		for i, f := range v.fields {
			parts[i] = f.Name + ": " + f.Val.String()
		}
		return "udt{" + strings.Join(parts, ", ") + "}"
	default:
		return "invalid"
	}
}
