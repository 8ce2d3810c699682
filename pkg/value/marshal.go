package value

import (
	"fmt"
	"math"
	"math/big"
	"net"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Marshaler is the encode capability: a type that knows how to represent
// itself as a [Value]. It is consulted before any built-in conversion.
type Marshaler interface {
	MarshalCQL() (Value, error)
}

const nanosPerDay = 24 * int64(time.Hour)

// Marshal converts a Go value to a [Value] using the default type mapping:
//
//	bool                    -> boolean
//	int, int8..int64        -> bigint
//	uint, uint8..uint64     -> bigint (range checked)
//	float32                 -> float
//	float64                 -> double
//	string                  -> text
//	[]byte                  -> blob
//	uuid.UUID               -> uuid
//	net.IP                  -> inet
//	time.Time               -> bigint (milliseconds since the Unix epoch)
//	time.Duration           -> time (nanoseconds since midnight)
//	*big.Int                -> varint
//	Decimal                 -> decimal
//	Duration                -> duration
//	slices                  -> list
//	arrays                  -> tuple
//	maps                    -> map (entries ordered by key rendering)
//	structs                 -> udt (see struct tags below)
//	pointers                -> element type; nil encodes as null
//
// Struct fields are encoded in declaration order under the name given by the
// `cql:"name"` tag, or the lowercased field name if untagged. Fields tagged
// `cql:"-"` and unexported fields are skipped.
//
// Types implementing [Marshaler] take precedence over every rule above.
func Marshal(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return x, nil
	case Marshaler:
		return x.MarshalCQL()
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		return uintValue(x)
	case float32:
		return FloatValue(x), nil
	case float64:
		return DoubleValue(x), nil
	case string:
		return StringValue(x), nil
	case []byte:
		return BytesValue(x), nil
	case uuid.UUID:
		return UUIDValue(x), nil
	case net.IP:
		return InetValue(x), nil
	case time.Time:
		return IntValue(x.UnixMilli()), nil
	case time.Duration:
		if x < 0 || int64(x) >= nanosPerDay {
			return Value{}, outOfRange(x.String(), "time")
		}
		return TimeValue(int64(x)), nil
	case *big.Int:
		if x == nil {
			return NullValue(), nil
		}
		return VarintValue(x), nil
	case Decimal:
		return DecimalValue(x), nil
	case Duration:
		return DurationValue(x), nil
	}
	return marshalReflect(reflect.ValueOf(v))
}

func uintValue(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		return Value{}, outOfRange(fmt.Sprintf("%d", x), "bigint")
	}
	return IntValue(int64(x)), nil
}

func marshalReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NullValue(), nil
		}
		return Marshal(rv.Elem().Interface())

	case reflect.Slice:
		elems, err := marshalElems(rv)
		if err != nil {
			return Value{}, err
		}
		return ListValue(elems...), nil

	case reflect.Array:
		elems, err := marshalElems(rv)
		if err != nil {
			return Value{}, err
		}
		return TupleValue(elems...), nil

	case reflect.Map:
		return marshalMap(rv)

	case reflect.Struct:
		return marshalStruct(rv)
	}
	return Value{}, &ConversionError{
		Kind:   TypeMismatch,
		Source: fmt.Sprintf("%s", rv.Type()),
		Target: "value.Value",
	}
}

func marshalElems(rv reflect.Value) ([]Value, error) {
	elems := make([]Value, rv.Len())
	for i := range elems {
		e, err := Marshal(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		elems[i] = e
	}
	return elems, nil
}

// Go maps have no iteration order, so entries are ordered by the debug
// rendering of their encoded keys to keep the output deterministic.
func marshalMap(rv reflect.Value) (Value, error) {
	pairs := make([]Pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := Marshal(iter.Key().Interface())
		if err != nil {
			return Value{}, err
		}
		v, err := Marshal(iter.Value().Interface())
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, Pair{Key: k, Val: v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Key.String() < pairs[j].Key.String()
	})
	return MapValue(pairs...), nil
}

func marshalStruct(rv reflect.Value) (Value, error) {
	t := rv.Type()
	fields := make([]UDTField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		fv, err := Marshal(rv.Field(i).Interface())
		if err != nil {
			return Value{}, err
		}
		fields = append(fields, UDTField{Name: name, Val: fv})
	}
	return UDTValue(fields...), nil
}

func fieldName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("cql")
	if tag == "-" {
		return "", false
	}
	if tag != "" {
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag != "" {
			return tag, true
		}
	}
	return strings.ToLower(f.Name), true
}
