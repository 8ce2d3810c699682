package value

import (
	"math"
	"math/big"
	"net"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Unmarshaler is the decode capability: a type that knows how to reconstruct
// itself from a [Value]. It is consulted before any built-in conversion.
type Unmarshaler interface {
	UnmarshalCQL(v Value) error
}

// Unmarshal converts a [Value] into the Go value pointed to by dst. The
// accepted targets mirror the [Marshal] mapping, plus:
//
//	*Value          accepts any value unchanged
//	narrower ints   accept bigint with a range check
//	*time.Time      accepts bigint (epoch milliseconds) and date
//	**T             decodes null as nil, anything else into a new T
//
// A null value stores the zero value of the target (nil for pointers, slices
// and maps). An unset value never decodes; it is a bind-side marker only.
//
// All failures are reported as *[ConversionError].
func Unmarshal(v Value, dst any) error {
	if dst == nil {
		return errors.New("value: Unmarshal target must be a non-nil pointer")
	}

	switch d := dst.(type) {
	case *Value:
		*d = v
		return nil
	case Unmarshaler:
		return d.UnmarshalCQL(v)
	}

	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("value: Unmarshal target must be a non-nil pointer")
	}

	if v.IsNull() {
		rv.Elem().SetZero()
		return nil
	}
	if v.IsUnset() {
		return typeMismatch(v, rv.Type().Elem().String())
	}

	switch d := dst.(type) {
	case *bool:
		x, err := v.Bool()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *int64:
		x, err := v.Int()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *int:
		return unmarshalNarrowInt(v, math.MinInt, math.MaxInt, "int", func(x int64) { *d = int(x) })
	case *int32:
		return unmarshalNarrowInt(v, math.MinInt32, math.MaxInt32, "int32", func(x int64) { *d = int32(x) })
	case *int16:
		return unmarshalNarrowInt(v, math.MinInt16, math.MaxInt16, "int16", func(x int64) { *d = int16(x) })
	case *int8:
		return unmarshalNarrowInt(v, math.MinInt8, math.MaxInt8, "int8", func(x int64) { *d = int8(x) })
	case *uint64:
		return unmarshalNarrowInt(v, 0, math.MaxInt64, "uint64", func(x int64) { *d = uint64(x) })
	case *uint32:
		return unmarshalNarrowInt(v, 0, math.MaxUint32, "uint32", func(x int64) { *d = uint32(x) })
	case *uint16:
		return unmarshalNarrowInt(v, 0, math.MaxUint16, "uint16", func(x int64) { *d = uint16(x) })
	case *uint8:
		return unmarshalNarrowInt(v, 0, math.MaxUint8, "uint8", func(x int64) { *d = uint8(x) })
	case *uint:
		return unmarshalNarrowInt(v, 0, math.MaxInt64, "uint", func(x int64) { *d = uint(x) })
	case *float32:
		x, err := v.Float()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *float64:
		x, err := v.Double()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *string:
		x, err := v.Text()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *[]byte:
		x, err := v.Bytes()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *uuid.UUID:
		x, err := v.UUID()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *net.IP:
		x, err := v.Inet()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *time.Time:
		switch v.Kind() {
		case KindInt:
			*d = time.UnixMilli(v.num).UTC()
			return nil
		case KindDate:
			*d = time.Unix(0, 0).UTC().AddDate(0, 0, int(int32(v.num)))
			return nil
		default:
			return typeMismatch(v, "time.Time")
		}
	case *time.Duration:
		x, err := v.Time()
		if err != nil {
			return err
		}
		*d = time.Duration(x)
		return nil
	case **big.Int:
		x, err := v.Varint()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *Decimal:
		x, err := v.Decimal()
		if err != nil {
			return err
		}
		*d = x
		return nil
	case *Duration:
		x, err := v.Duration()
		if err != nil {
			return err
		}
		*d = x
		return nil
	}

	return unmarshalReflect(v, rv.Elem())
}

// As converts a [Value] into a value of type T.
func As[T any](v Value) (T, error) {
	var out T
	err := Unmarshal(v, &out)
	return out, err
}

func unmarshalNarrowInt(v Value, min, max int64, target string, set func(int64)) error {
	x, err := v.Int()
	if err != nil {
		return typeMismatch(v, target)
	}
	if x < min || x > max {
		return outOfRange(v.String(), target)
	}
	set(x)
	return nil
}

// unmarshalReflect decodes into targets without a fast path: pointers,
// slices, arrays, maps and structs.
func unmarshalReflect(v Value, elem reflect.Value) error {
	switch elem.Kind() {
	case reflect.Pointer:
		p := reflect.New(elem.Type().Elem())
		if err := Unmarshal(v, p.Interface()); err != nil {
			return err
		}
		elem.Set(p)
		return nil

	case reflect.Slice:
		elems, err := v.Elements()
		if err != nil {
			return typeMismatch(v, elem.Type().String())
		}
		out := reflect.MakeSlice(elem.Type(), len(elems), len(elems))
		for i, e := range elems {
			if err := Unmarshal(e, out.Index(i).Addr().Interface()); err != nil {
				return err
			}
		}
		elem.Set(out)
		return nil

	case reflect.Array:
		elems, err := v.Elements()
		if err != nil {
			return typeMismatch(v, elem.Type().String())
		}
		if len(elems) != elem.Len() {
			return ArityMismatchError(v.String(), elem.Type().String(), len(elems), elem.Len())
		}
		for i, e := range elems {
			if err := Unmarshal(e, elem.Index(i).Addr().Interface()); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		pairs, err := v.Pairs()
		if err != nil {
			return typeMismatch(v, elem.Type().String())
		}
		out := reflect.MakeMapWithSize(elem.Type(), len(pairs))
		for _, p := range pairs {
			k := reflect.New(elem.Type().Key())
			if err := Unmarshal(p.Key, k.Interface()); err != nil {
				return err
			}
			val := reflect.New(elem.Type().Elem())
			if err := Unmarshal(p.Val, val.Interface()); err != nil {
				return err
			}
			out.SetMapIndex(k.Elem(), val.Elem())
		}
		elem.Set(out)
		return nil

	case reflect.Struct:
		return unmarshalStruct(v, elem)
	}
	return typeMismatch(v, elem.Type().String())
}

// unmarshalStruct looks every declared field up by name in the UDT's pairs.
// The incoming field order is irrelevant; a field absent from the pairs is a
// MissingField error.
func unmarshalStruct(v Value, elem reflect.Value) error {
	if v.Kind() != KindUDT {
		return typeMismatch(v, elem.Type().String())
	}
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		fv, ok := v.Field(name)
		if !ok {
			return MissingFieldError(v, t.String(), name)
		}
		if err := Unmarshal(fv, elem.Field(i).Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}
