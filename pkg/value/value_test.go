package value_test

import (
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stargate/stargate-grpc-go/pkg/value"
)

func TestMarshal_Defaults(t *testing.T) {
	for _, tc := range []struct {
		name   string
		in     any
		expect value.Value
	}{
		{"bool", true, value.BoolValue(true)},
		{"int", 42, value.IntValue(42)},
		{"int8", int8(-7), value.IntValue(-7)},
		{"int64", int64(1 << 40), value.IntValue(1 << 40)},
		{"uint16", uint16(9), value.IntValue(9)},
		{"float32", float32(1.5), value.FloatValue(1.5)},
		{"float64", 3.14, value.DoubleValue(3.14)},
		{"string", "stargate", value.StringValue("stargate")},
		{"bytes", []byte{0x01, 0x02}, value.BytesValue([]byte{0x01, 0x02})},
		{"nil", nil, value.NullValue()},
		{"slice", []int{1, 2, 3}, value.ListValue(value.IntValue(1), value.IntValue(2), value.IntValue(3))},
		{"array", [2]string{"a", "b"}, value.TupleValue(value.StringValue("a"), value.StringValue("b"))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := value.Marshal(tc.in)
			require.NoError(t, err)
			require.True(t, value.Equal(tc.expect, got), "expected %s, got %s", tc.expect, got)
		})
	}
}

func TestMarshal_SpecialTypes(t *testing.T) {
	t.Run("uuid", func(t *testing.T) {
		id := uuid.MustParse("4fa77b65-c93b-4711-8cd3-62bfd9c5d411")
		got, err := value.Marshal(id)
		require.NoError(t, err)
		require.Equal(t, value.KindUUID, got.Kind())

		back, err := value.As[uuid.UUID](got)
		require.NoError(t, err)
		require.Equal(t, id, back)
	})

	t.Run("inet", func(t *testing.T) {
		ip := net.ParseIP("127.0.0.1")
		got, err := value.Marshal(ip)
		require.NoError(t, err)
		require.Equal(t, value.KindInet, got.Kind())

		back, err := value.As[net.IP](got)
		require.NoError(t, err)
		require.True(t, ip.Equal(back))
	})

	t.Run("timestamp", func(t *testing.T) {
		ts := time.Date(2021, 10, 7, 12, 30, 0, 0, time.UTC)
		got, err := value.Marshal(ts)
		require.NoError(t, err)
		require.True(t, value.Equal(value.IntValue(ts.UnixMilli()), got))

		back, err := value.As[time.Time](got)
		require.NoError(t, err)
		require.True(t, ts.Equal(back))
	})

	t.Run("time of day", func(t *testing.T) {
		d := 13*time.Hour + 30*time.Minute
		got, err := value.Marshal(d)
		require.NoError(t, err)
		require.True(t, value.Equal(value.TimeValue(int64(d)), got))

		back, err := value.As[time.Duration](got)
		require.NoError(t, err)
		require.Equal(t, d, back)
	})

	t.Run("time of day out of range", func(t *testing.T) {
		_, err := value.Marshal(25 * time.Hour)
		var ce *value.ConversionError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, value.OutOfRange, ce.Kind)
	})

	t.Run("varint", func(t *testing.T) {
		n := new(big.Int).Lsh(big.NewInt(1), 100)
		got, err := value.Marshal(n)
		require.NoError(t, err)

		back, err := value.As[*big.Int](got)
		require.NoError(t, err)
		require.Zero(t, n.Cmp(back))
	})

	t.Run("decimal", func(t *testing.T) {
		d := value.Decimal{Unscaled: big.NewInt(123456), Scale: 3}
		got, err := value.Marshal(d)
		require.NoError(t, err)

		back, err := value.As[value.Decimal](got)
		require.NoError(t, err)
		require.Equal(t, d.Scale, back.Scale)
		require.Zero(t, d.Unscaled.Cmp(back.Unscaled))
	})

	t.Run("duration", func(t *testing.T) {
		d := value.Duration{Months: 1, Days: 2, Nanoseconds: 3}
		got, err := value.Marshal(d)
		require.NoError(t, err)

		back, err := value.As[value.Duration](got)
		require.NoError(t, err)
		require.Equal(t, d, back)
	})
}

func TestRoundTrip_Primitives(t *testing.T) {
	t.Run("bool", func(t *testing.T) { roundTrip(t, true) })
	t.Run("int64", func(t *testing.T) { roundTrip(t, int64(-12345)) })
	t.Run("int32", func(t *testing.T) { roundTrip(t, int32(7)) })
	t.Run("float32", func(t *testing.T) { roundTrip(t, float32(2.5)) })
	t.Run("float64", func(t *testing.T) { roundTrip(t, -0.125) })
	t.Run("string", func(t *testing.T) { roundTrip(t, "hello") })
	t.Run("bytes", func(t *testing.T) { roundTrip(t, []byte("\x00\x01\x02")) })
}

func roundTrip[T any](t *testing.T, in T) {
	t.Helper()
	v, err := value.Marshal(in)
	require.NoError(t, err)
	out, err := value.As[T](v)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestRoundTrip_NestedCollections(t *testing.T) {
	t.Run("list of list of list", func(t *testing.T) {
		roundTrip(t, [][][]int64{{{1, 2}, {3}}, {{4}}})
	})

	t.Run("map of string to list of maps", func(t *testing.T) {
		roundTrip(t, map[string][]map[string]int64{
			"a": {{"x": 1}, {"y": 2}},
			"b": {{"z": 3}},
		})
	})

	t.Run("list of tuples", func(t *testing.T) {
		roundTrip(t, [][2]string{{"a", "b"}, {"c", "d"}})
	})
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Run("type mismatch", func(t *testing.T) {
		var s string
		err := value.Unmarshal(value.IntValue(1), &s)
		var ce *value.ConversionError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, value.TypeMismatch, ce.Kind)
	})

	t.Run("out of range", func(t *testing.T) {
		var n int8
		err := value.Unmarshal(value.IntValue(1000), &n)
		var ce *value.ConversionError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, value.OutOfRange, ce.Kind)
	})

	t.Run("float does not widen to float64", func(t *testing.T) {
		var f float64
		err := value.Unmarshal(value.FloatValue(1.5), &f)
		var ce *value.ConversionError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, value.TypeMismatch, ce.Kind)
	})

	t.Run("negative into uint", func(t *testing.T) {
		var n uint32
		err := value.Unmarshal(value.IntValue(-1), &n)
		var ce *value.ConversionError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, value.OutOfRange, ce.Kind)
	})

	t.Run("tuple arity", func(t *testing.T) {
		var a [2]int64
		err := value.Unmarshal(value.TupleValue(value.IntValue(1), value.IntValue(2), value.IntValue(3)), &a)
		var ce *value.ConversionError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, value.ArityMismatch, ce.Kind)
		require.Equal(t, 3, ce.Actual)
		require.Equal(t, 2, ce.Expected)
	})

	t.Run("unset never decodes", func(t *testing.T) {
		var n int64
		err := value.Unmarshal(value.UnsetValue(), &n)
		var ce *value.ConversionError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, value.TypeMismatch, ce.Kind)
	})
}

func TestUnmarshal_Null(t *testing.T) {
	t.Run("zeroes scalar", func(t *testing.T) {
		n := int64(7)
		require.NoError(t, value.Unmarshal(value.NullValue(), &n))
		require.Zero(t, n)
	})

	t.Run("nils pointer", func(t *testing.T) {
		s := "x"
		p := &s
		require.NoError(t, value.Unmarshal(value.NullValue(), &p))
		require.Nil(t, p)
	})

	t.Run("non-null into pointer allocates", func(t *testing.T) {
		var p *string
		require.NoError(t, value.Unmarshal(value.StringValue("y"), &p))
		require.NotNil(t, p)
		require.Equal(t, "y", *p)
	})
}

func TestEqual(t *testing.T) {
	t.Run("different kinds", func(t *testing.T) {
		require.False(t, value.Equal(value.IntValue(1), value.DoubleValue(1)))
	})

	t.Run("list order matters", func(t *testing.T) {
		a := value.ListValue(value.IntValue(1), value.IntValue(2))
		b := value.ListValue(value.IntValue(2), value.IntValue(1))
		require.False(t, value.Equal(a, b))
		require.True(t, value.Equal(a, a))
	})

	t.Run("set is not canonicalized", func(t *testing.T) {
		a := value.SetValue(value.IntValue(2), value.IntValue(1))
		b := value.SetValue(value.IntValue(1), value.IntValue(2))
		require.False(t, value.Equal(a, b))
	})
}
