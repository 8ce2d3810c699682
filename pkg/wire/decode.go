package wire

import (
	"math"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/stargate/stargate-grpc-go/pkg/value"
)

// DecodeResponse parses the response envelope, leaving the result payload
// opaque.
func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case fieldResponseType:
			n, err := decodeVarint(field, typ)
			if err != nil {
				return err
			}
			resp.Kind = ResultKind(n)
		case fieldResponsePayload:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			resp.Payload = b
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}

// DecodeResultSet parses a row-result payload into column specs, rows and
// the paging state. Row width is checked against the column count; a
// disagreement is a protocol error, never a truncation.
func DecodeResultSet(payload []byte) (*ResultSet, error) {
	rs := &ResultSet{}
	err := eachField(payload, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case fieldResultSetColumns:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			col, err := decodeColumnSpec(b)
			if err != nil {
				return err
			}
			rs.Columns = append(rs.Columns, col)
		case fieldResultSetRows:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			row, err := decodeRow(b)
			if err != nil {
				return err
			}
			rs.Rows = append(rs.Rows, row)
		case fieldResultSetPagingState:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			rs.PagingState = b
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, row := range rs.Rows {
		if len(row) != len(rs.Columns) {
			return nil, protocolErrorf("row %d has %d values for %d columns", i, len(row), len(rs.Columns))
		}
	}
	return rs, nil
}

// DecodeValues parses a Values message back into positional values and the
// optional parallel name list.
func DecodeValues(data []byte) ([]value.Value, []string, error) {
	var (
		values []value.Value
		names  []string
	)
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case fieldValuesValues:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			v, err := DecodeValue(b)
			if err != nil {
				return err
			}
			values = append(values, v)
		case fieldValuesNames:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			names = append(names, string(b))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(names) > 0 && len(names) != len(values) {
		return nil, nil, protocolErrorf("%d value names for %d values", len(names), len(values))
	}
	return values, names, nil
}

func decodeColumnSpec(data []byte) (ColumnSpec, error) {
	var col ColumnSpec
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case fieldColumnName:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			col.Name = string(b)
		case fieldColumnType:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			spec, err := decodeTypeSpec(b)
			if err != nil {
				return err
			}
			col.Type = spec
		}
		return nil
	})
	return col, err
}

func decodeTypeSpec(data []byte) (value.TypeSpec, error) {
	var spec value.TypeSpec
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case fieldTypeKind:
			n, err := decodeVarint(field, typ)
			if err != nil {
				return err
			}
			spec.Kind = value.Kind(n)
		case fieldTypeArgs:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			arg, err := decodeTypeSpec(b)
			if err != nil {
				return err
			}
			spec.Args = append(spec.Args, arg)
		case fieldTypeFields:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			spec.FieldNames = append(spec.FieldNames, string(b))
		}
		return nil
	})
	return spec, err
}

func decodeRow(data []byte) ([]value.Value, error) {
	var row []value.Value
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		if num != fieldRowValues {
			return nil
		}
		b, err := decodeBytes(field, typ)
		if err != nil {
			return err
		}
		v, err := DecodeValue(b)
		if err != nil {
			return err
		}
		row = append(row, v)
		return nil
	})
	return row, err
}

// DecodeValue parses a single value.
func DecodeValue(data []byte) (value.Value, error) {
	out := value.NullValue()
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case fieldValueNull:
			out = value.NullValue()
		case fieldValueUnset:
			out = value.UnsetValue()
		case fieldValueBoolean:
			n, err := decodeVarint(field, typ)
			if err != nil {
				return err
			}
			out = value.BoolValue(n != 0)
		case fieldValueInt:
			n, err := decodeVarint(field, typ)
			if err != nil {
				return err
			}
			out = value.IntValue(int64(n))
		case fieldValueFloat:
			if typ != protowire.Fixed32Type {
				return protocolErrorf("float value has wire type %d", typ)
			}
			bits, n := protowire.ConsumeFixed32(field)
			if n < 0 {
				return protocolErrorf("truncated float value")
			}
			out = value.FloatValue(math.Float32frombits(bits))
		case fieldValueDouble:
			if typ != protowire.Fixed64Type {
				return protocolErrorf("double value has wire type %d", typ)
			}
			bits, n := protowire.ConsumeFixed64(field)
			if n < 0 {
				return protocolErrorf("truncated double value")
			}
			out = value.DoubleValue(math.Float64frombits(bits))
		case fieldValueString:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			out = value.StringValue(string(b))
		case fieldValueBytes:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			out = value.BytesValue(b)
		case fieldValueUUID:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			if len(b) != 16 {
				return protocolErrorf("uuid value has %d bytes", len(b))
			}
			var id uuid.UUID
			copy(id[:], b)
			out = value.UUIDValue(id)
		case fieldValueInet:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			if len(b) != 4 && len(b) != 16 {
				return protocolErrorf("inet value has %d bytes", len(b))
			}
			out = value.InetValue(b)
		case fieldValueDate:
			n, err := decodeVarint(field, typ)
			if err != nil {
				return err
			}
			out = value.DateValue(int32(protowire.DecodeZigZag(n)))
		case fieldValueTime:
			n, err := decodeVarint(field, typ)
			if err != nil {
				return err
			}
			out = value.TimeValue(int64(n))
		case fieldValueDecimal:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			d, err := decodeDecimal(b)
			if err != nil {
				return err
			}
			out = value.DecimalValue(d)
		case fieldValueVarint:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			out = value.VarintValue(bigIntFromBytes(b))
		case fieldValueDuration:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			d, err := decodeDuration(b)
			if err != nil {
				return err
			}
			out = value.DurationValue(d)
		case fieldValueList, fieldValueSet, fieldValueTuple:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			elems, err := decodeCollection(b)
			if err != nil {
				return err
			}
			switch num {
			case fieldValueSet:
				out = value.SetValue(elems...)
			case fieldValueTuple:
				out = value.TupleValue(elems...)
			default:
				out = value.ListValue(elems...)
			}
		case fieldValueMap:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			elems, err := decodeCollection(b)
			if err != nil {
				return err
			}
			if len(elems)%2 != 0 {
				return protocolErrorf("map value has %d elements, want an even count", len(elems))
			}
			pairs := make([]value.Pair, 0, len(elems)/2)
			for i := 0; i < len(elems); i += 2 {
				pairs = append(pairs, value.Pair{Key: elems[i], Val: elems[i+1]})
			}
			out = value.MapValue(pairs...)
		case fieldValueUDT:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			fields, err := decodeUDT(b)
			if err != nil {
				return err
			}
			out = value.UDTValue(fields...)
		}
		return nil
	})
	if err != nil {
		return value.Value{}, err
	}
	return out, nil
}

func decodeCollection(data []byte) ([]value.Value, error) {
	var elems []value.Value
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		if num != fieldCollectionElems {
			return nil
		}
		b, err := decodeBytes(field, typ)
		if err != nil {
			return err
		}
		v, err := DecodeValue(b)
		if err != nil {
			return err
		}
		elems = append(elems, v)
		return nil
	})
	return elems, err
}

func decodeUDT(data []byte) ([]value.UDTField, error) {
	var fields []value.UDTField
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		if num != fieldUDTFields {
			return nil
		}
		b, err := decodeBytes(field, typ)
		if err != nil {
			return err
		}
		var f value.UDTField
		err = eachField(b, func(num protowire.Number, typ protowire.Type, inner []byte) error {
			switch num {
			case fieldUDTFieldName:
				nb, err := decodeBytes(inner, typ)
				if err != nil {
					return err
				}
				f.Name = string(nb)
			case fieldUDTFieldValue:
				vb, err := decodeBytes(inner, typ)
				if err != nil {
					return err
				}
				v, err := DecodeValue(vb)
				if err != nil {
					return err
				}
				f.Val = v
			}
			return nil
		})
		if err != nil {
			return err
		}
		fields = append(fields, f)
		return nil
	})
	return fields, err
}

func decodeDecimal(data []byte) (value.Decimal, error) {
	d := value.Decimal{}
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case fieldDecimalScale:
			n, err := decodeVarint(field, typ)
			if err != nil {
				return err
			}
			d.Scale = uint32(n)
		case fieldDecimalValue:
			b, err := decodeBytes(field, typ)
			if err != nil {
				return err
			}
			d.Unscaled = bigIntFromBytes(b)
		}
		return nil
	})
	return d, err
}

func decodeDuration(data []byte) (value.Duration, error) {
	d := value.Duration{}
	err := eachField(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		n, err := decodeVarint(field, typ)
		if err != nil {
			return err
		}
		switch num {
		case fieldDurationMonths:
			d.Months = int32(protowire.DecodeZigZag(n))
		case fieldDurationDays:
			d.Days = int32(protowire.DecodeZigZag(n))
		case fieldDurationNanos:
			d.Nanoseconds = protowire.DecodeZigZag(n)
		}
		return nil
	})
	return d, err
}

// eachField walks the top-level fields of a wire message. The callback
// receives the raw field bytes starting at the value (tag already consumed)
// and must not retain them.
func eachField(data []byte, fn func(num protowire.Number, typ protowire.Type, field []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protocolErrorf("malformed field tag")
		}
		data = data[n:]

		size := protowire.ConsumeFieldValue(num, typ, data)
		if size < 0 {
			return protocolErrorf("malformed field %d", num)
		}
		if err := fn(num, typ, data[:size]); err != nil {
			return err
		}
		data = data[size:]
	}
	return nil
}

func decodeVarint(field []byte, typ protowire.Type) (uint64, error) {
	if typ != protowire.VarintType {
		return 0, protocolErrorf("expected varint, got wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(field)
	if n < 0 {
		return 0, protocolErrorf("truncated varint")
	}
	return v, nil
}

func decodeBytes(field []byte, typ protowire.Type) ([]byte, error) {
	if typ != protowire.BytesType {
		return nil, protocolErrorf("expected length-delimited field, got wire type %d", typ)
	}
	b, n := protowire.ConsumeBytes(field)
	if n < 0 {
		return nil, protocolErrorf("truncated length-delimited field")
	}
	return b, nil
}
