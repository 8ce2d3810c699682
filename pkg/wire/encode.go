package wire

import (
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/stargate/stargate-grpc-go/pkg/query"
	"github.com/stargate/stargate-grpc-go/pkg/value"
)

// EncodeQuery serializes a query into the request envelope understood by the
// ExecuteQuery RPC.
func EncodeQuery(q query.Query) []byte {
	var buf []byte
	buf = appendString(buf, fieldQueryCQL, q.CQL)
	if !q.Params.IsEmpty() {
		buf = appendMessage(buf, fieldQueryValues, EncodeValues(q.Params))
	}
	buf = appendMessage(buf, fieldQueryParams, encodeQueryParams(q))
	return buf
}

// EncodeBatch serializes a batch into the request envelope understood by the
// ExecuteBatch RPC.
func EncodeBatch(b query.Batch) []byte {
	var buf []byte
	for _, bq := range b.Queries {
		var qb []byte
		qb = appendString(qb, fieldBatchQueryCQL, bq.CQL)
		if !bq.Params.IsEmpty() {
			qb = appendMessage(qb, fieldBatchQueryValues, EncodeValues(bq.Params))
		}
		buf = appendMessage(buf, fieldBatchQueries, qb)
	}

	var pb []byte
	if b.Keyspace != "" {
		pb = appendString(pb, fieldParamsKeyspace, b.Keyspace)
	}
	pb = protowire.AppendTag(pb, fieldParamsConsistency, protowire.VarintType)
	pb = protowire.AppendVarint(pb, uint64(b.Consistency))
	if b.SerialConsistency != 0 {
		pb = protowire.AppendTag(pb, fieldParamsSerialConsistency, protowire.VarintType)
		pb = protowire.AppendVarint(pb, uint64(b.SerialConsistency))
	}
	if b.Tracing {
		pb = protowire.AppendTag(pb, fieldParamsTracing, protowire.VarintType)
		pb = protowire.AppendVarint(pb, 1)
	}
	if b.Timestamp != 0 {
		pb = protowire.AppendTag(pb, fieldParamsTimestamp, protowire.VarintType)
		pb = protowire.AppendVarint(pb, uint64(b.Timestamp))
	}
	buf = appendMessage(buf, fieldBatchParams, pb)
	return buf
}

// EncodeValues serializes bind parameters into a Values message. Named
// parameters are written name-sorted so the payload is deterministic.
func EncodeValues(p query.Params) []byte {
	var buf []byte
	if len(p.Named) > 0 {
		names := make([]string, 0, len(p.Named))
		for name := range p.Named {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			buf = appendMessage(buf, fieldValuesValues, EncodeValue(p.Named[name]))
		}
		for _, name := range names {
			buf = appendString(buf, fieldValuesNames, name)
		}
		return buf
	}
	for _, v := range p.Positional {
		buf = appendMessage(buf, fieldValuesValues, EncodeValue(v))
	}
	return buf
}

func encodeQueryParams(q query.Query) []byte {
	var buf []byte
	if q.Keyspace != "" {
		buf = appendString(buf, fieldParamsKeyspace, q.Keyspace)
	}
	buf = protowire.AppendTag(buf, fieldParamsConsistency, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(q.Consistency))
	if q.SerialConsistency != 0 {
		buf = protowire.AppendTag(buf, fieldParamsSerialConsistency, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(q.SerialConsistency))
	}
	if q.PageSize != 0 {
		buf = protowire.AppendTag(buf, fieldParamsPageSize, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(uint32(q.PageSize)))
	}
	if len(q.PagingState) > 0 {
		buf = protowire.AppendTag(buf, fieldParamsPagingState, protowire.BytesType)
		buf = protowire.AppendBytes(buf, q.PagingState)
	}
	if q.Tracing {
		buf = protowire.AppendTag(buf, fieldParamsTracing, protowire.VarintType)
		buf = protowire.AppendVarint(buf, 1)
	}
	if q.Timestamp != 0 {
		buf = protowire.AppendTag(buf, fieldParamsTimestamp, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(q.Timestamp))
	}
	return buf
}

// EncodeValue serializes a single value.
func EncodeValue(v value.Value) []byte {
	var buf []byte
	switch v.Kind() {
	case value.KindNull:
		buf = appendMessage(buf, fieldValueNull, nil)
	case value.KindUnset:
		buf = appendMessage(buf, fieldValueUnset, nil)
	case value.KindBoolean:
		b, _ := v.Bool()
		buf = protowire.AppendTag(buf, fieldValueBoolean, protowire.VarintType)
		if b {
			buf = protowire.AppendVarint(buf, 1)
		} else {
			buf = protowire.AppendVarint(buf, 0)
		}
	case value.KindInt:
		n, _ := v.Int()
		buf = protowire.AppendTag(buf, fieldValueInt, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(n))
	case value.KindFloat:
		f, _ := v.Float()
		buf = protowire.AppendTag(buf, fieldValueFloat, protowire.Fixed32Type)
		buf = protowire.AppendFixed32(buf, math.Float32bits(f))
	case value.KindDouble:
		f, _ := v.Double()
		buf = protowire.AppendTag(buf, fieldValueDouble, protowire.Fixed64Type)
		buf = protowire.AppendFixed64(buf, math.Float64bits(f))
	case value.KindString:
		s, _ := v.Text()
		buf = appendString(buf, fieldValueString, s)
	case value.KindBytes:
		b, _ := v.Bytes()
		buf = protowire.AppendTag(buf, fieldValueBytes, protowire.BytesType)
		buf = protowire.AppendBytes(buf, b)
	case value.KindUUID:
		id, _ := v.UUID()
		buf = protowire.AppendTag(buf, fieldValueUUID, protowire.BytesType)
		buf = protowire.AppendBytes(buf, id[:])
	case value.KindInet:
		ip, _ := v.Inet()
		buf = protowire.AppendTag(buf, fieldValueInet, protowire.BytesType)
		buf = protowire.AppendBytes(buf, []byte(ip))
	case value.KindDate:
		d, _ := v.Date()
		buf = protowire.AppendTag(buf, fieldValueDate, protowire.VarintType)
		buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(d)))
	case value.KindTime:
		n, _ := v.Time()
		buf = protowire.AppendTag(buf, fieldValueTime, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(n))
	case value.KindDecimal:
		d, _ := v.Decimal()
		var db []byte
		db = protowire.AppendTag(db, fieldDecimalScale, protowire.VarintType)
		db = protowire.AppendVarint(db, uint64(d.Scale))
		db = protowire.AppendTag(db, fieldDecimalValue, protowire.BytesType)
		db = protowire.AppendBytes(db, bigIntBytes(d.Unscaled))
		buf = appendMessage(buf, fieldValueDecimal, db)
	case value.KindVarint:
		n, _ := v.Varint()
		buf = protowire.AppendTag(buf, fieldValueVarint, protowire.BytesType)
		buf = protowire.AppendBytes(buf, bigIntBytes(n))
	case value.KindDuration:
		d, _ := v.Duration()
		var db []byte
		db = protowire.AppendTag(db, fieldDurationMonths, protowire.VarintType)
		db = protowire.AppendVarint(db, protowire.EncodeZigZag(int64(d.Months)))
		db = protowire.AppendTag(db, fieldDurationDays, protowire.VarintType)
		db = protowire.AppendVarint(db, protowire.EncodeZigZag(int64(d.Days)))
		db = protowire.AppendTag(db, fieldDurationNanos, protowire.VarintType)
		db = protowire.AppendVarint(db, protowire.EncodeZigZag(d.Nanoseconds))
		buf = appendMessage(buf, fieldValueDuration, db)
	case value.KindList, value.KindSet, value.KindTuple:
		elems, _ := v.Elements()
		field := fieldValueList
		switch v.Kind() {
		case value.KindSet:
			field = fieldValueSet
		case value.KindTuple:
			field = fieldValueTuple
		}
		buf = appendMessage(buf, protowire.Number(field), encodeCollection(elems))
	case value.KindMap:
		// flattened entries: keys at even indexes, values at odd ones
		pairs, _ := v.Pairs()
		elems := make([]value.Value, 0, 2*len(pairs))
		for _, p := range pairs {
			elems = append(elems, p.Key, p.Val)
		}
		buf = appendMessage(buf, fieldValueMap, encodeCollection(elems))
	case value.KindUDT:
		fields, _ := v.Fields()
		var ub []byte
		for _, f := range fields {
			var fb []byte
			fb = appendString(fb, fieldUDTFieldName, f.Name)
			fb = appendMessage(fb, fieldUDTFieldValue, EncodeValue(f.Val))
			ub = appendMessage(ub, fieldUDTFields, fb)
		}
		buf = appendMessage(buf, fieldValueUDT, ub)
	default:
		// an invalid value encodes as null rather than corrupting the stream
		buf = appendMessage(buf, fieldValueNull, nil)
	}
	return buf
}

func encodeCollection(elems []value.Value) []byte {
	var buf []byte
	for _, e := range elems {
		buf = appendMessage(buf, fieldCollectionElems, EncodeValue(e))
	}
	return buf
}

func appendMessage(buf []byte, num protowire.Number, msg []byte) []byte {
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendBytes(buf, msg)
}

func appendString(buf []byte, num protowire.Number, s string) []byte {
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendString(buf, s)
}
