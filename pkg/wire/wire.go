// Package wire encodes query requests and decodes result payloads for the
// Stargate gRPC protocol. Messages are plain protobuf wire format, written
// and read with protowire; the generated transport stubs stay external to
// this module.
package wire

import (
	"fmt"

	"github.com/stargate/stargate-grpc-go/pkg/value"
)

// Field numbers of the protocol messages. Kept in one place so the encoder
// and decoder cannot drift apart.
const (
	// Query: cql=1, values=2, parameters=3
	fieldQueryCQL    = 1
	fieldQueryValues = 2
	fieldQueryParams = 3

	// Batch: queries=1, parameters=2
	fieldBatchQueries = 1
	fieldBatchParams  = 2

	// BatchQuery: cql=1, values=2
	fieldBatchQueryCQL    = 1
	fieldBatchQueryValues = 2

	// Values: values=1, value_names=2
	fieldValuesValues = 1
	fieldValuesNames  = 2

	// QueryParameters: keyspace=1, consistency=2, serial_consistency=3,
	// page_size=4, paging_state=5, tracing=6, timestamp=7
	fieldParamsKeyspace          = 1
	fieldParamsConsistency       = 2
	fieldParamsSerialConsistency = 3
	fieldParamsPageSize          = 4
	fieldParamsPagingState       = 5
	fieldParamsTracing           = 6
	fieldParamsTimestamp         = 7

	// Response: type=1, payload=2
	fieldResponseType    = 1
	fieldResponsePayload = 2

	// ResultSet: columns=1, rows=2, paging_state=3
	fieldResultSetColumns     = 1
	fieldResultSetRows        = 2
	fieldResultSetPagingState = 3

	// ColumnSpec: name=1, type=2
	fieldColumnName = 1
	fieldColumnType = 2

	// TypeSpec: kind=1, args=2, field_names=3
	fieldTypeKind   = 1
	fieldTypeArgs   = 2
	fieldTypeFields = 3

	// Row: values=1
	fieldRowValues = 1

	// Value: exactly one of the following is set.
	fieldValueNull     = 1
	fieldValueUnset    = 2
	fieldValueBoolean  = 3
	fieldValueInt      = 4
	fieldValueFloat    = 5
	fieldValueDouble   = 6
	fieldValueString   = 7
	fieldValueBytes    = 8
	fieldValueUUID     = 9
	fieldValueInet     = 10
	fieldValueDate     = 11
	fieldValueTime     = 12
	fieldValueDecimal  = 13
	fieldValueVarint   = 14
	fieldValueDuration = 15
	fieldValueList     = 16
	fieldValueSet      = 17
	fieldValueMap      = 18
	fieldValueTuple    = 19
	fieldValueUDT      = 20

	// Decimal: scale=1, value=2 (two's complement big-endian)
	fieldDecimalScale = 1
	fieldDecimalValue = 2

	// Duration: months=1, days=2, nanos=3 (all zigzag)
	fieldDurationMonths = 1
	fieldDurationDays   = 2
	fieldDurationNanos  = 3

	// Collection: elements=1. Maps flatten entries into the element list,
	// keys at even indexes, values at odd ones.
	fieldCollectionElems = 1

	// UDT: fields=1 repeated Field{name=1, value=2}
	fieldUDTFields     = 1
	fieldUDTFieldName  = 1
	fieldUDTFieldValue = 2
)

// ResultKind discriminates the embedded result payload of a response.
type ResultKind int32

const (
	ResultKindUnknown ResultKind = 0
	ResultKindRows    ResultKind = 1
	ResultKindVoid    ResultKind = 2
)

func (k ResultKind) String() string {
	switch k {
	case ResultKindRows:
		return "rows"
	case ResultKindVoid:
		return "void"
	default:
		return "unknown"
	}
}

// Response is the decoded response envelope: a type discriminator plus the
// still-opaque result payload.
type Response struct {
	Kind    ResultKind
	Payload []byte
}

// ColumnSpec is the name and declared type of one result-set column.
type ColumnSpec struct {
	Name string
	Type value.TypeSpec
}

// ResultSet is the decoded row-result payload. Rows are raw value sequences;
// the result package layers extraction semantics on top.
type ResultSet struct {
	Columns     []ColumnSpec
	Rows        [][]value.Value
	PagingState []byte
}

// ProtocolError reports a malformed or internally inconsistent protocol
// payload: bad wire bytes, a response without the expected row-result
// payload, or row/column width disagreement.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.Reason
}

func protocolErrorf(format string, args ...any) *ProtocolError {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}
