package wire

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/stargate/stargate-grpc-go/pkg/value"
)

// The server-side encoders below are the mirror image of the decoders. They
// exist for test doubles and local tooling that need to fabricate responses;
// the driver itself only decodes these messages.

// EncodeResponse serializes a response envelope.
func EncodeResponse(resp Response) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, fieldResponseType, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(resp.Kind))
	buf = protowire.AppendTag(buf, fieldResponsePayload, protowire.BytesType)
	buf = protowire.AppendBytes(buf, resp.Payload)
	return buf
}

// EncodeResultSet serializes a row-result payload.
func EncodeResultSet(rs *ResultSet) []byte {
	var buf []byte
	for _, col := range rs.Columns {
		var cb []byte
		cb = appendString(cb, fieldColumnName, col.Name)
		cb = appendMessage(cb, fieldColumnType, EncodeTypeSpec(col.Type))
		buf = appendMessage(buf, fieldResultSetColumns, cb)
	}
	for _, row := range rs.Rows {
		var rb []byte
		for _, v := range row {
			rb = appendMessage(rb, fieldRowValues, EncodeValue(v))
		}
		buf = appendMessage(buf, fieldResultSetRows, rb)
	}
	if len(rs.PagingState) > 0 {
		buf = protowire.AppendTag(buf, fieldResultSetPagingState, protowire.BytesType)
		buf = protowire.AppendBytes(buf, rs.PagingState)
	}
	return buf
}

// EncodeTypeSpec serializes a declared column type.
func EncodeTypeSpec(spec value.TypeSpec) []byte {
	var buf []byte
	buf = protowire.AppendTag(buf, fieldTypeKind, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(spec.Kind))
	for _, arg := range spec.Args {
		buf = appendMessage(buf, fieldTypeArgs, EncodeTypeSpec(arg))
	}
	for _, name := range spec.FieldNames {
		buf = appendString(buf, fieldTypeFields, name)
	}
	return buf
}
