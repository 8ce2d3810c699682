// Package result turns decoded query responses into typed rows and drives
// result-set paging.
package result

import (
	"context"

	"github.com/stargate/stargate-grpc-go/pkg/query"
	"github.com/stargate/stargate-grpc-go/pkg/wire"
)

// Executor is the execution hand-off contract: one asynchronous
// request/response exchange per call, at-most-once, no internal retry.
// *client.Client implements it; tests substitute their own.
type Executor interface {
	Execute(ctx context.Context, q query.Query) (wire.Response, error)
}

// A ResultSet is the decoded outcome of one query execution: ordered column
// metadata and the rows of a single page. The Pager appends further pages
// to Rows; everything else is read-only after construction.
type ResultSet struct {
	Columns []wire.ColumnSpec
	Rows    []*Row

	// PagingState is the continuation token of the last decoded page. Empty
	// means the result set is complete.
	PagingState []byte
}

// FromResponse converts a response envelope into a ResultSet. A response
// that does not carry a row-result payload is a protocol error.
func FromResponse(resp wire.Response) (*ResultSet, error) {
	if resp.Kind != wire.ResultKindRows {
		return nil, &wire.ProtocolError{
			Reason: "expected a rows result, got " + resp.Kind.String(),
		}
	}
	decoded, err := wire.DecodeResultSet(resp.Payload)
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{
		Columns:     decoded.Columns,
		PagingState: decoded.PagingState,
	}
	rs.Rows = make([]*Row, len(decoded.Rows))
	for i, raw := range decoded.Rows {
		rs.Rows[i] = newRow(rs, raw)
	}
	return rs, nil
}

// columnIndex resolves a column name to its position. Duplicate names are
// permitted by the protocol (e.g. via aliasing) and resolve to the first
// occurrence.
func (rs *ResultSet) columnIndex(name string) (int, bool) {
	for i, col := range rs.Columns {
		if col.Name == name {
			return i, true
		}
	}
	return 0, false
}

// appendPage attaches the rows of a freshly decoded page and adopts its
// paging state. Page application is all-or-nothing: the caller only invokes
// this with a fully decoded page.
func (rs *ResultSet) appendPage(page *ResultSet) {
	for _, row := range page.Rows {
		row.owner = rs
		rs.Rows = append(rs.Rows, row)
	}
	rs.PagingState = page.PagingState
}
