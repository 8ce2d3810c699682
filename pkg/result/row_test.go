package result_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stargate/stargate-grpc-go/pkg/query"
	"github.com/stargate/stargate-grpc-go/pkg/result"
	"github.com/stargate/stargate-grpc-go/pkg/value"
	"github.com/stargate/stargate-grpc-go/pkg/wire"
)

// fakeExecutor replays a scripted sequence of responses and errors, one per
// Execute call, recording the queries it was handed.
type fakeExecutor struct {
	responses []wire.Response
	errs      []error
	queries   []query.Query
}

func (f *fakeExecutor) Execute(_ context.Context, q query.Query) (wire.Response, error) {
	i := len(f.queries)
	f.queries = append(f.queries, q)
	if i < len(f.errs) && f.errs[i] != nil {
		return wire.Response{}, f.errs[i]
	}
	return f.responses[i], nil
}

func rowsResponse(t *testing.T, cols []wire.ColumnSpec, rows [][]value.Value, pagingState []byte) wire.Response {
	t.Helper()
	return wire.Response{
		Kind: wire.ResultKindRows,
		Payload: wire.EncodeResultSet(&wire.ResultSet{
			Columns:     cols,
			Rows:        rows,
			PagingState: pagingState,
		}),
	}
}

func singleRow(t *testing.T, cols []wire.ColumnSpec, cells ...value.Value) *result.Row {
	t.Helper()
	rs, err := result.FromResponse(rowsResponse(t, cols, [][]value.Value{cells}, nil))
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	return rs.Rows[0]
}

var userColumns = []wire.ColumnSpec{
	{Name: "id", Type: value.TypeSpec{Kind: value.KindInt}},
	{Name: "login", Type: value.TypeSpec{Kind: value.KindString}},
}

func TestRowTakeAt(t *testing.T) {
	row := singleRow(t, userColumns, value.IntValue(1000), value.StringValue("admin"))

	var id int64
	require.NoError(t, row.TakeAt(0, &id))
	require.Equal(t, int64(1000), id)

	t.Run("second take is refused", func(t *testing.T) {
		err := row.TakeAt(0, &id)
		var cerr *value.ConversionError
		require.ErrorAs(t, err, &cerr)
		require.Equal(t, value.AlreadyConsumed, cerr.Kind)
	})

	t.Run("other cells stay readable", func(t *testing.T) {
		var login string
		require.NoError(t, row.TakeAt(1, &login))
		require.Equal(t, "admin", login)
	})
}

func TestRowTakeAt_FailedConversionDoesNotConsume(t *testing.T) {
	row := singleRow(t, userColumns, value.IntValue(1000), value.StringValue("admin"))

	var wrong string
	err := row.TakeAt(0, &wrong)
	var cerr *value.ConversionError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, value.TypeMismatch, cerr.Kind)

	var id int64
	require.NoError(t, row.TakeAt(0, &id))
	require.Equal(t, int64(1000), id)
}

func TestRowTakeAt_OutOfRange(t *testing.T) {
	row := singleRow(t, userColumns, value.IntValue(1), value.StringValue("x"))

	var dst int64
	for _, index := range []int{-1, 2} {
		err := row.TakeAt(index, &dst)
		var cerr *value.ConversionError
		require.ErrorAs(t, err, &cerr)
		require.Equal(t, value.ArityMismatch, cerr.Kind)
		require.Equal(t, index, cerr.Actual)
		require.Equal(t, 2, cerr.Expected)
	}
}

func TestRowTakeByName(t *testing.T) {
	row := singleRow(t, userColumns, value.IntValue(7), value.StringValue("eve"))

	var login string
	require.NoError(t, row.TakeByName("login", &login))
	require.Equal(t, "eve", login)

	t.Run("unknown column", func(t *testing.T) {
		var dst string
		err := row.TakeByName("missing", &dst)
		var cerr *value.ConversionError
		require.ErrorAs(t, err, &cerr)
		require.Equal(t, value.MissingField, cerr.Kind)
		require.Equal(t, "missing", cerr.Field)
	})
}

func TestRowTakeByName_DuplicateResolvesToFirst(t *testing.T) {
	cols := []wire.ColumnSpec{
		{Name: "n", Type: value.TypeSpec{Kind: value.KindInt}},
		{Name: "n", Type: value.TypeSpec{Kind: value.KindInt}},
	}
	row := singleRow(t, cols, value.IntValue(1), value.IntValue(2))

	var n int64
	require.NoError(t, row.TakeByName("n", &n))
	require.Equal(t, int64(1), n)
}

func TestRowPeekAt(t *testing.T) {
	row := singleRow(t, userColumns, value.IntValue(5), value.StringValue("x"))

	var a, b int64
	require.NoError(t, row.PeekAt(0, &a))
	require.NoError(t, row.PeekAt(0, &b))
	require.Equal(t, a, b)

	require.NoError(t, row.TakeAt(0, &a))

	t.Run("peeking a consumed cell fails", func(t *testing.T) {
		err := row.PeekAt(0, &a)
		var cerr *value.ConversionError
		require.ErrorAs(t, err, &cerr)
		require.Equal(t, value.AlreadyConsumed, cerr.Kind)
	})
}

func TestRowScan(t *testing.T) {
	row := singleRow(t, userColumns, value.IntValue(1000), value.StringValue("admin"))

	var id int64
	var login string
	require.NoError(t, row.Scan(&id, &login))
	require.Equal(t, int64(1000), id)
	require.Equal(t, "admin", login)
}

func TestRowScan_WrongArity(t *testing.T) {
	cols := []wire.ColumnSpec{
		{Name: "a", Type: value.TypeSpec{Kind: value.KindInt}},
		{Name: "b", Type: value.TypeSpec{Kind: value.KindInt}},
		{Name: "c", Type: value.TypeSpec{Kind: value.KindInt}},
	}
	row := singleRow(t, cols, value.IntValue(1), value.IntValue(2), value.IntValue(3))

	var a, b int64
	err := row.Scan(&a, &b)
	var cerr *value.ConversionError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, value.ArityMismatch, cerr.Kind)
	require.Equal(t, 3, cerr.Actual)
	require.Equal(t, 2, cerr.Expected)

	// A failed scan does not touch any cell.
	require.NoError(t, row.TakeAt(0, &a))
}

func TestFromResponse_VoidResult(t *testing.T) {
	_, err := result.FromResponse(wire.Response{Kind: wire.ResultKindVoid})
	var pe *wire.ProtocolError
	require.ErrorAs(t, err, &pe)
}

// The canonical usage path: build a query, execute it against a scripted
// server, and scan typed columns out of the answer.
func TestQueryExecuteScan(t *testing.T) {
	q, err := query.New().
		Keyspace("test").
		Consistency(query.LocalQuorum).
		Query("SELECT login, emails FROM users WHERE id = :id").
		BindName("id", 1000).
		Build()
	require.NoError(t, err)

	exec := &fakeExecutor{responses: []wire.Response{
		rowsResponse(t, []wire.ColumnSpec{
			{Name: "login", Type: value.TypeSpec{Kind: value.KindString}},
			{Name: "emails", Type: value.TypeSpec{
				Kind: value.KindList,
				Args: []value.TypeSpec{{Kind: value.KindString}},
			}},
		}, [][]value.Value{
			{
				value.StringValue("user_1"),
				value.ListValue(value.StringValue("a@example.net"), value.StringValue("b@example.net")),
			},
		}, nil),
	}}

	resp, err := exec.Execute(context.Background(), q)
	require.NoError(t, err)
	rs, err := result.FromResponse(resp)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)

	var login string
	var emails []string
	require.NoError(t, rs.Rows[0].Scan(&login, &emails))
	require.Equal(t, "user_1", login)
	require.Equal(t, []string{"a@example.net", "b@example.net"}, emails)
}
