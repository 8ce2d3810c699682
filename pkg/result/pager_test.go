package result_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/stargate/stargate-grpc-go/pkg/query"
	"github.com/stargate/stargate-grpc-go/pkg/result"
	"github.com/stargate/stargate-grpc-go/pkg/value"
	"github.com/stargate/stargate-grpc-go/pkg/wire"
)

var numberColumn = []wire.ColumnSpec{
	{Name: "n", Type: value.TypeSpec{Kind: value.KindInt}},
}

func numberRows(from, count int) [][]value.Value {
	rows := make([][]value.Value, count)
	for i := range rows {
		rows[i] = []value.Value{value.IntValue(int64(from + i))}
	}
	return rows
}

func pagedQuery(t *testing.T) query.Query {
	t.Helper()
	q, err := query.New().
		Query("SELECT n FROM numbers").
		PageSize(2).
		Build()
	require.NoError(t, err)
	return q
}

func TestPager(t *testing.T) {
	exec := &fakeExecutor{responses: []wire.Response{
		rowsResponse(t, numberColumn, numberRows(0, 2), []byte("t1")),
		rowsResponse(t, numberColumn, numberRows(2, 2), []byte("t2")),
		rowsResponse(t, numberColumn, numberRows(4, 1), nil),
	}}
	pager := result.NewPager(exec, pagedQuery(t), nil)

	var got []int64
	for pager.HasMore() {
		page, err := pager.NextPage(context.Background())
		require.NoError(t, err)
		for _, row := range page.Rows {
			var n int64
			require.NoError(t, row.TakeAt(0, &n))
			got = append(got, n)
		}
	}
	require.Equal(t, []int64{0, 1, 2, 3, 4}, got)
	require.False(t, pager.HasMore())

	_, err := pager.NextPage(context.Background())
	require.ErrorIs(t, err, result.ErrNoMorePages)

	// The first request carries no paging state, each later one carries the
	// token of the page before it.
	require.Len(t, exec.queries, 3)
	require.Empty(t, exec.queries[0].PagingState)
	require.Equal(t, []byte("t1"), exec.queries[1].PagingState)
	require.Equal(t, []byte("t2"), exec.queries[2].PagingState)
}

func TestPager_FailedFetchIsRetryable(t *testing.T) {
	boom := errors.New("connection reset")
	exec := &fakeExecutor{
		responses: []wire.Response{
			rowsResponse(t, numberColumn, numberRows(0, 2), []byte("t1")),
			{},
			rowsResponse(t, numberColumn, numberRows(2, 1), nil),
		},
		errs: []error{nil, boom, nil},
	}
	pager := result.NewPager(exec, pagedQuery(t), nil)

	first, err := pager.NextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Rows, 2)

	_, err = pager.NextPage(context.Background())
	require.ErrorIs(t, err, boom)
	require.True(t, pager.HasMore())

	// The retry re-issues the same logical request.
	second, err := pager.NextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, second.Rows, 1)
	require.False(t, pager.HasMore())
	require.Equal(t, exec.queries[1].PagingState, exec.queries[2].PagingState)
}

func TestPagerAll(t *testing.T) {
	exec := &fakeExecutor{responses: []wire.Response{
		rowsResponse(t, numberColumn, numberRows(0, 2), []byte("t1")),
		rowsResponse(t, numberColumn, numberRows(2, 2), []byte("t2")),
		rowsResponse(t, numberColumn, numberRows(4, 1), nil),
	}}
	pager := result.NewPager(exec, pagedQuery(t), nil)

	rs, err := pager.All(context.Background())
	require.NoError(t, err)
	require.Len(t, rs.Rows, 5)
	require.Empty(t, rs.PagingState)

	// Rows from later pages resolve names against the combined set.
	var n int64
	require.NoError(t, rs.Rows[4].TakeByName("n", &n))
	require.Equal(t, int64(4), n)
}

func TestPager_SinglePage(t *testing.T) {
	exec := &fakeExecutor{responses: []wire.Response{
		rowsResponse(t, numberColumn, numberRows(0, 1), nil),
	}}
	pager := result.NewPager(exec, pagedQuery(t), nil)

	page, err := pager.NextPage(context.Background())
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	require.False(t, pager.HasMore())
	require.Len(t, exec.queries, 1)
}
