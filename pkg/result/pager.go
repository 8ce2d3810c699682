package result

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/stargate/stargate-grpc-go/pkg/query"
)

// ErrNoMorePages is returned by NextPage once the server signalled the end
// of the result set.
var ErrNoMorePages = errors.New("result: no more pages")

// A Pager drives repeated executions of one query until the server stops
// returning a continuation token. It owns its paging state exclusively; the
// protocol is sequential, so NextPage must not be called concurrently. The
// produced sequence is forward-only and not restartable: re-iterating means
// a fresh query from the beginning.
type Pager struct {
	exec   Executor
	query  query.Query
	logger log.Logger

	fetched   bool
	state     []byte
	exhausted bool
}

// NewPager returns a pager for the given query. No request is issued until
// the first NextPage call.
func NewPager(exec Executor, q query.Query, logger log.Logger) *Pager {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Pager{exec: exec, query: q, logger: logger}
}

// HasMore reports whether another page may be available. It stays true
// after a failed fetch: the failure did not advance the paging state, so
// the same logical next-page request can be retried by the caller.
func (p *Pager) HasMore() bool {
	return !p.exhausted
}

// NextPage executes the query for the next page and returns it. The page is
// applied all-or-nothing: on any transport or protocol failure the pager's
// state is left untouched. After the last page, NextPage returns
// [ErrNoMorePages].
func (p *Pager) NextPage(ctx context.Context) (*ResultSet, error) {
	if p.exhausted {
		return nil, ErrNoMorePages
	}

	q := p.query
	if p.fetched {
		q = q.WithPagingState(p.state)
	}

	resp, err := p.exec.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	page, err := FromResponse(resp)
	if err != nil {
		return nil, err
	}

	p.fetched = true
	p.state = page.PagingState
	if len(page.PagingState) == 0 {
		p.exhausted = true
	}
	level.Debug(p.logger).Log(
		"msg", "fetched result page",
		"rows", len(page.Rows),
		"has_more", !p.exhausted,
	)
	return page, nil
}

// All fetches every remaining page and returns one combined result set with
// the rows in their original order.
func (p *Pager) All(ctx context.Context) (*ResultSet, error) {
	combined, err := p.NextPage(ctx)
	if err != nil {
		return nil, err
	}
	for p.HasMore() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		combined.appendPage(page)
	}
	return combined, nil
}
