// Package query builds immutable CQL query descriptors with named or
// positional bind parameters.
package query

import "github.com/stargate/stargate-grpc-go/pkg/value"

// Params holds the bind parameters of a query. Exactly one of Positional and
// Named is populated; a query never mixes the two styles.
type Params struct {
	// Positional parameters, in bind order.
	Positional []value.Value

	// Named parameters. Insertion order is irrelevant; names are unique.
	Named map[string]value.Value
}

// IsEmpty reports whether no parameter was bound.
func (p Params) IsEmpty() bool {
	return len(p.Positional) == 0 && len(p.Named) == 0
}

// A Query is an immutable descriptor of a single CQL statement and its
// execution parameters. Queries are created by [Builder.Build] and must not
// be modified afterwards; derive variants with [Query.WithPagingState].
type Query struct {
	CQL      string
	Keyspace string // empty means the session default or a fully-qualified statement

	Consistency       Consistency
	SerialConsistency Consistency // used only by lightweight transactions; 0 = unset
	Params            Params

	PageSize    int32 // maximum rows per response; 0 = server default
	PagingState []byte
	Tracing     bool
	Timestamp   int64 // query timestamp in microseconds; 0 = server-assigned
}

// WithPagingState returns a copy of the query that resumes the result set at
// the given continuation token. The receiver is left untouched.
func (q Query) WithPagingState(state []byte) Query {
	q.PagingState = append([]byte(nil), state...)
	return q
}
