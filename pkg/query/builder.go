package query

import (
	"github.com/pkg/errors"

	"github.com/stargate/stargate-grpc-go/pkg/value"
)

var (
	// ErrMixedBindingStyle is returned by Build when both named and
	// positional parameters were bound on the same builder.
	ErrMixedBindingStyle = errors.New("query: cannot mix named and positional bind parameters")

	// ErrDuplicateParameterName is returned by Build when the same name was
	// bound twice. Last-write-wins would silently shadow caller intent, so
	// the builder rejects it instead.
	ErrDuplicateParameterName = errors.New("query: duplicate bind parameter name")

	// ErrMissingCQL is returned by Build when no query string was set.
	ErrMissingCQL = errors.New("query: no CQL statement set")
)

// Builder assembles a [Query]. Methods chain; misuse is recorded and
// surfaced by [Builder.Build], never by a panic. The zero Builder is ready
// for use.
type Builder struct {
	cql      string
	keyspace string

	consistency       Consistency
	hasConsistency    bool
	serialConsistency Consistency

	positional []value.Value
	named      map[string]value.Value

	pageSize    int32
	pagingState []byte
	tracing     bool
	timestamp   int64

	mixed bool
	err   error
}

// New returns an empty query builder.
func New() *Builder {
	return &Builder{}
}

// Query sets the CQL statement.
func (b *Builder) Query(cql string) *Builder {
	b.cql = cql
	return b
}

// Keyspace sets the keyspace the statement applies to. When unset, the
// statement must be fully qualified or the session default applies.
func (b *Builder) Keyspace(ks string) *Builder {
	b.keyspace = ks
	return b
}

// Consistency sets the consistency level. Unset defaults to
// [DefaultConsistency].
func (b *Builder) Consistency(c Consistency) *Builder {
	b.consistency = c
	b.hasConsistency = true
	return b
}

// SerialConsistency sets the serial consistency level for lightweight
// transactions.
func (b *Builder) SerialConsistency(c Consistency) *Builder {
	b.serialConsistency = c
	return b
}

// PageSize caps the number of rows returned in a single response.
func (b *Builder) PageSize(n int32) *Builder {
	b.pageSize = n
	return b
}

// PagingState resumes the result set at a previously returned continuation
// token.
func (b *Builder) PagingState(state []byte) *Builder {
	b.pagingState = append([]byte(nil), state...)
	return b
}

// Tracing asks the server to collect tracing information for the query.
func (b *Builder) Tracing(enabled bool) *Builder {
	b.tracing = enabled
	return b
}

// Timestamp sets the query timestamp in microseconds.
func (b *Builder) Timestamp(micros int64) *Builder {
	b.timestamp = micros
	return b
}

// Bind appends positional parameters. Each argument is converted with
// [value.Marshal].
func (b *Builder) Bind(vals ...any) *Builder {
	if len(b.named) > 0 {
		b.mixed = true
	}
	for _, v := range vals {
		encoded, err := value.Marshal(v)
		if err != nil {
			b.recordErr(err)
			return b
		}
		b.positional = append(b.positional, encoded)
	}
	return b
}

// BindAt sets the positional parameter at the given index. Skipped-over
// positions are filled with unset markers.
func (b *Builder) BindAt(index int, v any) *Builder {
	if len(b.named) > 0 {
		b.mixed = true
	}
	encoded, err := value.Marshal(v)
	if err != nil {
		b.recordErr(err)
		return b
	}
	for index >= len(b.positional) {
		b.positional = append(b.positional, value.UnsetValue())
	}
	b.positional[index] = encoded
	return b
}

// BindName binds a named parameter. Binding the same name twice is rejected
// at Build time with [ErrDuplicateParameterName].
func (b *Builder) BindName(name string, v any) *Builder {
	if len(b.positional) > 0 {
		b.mixed = true
	}
	encoded, err := value.Marshal(v)
	if err != nil {
		b.recordErr(err)
		return b
	}
	if b.named == nil {
		b.named = make(map[string]value.Value)
	}
	if _, dup := b.named[name]; dup {
		b.recordErr(errors.Wrapf(ErrDuplicateParameterName, "%q", name))
		return b
	}
	b.named[name] = encoded
	return b
}

// BindStruct binds every field of a record as a named parameter in one call.
// Field names follow the same `cql` tag rules as [value.Marshal].
func (b *Builder) BindStruct(record any) *Builder {
	encoded, err := value.Marshal(record)
	if err != nil {
		b.recordErr(err)
		return b
	}
	fields, err := encoded.Fields()
	if err != nil {
		b.recordErr(errors.Wrap(err, "query: BindStruct needs a struct record"))
		return b
	}
	for _, f := range fields {
		b.BindName(f.Name, f.Val)
	}
	return b
}

func (b *Builder) recordErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build produces the immutable [Query]. It fails if the builder was misused:
// no CQL set, mixed binding styles, a duplicate parameter name, or a bind
// value that could not be converted.
func (b *Builder) Build() (Query, error) {
	switch {
	case b.err != nil:
		return Query{}, b.err
	case b.mixed:
		return Query{}, ErrMixedBindingStyle
	case b.cql == "":
		return Query{}, ErrMissingCQL
	}

	consistency := b.consistency
	if !b.hasConsistency {
		consistency = DefaultConsistency
	}

	return Query{
		CQL:               b.cql,
		Keyspace:          b.keyspace,
		Consistency:       consistency,
		SerialConsistency: b.serialConsistency,
		Params: Params{
			Positional: append([]value.Value(nil), b.positional...),
			Named:      copyNamed(b.named),
		},
		PageSize:    b.pageSize,
		PagingState: b.pagingState,
		Tracing:     b.tracing,
		Timestamp:   b.timestamp,
	}, nil
}

func copyNamed(src map[string]value.Value) map[string]value.Value {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]value.Value, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
