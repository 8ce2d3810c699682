package query

// A Batch is an immutable group of statements executed together. Build one
// with [BatchBuilder].
type Batch struct {
	Queries []BatchQuery

	Keyspace          string
	Consistency       Consistency
	SerialConsistency Consistency
	Tracing           bool
	Timestamp         int64
}

// BatchQuery is one statement of a batch with its own bind parameters.
type BatchQuery struct {
	CQL    string
	Params Params
}

// BatchBuilder assembles a [Batch]. Each call to [BatchBuilder.Query] starts
// a new statement; the bind methods apply to the most recently added one.
type BatchBuilder struct {
	queries []BatchQuery
	current *Builder

	keyspace          string
	consistency       Consistency
	hasConsistency    bool
	serialConsistency Consistency
	tracing           bool
	timestamp         int64

	err error
}

// NewBatch returns an empty batch builder.
func NewBatch() *BatchBuilder {
	return &BatchBuilder{}
}

// Query adds a statement to the batch.
func (b *BatchBuilder) Query(cql string) *BatchBuilder {
	b.finalize()
	b.current = New().Query(cql)
	return b
}

// Bind appends positional parameters to the most recently added statement.
func (b *BatchBuilder) Bind(vals ...any) *BatchBuilder {
	if b.current != nil {
		b.current.Bind(vals...)
	}
	return b
}

// BindAt sets a positional parameter of the most recently added statement.
func (b *BatchBuilder) BindAt(index int, v any) *BatchBuilder {
	if b.current != nil {
		b.current.BindAt(index, v)
	}
	return b
}

// BindName binds a named parameter of the most recently added statement.
func (b *BatchBuilder) BindName(name string, v any) *BatchBuilder {
	if b.current != nil {
		b.current.BindName(name, v)
	}
	return b
}

// BindStruct binds every field of a record as named parameters of the most
// recently added statement.
func (b *BatchBuilder) BindStruct(record any) *BatchBuilder {
	if b.current != nil {
		b.current.BindStruct(record)
	}
	return b
}

// Keyspace sets the keyspace every statement in the batch applies to.
func (b *BatchBuilder) Keyspace(ks string) *BatchBuilder {
	b.keyspace = ks
	return b
}

// Consistency sets the consistency level of the whole batch.
func (b *BatchBuilder) Consistency(c Consistency) *BatchBuilder {
	b.consistency = c
	b.hasConsistency = true
	return b
}

// SerialConsistency sets the serial consistency level of the whole batch.
func (b *BatchBuilder) SerialConsistency(c Consistency) *BatchBuilder {
	b.serialConsistency = c
	return b
}

// Tracing asks the server to collect tracing information for the batch.
func (b *BatchBuilder) Tracing(enabled bool) *BatchBuilder {
	b.tracing = enabled
	return b
}

// Timestamp sets the batch timestamp in microseconds.
func (b *BatchBuilder) Timestamp(micros int64) *BatchBuilder {
	b.timestamp = micros
	return b
}

func (b *BatchBuilder) finalize() {
	if b.current == nil {
		return
	}
	q, err := b.current.Build()
	b.current = nil
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return
	}
	b.queries = append(b.queries, BatchQuery{CQL: q.CQL, Params: q.Params})
}

// Build produces the immutable [Batch], or the first recorded misuse error.
func (b *BatchBuilder) Build() (Batch, error) {
	b.finalize()
	if b.err != nil {
		return Batch{}, b.err
	}

	consistency := b.consistency
	if !b.hasConsistency {
		consistency = DefaultConsistency
	}
	return Batch{
		Queries:           b.queries,
		Keyspace:          b.keyspace,
		Consistency:       consistency,
		SerialConsistency: b.serialConsistency,
		Tracing:           b.tracing,
		Timestamp:         b.timestamp,
	}, nil
}
