package result

import (
	"fmt"

	"github.com/stargate/stargate-grpc-go/pkg/value"
)

// A Row owns its cells exclusively. Extraction consumes a cell: the slot is
// tombstoned and a second read of the same position is refused. This guards
// against accidentally interpreting the same bytes as two different types.
type Row struct {
	owner *ResultSet
	cells []cell
}

type cell struct {
	val      value.Value
	consumed bool
}

func newRow(owner *ResultSet, values []value.Value) *Row {
	cells := make([]cell, len(values))
	for i, v := range values {
		cells[i] = cell{val: v}
	}
	return &Row{owner: owner, cells: cells}
}

// Len returns the number of cells, consumed or not.
func (r *Row) Len() int {
	return len(r.cells)
}

// TakeAt extracts the cell at the given position into dst, consuming it.
// An out-of-range index is an arity mismatch; a repeated extraction is an
// AlreadyConsumed error. The cell is consumed only when the conversion
// succeeds, so a type mismatch leaves it readable with the right target.
func (r *Row) TakeAt(index int, dst any) error {
	c, err := r.cellAt(index)
	if err != nil {
		return err
	}
	if err := value.Unmarshal(c.val, dst); err != nil {
		return err
	}
	c.consumed = true
	c.val = value.Value{} // tombstone; drop any payload references
	return nil
}

// TakeByName extracts the cell of the named column, consuming it. The name
// resolves against the owning result set's column specs; duplicates resolve
// to the first occurrence.
func (r *Row) TakeByName(name string, dst any) error {
	index, ok := r.owner.columnIndex(name)
	if !ok {
		return value.MissingFieldError(value.NullValue(), "row", name)
	}
	return r.TakeAt(index, dst)
}

// PeekAt reads the cell at the given position without consuming it. It is
// the deliberate, separately named escape hatch from the consuming
// discipline; peeking an already consumed cell still fails.
func (r *Row) PeekAt(index int, dst any) error {
	c, err := r.cellAt(index)
	if err != nil {
		return err
	}
	return value.Unmarshal(c.val, dst)
}

// Scan consumes the entire row left-to-right into the given destinations.
// The destination count must match the cell count exactly.
func (r *Row) Scan(dsts ...any) error {
	if len(dsts) != len(r.cells) {
		return value.ArityMismatchError(r.describe(), "scan destinations", len(r.cells), len(dsts))
	}
	for i, dst := range dsts {
		if err := r.TakeAt(i, dst); err != nil {
			return err
		}
	}
	return nil
}

func (r *Row) cellAt(index int) (*cell, error) {
	if index < 0 || index >= len(r.cells) {
		return nil, value.ArityMismatchError(r.describe(), "cell index", index, len(r.cells))
	}
	c := &r.cells[index]
	if c.consumed {
		return nil, value.AlreadyConsumedError(fmt.Sprintf("%s cell %d", r.describe(), index))
	}
	return c, nil
}

func (r *Row) describe() string {
	return fmt.Sprintf("row of %d cells", len(r.cells))
}
