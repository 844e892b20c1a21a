package spirv

import (
	"github.com/plasmaengine/lightningspv/ir"
)

// IDTable assigns dense SPIR-V result ids to IR nodes. Ids start at 1 and
// are frozen once assigned; a table belongs to a single emission.
type IDTable struct {
	next uint32
	ids  map[ir.Ref]uint32
}

// NewIDTable creates an empty table.
func NewIDTable() *IDTable {
	return &IDTable{next: 1, ids: make(map[ir.Ref]uint32)}
}

// GenerateID assigns the next id to ref unless it already has one, and
// returns ref's id.
func (t *IDTable) GenerateID(ref ir.Ref) uint32 {
	if id, ok := t.ids[ref]; ok {
		return id
	}
	id := t.next
	t.ids[ref] = id
	t.next++
	return id
}

// FindID returns ref's id. A missing id is an invariant violation unless
// mustExist is false, in which case 0 is returned.
func (t *IDTable) FindID(ref ir.Ref, mustExist bool) uint32 {
	id, ok := t.ids[ref]
	if !ok && mustExist {
		invariant("FindID", "no id generated for %s %d", ref.Kind, ref.Index)
	}
	return id
}

// Alias gives ref the id already assigned to target.
func (t *IDTable) Alias(ref, target ir.Ref) uint32 {
	id := t.FindID(target, true)
	t.ids[ref] = id
	return id
}

// Bound returns the header id bound: one past the largest id.
func (t *IDTable) Bound() uint32 { return t.next }

// Len returns the number of nodes with an id, counting aliases.
func (t *IDTable) Len() int { return len(t.ids) }
