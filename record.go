// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
)

// defaultRecordSlots sizes the free list of recycled record slots.
// Slots released while it is full wait in an overflow list instead.
const defaultRecordSlots = 256

// resumer is the post-event half of an awaiter: it runs after the matching
// callback fired and produces the value the suspended computation resumes with.
type resumer interface {
	awaitResume() kont.Resumed
}

// record is the per-suspension block handed to the Source as opaque
// context. It lives from registration until its callback is consumed,
// or only until the registration call if the Source refuses it.
type record struct {
	k      continuation
	aw     resumer
	target uint64
	width  uint32
	cb     CallbackHandle
}

// slot holds a record and the generation that tags ids pointing at it.
type slot struct {
	rec *record
	gen uint32
}

// recordTable owns every live record. Ids carry the slot generation in the
// high half so a firing for a released record cannot reach its successor.
type recordTable struct {
	slots []slot
	free  lfq.SPSC[uint32]
	spill []uint32
	live  int
}

func (t *recordTable) init(capacity int) {
	if capacity <= 0 {
		capacity = defaultRecordSlots
	}
	t.free.Init(capacity)
}

// hold stores rec and returns its id.
func (t *recordTable) hold(rec *record) uint64 {
	idx, err := t.free.Dequeue()
	if err != nil {
		if n := len(t.spill); n > 0 {
			idx = t.spill[n-1]
			t.spill = t.spill[:n-1]
		} else {
			idx = uint32(len(t.slots))
			t.slots = append(t.slots, slot{})
		}
	}
	s := &t.slots[idx]
	s.rec = rec
	t.live++
	return uint64(s.gen)<<32 | uint64(idx)
}

// lookup returns the record named by id, if it is still held.
func (t *recordTable) lookup(id uint64) (*record, bool) {
	idx := uint32(id)
	if int(idx) >= len(t.slots) {
		return nil, false
	}
	s := &t.slots[idx]
	if s.rec == nil || s.gen != uint32(id>>32) {
		return nil, false
	}
	return s.rec, true
}

// release drops the record named by id. Releasing twice is a no-op.
func (t *recordTable) release(id uint64) {
	if _, ok := t.lookup(id); !ok {
		return
	}
	idx := uint32(id)
	s := &t.slots[idx]
	s.rec = nil
	s.gen++
	t.live--
	if err := t.free.Enqueue(&idx); err != nil {
		t.spill = append(t.spill, idx)
	}
}
