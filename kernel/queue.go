// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kernel

import (
	"container/heap"

	"code.hybscloud.com/simco"
)

// phase orders events inside one time step.
type phase uint8

const (
	phaseActive phase = iota
	phaseReadOnly
)

// event is one scheduled firing of a one-shot registration.
type event struct {
	time  uint64
	phase phase
	seq   uint64
	cb    simco.CallbackHandle
}

// eventQueue is a min-heap on (time, phase, seq).
type eventQueue []event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.time != b.time {
		return a.time < b.time
	}
	if a.phase != b.phase {
		return a.phase < b.phase
	}
	return a.seq < b.seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}

func (q *eventQueue) schedule(ev event) { heap.Push(q, ev) }

func (q *eventQueue) next() event { return heap.Pop(q).(event) }

func (q eventQueue) peek() (event, bool) {
	if len(q) == 0 {
		return event{}, false
	}
	return q[0], true
}
