// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kernel

import (
	"code.hybscloud.com/simco"
)

// net is a four-valued signal with an optional forced value.
type net struct {
	name     string
	width    uint32
	driven   []simco.Word
	forced   []simco.Word
	isForced bool
	watchers []simco.CallbackHandle
}

func newNet(name string, width uint32) *net {
	return &net{
		name:   name,
		width:  width,
		driven: make([]simco.Word, simco.WordCount(width)),
	}
}

// value returns the effective value: the forced one while forced.
func (n *net) value() []simco.Word {
	if n.isForced {
		return n.forced
	}
	return n.driven
}

// fit copies v into a vector of the net width. Missing words read as 0
// and bits above the width are cleared.
func (n *net) fit(v []simco.Word) []simco.Word {
	out := make([]simco.Word, simco.WordCount(n.width))
	copy(out, v)
	if r := n.width % 32; r != 0 && len(out) > 0 {
		keep := uint32(1)<<r - 1
		top := &out[len(out)-1]
		top.Value &= keep
		top.Mask &= keep
	}
	return out
}

// put applies a write and reports whether the effective value changed.
func (n *net) put(v []simco.Word, flag simco.PutFlag) bool {
	before := n.value()
	switch flag {
	case simco.Force:
		n.forced = n.fit(v)
		n.isForced = true
	case simco.Release:
		n.isForced = false
		n.forced = nil
	default:
		n.driven = n.fit(v)
	}
	return !equal(before, n.value())
}

// bits renders the effective value as a binary string of exactly width bits.
func (n *net) bits() string {
	s := simco.DecodeString(n.value())
	return s[len(s)-int(n.width):]
}

func (n *net) unwatch(h simco.CallbackHandle) {
	for i, w := range n.watchers {
		if w == h {
			n.watchers = append(n.watchers[:i], n.watchers[i+1:]...)
			return
		}
	}
}

func equal(a, b []simco.Word) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
