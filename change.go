// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
)

// Change waits for a value change on one net. A targeted Change keeps
// waiting until the new value equals its target.
type Change struct {
	clock
	net      string
	target   uint64
	targeted bool
	value    sample
}

// Change returns an awaiter resuming on the next value change of net.
func (b *Bench) Change(net string) *Change {
	return &Change{clock: clock{b: b}, net: net}
}

// ChangeTo returns an awaiter resuming on the first value change of net
// that leaves it equal to target. Only the value bits of the two least
// significant words take part in the comparison.
func (b *Bench) ChangeTo(net string, target uint64) *Change {
	return &Change{clock: clock{b: b}, net: net, target: target, targeted: true}
}

// Net returns the watched net.
func (c *Change) Net() string {
	return c.net
}

// Num pops the most significant remaining part of the value seen at
// resume: two words joined while at least two remain, then single words.
// It returns 0 once everything was popped.
func (c *Change) Num() uint64 {
	v, ok := c.value.pop()
	if !ok {
		c.b.log.Warn().Str("net", c.net).Msg("no numeric value left")
	}
	return v
}

// BinStr returns the value seen at resume, most significant bit first.
func (c *Change) BinStr() string {
	return c.value.bits
}

// HexStr returns the value seen at resume as a hex string.
func (c *Change) HexStr() (string, error) {
	return c.value.hex()
}

// Await suspends until the watched net changes (to the target, if any).
func (c *Change) Await() kont.Eff[struct{}] {
	return kont.Perform(AwaitChange{c: c})
}

// AwaitExpr is Await in the Expr world.
func (c *Change) AwaitExpr() kont.Expr[struct{}] {
	return kont.ExprPerform(AwaitChange{c: c})
}

// AwaitChange is the effect operation performed by Change.Await.
type AwaitChange struct {
	kont.Phantom[struct{}]
	c *Change
}

func (op AwaitChange) awaitSuspend(b *Bench, k continuation) bool {
	c := op.c
	h, _ := b.NetHandle(c.net)
	rec := &record{k: k, aw: op}
	if !c.targeted {
		return b.register(ValueChange, h, 0, b.valueChanged, rec)
	}
	rec.target = c.target
	rec.width = b.NetWidth(c.net)
	return b.register(ValueChange, h, 0, b.valueChangedTo, rec)
}

func (op AwaitChange) awaitResume() kont.Resumed {
	c := op.c
	c.steps = c.b.now()
	c.value.bits = ""
	c.value.nums = c.value.nums[:0]
	h, ok := c.b.NetHandle(c.net)
	if !ok {
		return struct{}{}
	}
	words := c.b.src.Value(h)
	c.value.bits = DecodeString(words)
	for _, w := range words {
		c.value.nums = append(c.value.nums, w.Value)
	}
	return struct{}{}
}
