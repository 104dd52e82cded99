// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
)

// pendingWrite is one entry of the pending-write set.
// An empty bits means the numeric value is written.
type pendingWrite struct {
	bits string
	num  uint64
	flag PutFlag
}

// Write groups signal writes that are applied together once a delay
// elapses. The pending set is keyed by net; a later write to the same net
// replaces the earlier one but keeps its place. Writes are applied in the
// order their nets were first written. The set is cleared after every await.
type Write struct {
	b       *Bench
	delay   uint64
	pending map[string]pendingWrite
	order   []string
}

// Write returns a Write awaiter applying its writes delay nanoseconds
// after each await. A zero delay applies them in the current time step.
func (b *Bench) Write(delay float64) *Write {
	return b.WriteIn(delay, Ns)
}

// WriteIn is Write with the delay given in unit.
func (b *Bench) WriteIn(delay float64, unit TimeUnit) *Write {
	return &Write{b: b, delay: b.steps(delay, unit), pending: make(map[string]pendingWrite)}
}

// SetDelay changes the delay, in nanoseconds, used by the next await.
func (w *Write) SetDelay(delay float64) {
	w.SetDelayIn(delay, Ns)
}

// SetDelayIn changes the delay, in unit, used by the next await.
func (w *Write) SetDelayIn(delay float64, unit TimeUnit) {
	w.delay = w.b.steps(delay, unit)
}

// Delay returns the delay in simulator steps.
func (w *Write) Delay() uint64 {
	return w.delay
}

// Pending returns the number of writes waiting for the next await.
func (w *Write) Pending() int {
	return len(w.pending)
}

// Write schedules a plain numeric write of v to net.
func (w *Write) Write(net string, v uint64) {
	w.set(net, pendingWrite{num: v, flag: NoDelay})
}

// WriteBin schedules a plain write of the four-valued binary string bits.
func (w *Write) WriteBin(net, bits string) error {
	return w.addBits(net, bits, NoDelay)
}

// WriteHex schedules a plain write of a hex string; x and z digits are allowed.
func (w *Write) WriteHex(net, hex string) error {
	return w.addHex(net, hex, NoDelay)
}

// Force schedules a forced numeric write of v to net.
func (w *Write) Force(net string, v uint64) {
	w.set(net, pendingWrite{num: v, flag: Force})
}

// ForceBin schedules a forced write of a four-valued binary string.
func (w *Write) ForceBin(net, bits string) error {
	return w.addBits(net, bits, Force)
}

// ForceHex schedules a forced write of a hex string.
func (w *Write) ForceHex(net, hex string) error {
	return w.addHex(net, hex, Force)
}

// Release schedules the release of a forced value on net.
func (w *Write) Release(net string) {
	w.set(net, pendingWrite{flag: Release})
}

func (w *Write) set(net string, pw pendingWrite) {
	if _, ok := w.pending[net]; !ok {
		w.order = append(w.order, net)
	}
	w.pending[net] = pw
}

func (w *Write) addBits(net, bits string, flag PutFlag) error {
	if err := ValidateBin(bits); err != nil {
		w.b.log.Warn().Err(err).Str("net", net).Msg("write rejected")
		return errors.WithMessagef(err, "write %s", net)
	}
	if bits == "" {
		bits = "0"
	}
	w.set(net, pendingWrite{bits: bits, flag: flag})
	return nil
}

func (w *Write) addHex(net, hex string, flag PutFlag) error {
	bits, err := HexToBin(hex)
	if err != nil {
		w.b.log.Warn().Err(err).Str("net", net).Msg("write rejected")
		return errors.WithMessagef(err, "write %s", net)
	}
	return w.addBits(net, bits, flag)
}

// Await suspends until the delay elapses, then applies the pending writes.
func (w *Write) Await() kont.Eff[struct{}] {
	return kont.Perform(AwaitWrite{w: w})
}

// AwaitExpr is Await in the Expr world.
func (w *Write) AwaitExpr() kont.Expr[struct{}] {
	return kont.ExprPerform(AwaitWrite{w: w})
}

// AwaitWrite is the effect operation performed by Write.Await.
type AwaitWrite struct {
	kont.Phantom[struct{}]
	w *Write
}

// Write returns the awaiter the operation belongs to.
func (op AwaitWrite) Write() *Write {
	return op.w
}

func (op AwaitWrite) awaitSuspend(b *Bench, k continuation) bool {
	return b.register(AfterDelay, 0, op.w.delay, b.delayElapsed, &record{k: k, aw: op})
}

// awaitResume applies and clears the pending-write set.
func (op AwaitWrite) awaitResume() kont.Resumed {
	w := op.w
	for _, net := range w.order {
		w.apply(net, w.pending[net])
	}
	clear(w.pending)
	w.order = w.order[:0]
	return struct{}{}
}

func (w *Write) apply(net string, pw pendingWrite) {
	h, ok := w.b.NetHandle(net)
	if !ok {
		return
	}
	width := w.b.NetWidth(net)
	var words []Word
	if pw.bits == "" {
		words = EncodeUint(pw.num, width)
	} else {
		var err error
		if words, err = EncodeString(pw.bits, width); err != nil {
			w.b.log.Warn().Err(err).Str("net", net).Msg("write dropped")
			return
		}
	}
	w.b.src.Put(h, words, pw.flag)
}
