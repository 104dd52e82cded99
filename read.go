// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
)

// sample is a decoded signal value. nums holds 32-bit words least
// significant first and is consumed by pop.
type sample struct {
	bits string
	nums []uint32
}

// pop removes and returns the most significant remaining number: two words
// joined high-low while at least two remain, then the last single word.
func (s *sample) pop() (uint64, bool) {
	n := len(s.nums)
	switch {
	case n == 0:
		return 0, false
	case n == 1:
		v := s.nums[0]
		s.nums = s.nums[:0]
		return uint64(v), true
	}
	high, low := s.nums[n-1], s.nums[n-2]
	s.nums = s.nums[:n-2]
	return uint64(high)<<32 | uint64(low), true
}

func (s *sample) hex() (string, error) {
	if s.bits == "" {
		return "", nil
	}
	return BinToHex(s.bits)
}

// clock is the resume timestamp shared by Read and Change.
type clock struct {
	b     *Bench
	steps uint64
}

// Steps returns the resume time in simulator steps.
func (c *clock) Steps() uint64 {
	return c.steps
}

// Time returns the resume time in nanoseconds.
func (c *clock) Time() float64 {
	return c.TimeIn(Ns)
}

// TimeIn returns the resume time in unit.
func (c *clock) TimeIn(unit TimeUnit) float64 {
	return fromSteps(c.steps, unit, c.b.step)
}

// Read samples signals at the read-only point of a future time step.
// Values are fetched when the await resumes.
type Read struct {
	clock
	delay uint64
	slots map[string]*sample
}

// Read returns a Read awaiter that samples delay nanoseconds after each
// await. A zero delay samples at the end of the current time step.
func (b *Bench) Read(delay float64) *Read {
	return b.ReadIn(delay, Ns)
}

// ReadIn is Read with the delay given in unit.
func (b *Bench) ReadIn(delay float64, unit TimeUnit) *Read {
	return &Read{clock: clock{b: b}, delay: b.steps(delay, unit), slots: make(map[string]*sample)}
}

// SetDelay changes the delay, in nanoseconds, used by the next await.
func (r *Read) SetDelay(delay float64) {
	r.SetDelayIn(delay, Ns)
}

// SetDelayIn changes the delay, in unit, used by the next await.
func (r *Read) SetDelayIn(delay float64, unit TimeUnit) {
	r.delay = r.b.steps(delay, unit)
}

// Delay returns the delay in simulator steps.
func (r *Read) Delay() uint64 {
	return r.delay
}

// Read adds net to the set sampled by the next await.
// A previous result for net is discarded.
func (r *Read) Read(net string) {
	r.slots[net] = &sample{}
}

// Num pops the numeric form of net. The numeric form keeps only the two
// most significant words: the first call returns them joined, the next
// returns the single remaining word of a narrower signal, and further
// calls return 0.
func (r *Read) Num(net string) uint64 {
	s, ok := r.slots[net]
	if !ok {
		r.b.log.Warn().Str("net", net).Msg("net was not read")
		return 0
	}
	v, ok := s.pop()
	if !ok {
		r.b.log.Warn().Str("net", net).Msg("no numeric value left")
	}
	return v
}

// BinStr returns the four-valued binary string of net, most significant
// bit first, or "" if net was not sampled.
func (r *Read) BinStr(net string) string {
	s, ok := r.slots[net]
	if !ok {
		return ""
	}
	return s.bits
}

// HexStr returns net as a hex string. Quartets mixing 0/1 with x or z
// cannot be expressed and yield an error.
func (r *Read) HexStr(net string) (string, error) {
	s, ok := r.slots[net]
	if !ok {
		return "", nil
	}
	return s.hex()
}

// Await suspends until the read point, then samples every requested net.
func (r *Read) Await() kont.Eff[struct{}] {
	return kont.Perform(AwaitRead{r: r})
}

// AwaitExpr is Await in the Expr world.
func (r *Read) AwaitExpr() kont.Expr[struct{}] {
	return kont.ExprPerform(AwaitRead{r: r})
}

// AwaitRead is the effect operation performed by Read.Await.
type AwaitRead struct {
	kont.Phantom[struct{}]
	r *Read
}

func (op AwaitRead) awaitSuspend(b *Bench, k continuation) bool {
	return b.register(ReadOnlySynch, 0, op.r.delay, b.readPoint, &record{k: k, aw: op})
}

func (op AwaitRead) awaitResume() kont.Resumed {
	r := op.r
	r.steps = r.b.now()
	for net, s := range r.slots {
		h, ok := r.b.NetHandle(net)
		if !ok {
			*s = sample{}
			continue
		}
		words := r.b.src.Value(h)
		s.bits = DecodeString(words)
		s.nums = s.nums[:0]
		switch n := len(words); {
		case n >= 2:
			s.nums = append(s.nums, words[n-2].Value, words[n-1].Value)
		case n == 1:
			s.nums = append(s.nums, words[0].Value)
		}
	}
	return struct{}{}
}
