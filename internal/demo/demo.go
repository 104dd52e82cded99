// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package demo holds the demonstration scenarios run by cmd/simco against
// the bundled design.
package demo

import (
	_ "embed"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/simco"
)

// Design is the YAML description of the bundled design.
//
//go:embed design.yaml
var Design []byte

// HalfPeriod is the clock half period in nanoseconds.
const HalfPeriod = 5

// Nets declares the nets of the bundled design on b.
func Nets(b *simco.Bench) {
	b.AddNet("clk", 1)
	b.AddNet("rst", 1)
	b.AddNet("a", 3)
	b.AddNet("b", 40)
	b.AddNet("c", 16)
}

// Register adds every demo scenario to r. The clock runs for cycles periods.
func Register(r *simco.Registry, cycles int) {
	r.Scenario("clock_gen", func(b *simco.Bench) kont.Eff[struct{}] { return ClockGen(b, cycles) })
	r.Scenario("counter", Counter)
	r.Scenario("reset", Reset)
	r.Scenario("watch", Watch)
	r.Scenario("wide", Wide)
}

// ClockGen toggles clk every HalfPeriod nanoseconds for cycles periods.
func ClockGen(b *simco.Bench, cycles int) kont.Eff[struct{}] {
	w := b.Write(HalfPeriod)
	return simco.Repeat(cycles, func(int) kont.Eff[struct{}] {
		w.Write("clk", 1)
		return kont.Bind(w.Await(), func(struct{}) kont.Eff[struct{}] {
			w.Write("clk", 0)
			return w.Await()
		})
	})
}

// Counter increments c on every rising clock edge while rst is low.
func Counter(b *simco.Bench) kont.Eff[struct{}] {
	edge := b.ChangeTo("clk", 1)
	r := b.Read(0)
	w := b.Write(0)
	return simco.Forever(func() kont.Eff[struct{}] {
		return simco.ChangeThen(edge, func(*simco.Change) kont.Eff[struct{}] {
			r.Read("rst")
			r.Read("c")
			return simco.ReadThen(r, func(r *simco.Read) kont.Eff[struct{}] {
				if r.Num("rst") != 0 {
					w.Write("c", 0)
				} else {
					w.Write("c", (r.Num("c")+1)&0xffff)
				}
				return w.Await()
			})
		})
	})
}

// Reset pulses rst, then forces c to 0xabcd 12ns later and releases it
// 2ns after that.
func Reset(b *simco.Bench) kont.Eff[struct{}] {
	log := b.Logger()
	w := b.Write(0)
	w.Write("rst", 1)
	return simco.WriteThen(w, simco.SubBind(b.Sleep(12), func(struct{}) kont.Eff[struct{}] {
		w.Write("rst", 0)
		if err := w.ForceHex("c", "abcd"); err != nil {
			return simco.Fail[struct{}](err)
		}
		return kont.Bind(w.Await(), func(struct{}) kont.Eff[struct{}] {
			log.Info().Msg("forced c")
			w.SetDelay(2)
			w.Release("c")
			return kont.Bind(w.Await(), func(struct{}) kont.Eff[struct{}] {
				log.Info().Msg("released c")
				return simco.Done()
			})
		})
	}))
}

// Watch waits for two changes of c and logs them.
func Watch(b *simco.Bench) kont.Eff[struct{}] {
	log := b.Logger()
	c := b.Change("c")
	return simco.Repeat(2, func(i int) kont.Eff[struct{}] {
		return simco.ChangeThen(c, func(c *simco.Change) kont.Eff[struct{}] {
			hex, err := c.HexStr()
			if err != nil {
				return simco.Fail[struct{}](err)
			}
			log.Info().Int("change", i).Str("c", hex).Float64("ns", c.Time()).Msg("c changed")
			return simco.Done()
		})
	})
}

// Wide waits 7.25ns and for a rising clock edge, writes the 40-bit b and
// the 3-bit a, then reads c back.
func Wide(b *simco.Bench) kont.Eff[struct{}] {
	log := b.Logger()
	w := b.Write(7.25)
	r := b.Read(0)
	edge := b.ChangeTo("clk", 1)
	return simco.WriteThen(w, simco.ChangeThen(edge, func(*simco.Change) kont.Eff[struct{}] {
		w.SetDelay(0)
		w.Write("b", 0xc000000000)
		if err := w.WriteBin("a", "111"); err != nil {
			return simco.Fail[struct{}](err)
		}
		r.Read("c")
		r.Read("b")
		return simco.WriteThen(w, simco.ReadThen(r, func(r *simco.Read) kont.Eff[struct{}] {
			log.Info().
				Str("c", r.BinStr("c")).
				Uint64("b", r.Num("b")).
				Float64("ns", r.Time()).
				Msg("read back")
			return simco.Done()
		}))
	}))
}
