// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
)

// Edges returns a SubTask that waits for n rising edges of net and
// resumes with the time of the last one, in steps.
func (b *Bench) Edges(net string, n int) SubTask[uint64] {
	return Sub(func() kont.Eff[uint64] {
		c := b.ChangeTo(net, 1)
		edges := Repeat(n, func(int) kont.Eff[struct{}] { return c.Await() })
		return kont.Bind(edges, func(struct{}) kont.Eff[uint64] {
			return kont.Pure(c.Steps())
		})
	})
}

// Sleep returns a SubTask that resumes delay nanoseconds after it is awaited.
func (b *Bench) Sleep(delay float64) SubTask[struct{}] {
	return b.SleepIn(delay, Ns)
}

// SleepIn is Sleep with the delay given in unit.
func (b *Bench) SleepIn(delay float64, unit TimeUnit) SubTask[struct{}] {
	return Sub(func() kont.Eff[struct{}] {
		return b.WriteIn(delay, unit).Await()
	})
}
