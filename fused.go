// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
)

// WriteThen applies the pending writes of w and then continues with next.
// Fuses Perform(AwaitWrite{}) + Then.
func WriteThen[B any](w *Write, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(AwaitWrite{w: w}), next)
}

// ReadThen samples the nets of r and passes r to f.
// Fuses Perform(AwaitRead{}) + Bind.
func ReadThen[B any](r *Read, f func(*Read) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(AwaitRead{r: r}), func(struct{}) kont.Eff[B] {
		return f(r)
	})
}

// ChangeThen waits for c and passes it to f.
// Fuses Perform(AwaitChange{}) + Bind.
func ChangeThen[B any](c *Change, f func(*Change) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(AwaitChange{c: c}), func(struct{}) kont.Eff[B] {
		return f(c)
	})
}

// SubBind awaits s and passes its result to f.
// Fuses Perform(AwaitSub[R]{}) + Bind.
func SubBind[R, B any](s SubTask[R], f func(R) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(AwaitSub[R]{s: s}), f)
}

// Done returns a finished scenario body.
func Done() kont.Eff[struct{}] {
	return kont.Pure(struct{}{})
}
