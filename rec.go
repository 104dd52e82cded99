// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
)

// Loop runs step from initial until it yields Right.
// Left carries the state of the next iteration. Each iteration may suspend
// on any number of awaiters.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	var next func(kont.Either[S, A]) kont.Eff[A]
	next = func(e kont.Either[S, A]) kont.Eff[A] {
		if s, more := e.GetLeft(); more {
			return kont.Bind(step(s), next)
		}
		a, _ := e.GetRight()
		return kont.Pure(a)
	}
	return kont.Bind(step(initial), next)
}

// Repeat runs body n times in sequence. Each iteration gets its index.
func Repeat(n int, body func(i int) kont.Eff[struct{}]) kont.Eff[struct{}] {
	return Loop(0, func(i int) kont.Eff[kont.Either[int, struct{}]] {
		if i >= n {
			return kont.Pure(kont.Right[int, struct{}](struct{}{}))
		}
		return kont.Then(body(i), kont.Pure(kont.Left[int, struct{}](i+1)))
	})
}

// Forever runs body again each time it finishes. The task stays live until
// the simulation stops calling back.
func Forever(body func() kont.Eff[struct{}]) kont.Eff[struct{}] {
	return Loop(struct{}{}, func(struct{}) kont.Eff[kont.Either[struct{}, struct{}]] {
		return kont.Then(body(), kont.Pure(kont.Left[struct{}, struct{}](struct{}{})))
	})
}

// erase widens an Expr to the erased form carried by bind frames.
func erase[T any](m kont.Expr[T]) kont.Expr[kont.Erased] {
	return kont.Expr[kont.Erased]{Value: kont.Erased(m.Value), Frame: m.Frame}
}

// ExprLoop is Loop in the Expr world. Iterations that finish without
// suspending are run in place; the first suspending one is chained to a
// bind frame that re-enters the loop when it resumes.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	m := step(initial)
	for {
		if _, pure := m.Frame.(kont.ReturnFrame); !pure {
			break
		}
		s, more := m.Value.GetLeft()
		if !more {
			a, _ := m.Value.GetRight()
			return kont.ExprReturn(a)
		}
		m = step(s)
	}

	bf := kont.AcquireBindFrame()
	bf.F = func(v kont.Erased) kont.Expr[kont.Erased] {
		e := v.(kont.Either[S, A])
		if s, more := e.GetLeft(); more {
			return erase(ExprLoop(s, step))
		}
		a, _ := e.GetRight()
		return erase(kont.ExprReturn(a))
	}
	bf.Next = exprReturnFrame
	var zero A
	return kont.Expr[A]{Value: zero, Frame: kont.ChainFrames(m.Frame, bf)}
}

// ExprRepeat is Repeat in the Expr world.
func ExprRepeat(n int, body func(i int) kont.Expr[struct{}]) kont.Expr[struct{}] {
	return ExprLoop(0, func(i int) kont.Expr[kont.Either[int, struct{}]] {
		if i >= n {
			return kont.ExprReturn(kont.Right[int, struct{}](struct{}{}))
		}
		return kont.ExprMap(body(i), func(struct{}) kont.Either[int, struct{}] {
			return kont.Left[int, struct{}](i + 1)
		})
	})
}
