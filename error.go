// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
)

// Fail aborts the running task with err. The task ends in the Failed state
// and the Bench fatal handler receives err.
func Fail[A any](err error) kont.Eff[A] {
	return kont.ThrowError[error, A](err)
}

// ExprFail is Fail in the Expr world.
func ExprFail[A any](err error) kont.Expr[A] {
	return kont.ExprThrowError[error, A](err)
}

// Failf aborts the running task with a formatted error.
func Failf[A any](format string, args ...any) kont.Eff[A] {
	return Fail[A](errors.Errorf(format, args...))
}

// Expect fails the task unless cond holds.
func Expect(cond bool, format string, args ...any) kont.Eff[struct{}] {
	if cond {
		return kont.Pure(struct{}{})
	}
	return Failf[struct{}](format, args...)
}
