// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/kont"
)

var exprReturnFrame kont.Frame = kont.ReturnFrame{}

func identityResume(v kont.Erased) kont.Erased { return v }

// suspendOn performs op and hands its resumed value to next.
func suspendOn[B any](op kont.Erased, next kont.Frame) kont.Expr[B] {
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = next
	return kont.ExprSuspend[B](ef)
}

// thenAfter suspends on op and continues with next once it resumes.
func thenAfter[B any](op kont.Erased, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = erase(next)
	tf.Next = exprReturnFrame
	return suspendOn[B](op, tf)
}

// ExprWriteThen applies the pending writes of w and then continues with next.
// Fuses ExprPerform(AwaitWrite{}) + ExprThen.
func ExprWriteThen[B any](w *Write, next kont.Expr[B]) kont.Expr[B] {
	return thenAfter(AwaitWrite{w: w}, next)
}

// awaiterUnwind calls the continuation in Data1 with the awaiter object in
// Data2. The resumed value itself carries nothing.
func awaiterUnwind[T, B any](data, data2, _ kont.Erased, _ kont.Erased) (kont.Erased, kont.Frame) {
	result := data.(func(T) kont.Expr[B])(data2.(T))
	return kont.Erased(result.Value), result.Frame
}

// bindAwaiter suspends on op and passes obj to f once it resumes.
func bindAwaiter[T, B any](op kont.Erased, obj T, f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Data2 = obj
	bf.Unwind = awaiterUnwind[T, B]
	return suspendOn[B](op, bf)
}

// ExprReadThen samples the nets of r and passes r to f.
// Fuses ExprPerform(AwaitRead{}) + ExprBind.
func ExprReadThen[B any](r *Read, f func(*Read) kont.Expr[B]) kont.Expr[B] {
	return bindAwaiter(AwaitRead{r: r}, r, f)
}

// ExprChangeThen waits for c and passes it to f.
// Fuses ExprPerform(AwaitChange{}) + ExprBind.
func ExprChangeThen[B any](c *Change, f func(*Change) kont.Expr[B]) kont.Expr[B] {
	return bindAwaiter(AwaitChange{c: c}, c, f)
}

// subBindUnwind feeds the sub-task result to f.
func subBindUnwind[R, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	result := data.(func(R) kont.Expr[B])(current.(R))
	return kont.Erased(result.Value), result.Frame
}

// ExprSubBind awaits s and passes its result to f.
// Fuses ExprPerform(AwaitSub[R]{}) + ExprBind.
func ExprSubBind[R, B any](s SubTask[R], f func(R) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = subBindUnwind[R, B]
	return suspendOn[B](AwaitSub[R]{s: s}, bf)
}

// ExprDone returns a finished Expr-world scenario body.
func ExprDone() kont.Expr[struct{}] {
	return kont.ExprReturn(struct{}{})
}
