// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/kont"
)

// State is the lifecycle state of a Task.
type State uint32

const (
	// Running means the task body is executing on the callback loop.
	Running State = iota
	// Suspended means the task waits for a callback.
	Suspended
	// Finished means the body returned.
	Finished
	// Stalled means a registration was refused; the task never resumes.
	Stalled
	// Failed means an error escaped the body.
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Suspended:
		return "suspended"
	case Finished:
		return "done"
	case Stalled:
		return "stalled"
	case Failed:
		return "failed"
	}
	return "state(?)"
}

// Task is a top-level scenario. It starts running when spawned and
// releases its frames on completion; nothing outside destroys it.
type Task struct {
	name   string
	serial Serial
	state  atomix.Uint32
}

// Name returns the name the task was spawned with.
func (t *Task) Name() string {
	return t.name
}

// Serial returns the task serial number.
func (t *Task) Serial() Serial {
	return t.serial
}

// State returns the current lifecycle state. Safe from any goroutine.
func (t *Task) State() State {
	return State(t.state.Load())
}

func (t *Task) set(s State) {
	t.state.Store(uint32(s))
}

// continuation is what a suspension record resumes: a frame waiting on
// exactly one pending effect.
type continuation interface {
	resume(v kont.Resumed)
	abandon()
	task() *Task
}

// awaiter is the suspend half of an effect operation. awaitSuspend hands
// k to whatever will resume it and reports false if nothing will.
type awaiter interface {
	awaitSuspend(b *Bench, k continuation) bool
}

// errorDispatcher is kont's error effect, with error as the error type.
type errorDispatcher interface {
	DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
}

// frame drives one computation, a Task body or a Sub-Task body, from
// suspension to suspension. A Sub-Task frame has a parent to resume once
// its body returns; a Task frame has none.
type frame[R any] struct {
	b      *Bench
	t      *Task
	parent continuation
	susp   *kont.Suspension[R]
}

func (f *frame[R]) task() *Task {
	return f.t
}

// start evaluates body until its first suspension or completion.
func (f *frame[R]) start(body kont.Expr[R]) {
	result, susp := kont.StepExpr(body)
	f.step(result, susp)
}

// step hands the pending operation to its awaiter, or finishes the frame.
func (f *frame[R]) step(result R, susp *kont.Suspension[R]) {
	for susp != nil {
		switch op := susp.Op().(type) {
		case awaiter:
			f.susp = susp
			f.t.set(Suspended)
			if !op.awaitSuspend(f.b, f) {
				f.stall()
			}
			return
		case errorDispatcher:
			var ctx kont.ErrorContext[error]
			v, _ := op.DispatchError(&ctx)
			if ctx.HasErr {
				susp.Discard()
				f.fail(ctx.Err)
				return
			}
			result, susp = susp.Resume(v)
		default:
			panic("simco: unhandled effect in task")
		}
	}
	f.complete(result)
}

// resume continues the frame with the value its pending effect produced.
func (f *frame[R]) resume(v kont.Resumed) {
	susp := f.susp
	f.susp = nil
	if f.t.State() == Suspended {
		f.t.set(Running)
	}
	result, next := susp.Resume(v)
	f.step(result, next)
}

// complete releases the frame and, for a Sub-Task, resumes its parent.
func (f *frame[R]) complete(result R) {
	parent := f.parent
	f.parent = nil
	f.susp = nil
	if parent != nil {
		parent.resume(result)
		return
	}
	f.t.set(Finished)
	f.b.live.Add(^uint32(0))
	f.b.log.Debug().Str("task", f.t.name).Uint32("serial", f.t.serial).Msg("task finished")
}

// abandon discards the pending suspension of f and of every frame
// waiting on it.
func (f *frame[R]) abandon() {
	if f.susp != nil {
		f.susp.Discard()
		f.susp = nil
	}
	if p := f.parent; p != nil {
		f.parent = nil
		p.abandon()
	}
}

// stall abandons the frame chain. The owning task will not run again.
func (f *frame[R]) stall() {
	f.abandon()
	if f.t.State() == Stalled {
		return
	}
	f.t.set(Stalled)
	f.b.live.Add(^uint32(0))
	f.b.log.Warn().Str("task", f.t.name).Uint32("serial", f.t.serial).Msg("task stalled")
}

// fail stops the owning task and reports err as fatal.
func (f *frame[R]) fail(err error) {
	f.abandon()
	f.t.set(Failed)
	f.b.live.Add(^uint32(0))
	f.b.onFatal(f.t.name, err)
}

// Spawn starts body as a top-level task named name. The body runs at once
// until its first suspension, so Spawn must be called from the Source's
// callback loop (or before the Source starts running).
func (b *Bench) Spawn(name string, body kont.Eff[struct{}]) *Task {
	return b.SpawnExpr(name, kont.Reify(body))
}

// SpawnExpr is Spawn for an Expr-world body.
func (b *Bench) SpawnExpr(name string, body kont.Expr[struct{}]) *Task {
	t := &Task{name: name, serial: nextSerial()}
	b.live.Add(1)
	f := &frame[struct{}]{b: b, t: t}
	f.start(body)
	return t
}

// SubTask is a nested procedure. It stays dormant until awaited; each
// await runs a fresh body and resumes the awaiting frame exactly once,
// when that body returns.
type SubTask[R any] struct {
	body func() kont.Expr[R]
}

// Sub wraps body as a SubTask.
func Sub[R any](body func() kont.Eff[R]) SubTask[R] {
	return SubTask[R]{body: func() kont.Expr[R] { return kont.Reify(body()) }}
}

// SubExpr wraps an Expr-world body as a SubTask.
func SubExpr[R any](body func() kont.Expr[R]) SubTask[R] {
	return SubTask[R]{body: body}
}

// Await runs s and resumes with its result.
func (s SubTask[R]) Await() kont.Eff[R] {
	return kont.Perform(AwaitSub[R]{s: s})
}

// AwaitExpr is Await in the Expr world.
func (s SubTask[R]) AwaitExpr() kont.Expr[R] {
	return kont.ExprPerform(AwaitSub[R]{s: s})
}

// AwaitSub is the effect operation for awaiting a SubTask.
type AwaitSub[R any] struct {
	kont.Phantom[R]
	s SubTask[R]
}

// awaitSuspend starts the child body with k as its parent. The child never
// touches the Source directly; its own awaiters do.
func (op AwaitSub[R]) awaitSuspend(b *Bench, k continuation) bool {
	child := &frame[R]{b: b, t: k.task(), parent: k}
	child.start(op.s.body())
	return true
}
