// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package simco runs sequential test scenarios against a discrete-event
// hardware simulator that only offers callback registration.
//
// Scenarios are computations on [code.hybscloud.com/kont]. Every suspension
// point is an effect operation; the Bench steps a scenario up to its next
// operation, turns it into exactly one callback registration on a [Source]
// and resumes the scenario exactly once when that callback fires.
//
// # Architecture
//
//   - Source: the simulator boundary. Callback registration, value access and simulation time.
//   - Codec: four-valued (0/1/x/z) vectors packed into 32-bit [Word] pairs, strings and hex.
//   - Records: each suspension owns a generation-tagged record; the Source only sees its id.
//   - Dispatch: one routine per callback reason resumes the suspended computation.
//   - Tasks: [Bench.Spawn] starts a top-level scenario at once; a [SubTask] stays dormant until awaited.
//
// # API Topologies
//
//   - Awaiters: [Write] (grouped writes after a delay), [Read] (sampling at a read-only point), [Change] (value change, optionally to a target).
//   - Cont-world: [WriteThen], [ReadThen], [ChangeThen], [SubBind], [Loop], [Repeat].
//   - Expr-world: [ExprWriteThen], [ExprReadThen], [ExprChangeThen], [ExprSubBind], [ExprLoop].
//   - Helpers: [Bench.Edges], [Bench.Sleep]. Errors: [Fail], [Expect].
//
// # Integration
//
//   - [Registry] collects scenarios; [Boot] starts them at start of simulation.
//   - All dispatch happens on the Source's callback loop. [Bench.Live] and [Bench.Wait] are the only goroutine-safe entry points.
//
// # Example
//
//	var reg simco.Registry
//	reg.Scenario("reset", func(b *simco.Bench) kont.Eff[struct{}] {
//		w := b.Write(10)
//		w.Write("rst", 1)
//		return kont.Bind(w.Await(), func(struct{}) kont.Eff[struct{}] {
//			w.Write("rst", 0)
//			return w.Await()
//		})
//	})
//	b := simco.NewBench(src, "top")
//	_ = simco.Boot(b, &reg, func(b *simco.Bench) { b.AddNet("rst", 1) })
package simco
