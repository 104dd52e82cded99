// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco_test

import (
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/simco"
)

func TestFailfFormats(t *testing.T) {
	b, f := newBench(newFakeSource())
	task := b.Spawn("failf", simco.Failf[struct{}]("count %d of %s", 3, "c"))
	if task.State() != simco.Failed {
		t.Fatalf("state %v", task.State())
	}
	if len(f.errs) != 1 || f.errs[0].Error() != "count 3 of c" || f.tasks[0] != "failf" {
		t.Fatalf("fatal: %v %v", f.tasks, f.errs)
	}
}

func TestFailInsideSubTaskFailsTask(t *testing.T) {
	src := newFakeSource()
	b, f := newBench(src)

	sub := simco.Sub(func() kont.Eff[int] {
		return kont.Then(b.Write(1).Await(), simco.Failf[int]("inner"))
	})
	after := false
	task := b.Spawn("outer", simco.SubBind(sub, func(int) kont.Eff[struct{}] {
		after = true
		return simco.Done()
	}))
	src.fireOnly(t, simco.AfterDelay)

	if after || task.State() != simco.Failed || b.Live() != 0 {
		t.Fatalf("after %v, state %v, live %d", after, task.State(), b.Live())
	}
	if len(f.errs) != 1 || f.errs[0].Error() != "inner" {
		t.Fatalf("fatal: %v", f.errs)
	}
}

func TestFailedTaskIgnoresOthers(t *testing.T) {
	src := newFakeSource()
	b, _ := newBench(src)
	b.Spawn("bad", simco.Failf[struct{}]("bad"))
	good := b.Spawn("good", b.Write(1).Await())
	src.fireOnly(t, simco.AfterDelay)
	if good.State() != simco.Finished {
		t.Fatalf("state %v", good.State())
	}
}
