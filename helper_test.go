// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco_test

import (
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/simco"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// put is one Source.Put observed by fakeSource.
type put struct {
	h    simco.Handle
	v    []simco.Word
	flag simco.PutFlag
}

// fakeSource is a Source driven by hand: registrations are kept until a
// test fires them. One-shot reasons retire on firing.
type fakeSource struct {
	now       uint64
	precision int
	handles   map[string]simco.Handle
	values    map[simco.Handle][]simco.Word
	regs      map[simco.CallbackHandle]simco.Callback
	order     []simco.CallbackHandle
	last      simco.CallbackHandle
	refuse    bool
	puts      []put
	removed   []simco.CallbackHandle
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		precision: -12,
		handles:   make(map[string]simco.Handle),
		values:    make(map[simco.Handle][]simco.Word),
		regs:      make(map[simco.CallbackHandle]simco.Callback),
	}
}

// declare makes name resolvable and returns its handle.
func (s *fakeSource) declare(name string) simco.Handle {
	h := simco.Handle(len(s.handles) + 1)
	s.handles[name] = h
	return h
}

func (s *fakeSource) Register(cb simco.Callback) (simco.CallbackHandle, error) {
	if s.refuse {
		return 0, iox.ErrWouldBlock
	}
	s.last++
	s.regs[s.last] = cb
	s.order = append(s.order, s.last)
	return s.last, nil
}

func (s *fakeSource) Remove(h simco.CallbackHandle) error {
	if _, ok := s.regs[h]; !ok {
		return errors.New("fake: unknown callback")
	}
	delete(s.regs, h)
	s.removed = append(s.removed, h)
	return nil
}

func (s *fakeSource) Value(h simco.Handle) []simco.Word {
	return s.values[h]
}

func (s *fakeSource) Put(h simco.Handle, v []simco.Word, flag simco.PutFlag) {
	s.puts = append(s.puts, put{h: h, v: v, flag: flag})
	if flag != simco.Release {
		s.values[h] = v
	}
}

func (s *fakeSource) Time() (high, low uint32) {
	return uint32(s.now >> 32), uint32(s.now)
}

func (s *fakeSource) HandleByName(name string) simco.Handle {
	return s.handles[name]
}

func (s *fakeSource) Precision() int {
	return s.precision
}

// live returns the live registrations of reason, oldest first.
func (s *fakeSource) live(reason simco.Reason) []simco.CallbackHandle {
	var hs []simco.CallbackHandle
	for _, h := range s.order {
		if cb, ok := s.regs[h]; ok && cb.Reason == reason {
			hs = append(hs, h)
		}
	}
	return hs
}

// only returns the single live registration of reason.
func (s *fakeSource) only(t *testing.T, reason simco.Reason) simco.CallbackHandle {
	t.Helper()
	hs := s.live(reason)
	if len(hs) != 1 {
		t.Fatalf("%v registrations: got %d, want 1", reason, len(hs))
	}
	return hs[0]
}

// fire invokes h and returns the callback it delivered.
func (s *fakeSource) fire(t *testing.T, h simco.CallbackHandle) simco.Callback {
	t.Helper()
	cb, ok := s.regs[h]
	if !ok {
		t.Fatalf("callback %d is not registered", h)
	}
	if cb.Reason != simco.ValueChange {
		delete(s.regs, h)
	}
	cb.Time = s.now
	delivered := cb
	cb.Routine(&cb)
	return delivered
}

// fireOnly fires the single live registration of reason.
func (s *fakeSource) fireOnly(t *testing.T, reason simco.Reason) simco.Callback {
	t.Helper()
	return s.fire(t, s.only(t, reason))
}

// fatal collects errors passed to the Bench fatal handler.
type fatal struct {
	tasks []string
	errs  []error
}

func (f *fatal) handle(task string, err error) {
	f.tasks = append(f.tasks, task)
	f.errs = append(f.errs, err)
}

// newBench returns a quiet Bench on src with dut "top" and collected fatals.
func newBench(src simco.Source, opts ...simco.Option) (*simco.Bench, *fatal) {
	f := &fatal{}
	base := []simco.Option{simco.WithLogger(zerolog.Nop()), simco.WithFatal(f.handle)}
	return simco.NewBench(src, "top", append(base, opts...)...), f
}

// declare declares key on both src and b.
func declare(src *fakeSource, b *simco.Bench, key string, width uint32) simco.Handle {
	h := src.declare("top." + key)
	b.AddNet(key, width)
	return h
}
