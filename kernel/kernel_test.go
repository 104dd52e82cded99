// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kernel_test

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/simco"
	"code.hybscloud.com/simco/kernel"
)

type traced struct {
	time uint64
	net  string
	bits string
}

type tracer struct {
	changes []traced
}

func (t *tracer) Change(time uint64, net, bits string) error {
	t.changes = append(t.changes, traced{time, net, bits})
	return nil
}

var _ = Describe("Kernel", func() {
	var (
		k    *kernel.Kernel
		tr   *tracer
		a    simco.Handle
		wide simco.Handle
		log  []string
	)

	at := func(label string) func(cb *simco.Callback) {
		return func(cb *simco.Callback) {
			log = append(log, fmt.Sprintf("%s@%d", label, cb.Time))
		}
	}

	BeforeEach(func() {
		tr = &tracer{}
		k = kernel.New(kernel.WithTracer(tr))
		a = k.AddNet("top.a", 8)
		wide = k.AddNet("top.wide", 40)
		log = nil
	})

	It("resolves names and reports precision", func() {
		Expect(k.HandleByName("top.a")).To(Equal(a))
		Expect(k.HandleByName("top.none")).To(BeZero())
		Expect(k.AddNet("top.a", 8)).To(Equal(a))
		Expect(k.Precision()).To(Equal(-12))
	})

	It("fires delays in time order, ties in registration order", func() {
		for _, d := range []struct {
			label string
			delay uint64
		}{{"c", 20}, {"a", 10}, {"b", 10}} {
			_, err := k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: d.delay, Routine: at(d.label)})
			Expect(err).NotTo(HaveOccurred())
		}
		k.Run(math.MaxUint64)
		Expect(log).To(Equal([]string{"a@10", "b@10", "c@20"}))
		Expect(k.Callbacks()).To(BeZero())
		Expect(k.Idle()).To(BeTrue())
	})

	It("runs the read-only phase after the active phase of a step", func() {
		_, err := k.Register(simco.Callback{Reason: simco.ReadOnlySynch, Delay: 5, Routine: at("ro")})
		Expect(err).NotTo(HaveOccurred())
		_, err = k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: 5, Routine: at("active")})
		Expect(err).NotTo(HaveOccurred())
		k.Run(math.MaxUint64)
		Expect(log).To(Equal([]string{"active@5", "ro@5"}))
	})

	It("stops at until and advances time to it", func() {
		_, err := k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: 100, Routine: at("late")})
		Expect(err).NotTo(HaveOccurred())
		k.Run(50)
		Expect(log).To(BeEmpty())
		Expect(k.Now()).To(Equal(uint64(50)))
		hi, lo := k.Time()
		Expect(hi).To(BeZero())
		Expect(lo).To(Equal(uint32(50)))
		k.Run(100)
		Expect(log).To(Equal([]string{"late@100"}))
	})

	It("fires start of simulation once before time advances", func() {
		_, err := k.Register(simco.Callback{Reason: simco.StartOfSimulation, Routine: at("start")})
		Expect(err).NotTo(HaveOccurred())
		k.Run(10)
		k.Run(20)
		Expect(log).To(Equal([]string{"start@0"}))
		_, err = k.Register(simco.Callback{Reason: simco.StartOfSimulation, Routine: at("again")})
		Expect(err).To(HaveOccurred())
	})

	Describe("value changes", func() {
		var h simco.CallbackHandle

		BeforeEach(func() {
			var err error
			h, err = k.Register(simco.Callback{Reason: simco.ValueChange, Obj: a, Routine: at("change")})
			Expect(err).NotTo(HaveOccurred())
		})

		write := func(delay uint64, v uint64, flag simco.PutFlag) {
			_, err := k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: delay, Routine: func(*simco.Callback) {
				k.Put(a, simco.EncodeUint(v, 8), flag)
			}})
			Expect(err).NotTo(HaveOccurred())
		}

		It("notifies on every effective change until removed", func() {
			write(1, 3, simco.NoDelay)
			write(2, 3, simco.NoDelay)
			write(3, 4, simco.NoDelay)
			k.Run(3)
			Expect(log).To(Equal([]string{"change@1", "change@3"}))

			Expect(k.Remove(h)).To(Succeed())
			write(1, 5, simco.NoDelay)
			k.Run(10)
			Expect(log).To(HaveLen(2))
			Expect(k.Remove(h)).To(MatchError(kernel.ErrUnknownCallback))
		})

		It("holds a forced value until released", func() {
			write(1, 0xaa, simco.Force)
			write(2, 0x11, simco.NoDelay)
			k.Run(2)
			Expect(simco.DecodeUint(k.Value(a))).To(Equal(uint64(0xaa)))
			write(1, 0, simco.Release)
			k.Run(3)
			Expect(simco.DecodeUint(k.Value(a))).To(Equal(uint64(0x11)))
			Expect(log).To(Equal([]string{"change@1", "change@3"}))
		})

		It("clears bits beyond the net width", func() {
			write(1, 0x1ff, simco.NoDelay)
			k.Run(1)
			Expect(simco.DecodeUint(k.Value(a))).To(Equal(uint64(0xff)))
		})

		It("traces changes at full width", func() {
			write(1, 0x81, simco.NoDelay)
			k.Run(1)
			Expect(tr.changes).To(Equal([]traced{{1, "top.a", "10000001"}}))
		})
	})

	It("delivers a change only to watchers registered before it", func() {
		b := k.AddNet("top.b", 8)
		_, err := k.Register(simco.Callback{Reason: simco.ValueChange, Obj: a, Routine: func(cb *simco.Callback) {
			at("a")(cb)
			_, err := k.Register(simco.Callback{Reason: simco.ValueChange, Obj: b, Routine: at("b")})
			Expect(err).NotTo(HaveOccurred())
		}})
		Expect(err).NotTo(HaveOccurred())
		_, err = k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: 1, Routine: func(*simco.Callback) {
			k.Put(a, simco.EncodeUint(1, 8), simco.NoDelay)
			k.Put(b, simco.EncodeUint(1, 8), simco.NoDelay)
		}})
		Expect(err).NotTo(HaveOccurred())
		_, err = k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: 2, Routine: func(*simco.Callback) {
			k.Put(b, simco.EncodeUint(2, 8), simco.NoDelay)
		}})
		Expect(err).NotTo(HaveOccurred())

		k.Run(math.MaxUint64)
		Expect(log).To(Equal([]string{"a@1", "b@2"}))
	})

	It("keeps wide values in two words", func() {
		words, err := simco.EncodeString("1x"+"00000000000000000000000000000001", 40)
		Expect(err).NotTo(HaveOccurred())
		k.Put(wide, words, simco.NoDelay)
		v := k.Value(wide)
		Expect(v).To(HaveLen(2))
		Expect(v[0]).To(Equal(simco.Word{Value: 1}))
		Expect(v[1]).To(Equal(simco.Word{Value: 3, Mask: 1}))
	})

	It("refuses value-change callbacks on unknown nets", func() {
		_, err := k.Register(simco.Callback{Reason: simco.ValueChange, Obj: 99, Routine: at("x")})
		Expect(err).To(MatchError(kernel.ErrUnknownNet))
	})

	It("refuses registrations beyond its capacity", func() {
		k = kernel.New(kernel.WithMaxCallbacks(1))
		_, err := k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: 1, Routine: at("a")})
		Expect(err).NotTo(HaveOccurred())
		_, err = k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: 1, Routine: at("b")})
		Expect(iox.IsWouldBlock(err)).To(BeTrue())
		k.Run(1)
		_, err = k.Register(simco.Callback{Reason: simco.AfterDelay, Delay: 1, Routine: at("c")})
		Expect(err).NotTo(HaveOccurred())
	})
})
