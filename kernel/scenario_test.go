// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kernel_test

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/simco"
	"code.hybscloud.com/simco/kernel"
)

var _ = Describe("Scenarios on the kernel", func() {
	var (
		k      *kernel.Kernel
		tr     *tracer
		bench  *simco.Bench
		fatals []error
	)

	BeforeEach(func() {
		tr = &tracer{}
		k = kernel.New(kernel.WithTracer(tr), kernel.WithLogger(zerolog.Nop()))
		for _, n := range []struct {
			name  string
			width uint32
		}{{"a", 8}, {"b", 8}, {"p", 8}, {"q", 8}, {"w96", 96}} {
			k.AddNet("top."+n.name, n.width)
		}
		fatals = nil
		bench = simco.NewBench(k, "top",
			simco.WithLogger(zerolog.Nop()),
			simco.WithFatal(func(_ string, err error) { fatals = append(fatals, err) }),
		)
		for _, n := range []string{"a", "b", "p", "q"} {
			bench.AddNet(n, 8)
		}
		bench.AddNet("w96", 96)
	})

	It("does not resume a change awaiter with a change made in the same batch before it awaited", func() {
		watcher := bench.Spawn("watcher", kont.Then(
			bench.Change("a").Await(),
			kont.Then(bench.Change("b").Await(), simco.Done()),
		))
		w := bench.Write(1)
		w.Write("a", 1)
		w.Write("b", 1)
		bench.Spawn("writer", w.Await())

		k.Run(math.MaxUint64)
		Expect(watcher.State()).To(Equal(simco.Suspended))
		Expect(bench.Pending()).To(Equal(1))
		Expect(fatals).To(BeEmpty())
	})

	It("applies one batch of writes in the order the nets were first written", func() {
		w := bench.Write(1)
		w.Write("q", 1)
		w.Write("a", 2)
		w.Write("p", 3)
		w.Write("q", 4)
		bench.Spawn("writer", w.Await())

		k.Run(math.MaxUint64)
		Expect(tr.changes).To(Equal([]traced{
			{1000, "top.q", "00000100"},
			{1000, "top.a", "00000010"},
			{1000, "top.p", "00000011"},
		}))
	})

	It("reads back the two most significant words of a 96-bit net", func() {
		w := bench.Write(1)
		Expect(w.WriteHex("w96", "112233445566778899aabbcc")).To(Succeed())
		r := bench.Read(0)
		r.Read("w96")

		var num uint64
		var hex string
		task := bench.Spawn("wide", simco.WriteThen(w, simco.ReadThen(r, func(r *simco.Read) kont.Eff[struct{}] {
			var err error
			hex, err = r.HexStr("w96")
			Expect(err).NotTo(HaveOccurred())
			num = r.Num("w96")
			return simco.Done()
		})))

		k.Run(math.MaxUint64)
		Expect(task.State()).To(Equal(simco.Finished))
		Expect(num).To(Equal(uint64(0x1122334455667788)))
		Expect(hex).To(Equal("112233445566778899AABBCC"))
	})
})
