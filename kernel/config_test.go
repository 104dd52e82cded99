// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package kernel_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"code.hybscloud.com/simco"
	"code.hybscloud.com/simco/kernel"
)

const design = `
top: dut
precision: -9
maxCallbacks: 16
nets:
  - name: clk
    width: 1
  - name: c
    width: 16
    init: abcd
  - name: wide
    width: 40
    init: xz
`

var _ = Describe("Config", func() {
	It("parses a design", func() {
		cfg, err := kernel.ParseConfig([]byte(design))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Top).To(Equal("dut"))
		Expect(cfg.Precision).To(Equal(-9))
		Expect(cfg.MaxCallbacks).To(Equal(16))
		Expect(cfg.Nets).To(HaveLen(3))
		Expect(cfg.Nets[1]).To(Equal(kernel.NetConfig{Name: "c", Width: 16, Init: "abcd"}))
	})

	It("defaults the precision to picoseconds", func() {
		cfg, err := kernel.ParseConfig([]byte("top: t\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Precision).To(Equal(-12))
	})

	It("rejects designs without a top instance", func() {
		_, err := kernel.ParseConfig([]byte("nets: []\n"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects zero-width nets", func() {
		_, err := kernel.ParseConfig([]byte("top: t\nnets:\n  - name: a\n"))
		Expect(err).To(MatchError(ContainSubstring("zero width")))
	})

	It("loads a design file and builds a kernel from it", func() {
		dir, err := os.MkdirTemp("", "kernel-config")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "design.yaml")
		Expect(os.WriteFile(path, []byte(design), 0o644)).To(Succeed())

		cfg, err := kernel.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		k, err := kernel.NewFromConfig(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(k.Precision()).To(Equal(-9))

		c := k.HandleByName("dut.c")
		Expect(c).NotTo(BeZero())
		Expect(simco.DecodeUint(k.Value(c))).To(Equal(uint64(0xabcd)))

		wide := k.Value(k.HandleByName("dut.wide"))
		Expect(wide).To(HaveLen(2))
		Expect(simco.DecodeString(wide)[56:]).To(Equal("xxxxzzzz"))
	})

	It("fails on a missing file", func() {
		_, err := kernel.LoadConfig("/nonexistent/design.yaml")
		Expect(err).To(MatchError(ContainSubstring("could not read design file")))
	})
})
