package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Routes where only the master key has access", func() {
	It("returns the version", func() {
		version, err := clients.Master.Version(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(version.CommitSha).NotTo(BeEmpty())
		Expect(version.BuildDate).NotTo(BeEmpty())
		Expect(version.PkgVersion).NotTo(BeEmpty())
	})

	It("returns system info", func() {
		info, err := clients.Master.SysInfo(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.MemoryUsage).To(BeNil())
		Expect(info.ProcessorUsage).NotTo(BeNil())
		Expect(info.Global.TotalMemory).To(BeNumerically(">", 0))
		Expect(info.Process.Memory).To(BeNumerically(">", 0))
	})

	It("returns pretty system info", func() {
		info, err := clients.Master.PrettySysInfo(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.ProcessorUsage).NotTo(BeNil())
		Expect(info.Global.TotalMemory).NotTo(BeEmpty())
		Expect(info.Global.InputData).NotTo(BeEmpty())
		Expect(info.Global.OutputData).NotTo(BeEmpty())
		Expect(info.Process.Memory).NotTo(BeEmpty())
		Expect(info.Process.CPU).NotTo(BeEmpty())
	})

	It("returns /stats information", func() {
		stats, err := clients.Master.Stats(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.DatabaseSize).To(BeNumerically(">=", 0))
		Expect(stats.Indexes).NotTo(BeNil())
	})

	It("returns the derived keys", func() {
		keys, err := clients.Master.Keys(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(keys.Private).To(Equal(clients.PrivateKey))
		Expect(keys.Public).To(Equal(clients.PublicKey))
	})
})
