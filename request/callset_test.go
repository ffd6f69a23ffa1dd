package request

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CallSet", func() {
	var set *CallSet

	BeforeEach(func() {
		set = NewCallSet()
	})

	It("should not flag a name below the repetition threshold", func() {
		for i := 0; i < repeatedCallThreshold-1; i++ {
			set.Update("User/find", "")
		}

		Expect(set.ShouldCaptureBacktrace("User/find")).To(BeFalse())
	})

	It("should flag a name once the threshold is crossed", func() {
		for i := 0; i < repeatedCallThreshold; i++ {
			set.Update("User/find", "")
		}

		Expect(set.ShouldCaptureBacktrace("User/find")).To(BeTrue())
	})

	It("should never regress once flagged", func() {
		for i := 0; i < repeatedCallThreshold*3; i++ {
			set.Update("User/find", "")

			if i >= repeatedCallThreshold-1 {
				Expect(set.ShouldCaptureBacktrace("User/find")).To(BeTrue())
			}
		}
	})

	It("should count names independently", func() {
		for i := 0; i < repeatedCallThreshold; i++ {
			set.Update("User/find", "")
		}
		set.Update("Account/find", "")

		Expect(set.ShouldCaptureBacktrace("User/find")).To(BeTrue())
		Expect(set.ShouldCaptureBacktrace("Account/find")).To(BeFalse())
		Expect(set.Count("Account/find")).To(Equal(1))
	})

	It("should create a fresh counter for an unseen name", func() {
		Expect(set.Count("never-seen")).To(Equal(0))
		Expect(set.ShouldCaptureBacktrace("never-seen")).To(BeFalse())
	})
})
