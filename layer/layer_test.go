package layer

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Layer", func() {
	var start time.Time

	BeforeEach(func() {
		start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	})

	It("should panic if the type is empty", func() {
		Expect(func() {
			New("", "Users#index", start)
		}).To(Panic())
	})

	It("should panic if the name is empty", func() {
		Expect(func() {
			New(TypeController, "", start)
		}).To(Panic())
	})

	It("should build the canonical metric name", func() {
		l := New("ActiveRecord", "User/find", start)

		Expect(l.MetricName()).To(Equal("ActiveRecord/User/find"))
	})

	It("should report zero total time before stopping", func() {
		l := New(TypeController, "Users#index", start)

		Expect(l.Stopped()).To(BeFalse())
		Expect(l.TotalTime()).To(Equal(time.Duration(0)))
	})

	It("should set the stop time exactly once", func() {
		l := New(TypeController, "Users#index", start)

		l.MarkStopped(start.Add(100 * time.Millisecond))
		l.MarkStopped(start.Add(5 * time.Second))

		Expect(l.TotalTime()).To(Equal(100 * time.Millisecond))
	})

	It("should subtract children from exclusive time", func() {
		parent := New(TypeController, "Users#index", start)

		child1 := New("ActiveRecord", "User/find", start.Add(100*time.Millisecond))
		child1.MarkStopped(start.Add(300 * time.Millisecond))
		parent.AddChild(child1)

		child2 := New("View", "users/index", start.Add(300*time.Millisecond))
		child2.MarkStopped(start.Add(700 * time.Millisecond))
		parent.AddChild(child2)

		parent.MarkStopped(start.Add(1 * time.Second))

		Expect(parent.TotalTime()).To(Equal(1 * time.Second))
		Expect(parent.ExclusiveTime()).To(Equal(400 * time.Millisecond))
	})

	It("should account every moment exactly once across the tree", func() {
		root := New(TypeController, "Users#index", start)
		mid := New("View", "users/index", start.Add(200*time.Millisecond))
		leaf := New("ActiveRecord", "User/find", start.Add(300*time.Millisecond))

		root.AddChild(mid)
		mid.AddChild(leaf)

		leaf.MarkStopped(start.Add(500 * time.Millisecond))
		mid.MarkStopped(start.Add(800 * time.Millisecond))
		root.MarkStopped(start.Add(1 * time.Second))

		sum := root.ExclusiveTime() +
			mid.ExclusiveTime() +
			leaf.ExclusiveTime()

		Expect(sum).To(Equal(root.TotalTime()))
	})
})
