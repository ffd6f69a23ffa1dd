package convert

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/tracemark/agent/layer"
	"github.com/tracemark/agent/metric"
	"github.com/tracemark/agent/request"
)

var _ = Describe("Dispatcher", func() {
	var (
		mockCtrl  *gomock.Controller
		store     *MockStore
		scorer    *MockScorer
		retention *MockRetention
		clock     *stubClock
		d         *Dispatcher
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		store = NewMockStore(mockCtrl)
		scorer = NewMockScorer(mockCtrl)
		retention = NewMockRetention(mockCtrl)
		clock = newStubClock()
		d = NewDispatcher(store, scorer, retention, nil, nil)
	})

	It("should panic over a nil store", func() {
		Expect(func() {
			NewDispatcher(nil, scorer, retention, nil, nil)
		}).To(Panic())
	})

	It("should track metrics and the slow transaction of a web request", func() {
		req := buildRequest(clock,
			step{layerType: layer.TypeController, name: "Users#index",
				duration: 100 * time.Millisecond})
		req.MarkAsWeb()
		req.Annotate(map[string]any{request.AnnotationURI: "/users"})

		recordedAt := clock.CurrentTime().Add(time.Second)

		scorer.EXPECT().Score(req).Return(1.5)
		retention.EXPECT().Stored(req)
		store.EXPECT().Track(gomock.Any()).Do(func(m metric.Map) {
			Expect(m[metric.ID{Name: "Controller/Users#index"}]).NotTo(BeNil())
		})
		store.EXPECT().CurrentTimestamp().Return(recordedAt)
		store.EXPECT().TrackSlowTransaction(gomock.Any()).
			Do(func(t *metric.SlowTransaction) {
				Expect(t.URI).To(Equal("/users"))
				Expect(t.RecordedAt).To(Equal(recordedAt))
			})

		d.RecordRequest(req)
	})

	It("should not offer a slow transaction for an ignored URI", func() {
		req := buildRequest(clock,
			step{layerType: layer.TypeController, name: "Health#show"})
		req.MarkAsWeb()
		req.Annotate(map[string]any{request.AnnotationURI: "/health"})

		scorer.EXPECT().Score(req).Return(1.5)
		retention.EXPECT().Stored(req)
		store.EXPECT().Track(gomock.Any())

		d.WithIgnorePatterns([]string{"^/health"}).RecordRequest(req)
	})

	It("should track a job through the job-side sinks", func() {
		req := buildRequest(clock,
			step{layerType: layer.TypeJob, name: "SendEmail",
				duration: time.Second})
		req.MarkAsJob()

		retention.EXPECT().Stored(req)
		store.EXPECT().TrackJob(gomock.Any())
		store.EXPECT().CurrentTimestamp().Return(clock.CurrentTime())
		store.EXPECT().TrackSlowJob(gomock.Any()).
			Do(func(t *metric.SlowTransaction) {
				Expect(t.Name).To(Equal("Job/SendEmail"))
			})

		d.RecordRequest(req)
	})

	It("should survive a job without a scope layer", func() {
		req := buildRequest(clock,
			step{layerType: "ActiveRecord", name: "User/find"})
		req.MarkAsJob()

		store.EXPECT().TrackJob(gomock.Any()).Do(func(m metric.Map) {
			Expect(m).To(BeEmpty())
		})

		d.RecordRequest(req)

		Expect(req.UniqueName()).To(Equal(request.UnknownName))
	})

	It("should track an untyped request as plain metrics", func() {
		req := buildRequest(clock,
			step{layerType: layer.TypeController, name: "Users#index"})

		store.EXPECT().Track(gomock.Any())

		d.RecordRequest(req)
	})

	It("should fold error counts into the tracked metrics", func() {
		req := buildRequest(clock,
			step{layerType: layer.TypeController, name: "Users#index"})
		req.MarkError()

		store.EXPECT().Track(gomock.Any()).Do(func(m metric.Map) {
			errs := m[metric.ID{Name: "Errors/Controller/Users#index"}]
			Expect(errs).NotTo(BeNil())
			Expect(errs.CallCount).To(Equal(1))
		})

		d.RecordRequest(req)
	})

	Context("with histograms attached", func() {
		var allTime, period *MockHistogram

		BeforeEach(func() {
			allTime = NewMockHistogram(mockCtrl)
			period = NewMockHistogram(mockCtrl)
			d.WithHistograms(allTime, period)
		})

		It("should add the response time to both histograms", func() {
			req := buildRequest(clock,
				step{layerType: layer.TypeController, name: "Users#index",
					duration: 250 * time.Millisecond})

			store.EXPECT().Track(gomock.Any())
			allTime.EXPECT().Add("Controller/Users#index", 0.25)
			period.EXPECT().Add("Controller/Users#index", 0.25)

			d.RecordRequest(req)
		})

		It("should skip requests without a unique name", func() {
			req := buildRequest(clock,
				step{layerType: "Middleware", name: "stack"})

			store.EXPECT().Track(gomock.Any())

			d.RecordRequest(req)
		})
	})
})
