// Package request tracks the layer stack of one unit of work and hands the
// finished tree over for conversion into metrics.
package request

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/tracemark/agent/backtrace"
	"github.com/tracemark/agent/layer"
)

// UnknownName is the sentinel unique name of a request without a scope
// layer.
const UnknownName = "Unknown"

// backtraceThreshold is the exclusive time above which a layer's backtrace
// is captured unconditionally.
const backtraceThreshold = 500 * time.Millisecond

// backtraceExempt lists layer types that never capture a backtrace. These
// are the framework wrappers around the whole request; their backtraces
// point at boilerplate, not at application code.
var backtraceExempt = map[string]bool{
	layer.TypeController: true,
	layer.TypeJob:        true,
}

// AnnotationURI is the annotation key carrying the request URI.
const AnnotationURI = "uri"

// A Recorder consumes a finalized request exactly once. The concrete
// recorder drives the converters and forwards their output to the store.
type Recorder interface {
	RecordRequest(r *TrackedRequest)
}

// A TrackedRequest owns the active call stack of one unit of work. It is
// owned by exactly one logical flow of execution and must not be shared
// across goroutines.
//
// Lifecycle: created empty, layers pushed and popped as work executes,
// finalized when the stack returns to empty, then recorded once.
type TrackedRequest struct {
	id       string
	clock    Clock
	recorder Recorder
	logger   *log.Logger

	callSet *CallSet
	stack   []*layer.Layer
	root    *layer.Layer

	annotations map[string]any
	headers     http.Header
	requestType string
	errored     bool

	ignoreDepth int
	recorded    bool
	uniqueName  string
}

// New creates an empty tracked request.
func New(clock Clock, recorder Recorder, logger *log.Logger) *TrackedRequest {
	collaboratorsMustNotBeNil(clock, recorder)

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &TrackedRequest{
		id:          xid.New().String(),
		clock:       clock,
		recorder:    recorder,
		logger:      logger,
		callSet:     NewCallSet(),
		annotations: make(map[string]any),
	}
}

func collaboratorsMustNotBeNil(clock Clock, recorder Recorder) {
	if clock == nil {
		panic("clock must not be nil")
	}

	if recorder == nil {
		panic("recorder must not be nil")
	}
}

// ID returns the request's unique identifier.
func (r *TrackedRequest) ID() string {
	return r.id
}

// StartLayer pushes a layer onto the stack. The first layer ever started
// becomes the immutable root of the tree; later layers become children of
// the current stack top. A no-op while children are being ignored.
func (r *TrackedRequest) StartLayer(l *layer.Layer) {
	if r.ignoringChildren() {
		return
	}

	if l.StartTime.IsZero() {
		l.StartTime = r.clock.CurrentTime()
	}

	r.callSet.Update(l.Name, l.Desc)

	if r.root == nil {
		r.root = l
	}

	if top := r.CurrentLayer(); top != nil {
		top.AddChild(l)
	}

	r.stack = append(r.stack, l)
}

// StopLayer pops the current layer, stamps its stop time, and captures a
// backtrace if the capture policy asks for one. Popping the last open layer
// finalizes the request and triggers the one-time recording. A no-op while
// children are being ignored.
func (r *TrackedRequest) StopLayer() {
	if r.ignoringChildren() {
		return
	}

	l := r.CurrentLayer()
	if l == nil {
		r.logger.Printf("StopLayer called with no layer open; ignoring")
		return
	}

	r.stack = r.stack[:len(r.stack)-1]
	l.MarkStopped(r.clock.CurrentTime())

	if r.shouldCaptureBacktrace(l) && l.Backtrace == nil {
		l.Backtrace = backtrace.Capture()
	}

	if len(r.stack) == 0 {
		r.record()
	}
}

// Cheap structural exclusions come first, then the two independent capture
// triggers: slow call, then repeated call.
func (r *TrackedRequest) shouldCaptureBacktrace(l *layer.Layer) bool {
	if backtraceExempt[l.Type] {
		return false
	}

	if !r.IsWeb() && !r.IsJob() {
		return false
	}

	if l.ExclusiveTime() > backtraceThreshold {
		return true
	}

	return r.callSet.ShouldCaptureBacktrace(l.Name)
}

// IgnoreChildren makes StartLayer and StopLayer no-ops until a matching
// AcknowledgeChildren. Regions nest; callers are responsible for pairing
// the calls.
func (r *TrackedRequest) IgnoreChildren() {
	r.ignoreDepth++
}

// AcknowledgeChildren closes the innermost ignore region. Calling it
// without an open region is a no-op.
func (r *TrackedRequest) AcknowledgeChildren() {
	if r.ignoreDepth > 0 {
		r.ignoreDepth--
	}
}

func (r *TrackedRequest) ignoringChildren() bool {
	return r.ignoreDepth > 0
}

// Annotate merges fields into the request's annotations, last write wins
// per key.
func (r *TrackedRequest) Annotate(fields map[string]any) {
	for k, v := range fields {
		r.annotations[k] = v
	}
}

// Annotation returns the value annotated under key, or nil.
func (r *TrackedRequest) Annotation(key string) any {
	return r.annotations[key]
}

// Annotations returns the request's annotation map. The map doubles as the
// context carried into slow-transaction records.
func (r *TrackedRequest) Annotations() map[string]any {
	return r.annotations
}

// SetHeaders attaches the incoming request headers.
func (r *TrackedRequest) SetHeaders(h http.Header) {
	r.headers = h
}

// Headers returns the attached request headers, possibly nil.
func (r *TrackedRequest) Headers() http.Header {
	return r.headers
}

// MarkAsWeb tags the request as a web request.
func (r *TrackedRequest) MarkAsWeb() {
	r.requestType = "web"
}

// MarkAsJob tags the request as a background job.
func (r *TrackedRequest) MarkAsJob() {
	r.requestType = "job"
}

// IsWeb reports whether the request is a web request.
func (r *TrackedRequest) IsWeb() bool {
	return r.requestType == "web"
}

// IsJob reports whether the request is a background job.
func (r *TrackedRequest) IsJob() bool {
	return r.requestType == "job"
}

// MarkError flags the request as having raised an error.
func (r *TrackedRequest) MarkError() {
	r.errored = true
}

// Errored reports whether the request was flagged as an error.
func (r *TrackedRequest) Errored() bool {
	return r.errored
}

// Root returns the root layer, or nil if no layer was ever started.
func (r *TrackedRequest) Root() *layer.Layer {
	return r.root
}

// CurrentLayer returns the open top of the stack, or nil.
func (r *TrackedRequest) CurrentLayer() *layer.Layer {
	if len(r.stack) == 0 {
		return nil
	}

	return r.stack[len(r.stack)-1]
}

// CallSet returns the request's call-count tracker.
func (r *TrackedRequest) CallSet() *CallSet {
	return r.callSet
}

// Finalized reports whether the stack has returned to empty after at least
// one layer was started.
func (r *TrackedRequest) Finalized() bool {
	return r.root != nil && len(r.stack) == 0
}

// Recorded reports whether the one-time recording has run.
func (r *TrackedRequest) Recorded() bool {
	return r.recorded
}

// StopTime returns the root layer's stop time.
func (r *TrackedRequest) StopTime() time.Time {
	return r.root.StopTime
}

// UniqueName returns the canonical metric name of the request's scope
// layer, or the Unknown sentinel if none exists. The result is computed on
// first access and cached; it must only be asked for once the tree is
// finalized, since it walks the whole tree.
func (r *TrackedRequest) UniqueName() string {
	r.mustBeFinalized()

	if r.uniqueName == "" {
		if scope := layer.FindScope(r.root); scope != nil {
			r.uniqueName = scope.MetricName()
		} else {
			r.uniqueName = UnknownName
		}
	}

	return r.uniqueName
}

func (r *TrackedRequest) mustBeFinalized() {
	if !r.Finalized() {
		panic("request must be finalized before its tree is walked")
	}
}

// record runs the one-time recording sequence. The recorded flag guards
// against re-entry; starting layers again after recording is a caller
// error and is not validated here.
func (r *TrackedRequest) record() {
	if r.recorded {
		return
	}

	r.recorded = true
	r.recorder.RecordRequest(r)
}
