// Package layer defines the traced execution segment and the tree it forms
// while a single unit of work executes.
package layer

import "time"

// Common layer types. Any string is a valid type; these two are special
// because they define the scope of a whole request.
const (
	TypeController = "Controller"
	TypeJob        = "Job"
)

// A Layer is one recorded execution segment. Layers form a tree: a layer
// exclusively owns its children for the lifetime of the tree.
type Layer struct {
	Type string
	Name string
	Desc string

	// Subscopable marks a layer whose name becomes the implicit metric
	// scope for its descendants.
	Subscopable bool

	StartTime time.Time
	StopTime  time.Time

	// Backtrace holds raw program counters captured at stop time, if
	// capture was triggered. Set at most once.
	Backtrace []uintptr

	children []*Layer
}

// New creates a layer that starts at the given time.
func New(layerType, name string, start time.Time) *Layer {
	layerMustBeValid(layerType, name)

	return &Layer{
		Type:      layerType,
		Name:      name,
		StartTime: start,
	}
}

func layerMustBeValid(layerType, name string) {
	if layerType == "" {
		panic("layer type must not be empty")
	}

	if name == "" {
		panic("layer name must not be empty")
	}
}

// AddChild attaches a child layer. Children are only ever attached while the
// parent is the open top of the request stack, which is what keeps the tree
// acyclic.
func (l *Layer) AddChild(c *Layer) {
	l.children = append(l.children, c)
}

// Children returns the ordered child layers.
func (l *Layer) Children() []*Layer {
	return l.children
}

// MarkStopped stamps the stop time. The stop time is set exactly once; later
// calls are ignored.
func (l *Layer) MarkStopped(t time.Time) {
	if !l.StopTime.IsZero() {
		return
	}

	l.StopTime = t
}

// Stopped reports whether the layer has been popped off the request stack.
func (l *Layer) Stopped() bool {
	return !l.StopTime.IsZero()
}

// TotalTime returns the wall time between start and stop. It is zero for a
// layer that has not stopped yet.
func (l *Layer) TotalTime() time.Duration {
	if !l.Stopped() {
		return 0
	}

	return l.StopTime.Sub(l.StartTime)
}

// ExclusiveTime returns the total time minus the time attributed to
// children.
func (l *Layer) ExclusiveTime() time.Duration {
	t := l.TotalTime()
	for _, c := range l.children {
		t -= c.TotalTime()
	}

	return t
}

// MetricName returns the canonical metric name of the layer, in the form
// "Type/Name", e.g. "Controller/Users#index" or "ActiveRecord/User/find".
func (l *Layer) MetricName() string {
	return l.Type + "/" + l.Name
}
