// Package backtrace captures call stacks for interesting layers and reduces
// them to the frames that belong to application code.
package backtrace

import (
	"runtime"
	"strings"
)

const maxDepth = 64

// A Frame is one application-relevant stack frame.
type Frame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Capture records the raw program counters of the calling goroutine. The
// result is opaque until handed to a Parser; capturing is kept cheap so it
// can run inside the instrumented request path.
func Capture() []uintptr {
	pcs := make([]uintptr, maxDepth)

	// Skip runtime.Callers, Capture, and the instrumentation call site
	// inside the agent.
	n := runtime.Callers(3, pcs)

	return pcs[:n]
}

// A Parser resolves raw program counters into application frames. An empty
// result means the stack contained no application code.
type Parser interface {
	Parse(pcs []uintptr) []Frame
}

// AppParser resolves program counters and keeps only frames whose function
// does not belong to the Go runtime, the standard library, or the agent
// itself.
type AppParser struct {
	// IgnorePrefixes lists additional function-name prefixes to drop,
	// e.g. a framework's package path.
	IgnorePrefixes []string
}

const agentModulePrefix = "github.com/tracemark/agent"

// Parse implements Parser.
func (p *AppParser) Parse(pcs []uintptr) []Frame {
	if len(pcs) == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs)
	parsed := make([]Frame, 0, len(pcs))

	for {
		f, more := frames.Next()

		if p.isApplicationFrame(f) {
			parsed = append(parsed, Frame{
				Function: f.Function,
				File:     f.File,
				Line:     f.Line,
			})
		}

		if !more {
			break
		}
	}

	return parsed
}

func (p *AppParser) isApplicationFrame(f runtime.Frame) bool {
	if f.Function == "" {
		return false
	}

	if strings.HasPrefix(f.Function, "runtime.") ||
		strings.HasPrefix(f.Function, "testing.") {
		return false
	}

	if strings.HasPrefix(f.Function, agentModulePrefix) {
		return false
	}

	// Standard library functions live under GOROOT and carry no dot in
	// the leading path element, e.g. "net/http.(*conn).serve".
	if !strings.Contains(leadingPathElement(f.Function), ".") {
		return false
	}

	for _, prefix := range p.IgnorePrefixes {
		if strings.HasPrefix(f.Function, prefix) {
			return false
		}
	}

	return true
}

func leadingPathElement(function string) string {
	if i := strings.Index(function, "/"); i >= 0 {
		return function[:i]
	}

	return function
}
