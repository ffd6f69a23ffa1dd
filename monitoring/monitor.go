// Package monitoring turns the agent into a local diagnostics server,
// exposing in-flight requests, retained slow transactions, and process
// resource usage.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	// Enable profiling endpoints.
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"

	"github.com/tracemark/agent/request"
	"github.com/tracemark/agent/store"
)

// A Monitor serves the agent's diagnostics over HTTP.
type Monitor struct {
	portNumber int
	store      *store.Store

	mu     sync.Mutex
	active map[string]*request.TrackedRequest

	url string
}

// NewMonitor creates a monitor with no requests registered.
func NewMonitor() *Monitor {
	return &Monitor{
		active: make(map[string]*request.TrackedRequest),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterStore sets the store whose retained slow transactions are shown.
func (m *Monitor) RegisterStore(s *store.Store) {
	m.store = s
}

// RegisterRequest adds an in-flight request to the active view.
func (m *Monitor) RegisterRequest(r *request.TrackedRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active[r.ID()] = r
}

// CompleteRequest removes a request from the active view.
func (m *Monitor) CompleteRequest(r *request.TrackedRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.active, r.ID())
}

// StartServer starts the monitor as a web server. It returns the URL the
// server listens on.
func (m *Monitor) StartServer() string {
	r := mux.NewRouter()

	r.HandleFunc("/api/status", m.status)
	r.HandleFunc("/api/requests", m.listRequests)
	r.HandleFunc("/api/slow", m.listSlowTransactions)
	r.HandleFunc("/api/resource", m.listResources)
	http.Handle("/", r)

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring agent with %s\n", m.url)

	go func() {
		// The default mux also carries the pprof endpoints.
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()

	return m.url
}

// OpenDashboard opens the monitor in the local browser. StartServer must
// have run first.
func (m *Monitor) OpenDashboard() error {
	if m.url == "" {
		panic("server must be started before opening the dashboard")
	}

	return browser.OpenURL(m.url + "/api/status")
}

type statusRsp struct {
	Time           time.Time `json:"time"`
	ActiveRequests int       `json:"active_requests"`
}

func (m *Monitor) status(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	active := len(m.active)
	m.mu.Unlock()

	writeJSON(w, statusRsp{
		Time:           time.Now(),
		ActiveRequests: active,
	})
}

type requestRsp struct {
	ID           string `json:"id"`
	CurrentLayer string `json:"current_layer"`
	Finalized    bool   `json:"finalized"`
}

func (m *Monitor) listRequests(w http.ResponseWriter, _ *http.Request) {
	m.mu.Lock()
	rsp := make([]requestRsp, 0, len(m.active))
	for _, r := range m.active {
		entry := requestRsp{
			ID:        r.ID(),
			Finalized: r.Finalized(),
		}
		if l := r.CurrentLayer(); l != nil {
			entry.CurrentLayer = l.MetricName()
		}

		rsp = append(rsp, entry)
	}
	m.mu.Unlock()

	writeJSON(w, rsp)
}

type slowTransactionRsp struct {
	Name         string  `json:"name"`
	URI          string  `json:"uri"`
	TotalSeconds float64 `json:"total_seconds"`
	Score        float64 `json:"score"`
}

func (m *Monitor) listSlowTransactions(w http.ResponseWriter, _ *http.Request) {
	if m.store == nil {
		writeJSON(w, []slowTransactionRsp{})
		return
	}

	retained := m.store.SlowTransactions()
	rsp := make([]slowTransactionRsp, 0, len(retained))
	for _, t := range retained {
		rsp = append(rsp, slowTransactionRsp{
			Name:         t.Name,
			URI:          t.URI,
			TotalSeconds: t.TotalTime.Seconds(),
			Score:        t.Score,
		})
	}

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
