package cms

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/princinho/catalogsite/config"
)

// recordedRequest is what the fake CMS saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string
}

// fakeCMS serves canned responses per collection path and records requests.
type fakeCMS struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]fakeResponse
	server   *httptest.Server
	gate     chan struct{}
	arrived  chan struct{}
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeCMS(t *testing.T) *fakeCMS {
	t.Helper()
	f := &fakeCMS{t: t, routes: map[string]fakeResponse{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCMS) respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fakeResponse{status: status, body: body}
}

func (f *fakeCMS) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	res, ok := f.routes[r.Method+" "+r.URL.Path]
	gate, arrived := f.gate, f.arrived
	f.mu.Unlock()
	if gate != nil {
		select {
		case arrived <- struct{}{}:
		default:
		}
		<-gate
	}
	if !ok {
		http.Error(w, `{"errors":[{"message":"route not found"}]}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.status)
	_, _ = io.WriteString(w, res.body)
}

// hold makes every request wait until release is called. arrived receives
// once a request is being held.
func (f *fakeCMS) hold() (arrived <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.arrived = make(chan struct{}, 1)
	var once sync.Once
	gate := f.gate
	release = func() { once.Do(func() { close(gate) }) }
	f.t.Cleanup(release)
	return f.arrived, release
}

func (f *fakeCMS) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeCMS) client() *Client {
	return NewClient(config.DirectusConfig{URL: f.server.URL, Timeout: 5 * time.Second})
}
