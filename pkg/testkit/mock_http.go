package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// ─── MockTransport ────────────────────────────────────────────────────────────

// MockTransport implements http.RoundTripper.
// It matches outgoing HTTP requests against registered stubs and returns
// synthetic responses instead of making real network calls.
//
// Install it on the shared HTTP client before the test:
//
//	mt := testkit.NewMockTransport()
//	mt.StubJSON("POST", "/auth/login", 200, session)
//	fhttp.DefaultClient.Transport = mt
//	defer fhttp.ResetTransport()
//	// ... run test ...
//	mt.AssertAllCalled(t)
type MockTransport struct {
	mu    sync.Mutex
	stubs []*Stub

	// Calls records every request the transport saw, in order.
	Calls []RecordedCall
}

// Stub is a single canned response keyed by method and URL path prefix.
type Stub struct {
	Method     string // "" matches any method
	Path       string // matched as a prefix of the request path; "" matches all
	StatusCode int
	Body       []byte
	Err        error // when set, RoundTrip returns this error (transport failure)

	callCount int
}

// RecordedCall captures one intercepted request for later assertions.
type RecordedCall struct {
	Method string
	Path   string
	Body   []byte
	Header http.Header
}

// NewMockTransport returns an empty transport. Register stubs before use.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Stub registers a canned response with a raw body.
func (mt *MockTransport) Stub(method, path string, code int, body []byte) *Stub {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	s := &Stub{Method: method, Path: path, StatusCode: code, Body: body}
	mt.stubs = append(mt.stubs, s)
	return s
}

// StubJSON registers a canned response whose body is v marshalled as JSON.
// Panics on marshal failure since stubs are test fixtures.
func (mt *MockTransport) StubJSON(method, path string, code int, v interface{}) *Stub {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testkit: marshal stub body for %s %s: %v", method, path, err))
	}
	return mt.Stub(method, path, code, raw)
}

// StubError registers a transport-level failure: RoundTrip returns err itself,
// the way a refused connection or DNS failure would surface.
func (mt *MockTransport) StubError(method, path string, err error) *Stub {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	s := &Stub{Method: method, Path: path, Err: err}
	mt.stubs = append(mt.stubs, s)
	return s
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
// Unmatched requests get a generic 404 so tests fail loudly on the status
// rather than hanging on a real network call.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}
	mt.Calls = append(mt.Calls, RecordedCall{
		Method: req.Method,
		Path:   req.URL.Path,
		Body:   reqBody,
		Header: req.Header.Clone(),
	})

	for _, s := range mt.stubs {
		if s.Method != "" && s.Method != req.Method {
			continue
		}
		if !strings.HasPrefix(req.URL.Path, s.Path) {
			continue
		}

		s.callCount++
		if s.Err != nil {
			return nil, s.Err
		}
		return buildResponse(req, s.StatusCode, s.Body), nil
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Status:     "404 Not Found",
		Body:       io.NopCloser(strings.NewReader(`{"detail":"no mock configured"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

// AssertAllCalled returns an error per registered stub that was never hit.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, s := range mt.stubs {
		if s.callCount == 0 {
			errs = append(errs, fmt.Errorf(
				"testkit: stub %s %s was never called", s.Method, s.Path))
		}
	}
	return errs
}

// LastCall returns the most recent recorded request, or nil when none were made.
func (mt *MockTransport) LastCall() *RecordedCall {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	if len(mt.Calls) == 0 {
		return nil
	}
	return &mt.Calls[len(mt.Calls)-1]
}

// CallsTo returns the recorded requests whose path starts with prefix.
func (mt *MockTransport) CallsTo(prefix string) []RecordedCall {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var out []RecordedCall
	for _, c := range mt.Calls {
		if strings.HasPrefix(c.Path, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

func buildResponse(req *http.Request, code int, body []byte) *http.Response {
	if code == 0 {
		code = http.StatusOK
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Request:    req,
	}
}
