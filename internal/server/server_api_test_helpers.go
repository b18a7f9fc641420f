package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/izzyreal/owltest/internal/config"
	"github.com/izzyreal/owltest/internal/store"
	"github.com/izzyreal/owltest/internal/submitlock"
)

// testClock holds submission guard releases until the test fires them.
type testClock struct {
	pending []func()
}

type testTimer struct{}

func (testTimer) Stop() bool { return true }

func (c *testClock) AfterFunc(_ time.Duration, f func()) submitlock.Timer {
	c.pending = append(c.pending, f)
	return testTimer{}
}

func (c *testClock) releaseAll() {
	for _, f := range c.pending {
		f()
	}
	c.pending = nil
}

func newTestState(t *testing.T) (*stateStore, *testClock) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "owltest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	cfg := config.Default()
	cfg.Submit.StudentURL = "https://py.example.test/student"
	s := newStateStore(db, cfg)
	clock := &testClock{}
	s.guards = submitlock.NewRegistry(cfg.LockDelay(), submitlock.WithAfterFunc(clock.AfterFunc))
	return s, clock
}

func newTestHTTPServerWithState(t *testing.T) (*httptest.Server, *stateStore, *testClock) {
	t.Helper()
	s, clock := newTestState(t)
	ts := httptest.NewServer(buildRouter(s))
	t.Cleanup(ts.Close)
	return ts, s, clock
}

func mustJSONRequest(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request JSON: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func mustSubmit(t *testing.T, client *http.Client, url, submitter, filename, code string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if submitter != "" {
		if err := mw.WriteField("submitter", submitter); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	fw, err := mw.CreateFormFile("student_file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, code); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func decodeJSONBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
