package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// ─── Public API ───────────────────────────────────────────────────────────────

// Run executes every scenario in one JSON file against the provided handler.
//
// Lifecycle per scenario:
//  1. Subscribe the event recorder to expectEvents and reset it.
//  2. Build the request body from requestFileName, rawBody or requestBody.
//  3. Fire the request against handler using httptest.
//  4. Assert status code.
//  5. Assert response body (JSON diff, minus ignoreFields).
//  6. Assert every expected event fired.
//
// Scenarios in a file run in order against the same handler, so a create
// followed by a fetch sees the created record.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	scenarios, err := LoadFile(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s)
		})
	}
}

// RunDir discovers every *.json file directly inside dir and runs each file
// with Run, one subtest per file. Body files belong in a subdirectory.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}

	for _, path := range entries {
		t.Run(filepath.Base(path), func(t *testing.T) {
			Run(t, handler, path)
		})
	}
}

// ─── Internal execution ───────────────────────────────────────────────────────

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	for _, name := range s.ExpectEvents {
		recorder.Watch(name)
	}
	recorder.Reset()

	data, err := s.requestBody()
	if err != nil {
		t.Fatalf("[%s] read request body: %v", s.Name, err)
	}
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(s.RequestMethod, s.RequestURL, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	expected, err := s.expectedBody()
	if err != nil {
		t.Errorf("[%s] read response file: %v", s.Name, err)
	} else if expected != nil {
		AssertJSONBody(t, s, expected, rec.Body.Bytes())
	}

	AssertEventsFired(t, s)
}

// ─── Debug helpers ────────────────────────────────────────────────────────────

// DumpScenario prints a human-readable summary of the scenario to stdout.
func DumpScenario(s *Scenario) {
	fmt.Printf("Scenario: %s\n", s.Name)
	fmt.Printf("  %s %s → %d\n", s.RequestMethod, s.RequestURL, s.ExpectedCode)
	fmt.Printf("  requestFile:  %s\n", s.RequestFileName)
	fmt.Printf("  responseFile: %s\n", s.ResponseFileName)
	fmt.Printf("  ignoreFields: %v  expectEvents: %v\n", s.IgnoreFields, s.ExpectEvents)
}
