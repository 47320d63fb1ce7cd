// Package testkit provides a JSON-scenario-driven REST API testing framework.
//
// A scenario file holds one scenario object or an array of them. Each
// describes:
//   - The HTTP request to fire (method, URL, body file or inline body, headers)
//   - Expected HTTP status code
//   - Expected response body file (optional, for JSON diff assertion)
//   - Response fields to ignore (e.g. created_at) and domain events that
//     must fire while the request is served
//
// Scenario files live next to your *_test.go files:
//
//	testdata/
//	  products.json              ← scenarios
//	  bodies/create_req.json     ← request body
//	  bodies/create_res.json     ← expected response body
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata")
//	}
package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario describes a single REST API test case loaded from a JSON file.
type Scenario struct {
	// Meta
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request
	RequestMethod   string            `json:"requestMethod"`   // GET, POST
	RequestURL      string            `json:"requestUrl"`      // e.g. /api/products?limit=5
	RequestFileName string            `json:"requestFileName"` // JSON body file (relative to scenario dir)
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline body, used when no file is set
	RawBody         *string           `json:"rawBody"`         // sent verbatim, for malformed payloads
	Headers         map[string]string `json:"headers"`         // extra request headers

	// Response assertions
	ResponseFileName string          `json:"responseFileName"` // expected response JSON file
	ResponseBody     json.RawMessage `json:"responseBody"`     // inline expected body
	ExpectedCode     int             `json:"expectedCode"`     // expected HTTP status code
	IgnoreFields     []string        `json:"ignoreFields"`     // keys removed at any depth before diffing

	// ExpectEvents lists pkg/event names that must fire during the request.
	ExpectEvents []string `json:"expectEvents"`

	// resolved at load time, not in JSON
	dir string
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenario reads and validates a single-object scenario file.
func LoadScenario(path string) (*Scenario, error) {
	all, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(all) != 1 {
		return nil, fmt.Errorf("testkit: %q holds %d scenarios, want 1", path, len(all))
	}
	return all[0], nil
}

// LoadFile reads a scenario file holding either one object or an array.
func LoadFile(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var scenarios []*Scenario
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &scenarios)
	} else {
		var s Scenario
		err = json.Unmarshal(trimmed, &s)
		scenarios = []*Scenario{&s}
	}
	if err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	dir := filepath.Dir(abs)
	for i, s := range scenarios {
		if err := s.validate(); err != nil {
			return nil, fmt.Errorf("testkit: invalid scenario %d in %q: %w", i, abs, err)
		}
		s.dir = dir
	}
	return scenarios, nil
}

// validate performs basic sanity checks on the loaded scenario.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		return fmt.Errorf("requestUrl is required")
	}
	if s.ExpectedCode == 0 {
		return fmt.Errorf("expectedCode is required")
	}
	if s.RequestMethod == "" {
		s.RequestMethod = "GET"
	}
	s.RequestMethod = strings.ToUpper(s.RequestMethod)
	return nil
}

// RequestBodyPath returns the absolute path to the request body file,
// resolved relative to the scenario file's directory.
// Returns "" when RequestFileName is not set.
func (s *Scenario) RequestBodyPath() string {
	return s.resolve(s.RequestFileName)
}

// ResponseBodyPath returns the absolute path to the expected response file.
// Returns "" when ResponseFileName is not set.
func (s *Scenario) ResponseBodyPath() string {
	return s.resolve(s.ResponseFileName)
}

func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// requestBody returns the bytes to send, or nil for no body.
func (s *Scenario) requestBody() ([]byte, error) {
	if p := s.RequestBodyPath(); p != "" {
		return os.ReadFile(p)
	}
	if s.RawBody != nil {
		return []byte(*s.RawBody), nil
	}
	if len(s.RequestBody) > 0 {
		return s.RequestBody, nil
	}
	return nil, nil
}

// expectedBody returns the expected response bytes, or nil to skip the diff.
func (s *Scenario) expectedBody() ([]byte, error) {
	if p := s.ResponseBodyPath(); p != "" {
		return os.ReadFile(p)
	}
	if len(s.ResponseBody) > 0 {
		return s.ResponseBody, nil
	}
	return nil, nil
}
