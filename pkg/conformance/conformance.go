// Package conformance checks the canonical serializer against reference
// vectors kept in YAML.
//
// A vector gives method, uuid and data, and the exact canonical string the
// counterparty expects. Data is either a YAML mapping or, when number
// formatting matters, raw JSON in data_json:
//
//	vectors:
//	  - name: ledger
//	    format: values
//	    method: AccountLedger
//	    uuid: 4fd4bd1e-4a35-4e4e-9a67-5d6a4b0fc0d4
//	    data:
//	      FromDate: "2024-01-01"
//	      ToDate: "2024-01-31"
//	      Currency: EUR
//	    expected: AccountLedger4fd4bd1e-4a35-4e4e-9a67-5d6a4b0fc0d4EUR2024-01-012024-01-31
package conformance

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shaunb-optile/trustly-client-go/pkg/canonical"
)

type Suite struct {
	Vectors []Vector `yaml:"vectors"`
}

type Vector struct {
	Name     string `yaml:"name"`
	Format   string `yaml:"format,omitempty"`
	Method   string `yaml:"method"`
	UUID     string `yaml:"uuid"`
	Data     any    `yaml:"data,omitempty"`
	DataJSON string `yaml:"data_json,omitempty"`
	Expected string `yaml:"expected"`
}

// Result is the outcome of checking one vector.
type Result struct {
	Vector Vector
	Got    string
	Err    error
}

func (r Result) Passed() bool {
	return r.Err == nil && r.Got == r.Vector.Expected
}

func (r Result) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("FAIL %s: %v", r.Vector.Name, r.Err)
	case !r.Passed():
		return fmt.Sprintf("FAIL %s:\n  want %q\n  got  %q", r.Vector.Name, r.Vector.Expected, r.Got)
	default:
		return "ok   " + r.Vector.Name
	}
}

// Load decodes a suite. Unknown fields are rejected so that typos in vector
// files do not pass silently.
func Load(r io.Reader) (*Suite, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Suite
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode vectors: %w", err)
	}
	for i, v := range s.Vectors {
		if v.Name == "" {
			return nil, fmt.Errorf("vector %d has no name", i)
		}
		if v.Data != nil && v.DataJSON != "" {
			return nil, fmt.Errorf("vector %s sets both data and data_json", v.Name)
		}
	}
	return &s, nil
}

func LoadFile(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(raw))
}

// Check serializes every vector and compares it with the expected string.
func (s *Suite) Check() []Result {
	results := make([]Result, 0, len(s.Vectors))
	for _, v := range s.Vectors {
		got, err := v.Serialize()
		results = append(results, Result{Vector: v, Got: string(got), Err: err})
	}
	return results
}

// Serialize returns the canonical form of the vector.
func (v Vector) Serialize() ([]byte, error) {
	format, err := canonical.ParseFormat(v.Format)
	if err != nil {
		return nil, err
	}

	data := v.Data
	if v.DataJSON != "" {
		if data, err = canonical.Decode([]byte(v.DataJSON)); err != nil {
			return nil, err
		}
	}
	return canonical.NewSerializer(canonical.Options{Format: format}).Serialize(v.Method, v.UUID, data)
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed() {
			n++
		}
	}
	return n
}
