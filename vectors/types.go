// Package vectors provides the cross-platform conformance suite for the
// signature codec and the challenge canonicalizer.
//
// Every platform binding (Rust core, Kotlin and Swift glue, this Go module)
// must produce the same bytes and the same error codes for the same inputs.
// The suite is shipped as a Borsh or CBOR file so that a non-Go
// implementation can load it without a JSON dependency.
//
// # Suite Structure
//
// A suite contains:
//   - Version: SuiteVersion of the encoding
//   - Vectors: one entry per scenario, each naming an operation, its input,
//     the expected output and the expected errcode (0 on success)
//
// # Usage
//
//	data, err := vectors.Encode(vectors.Builtin(), vectors.FormatBorsh)
//	...
//	suite, err := vectors.Decode(data, vectors.FormatBorsh)
//	report := vectors.Run(suite)
//	if !report.OK() {
//		log.Fatalf("%d vectors failed", report.Failed)
//	}
package vectors

import (
	"fmt"

	"github.com/securesign/securesign-core/errcode"
)

// SuiteVersion is bumped whenever the Vector layout changes.
const SuiteVersion uint32 = 1

// Operation selects the core function a vector exercises.
type Operation uint8

const (
	OpDerToP1363 Operation = iota
	OpP1363ToDer
	OpCanonicalize
)

// MarshalJSON converts Operation to its JSON string form
func (o Operation) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// String converts Operation to string format
func (o Operation) String() string {
	switch o {
	case OpDerToP1363:
		return "derToP1363"
	case OpP1363ToDer:
		return "p1363ToDer"
	case OpCanonicalize:
		return "canonicalize"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(o))
	}
}

// Vector is a single conformance case.
type Vector struct {
	Name      string    `borsh:"name" cbor:"name" json:"name"`
	Operation Operation `borsh:"operation" cbor:"op" json:"operation"`
	Input     []byte    `borsh:"input" cbor:"input" json:"input"`
	Expected  []byte    `borsh:"expected" cbor:"expected" json:"expected,omitempty"`
	Code      int32     `borsh:"code" cbor:"code" json:"code"`
}

// ExpectedCode returns Code as an errcode.Code.
func (v *Vector) ExpectedCode() errcode.Code {
	return errcode.Code(v.Code)
}

// Suite is an ordered list of vectors.
type Suite struct {
	Version uint32   `borsh:"version" cbor:"version" json:"version"`
	Vectors []Vector `borsh:"vectors" cbor:"vectors" json:"vectors"`
}

// Result is the outcome of running one vector.
type Result struct {
	Name      string       `json:"name"`
	Operation Operation    `json:"operation"`
	Passed    bool         `json:"passed"`
	WantCode  errcode.Code `json:"wantCode"`
	GotCode   errcode.Code `json:"gotCode"`
	Want      []byte       `json:"-"`
	Got       []byte       `json:"-"`
	Detail    string       `json:"detail,omitempty"`
}

// Report summarizes a suite run.
type Report struct {
	Version uint32   `json:"version"`
	Results []Result `json:"results"`
	Passed  int      `json:"passed"`
	Failed  int      `json:"failed"`
}

// OK reports whether every vector passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}
