package vectors

import (
	"bytes"
	"fmt"

	"github.com/securesign/securesign-core/challenge"
	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/errcode"
)

// Run executes every vector of s against this module's implementation.
func Run(s *Suite) *Report {
	report := &Report{Version: s.Version}
	for i := range s.Vectors {
		res := runVector(&s.Vectors[i])
		if res.Passed {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func runVector(v *Vector) Result {
	res := Result{
		Name:      v.Name,
		Operation: v.Operation,
		WantCode:  v.ExpectedCode(),
		Want:      v.Expected,
	}

	var (
		got []byte
		err error
	)
	switch v.Operation {
	case OpDerToP1363:
		got, err = crypto.DerToP1363(v.Input)
	case OpP1363ToDer:
		got, err = crypto.P1363ToDer(v.Input)
	case OpCanonicalize:
		got, err = challenge.Canonicalize(v.Input)
	default:
		res.GotCode = errcode.Unknown
		res.Detail = fmt.Sprintf("unknown operation %s", v.Operation)
		return res
	}

	res.Got = got
	res.GotCode = errcode.CodeOf(err)

	switch {
	case res.GotCode != res.WantCode:
		res.Detail = fmt.Sprintf("expected code %d, got %d", res.WantCode, res.GotCode)
		if err != nil {
			res.Detail += ": " + err.Error()
		}
	case err == nil && !bytes.Equal(got, v.Expected):
		res.Detail = fmt.Sprintf("output mismatch: expected %x, got %x", v.Expected, got)
	case err == nil && len(got) == 0:
		res.Detail = "empty output"
	default:
		res.Passed = true
	}
	return res
}
