package verify

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/securesign/securesign-core/vectors"
)

// Formatter formats verification results and conformance reports for display
type Formatter struct{}

// NewFormatter creates a new formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// FormatVerificationResult formats a verification result for JSON output
func (f *Formatter) FormatVerificationResult(result *VerifyResult) map[string]interface{} {
	output := map[string]interface{}{
		"valid":           result.Valid,
		"signatureValid":  result.SignatureValid,
		"kid":             result.KeyID,
		"publicKey":       result.PublicKeySPKI,
		"signatureFormat": string(result.SignatureFormat),
		"canonical":       result.Canonical,
		"canonicalHash":   result.CanonicalHash,
	}

	// Add optional fields if present
	if len(result.SignatureP1363) > 0 {
		output["signature"] = hex.EncodeToString(result.SignatureP1363)
	}
	if result.Expired {
		output["expired"] = true
	}
	if result.Message != "" {
		output["message"] = result.Message
	}
	if c := result.Challenge; c != nil {
		output["window"] = map[string]int64{
			"ts":  c.Timestamp,
			"exp": c.Expiration,
		}
	}

	return output
}

// FormatVerificationText formats a verification result as indented text
func (f *Formatter) FormatVerificationText(result *VerifyResult, indent string) string {
	var sb strings.Builder

	status := "VALID"
	if !result.Valid {
		status = "INVALID"
	}
	sb.WriteString(fmt.Sprintf("%sSignature: %s\n", indent, status))
	sb.WriteString(fmt.Sprintf("%s    Key ID: %s\n", indent, result.KeyID))
	sb.WriteString(fmt.Sprintf("%s    Format: %s\n", indent, result.SignatureFormat))
	sb.WriteString(fmt.Sprintf("%s    Canonical: %s\n", indent, result.Canonical))
	sb.WriteString(fmt.Sprintf("%s    SHA-256: %s\n", indent, result.CanonicalHash))
	if result.Message != "" {
		sb.WriteString(fmt.Sprintf("%s    Reason: %s\n", indent, result.Message))
	}

	return sb.String()
}

// FormatReport formats a conformance report, listing failures individually
// and passes as a count.
func (f *Formatter) FormatReport(report *vectors.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Suite v%d: %d passed, %d failed\n", report.Version, report.Passed, report.Failed))
	for _, res := range report.Results {
		if res.Passed {
			continue
		}
		sb.WriteString(fmt.Sprintf("  FAIL %s (%s): %s\n", res.Name, res.Operation, res.Detail))
	}

	return sb.String()
}

// FormatReportJSON formats a conformance report for JSON output
func (f *Formatter) FormatReportJSON(report *vectors.Report) map[string]interface{} {
	failures := make([]map[string]interface{}, 0, report.Failed)
	for _, res := range report.Results {
		if res.Passed {
			continue
		}
		failures = append(failures, map[string]interface{}{
			"name":      res.Name,
			"operation": res.Operation.String(),
			"wantCode":  int32(res.WantCode),
			"gotCode":   int32(res.GotCode),
			"detail":    res.Detail,
		})
	}

	return map[string]interface{}{
		"version":  report.Version,
		"passed":   report.Passed,
		"failed":   report.Failed,
		"ok":       report.OK(),
		"failures": failures,
	}
}
