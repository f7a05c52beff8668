package vectors

import (
	"fmt"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/near/borsh-go"
)

// Format is a suite file encoding.
type Format string

const (
	FormatBorsh Format = "borsh"
	FormatCBOR  Format = "cbor"
)

// ParseFormat accepts "borsh" or "cbor", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatBorsh, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("unsupported vector format %q, expected %q or %q", s, FormatBorsh, FormatCBOR)
}

// FormatFromPath picks the format from a .borsh or .cbor file extension.
func FormatFromPath(path string) (Format, error) {
	switch {
	case strings.HasSuffix(path, ".borsh"), strings.HasSuffix(path, ".bin"):
		return FormatBorsh, nil
	case strings.HasSuffix(path, ".cbor"):
		return FormatCBOR, nil
	}
	return "", fmt.Errorf("cannot infer vector format from %q", path)
}

// Encode serializes a suite.
func Encode(s *Suite, f Format) ([]byte, error) {
	switch f {
	case FormatBorsh:
		b, err := borsh.Serialize(*s)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize suite: %w", err)
		}
		return b, nil
	case FormatCBOR:
		b, err := cbor.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize suite: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported vector format %q", f)
}

// Decode deserializes a suite and checks its version.
func Decode(data []byte, f Format) (*Suite, error) {
	var s Suite
	switch f {
	case FormatBorsh:
		if err := borsh.Deserialize(&s, data); err != nil {
			return nil, fmt.Errorf("failed to deserialize suite: %w", err)
		}
	case FormatCBOR:
		if err := cbor.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to deserialize suite: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported vector format %q", f)
	}

	if s.Version != SuiteVersion {
		return nil, fmt.Errorf("unsupported suite version %d, expected %d", s.Version, SuiteVersion)
	}
	return &s, nil
}

// DecodeFromFile reads and decodes a suite file, inferring the format from
// its extension.
func DecodeFromFile(path string) (*Suite, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Decode(data, f)
}
