package challenge

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/securesign/securesign-core/errcode"
)

// Parse validates a JSON challenge and returns its fields. Rules are applied
// in a fixed order so that a challenge violating several of them always fails
// with the same code.
func Parse(data []byte) (*Challenge, error) {
	if len(data) == 0 {
		return nil, errcode.New(errcode.InvalidInput, "challenge is empty")
	}
	if !utf8.Valid(data) {
		return nil, errcode.New(errcode.UTF8Error, "challenge is not valid UTF-8")
	}

	fields, err := objectFields(data)
	if err != nil {
		return nil, err
	}

	c := &Challenge{}

	// Wrong-typed tags are left empty and rejected by checkTags below, in order.
	tags := []struct {
		key string
		dst *string
	}{
		{KeyVersion, &c.Version},
		{KeyAlgorithm, &c.Algorithm},
		{KeySignatureFormat, &c.SignatureFormat},
	}
	for _, tag := range tags {
		v, err := lookup(fields, tag.key)
		if err != nil {
			return nil, err
		}
		if v.Type == gjson.String {
			*tag.dst = v.Str
		}
	}

	for _, key := range optionalKeys {
		v, ok := fields[key]
		if !ok || v.Type == gjson.Null {
			continue
		}
		if v.Type != gjson.String {
			return nil, errcode.Errorf(errcode.JSONParseError, "challenge field %q must be a string", key)
		}
		*c.optional(key) = v.Str
	}

	if err := c.checkTags(); err != nil {
		return nil, err
	}

	var ok bool
	if c.Timestamp, ok = integer(fields[KeyTimestamp]); !ok {
		return nil, errcode.Errorf(errcode.InvalidExpiration, "challenge field %q must be an integer", KeyTimestamp)
	}
	if c.Expiration, ok = integer(fields[KeyExpiration]); !ok {
		return nil, errcode.Errorf(errcode.InvalidExpiration, "challenge field %q must be an integer", KeyExpiration)
	}
	if err := c.checkWindow(); err != nil {
		return nil, err
	}

	// Unknown fields are not signed, but a separator hidden anywhere in the
	// document is still rejected.
	if path, found := findForbidden(gjson.ParseBytes(data)); found {
		return nil, errcode.Errorf(errcode.ForbiddenChars, "challenge field %q contains '|' or NUL", joinPath(path))
	}

	return c, nil
}

// Validate applies the semantic rules to a Challenge built in code.
func (c *Challenge) Validate() error {
	if err := c.checkTags(); err != nil {
		return err
	}
	if err := c.checkWindow(); err != nil {
		return err
	}
	for i, v := range c.values() {
		if hasForbidden(v) {
			return errcode.Errorf(errcode.ForbiddenChars, "challenge field %q contains '|' or NUL", FieldOrder[i])
		}
	}
	return nil
}

func (c *Challenge) checkTags() error {
	if c.Version != Version {
		return errcode.Errorf(errcode.InvalidVersion, "invalid challenge version %q, expected %q", c.Version, Version)
	}
	if c.Algorithm != Algorithm {
		return errcode.Errorf(errcode.InvalidAlgorithm, "invalid challenge algorithm %q, expected %q", c.Algorithm, Algorithm)
	}
	if c.SignatureFormat != SignatureFormat {
		return errcode.Errorf(errcode.InvalidSigFormat, "invalid signature format %q, expected %q", c.SignatureFormat, SignatureFormat)
	}
	return nil
}

func (c *Challenge) checkWindow() error {
	if c.Expiration <= c.Timestamp {
		return errcode.Errorf(errcode.InvalidExpiration, "challenge expires at %d, not after ts %d", c.Expiration, c.Timestamp)
	}
	return nil
}

func (c *Challenge) optional(key string) *string {
	switch key {
	case KeyAudience:
		return &c.Audience
	case KeyNonce:
		return &c.Nonce
	case KeyMethod:
		return &c.Method
	case KeyPath:
		return &c.Path
	case KeyQuery:
		return &c.Query
	case KeyBodyHash:
		return &c.BodyHash
	case KeyKeyID:
		return &c.KeyID
	case KeyChallengeID:
		return &c.ChallengeID
	}
	panic("challenge: unknown optional field " + key)
}

// objectFields returns the top-level members of a JSON object. Duplicate keys
// are rejected since the signer and the verifier might pick different ones.
func objectFields(data []byte) (map[string]gjson.Result, error) {
	if err := scanDocument(data); err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, errcode.New(errcode.JSONParseError, "challenge is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errcode.New(errcode.JSONParseError, "challenge is not a JSON object")
	}

	fields := make(map[string]gjson.Result)
	var duplicate string
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if _, seen := fields[name]; seen {
			duplicate = name
			return false
		}
		fields[name] = value
		return true
	})
	if duplicate != "" {
		return nil, errcode.Errorf(errcode.JSONParseError, "duplicate challenge field %q", duplicate)
	}
	return fields, nil
}

// lookup returns the tag field under its name or its short alias.
func lookup(fields map[string]gjson.Result, key string) (gjson.Result, error) {
	v, ok := fields[key]
	alias, hasAlias := aliases[key]
	if !hasAlias {
		return v, nil
	}
	av, aok := fields[alias]
	switch {
	case ok && aok:
		return gjson.Result{}, errcode.Errorf(errcode.JSONParseError, "challenge has both %q and %q", key, alias)
	case aok:
		return av, nil
	}
	return v, nil
}

// integer accepts a JSON number written as a base-10 int64. Fractions,
// exponents and out of range values are rejected rather than rounded.
func integer(v gjson.Result) (int64, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	n, err := strconv.ParseInt(v.Raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func hasForbidden(s string) bool {
	return strings.ContainsAny(s, "|\x00")
}

// findForbidden walks every string value under v and reports whether one holds
// a reserved byte. The path to it is returned innermost segment first.
func findForbidden(v gjson.Result) ([]string, bool) {
	switch {
	case v.Type == gjson.String:
		return nil, hasForbidden(v.Str)
	case v.IsObject(), v.IsArray():
		var (
			path  []string
			found bool
			index int
		)
		isArray := v.IsArray()
		v.ForEach(func(key, value gjson.Result) bool {
			if path, found = findForbidden(value); found {
				if isArray {
					path = append(path, strconv.Itoa(index))
				} else {
					path = append(path, key.String())
				}
				return false
			}
			index++
			return true
		})
		return path, found
	}
	return nil, false
}

func joinPath(reversed []string) string {
	segments := make([]string, len(reversed))
	for i, seg := range reversed {
		segments[len(reversed)-1-i] = seg
	}
	return strings.Join(segments, ".")
}

// MaxDepth is the deepest object or array nesting a challenge may use.
const MaxDepth = 128

// scanDocument makes one pass over the raw document before it is decoded. It
// rejects nesting beyond MaxDepth and \u escapes naming an unpaired UTF-16
// surrogate, which the decoder would turn into U+FFFD. Malformed syntax is
// left for the validator.
func scanDocument(data []byte) error {
	depth := 0
	for i := 0; i < len(data); i++ {
		switch data[i] {
		case '{', '[':
			depth++
			if depth > MaxDepth {
				return errcode.Errorf(errcode.JSONParseError, "challenge nests deeper than %d levels", MaxDepth)
			}
		case '}', ']':
			depth--
		case '"':
			end, err := scanString(data, i+1)
			if err != nil {
				return err
			}
			i = end
		}
	}
	return nil
}

// scanString returns the index of the quote closing the string whose body
// starts at start, or len(data) if it is unterminated.
func scanString(data []byte, start int) (int, error) {
	for i := start; i < len(data); i++ {
		switch data[i] {
		case '"':
			return i, nil
		case '\\':
			r, ok := escapedRune(data, i)
			if !ok {
				// Skip the escaped byte; bad escapes are reported by the validator.
				i++
				continue
			}
			switch {
			case r >= 0xD800 && r < 0xDC00:
				lo, ok := escapedRune(data, i+6)
				if !ok || utf16.DecodeRune(r, lo) == utf8.RuneError {
					return 0, errcode.Errorf(errcode.JSONParseError,
						"challenge string has an unpaired surrogate \\u%04x at offset %d", r, i)
				}
				i += 11
			case r >= 0xDC00 && r < 0xE000:
				return 0, errcode.Errorf(errcode.JSONParseError,
					"challenge string has an unpaired surrogate \\u%04x at offset %d", r, i)
			default:
				i += 5
			}
		}
	}
	return len(data), nil
}

// escapedRune decodes a \uXXXX escape starting at data[i].
func escapedRune(data []byte, i int) (rune, bool) {
	if i+6 > len(data) || data[i] != '\\' || data[i+1] != 'u' {
		return 0, false
	}
	n, err := strconv.ParseUint(string(data[i+2:i+6]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
