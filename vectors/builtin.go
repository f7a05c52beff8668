package vectors

import (
	"bytes"
	"encoding/hex"

	"github.com/securesign/securesign-core/errcode"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("vectors: bad hex literal: " + err.Error())
	}
	return b
}

func fill(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func join(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// Builtin returns the reference suite. Each call returns a new Suite.
func Builtin() *Suite {
	r := fill(0x11, 32)
	s := fill(0x22, 32)
	high := join([]byte{0x80}, fill(0xAB, 31))
	order := mustHex("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551")

	base := `"version":"SS1","algorithm":"ES256","signatureFormat":"P1363"`

	ok := func(name string, op Operation, in, out []byte) Vector {
		return Vector{Name: name, Operation: op, Input: in, Expected: out}
	}
	fail := func(name string, op Operation, in []byte, code errcode.Code) Vector {
		return Vector{Name: name, Operation: op, Input: in, Code: int32(code)}
	}

	return &Suite{
		Version: SuiteVersion,
		Vectors: []Vector{
			ok("der/plain", OpDerToP1363,
				join(mustHex("30440220"), r, mustHex("0220"), s),
				join(r, s)),
			ok("der/padded-r", OpDerToP1363,
				join(mustHex("3045022100"), high, mustHex("0220"), s),
				join(high, s)),
			ok("der/short-integers", OpDerToP1363,
				mustHex("3006020101020105"),
				join(fill(0, 31), []byte{0x01}, fill(0, 31), []byte{0x05})),
			fail("der/empty", OpDerToP1363, nil, errcode.InvalidDerFormat),
			fail("der/truncated", OpDerToP1363,
				join(mustHex("30440220"), r, mustHex("0220"), s[:31]), errcode.InvalidDerFormat),
			fail("der/trailing-bytes", OpDerToP1363,
				join(mustHex("30440220"), r, mustHex("0220"), s, []byte{0x00}), errcode.InvalidDerFormat),
			fail("der/wrong-integer-tag", OpDerToP1363,
				join(mustHex("30440420"), r, mustHex("0220"), s), errcode.InvalidDerFormat),
			fail("der/empty-integer", OpDerToP1363,
				join(mustHex("302402000220"), s), errcode.InvalidDerFormat),
			fail("der/negative-integer", OpDerToP1363,
				join(mustHex("30440220"), high, mustHex("0220"), s), errcode.InvalidDerFormat),
			fail("der/superfluous-pad", OpDerToP1363,
				join(mustHex("3045022100"), r, mustHex("0220"), s), errcode.InvalidDerFormat),
			fail("der/r-equals-order", OpDerToP1363,
				join(mustHex("3045022100"), order, mustHex("0220"), s), errcode.InvalidDerFormat),
			fail("der/r-max", OpDerToP1363,
				join(mustHex("3045022100"), fill(0xFF, 32), mustHex("0220"), s), errcode.InvalidDerFormat),
			fail("der/oversized-integer", OpDerToP1363,
				join(mustHex("3045022101"), fill(0, 32), mustHex("0220"), s), errcode.SignatureConversionFailed),

			ok("p1363/plain", OpP1363ToDer,
				join(r, s),
				join(mustHex("30440220"), r, mustHex("0220"), s)),
			ok("p1363/high-bit", OpP1363ToDer,
				join(high, s),
				join(mustHex("3045022100"), high, mustHex("0220"), s)),
			ok("p1363/zero", OpP1363ToDer,
				make([]byte, 64),
				mustHex("3006020100020100")),
			fail("p1363/short", OpP1363ToDer, fill(0x11, 63), errcode.InvalidDerFormat),
			fail("p1363/long", OpP1363ToDer, fill(0x11, 65), errcode.InvalidDerFormat),

			ok("challenge/minimal", OpCanonicalize,
				[]byte(`{`+base+`,"ts":1000,"exp":2000}`),
				[]byte("SS1|ES256|P1363|||1000|2000|||||||")),
			ok("challenge/method-upper", OpCanonicalize,
				[]byte(`{`+base+`,"ts":1,"exp":2,"method":"post","path":"/v1/x","kid":"k1"}`),
				[]byte("SS1|ES256|P1363|||1|2|POST|/v1/x|||k1||")),
			ok("challenge/short-tags", OpCanonicalize,
				[]byte(`{"ver":"SS1","alg":"ES256","sigFormat":"P1363","ts":1000,"exp":2000}`),
				[]byte("SS1|ES256|P1363|||1000|2000|||||||")),
			fail("challenge/empty", OpCanonicalize, nil, errcode.InvalidInput),
			fail("challenge/invalid-utf8", OpCanonicalize, []byte{'{', 0xC3, '}'}, errcode.UTF8Error),
			fail("challenge/not-object", OpCanonicalize, []byte(`[]`), errcode.JSONParseError),
			fail("challenge/missing-version", OpCanonicalize,
				[]byte(`{"algorithm":"ES256","signatureFormat":"P1363","ts":1,"exp":2,"x":"a|b"}`), errcode.InvalidVersion),
			fail("challenge/wrong-algorithm", OpCanonicalize,
				[]byte(`{"version":"SS1","algorithm":"RS256","signatureFormat":"P1363","ts":1000,"exp":2000}`), errcode.InvalidAlgorithm),
			fail("challenge/wrong-format", OpCanonicalize,
				[]byte(`{"version":"SS1","algorithm":"ES256","signatureFormat":"DER","ts":1000,"exp":2000}`), errcode.InvalidSigFormat),
			fail("challenge/expired", OpCanonicalize,
				[]byte(`{`+base+`,"ts":1000,"exp":500}`), errcode.InvalidExpiration),
			fail("challenge/separator", OpCanonicalize,
				[]byte(`{`+base+`,"ts":1000,"exp":2000,"x":"a|b"}`), errcode.ForbiddenChars),
			fail("challenge/nul", OpCanonicalize,
				[]byte(`{`+base+`,"ts":1000,"exp":2000,"nonce":"a\u0000"}`), errcode.ForbiddenChars),
		},
	}
}
