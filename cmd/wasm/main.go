//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/securesign/securesign-core/mobile"
)

func main() {
	c := make(chan struct{})

	// Register the core functions under a single namespace object
	ns := js.Global().Get("Object").New()
	ns.Set("derToP1363", js.FuncOf(bytesFunc(mobile.DerToP1363)))
	ns.Set("p1363ToDer", js.FuncOf(bytesFunc(mobile.P1363ToDer)))
	ns.Set("canonicalizeChallenge", js.FuncOf(bytesFunc(mobile.CanonicalizeChallenge)))
	ns.Set("sec1ToSpki", js.FuncOf(bytesFunc(mobile.Sec1ToSPKI)))
	js.Global().Set("securesign", ns)

	println("SecureSign core WASM loaded")

	<-c
}

// bytesFunc adapts a []byte -> []byte core function for JavaScript. The
// argument may be a Uint8Array or a string. The result is an object with
// either a Uint8Array "value" or a numeric "code" and an "error" message.
func bytesFunc(fn func([]byte) ([]byte, error)) func(this js.Value, args []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		result := js.Global().Get("Object").New()

		if len(args) < 1 {
			result.Set("code", 3001)
			result.Set("error", "expected 1 argument")
			return result
		}

		out, err := fn(toBytes(args[0]))
		if err != nil {
			result.Set("code", mobile.ErrorCode(err))
			result.Set("error", err.Error())
			return result
		}

		value := js.Global().Get("Uint8Array").New(len(out))
		js.CopyBytesToJS(value, out)
		result.Set("value", value)
		return result
	}
}

func toBytes(v js.Value) []byte {
	if v.Type() == js.TypeString {
		return []byte(v.String())
	}
	if v.Type() != js.TypeObject {
		return nil
	}
	b := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(b, v)
	return b
}
