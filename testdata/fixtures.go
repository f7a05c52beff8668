// Package testdata provides embedded test fixtures for use across all test packages.
package testdata

import _ "embed"

// ChallengeJSON is a registration challenge as issued by the server
//
//go:embed challenge.json
var ChallengeJSON []byte

// ChallengeCanonical is the canonical form of ChallengeJSON
//
//go:embed challenge.canonical
var ChallengeCanonical []byte
