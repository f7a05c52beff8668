package verify

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/securesign/securesign-core/challenge"
	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/errcode"
)

// KeyResolver interface for looking up device public keys by kid
type KeyResolver interface {
	ResolvePublicKey(ctx context.Context, kid string) (*ecdsa.PublicKey, error)
}

// Service handles verification logic
type Service struct {
	resolver KeyResolver
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used by expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new verification service
func NewService(resolver KeyResolver, opts ...Option) *Service {
	s := &Service{
		resolver: resolver,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verify checks a device signature over a challenge.
func (s *Service) Verify(ctx context.Context, req *VerifyRequest) (*VerifyResult, error) {
	result := &VerifyResult{}

	// Step 1: Recompute the canonical bytes
	c, err := challenge.Parse(req.Challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to parse challenge: %w", err)
	}
	canonical, err := c.Canonical()
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize challenge: %w", err)
	}
	result.Challenge = c
	result.Canonical = string(canonical)
	result.CanonicalHash = challenge.ComputeHash(canonical)

	// Step 2: Resolve the public key
	kid := req.KeyID
	if kid == "" {
		kid = c.KeyID
	}
	if kid == "" {
		return nil, errcode.New(errcode.InvalidKeyID, "challenge has no kid and no key was given")
	}
	result.KeyID = kid

	pub, err := s.resolver.ResolvePublicKey(ctx, kid)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve key %q: %w", kid, err)
	}
	result.PublicKey = pub
	sec1, err := crypto.MarshalSec1(pub)
	if err != nil {
		return nil, fmt.Errorf("unusable key %q: %w", kid, err)
	}
	if result.PublicKeySPKI, err = crypto.Sec1ToSPKIBase64URL(sec1); err != nil {
		return nil, fmt.Errorf("unusable key %q: %w", kid, err)
	}

	// Step 3: Normalize the signature to P1363
	format, sig, err := normalizeSignature(req.Signature, req.Format)
	if err != nil {
		return nil, err
	}
	result.SignatureFormat = format
	result.SignatureP1363 = sig

	// Step 4: Verify signature
	result.SignatureValid = crypto.VerifyECDSASignature(pub, canonical, sig)
	if !result.SignatureValid {
		result.Message = "signature verification failed"
		return result, nil
	}

	// Step 5: Check the challenge window
	if req.CheckExpiry {
		now := s.now().Unix()
		if now < c.Timestamp || now >= c.Expiration {
			result.Expired = true
			result.Message = fmt.Sprintf("challenge window [%d, %d) does not contain %d", c.Timestamp, c.Expiration, now)
			return result, nil
		}
	}

	result.Valid = true
	return result, nil
}

func normalizeSignature(sig []byte, format SignatureFormat) (SignatureFormat, []byte, error) {
	if format == FormatAuto {
		format = FormatDER
		if len(sig) == crypto.P1363Size {
			format = FormatP1363
		}
	}

	switch format {
	case FormatP1363:
		if len(sig) != crypto.P1363Size {
			return "", nil, errcode.Errorf(errcode.InvalidDerFormat,
				"invalid P1363 signature length: expected %d bytes, got %d", crypto.P1363Size, len(sig))
		}
		return format, append([]byte(nil), sig...), nil
	case FormatDER:
		p1363, err := crypto.DerToP1363(sig)
		if err != nil {
			return "", nil, fmt.Errorf("failed to decode DER signature: %w", err)
		}
		return format, p1363, nil
	}
	return "", nil, fmt.Errorf("unsupported signature format %q", format)
}
