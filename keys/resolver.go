package keys

import (
	"context"
	"crypto/ecdsa"

	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/errcode"
)

// DirResolver resolves a kid to the public key stored under that name.
type DirResolver struct {
	Dir string
}

// ResolvePublicKey implements verify.KeyResolver.
func (r *DirResolver) ResolvePublicKey(ctx context.Context, kid string) (*ecdsa.PublicKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadPublicKey(r.Dir, kid)
}

// StaticResolver resolves kids from a fixed table.
type StaticResolver map[string]*ecdsa.PublicKey

// NewStaticResolver builds a resolver from base64url SPKI strings keyed by kid.
func NewStaticResolver(spkis map[string]string) (StaticResolver, error) {
	r := make(StaticResolver, len(spkis))
	for kid, spki := range spkis {
		pub, err := crypto.ParseSPKIBase64URL(spki)
		if err != nil {
			return nil, errcode.Wrap(errcode.CodeOf(err), "invalid public key for "+kid, err)
		}
		r[kid] = pub
	}
	return r, nil
}

// ResolvePublicKey implements verify.KeyResolver.
func (r StaticResolver) ResolvePublicKey(_ context.Context, kid string) (*ecdsa.PublicKey, error) {
	pub, ok := r[kid]
	if !ok {
		return nil, errcode.Errorf(errcode.KeyNotFound, "key %q not found", kid)
	}
	return pub, nil
}

// FixedResolver resolves every kid to Key.
type FixedResolver struct {
	Key *ecdsa.PublicKey
}

// ResolvePublicKey implements verify.KeyResolver.
func (r *FixedResolver) ResolvePublicKey(_ context.Context, _ string) (*ecdsa.PublicKey, error) {
	if r.Key == nil {
		return nil, errcode.New(errcode.KeyNotFound, "no public key configured")
	}
	return r.Key, nil
}
