// Package provenance declares the interfaces of external collaborators:
// the creator registry and the optional cryptographic manifest layer.
// Both are consumed, never implemented, by this module. A collaborator
// failure must never abort the watermark pipeline; the watermarked-only
// buffer is always a valid fallback output.
package provenance

import (
	"context"
	"time"

	"github.com/yyyoichi/stegomark/fingerprint"
	"github.com/yyyoichi/stegomark/payload"
)

// Signature is the ledger entry a registry records for each embed.
type Signature struct {
	CreatorID   string
	Fingerprint fingerprint.Digest
	Source      payload.SourceType
	// Prompt optionally records the generation prompt for AI content.
	Prompt string
}

// CreatorProfile is a registry's view of a creator identity.
type CreatorProfile struct {
	CreatorID    string
	DisplayName  string
	RegisteredAt time.Time
}

// Registry is the creator identity and signed-image ledger.
type Registry interface {
	RecordSignature(ctx context.Context, sig Signature) error
	// LookupCreator returns (nil, nil) when the creator is unknown.
	LookupCreator(ctx context.Context, creatorID string) (*CreatorProfile, error)
}

// Claim carries the authorship assertions handed to a manifest signer.
type Claim struct {
	Author        string
	TransactionID string
	Metadata      map[string]string
}

// ManifestSigner layers a signed provenance manifest onto an encoded
// media buffer. Best effort: on error the caller keeps the input buffer.
type ManifestSigner interface {
	Sign(ctx context.Context, buf []byte, claim Claim) ([]byte, error)
}

// ManifestResult is the collaborator's judgment of an embedded manifest.
type ManifestResult struct {
	Found  bool
	Valid  bool
	Author string
	Signed time.Time
}

// ManifestVerifier checks an encoded media buffer for a provenance
// manifest. A nil result means no manifest was present.
type ManifestVerifier interface {
	Verify(ctx context.Context, buf []byte) (*ManifestResult, error)
}
