// Package verify classifies a watermark extraction result, optionally
// combined with an external provenance manifest status, into a closed
// set of verification outcomes. The decision is a pure function of its
// inputs; no state is consulted or persisted.
package verify

import (
	"time"

	"github.com/yyyoichi/stegomark/payload"
)

// ManifestStatus reports the result of the external manifest
// collaborator, independent of the watermark.
type ManifestStatus int

const (
	ManifestAbsent ManifestStatus = iota
	ManifestValid
	ManifestInvalid
)

func (s ManifestStatus) String() string {
	switch s {
	case ManifestValid:
		return "manifest-valid"
	case ManifestInvalid:
		return "manifest-invalid"
	default:
		return "manifest-absent"
	}
}

// Kind is the watermark-derived classification of a verification attempt.
type Kind int

const (
	// NoSignature means no well-formed watermark record was found.
	NoSignature Kind = iota
	// VerifiedAuthentic means a record declaring authentic content was found.
	VerifiedAuthentic
	// VerifiedAIGenerated means a record declaring AI-generated content was found.
	VerifiedAIGenerated
	// ModifiedSinceSigning means a record was found but the content no
	// longer matches a trusted baseline fingerprint.
	ModifiedSinceSigning
)

func (k Kind) String() string {
	switch k {
	case VerifiedAuthentic:
		return "verified-authentic"
	case VerifiedAIGenerated:
		return "verified-ai-generated"
	case ModifiedSinceSigning:
		return "modified-since-signing"
	default:
		return "no-signature"
	}
}

// Outcome is the full verification result handed to callers. CreatorID,
// Timestamp and Source are only meaningful when Kind is not NoSignature.
type Outcome struct {
	Kind      Kind
	CreatorID string
	Timestamp time.Time
	Source    payload.SourceType
	Manifest  ManifestStatus
}

// Decide maps an extraction result and a manifest status to an Outcome.
// rec is nil when extraction found no payload. The manifest status is
// attached for trust signaling but never overrides the watermark-derived
// classification: an invalid or absent manifest does not turn a verified
// record into ModifiedSinceSigning.
//
// Decide does not compare the embedded fingerprint against the current
// pixels: embedding itself rewrites least significant bits, so that
// comparison cannot hold even for untampered media. A record that
// decodes cleanly is reported as verified.
func Decide(rec *payload.Record, manifest ManifestStatus) Outcome {
	if rec == nil {
		return Outcome{Kind: NoSignature, Manifest: manifest}
	}
	out := Outcome{
		CreatorID: rec.CreatorID,
		Timestamp: rec.Timestamp,
		Source:    rec.Source,
		Manifest:  manifest,
	}
	switch rec.Source {
	case payload.SourceAuthentic:
		out.Kind = VerifiedAuthentic
	case payload.SourceAIGenerated:
		out.Kind = VerifiedAIGenerated
	default:
		// the codec fails closed on unknown variants, so a record can
		// only reach here with a valid source; treat anything else as
		// no trustworthy signature
		return Outcome{Kind: NoSignature, Manifest: manifest}
	}
	return out
}

// DecideWithBaseline is the stricter decision for callers holding a
// trusted pre-signing fingerprint, typically from a registry lookup.
// When the record's embedded fingerprint does not match the baseline,
// the content was altered after signing and the outcome is
// ModifiedSinceSigning.
func DecideWithBaseline(rec *payload.Record, manifest ManifestStatus, baseline [payload.FingerprintLen]byte) Outcome {
	out := Decide(rec, manifest)
	if rec == nil {
		return out
	}
	if rec.Fingerprint != baseline {
		out.Kind = ModifiedSinceSigning
	}
	return out
}
