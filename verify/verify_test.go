package verify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yyyoichi/stegomark/payload"
)

func record(source payload.SourceType) *payload.Record {
	return &payload.Record{
		Version:     payload.Version1,
		CreatorID:   "0xCreator",
		Timestamp:   time.Unix(1700000000, 0).UTC(),
		Fingerprint: [4]byte{1, 2, 3, 4},
		Source:      source,
	}
}

func TestDecide(t *testing.T) {
	test := []struct {
		name     string
		rec      *payload.Record
		manifest ManifestStatus
		want     Kind
	}{
		{"absent record", nil, ManifestAbsent, NoSignature},
		{"absent record with valid manifest", nil, ManifestValid, NoSignature},
		{"authentic", record(payload.SourceAuthentic), ManifestAbsent, VerifiedAuthentic},
		{"ai generated", record(payload.SourceAIGenerated), ManifestAbsent, VerifiedAIGenerated},
		// the manifest layer signals trust but never flips the
		// watermark-derived classification
		{"authentic with invalid manifest", record(payload.SourceAuthentic), ManifestInvalid, VerifiedAuthentic},
		{"ai with valid manifest", record(payload.SourceAIGenerated), ManifestValid, VerifiedAIGenerated},
		// unreachable through the codec, which fails closed on unknown
		// source bytes; the decision still refuses to vouch for one
		{"unknown source fails closed", record(payload.SourceType(0x7f)), ManifestValid, NoSignature},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			out := Decide(tt.rec, tt.manifest)
			assert.Equal(t, tt.want, out.Kind)
			assert.Equal(t, tt.manifest, out.Manifest)
			if tt.want != NoSignature {
				assert.Equal(t, tt.rec.CreatorID, out.CreatorID)
				assert.Equal(t, tt.rec.Timestamp, out.Timestamp)
				assert.Equal(t, tt.rec.Source, out.Source)
			} else {
				assert.Empty(t, out.CreatorID)
			}
		})
	}
}

func TestDecideWithBaseline(t *testing.T) {
	rec := record(payload.SourceAuthentic)

	t.Run("matching baseline stays verified", func(t *testing.T) {
		out := DecideWithBaseline(rec, ManifestAbsent, rec.Fingerprint)
		assert.Equal(t, VerifiedAuthentic, out.Kind)
	})
	t.Run("mismatch means modified since signing", func(t *testing.T) {
		out := DecideWithBaseline(rec, ManifestValid, [4]byte{9, 9, 9, 9})
		assert.Equal(t, ModifiedSinceSigning, out.Kind)
		assert.Equal(t, rec.CreatorID, out.CreatorID, "creator stays attributed")
		assert.Equal(t, ManifestValid, out.Manifest)
	})
	t.Run("absent record is still no signature", func(t *testing.T) {
		out := DecideWithBaseline(nil, ManifestAbsent, [4]byte{})
		assert.Equal(t, NoSignature, out.Kind)
	})
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "no-signature", NoSignature.String())
	assert.Equal(t, "verified-authentic", VerifiedAuthentic.String())
	assert.Equal(t, "verified-ai-generated", VerifiedAIGenerated.String())
	assert.Equal(t, "modified-since-signing", ModifiedSinceSigning.String())
	assert.Equal(t, "manifest-absent", ManifestAbsent.String())
	assert.Equal(t, "manifest-valid", ManifestValid.String())
	assert.Equal(t, "manifest-invalid", ManifestInvalid.String())
}
