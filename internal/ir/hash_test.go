package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	doc := map[string]any{
		"range": map[string]any{"age": map[string]any{"gt": "5"}},
	}

	fp1, err := Fingerprint(DomainQuery, doc)
	require.NoError(t, err)
	fp2, err := Fingerprint(DomainQuery, doc)
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64, "SHA-256 hex is 64 characters")
}

func TestFingerprintIgnoresKeyOrder(t *testing.T) {
	a := map[string]any{"x": 1, "y": 2}
	b := map[string]any{"y": 2, "x": 1}

	assert.Equal(t, MustFingerprint(DomainDocument, a), MustFingerprint(DomainDocument, b))
}

func TestFingerprintChangesWithContent(t *testing.T) {
	a := map[string]any{"gt": "5"}
	b := map[string]any{"gt": "6"}

	assert.NotEqual(t, MustFingerprint(DomainQuery, a), MustFingerprint(DomainQuery, b))
}

func TestDomainSeparationPreventsCrossTypeCollision(t *testing.T) {
	doc := map[string]any{"a": 1}

	assert.NotEqual(t, MustFingerprint(DomainQuery, doc), MustFingerprint(DomainDocument, doc))
}

func TestHashWithDomainNullSeparator(t *testing.T) {
	// "ab" + 0x00 + "c" must differ from "a" + 0x00 + "bc"
	assert.NotEqual(t, hashWithDomain("ab", []byte("c")), hashWithDomain("a", []byte("bc")))
}

func TestFingerprintErrorHandling(t *testing.T) {
	_, err := Fingerprint(DomainQuery, map[string]any{"bad": struct{}{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), DomainQuery)

	assert.Panics(t, func() {
		MustFingerprint(DomainQuery, map[string]any{"bad": struct{}{}})
	})
}
