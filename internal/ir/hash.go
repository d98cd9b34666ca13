package ir

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainDeclaration = "strata/declaration/v1"
	DomainGraph       = "strata/graph/v1"
)

// hashWithDomain computes SHA-256 with domain separation:
// SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DeclarationHash computes the content address of a declaration snapshot.
func DeclarationHash(d Declaration) string {
	return hashWithDomain(DomainDeclaration, MustMarshalCanonical(d.Canonical()))
}

// TimelineHash computes the content address of a whole declaration history.
// Two timelines hash equal iff they have the same change points and the same
// content at each.
func TimelineHash(t *Timeline[Declaration]) string {
	entries := make(IRArray, 0, t.Len())
	for _, e := range t.entries {
		entries = append(entries, IRObject{
			"since":   IRString(e.Since),
			"content": e.Value.Canonical(),
		})
	}
	return hashWithDomain(DomainDeclaration, MustMarshalCanonical(entries))
}

// Equal reports structural equality of two snapshots: equal canonical bytes.
func Equal(a, b Declaration) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return bytes.Equal(MustMarshalCanonical(a.Canonical()), MustMarshalCanonical(b.Canonical()))
}

// EqualRefs reports structural equality of two type references.
func EqualRefs(a, b TypeRef) bool {
	return bytes.Equal(MustMarshalCanonical(a.Canonical()), MustMarshalCanonical(b.Canonical()))
}

// EqualProperties reports set equality of two property lists.
func EqualProperties(a, b []Property) bool {
	return bytes.Equal(
		MustMarshalCanonical(canonicalProperties(a)),
		MustMarshalCanonical(canonicalProperties(b)),
	)
}

// EqualInterpretations reports set equality of two interpretation lists.
func EqualInterpretations(a, b []Interpretation) bool {
	return bytes.Equal(
		MustMarshalCanonical(canonicalInterpretations(a)),
		MustMarshalCanonical(canonicalInterpretations(b)),
	)
}
