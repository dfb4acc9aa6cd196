package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed hashes. The version suffix leaves
// room for an algorithm change.
const (
	DomainContent = "teleprompt/content/v1"
	DomainTrace   = "teleprompt/trace/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash identifies a piece of content independent of session.
func ContentHash(content string) string {
	return hashWithDomain(DomainContent, []byte(content))
}

// Digest hashes the state-bearing part of a trace: kind, command, argument
// and resulting state of each event in order. Session ids and sequence
// numbers are excluded so a replay of a trace has the same digest.
func Digest(events []Event) (string, error) {
	items := make([]any, len(events))
	for i, e := range events {
		m := e.Canonical()
		delete(m, "session_id")
		delete(m, "seq")
		items[i] = m
	}
	data, err := MarshalCanonical(items)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hashWithDomain(DomainTrace, data), nil
}
