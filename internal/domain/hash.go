package domain

import (
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

// Domain prefixes for content digests.
// Version suffix enables future algorithm migration.
const (
	DomainStore = "decisiongraph/store/v1"
	DomainGraph = "decisiongraph/graph/v1"
	DomainBatch = "decisiongraph/batch/v1"
)

// hashWithDomain computes BLAKE3-256 with domain separation.
// Format: BLAKE3(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := blake3.New(32, nil)
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StoreDigest returns a content digest of s. Two Stores with equal
// content, regardless of map iteration order or structural sharing, have
// equal digests.
func StoreDigest(s Store) (string, error) {
	data, err := MarshalCanonical(s)
	if err != nil {
		return "", fmt.Errorf("canonicalize store: %w", err)
	}
	return hashWithDomain(DomainStore, data), nil
}

// GraphDigest returns a content digest of g.
func GraphDigest(g *Graph) (string, error) {
	data, err := MarshalCanonical(g)
	if err != nil {
		return "", fmt.Errorf("canonicalize graph %s: %w", g.GraphID, err)
	}
	return hashWithDomain(DomainGraph, data), nil
}

// BatchDigest returns a content digest over the wire encodings of a
// batch of operations, each already canonical.
func BatchDigest(graphID GraphID, ops [][]byte) string {
	h := blake3.New(32, nil)
	h.Write([]byte(DomainBatch))
	h.Write([]byte{0x00})
	h.Write([]byte(graphID))
	for _, op := range ops {
		h.Write([]byte{0x00})
		h.Write(op)
	}
	return hex.EncodeToString(h.Sum(nil))
}
