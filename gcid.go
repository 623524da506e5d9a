package asgen

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// GCID is a global content-identifier: a content-addressed key of the form
// "<component-id>/<package-version>/<hash-of-data>" (SPEC_FULL.md §3).
//
// Two packages producing byte-identical component serializations share a
// GCID; this is the deduplication key of the Component Store (C2).
type GCID struct {
	ComponentID string
	PkgVersion  string
	Hash        string
}

// String renders the canonical GCID form.
func (g GCID) String() string {
	return g.ComponentID + "/" + g.PkgVersion + "/" + g.Hash
}

// ParseGCID parses the canonical form produced by [GCID.String].
func ParseGCID(s string) (GCID, error) {
	parts := strings.SplitN(s, "/", 3)
	if len(parts) != 3 {
		return GCID{}, fmt.Errorf("asgen: malformed gcid %q", s)
	}
	return GCID{ComponentID: parts[0], PkgVersion: parts[1], Hash: parts[2]}, nil
}

// ComputeGCID builds a GCID from a component id, the owning package's
// version, and the canonical serialized bytes of the component.
//
// Determinism (SPEC_FULL.md §11, property 1): for fixed (id, version, bytes)
// the result is stable across runs and machines — blake2b-256 is used purely
// as a fixed-size, collision-resistant digest, not a cryptographic identity.
func ComputeGCID(componentID, pkgVersion string, canonicalBytes []byte) GCID {
	sum := blake2b.Sum256(canonicalBytes)
	return GCID{
		ComponentID: componentID,
		PkgVersion:  pkgVersion,
		Hash:        hex.EncodeToString(sum[:])[:32],
	}
}

// Prefix returns the GCID-prefix used to shard the media export tree
// (SPEC_FULL.md §8, output layout): the first two characters of the component-id, or "_"
// if the component-id is empty.
func (g GCID) Prefix() string {
	id := g.ComponentID
	if len(id) == 0 {
		return "_"
	}
	if len(id) == 1 {
		return id
	}
	return id[:2]
}
