// Package kdf implements the versioned HKDF-SHA256 used by the protocol
// layer carried over the bridge.
//
// Message version 3 derivation is standard RFC 5869 HKDF. Message
// version 2 is a legacy variant whose expand counter starts at zero;
// it exists only for compatibility with old sessions and must not be
// used for new material.
package kdf
