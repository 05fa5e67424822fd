// Package protocol owns the TEK-766 parameter wire contract.
//
// Ownership boundary:
// - payload header constants
// - write request assembly
// - write request / read response parsing
//
// Block primitives live in tlv, the parameter table in schema.
package protocol
