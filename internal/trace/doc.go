// Package trace defines the session trace: one Event per processed command
// or timer fire, stamped with a logical sequence number and carrying the
// state the session reached.
//
// Events serialize to canonical JSON (sorted keys, NFC strings, no floats,
// no HTML escaping) so a trace hashes and diffs identically across runs.
// Progress is stored in basis points for that reason.
package trace
