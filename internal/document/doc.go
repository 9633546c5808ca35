// Package document reads and writes the YAML project format used by
// the CLI and the conformance harness. Decoding is strict: unknown
// fields are rejected, and the rebuilt aggregate passes the full
// project validation before it is returned.
package document
