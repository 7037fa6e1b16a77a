// Package password implements the credential policy of the authentication
// engine: strength validation with ordered weakness reasons, and adaptive
// one-way hashing via bcrypt with an injected cost factor.
//
// Hashing is deliberately CPU-expensive and must be kept off
// latency-sensitive hot paths. The [Hasher] is a pure function of its
// inputs; the cost is fixed at construction so tests can run with a cheap
// factor without touching production configuration.
package password
