// Package authcore provides the authentication and session-lifecycle engine
// for a multi-tenant campus platform: issuance, verification, rotation, and
// invalidation of signed bearer tokens, plus the brute-force protection and
// role resolution that gate access.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// the sentinel error set, and value types (Identity, TokenPair, Account).
// The rate limiter and metrics live under internal/ and are never exported;
// token signing, password policy, and role precedence are the leaf packages
// token, password, and role.
//
// The relational store holding accounts and role assignments is an external
// collaborator consumed through the [AccountStore] interface. storepg ships
// the production pgx implementation; storefake ships the in-memory one used
// in tests and examples.
//
// # Revocation model
//
// Tokens are stateless. Every token embeds the account's invalidation epoch
// at issuance, and verification rejects any token whose epoch is older than
// the account's current one. Sign-out, sign-out-everywhere, password change,
// and refresh all advance the epoch, which invalidates every earlier token
// on every device in a single atomic store update. There is no per-token
// blacklist and no per-device revocation by design.
//
// # Performance contract
//
// Verify is the hot path: one account read and an integer comparison, no
// locks, no password hashing. Password hashing is deliberately expensive
// and happens only on Register, SignIn, and ChangePassword; locked-out
// identifiers are rejected before the hasher runs so lockouts cannot be
// used to amplify hashing cost.
package authcore
