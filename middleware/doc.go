// Package middleware exposes HTTP adapters that enforce authcore token
// verification and role gating in front of protected handlers.
//
// # Guards
//
//   - [RequireAuth] — verifies the bearer access token and injects the
//     resolved identity into the request context.
//   - [RequireRole] — layered on [RequireAuth]; additionally rejects
//     identities whose role is not in the allowed set.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself; all decisions are delegated to
// Engine.Verify and the role package.
//
// # What this package must NOT do
//
//   - Parse or create tokens directly (delegates to Engine).
//   - Touch the account store (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Engine.Verify
//     and the supplied role set.
package middleware
