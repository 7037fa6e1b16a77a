// Package token creates and verifies the compact signed bearer tokens
// issued by the authentication engine.
//
// Two kinds exist: short-lived access tokens that are self-sufficient for
// authorization, and longer-lived refresh tokens used only to mint new
// pairs. The kinds are signed with distinct secrets so a compromised
// access-token key can never forge a refresh token, and vice versa.
//
// Tokens are stateless: no per-token record is kept anywhere. Revocation
// happens indirectly through the epoch claim, which the engine compares
// against the account's invalidation epoch at verification time.
package token
