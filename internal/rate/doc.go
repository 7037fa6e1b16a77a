// Package rate tracks failed sign-in attempts per submitted identifier and
// enforces temporary lockout.
//
// The limiter is keyed purely by the identifier string, never by an account
// id, so probing against nonexistent accounts is throttled exactly like
// probing against real ones. State lives behind the [Store] interface — an
// increment-with-expiry key-value contract — so a single process can run on
// the in-memory store while a multi-instance deployment shares a Redis
// backend without the orchestrator changing.
package rate
