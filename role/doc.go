// Package role defines the closed set of roles known to the authentication
// engine and resolves the single effective role for a sign-in session.
//
// Roles form a fixed total order of precedence. Resolution scans that order
// from most privileged to least and returns the first role the account holds
// within the requested tenant scope, so an account holding several
// assignments always collapses to exactly one effective role.
package role
