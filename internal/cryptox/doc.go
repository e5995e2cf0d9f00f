// Package cryptox implements the client-side encryption pipeline:
// password-based key derivation, authenticated envelope encryption,
// key wrapping, and the typed field codec used by the ledger.
//
// Key material is held behind the opaque Key type and never leaves this
// package in raw form; higher layers wrap, unwrap and use keys only
// through the functions defined here.
package cryptox
