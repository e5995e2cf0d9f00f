// Package cli provides the interactive SplitVault command-line client.
//
// It wires configuration, the HTTP API client, the crypto session, and an
// interactive REPL. Typical flow: prompt for credentials, start a background
// connectivity watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout (password never leaves the device)
//   - Create groups, invite members, join via link code
//   - Add expenses and repayments, attach encrypted receipts
//   - Show balances and a minimal settlement plan
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
