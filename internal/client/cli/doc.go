// Package cli provides the interactive SkillSwap command-line client.
//
// It wires configuration, the local credential database, the API executor and
// the three stores, then runs a REPL that reads store state and issues
// commands. Typical flow: restore the saved session, prompt for login when
// there is none, then browse skills and manage exchange requests.
//
// Key features:
//   - Register / Login / Logout, profile view and edit
//   - Browse, search, offer, edit and delete skills
//   - Send, list, accept, reject, complete and cancel exchange requests
//   - A dashboard that refreshes the user's skills and requests concurrently
//
// The CLI subscribes to session changes, so an expired or revoked session is
// reported and the prompt falls back to the signed-out command set.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
