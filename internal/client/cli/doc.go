// Package cli provides the interactive dream chat command-line client.
//
// It wires configuration, the encrypted credential store, the HTTP API
// gateway, and the session state machines into an interactive REPL. Typical
// flow: restore the stored session (or prompt for credentials), open
// today's chat room, and exchange messages with the interpreter bot.
//
// Key features:
//   - Register / Login (email, Google, Apple) / Logout
//   - Today's room with animated bot replies
//   - Bot persona selection
//   - Dream image generation (premium accounts)
//   - Calendar browsing of past dream records
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
