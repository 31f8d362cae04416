// Package cli provides the interactive nearwave command-line client.
//
// It wires configuration, the local SQLite store, the remote directory
// client, and an interactive REPL. Typical flow: restore the persisted
// session, then execute user commands (scan, follow, nowplaying, ...).
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
