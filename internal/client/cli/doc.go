// Package cli provides the moodctl command-line client.
//
// It wires configuration, the local record store, the optional profile
// service connection and backup uploader, and exposes them through cobra
// subcommands and an interactive REPL. Running moodctl without a
// subcommand starts the REPL, which also watches profile service
// reachability in the background.
//
// Mood commands (log, history, stats, clear, backup) need a signed-in user;
// profile commands additionally need a session obtained while online.
package cli
