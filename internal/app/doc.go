// Package app contains the core application logic. It resolves the game
// profile, turns command-line configuration into conversion jobs and runs
// them, decoupled from any specific entrypoint like a CLI.
package app
