// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the three run modes (terminal UI, one-shot
// evaluation and the HTTP API), decoupled from any specific entrypoint like
// a CLI.
package app
