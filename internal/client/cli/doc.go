// Package cli provides the interactive GophBlog command-line client.
//
// It wires configuration and the HTTP API client into a REPL. Typical flow:
// register or log in, then read, write and edit posts. Passwords are read
// without echo and wiped after use; the session lives in the client's
// cookie jar for the lifetime of the process.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
