// Package cli provides the interactive petadopt terminal client.
//
// It wires configuration, the local sqlite file, the REST gateway and the
// client stores, then runs a read-eval-print loop whose commands dispatch
// store actions and render the resulting state.
//
// Typical flow: browse the catalogue with "pets", sign in with "login",
// apply for a pet with "apply <id>" and follow it with "myapps".
// Administrators additionally manage pets and decide on applications.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or ctx is cancelled. See App and runREPL for details.
package cli
