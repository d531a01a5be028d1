// Package cli provides the interactive lost-and-found command-line client.
//
// NewApp wires configuration, the local session database, the REST client,
// the image uploader and the services. App.Run restores the cached session,
// starts a background status watcher and runs the REPL until the user exits.
//
// Commands are gated by authentication and role: guests can register, log in
// and browse found items; users file lost reports and claims; staff manage
// found items and review claims; admins manage accounts.
package cli
