// Package cli provides the authority command-line client.
//
// Every command takes its arguments positionally and prints its result to
// the App's writer. With no command on the command line the App starts a
// REPL that accepts the same commands, one per line.
//
// The login session and the identities registered from this machine live in
// a local SQLite store (see client.InitDatabase).
//
// Commands:
//   - ping
//   - known <email>, staged <email>
//   - register <email> <pubkey> (prompts for a password)
//   - verify <secret>
//   - login <email> (prompts for a password, stores the session)
//   - logout, whoami
//   - identities (lists the locally stored email → pubkey bindings)
//   - add-email <email> <pubkey> (needs a stored token)
//   - sync [email=pubkey ...] (needs a stored token; defaults to the local identities
//     and drops the unknown ones that are not awaiting verification)
package cli
