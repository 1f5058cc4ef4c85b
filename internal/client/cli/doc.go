// Package cli is the vault command-line client.
//
// Commands:
//
//	register                 create an account
//	login                    authenticate and save the session
//	rotate                   replace the opaque key bound to the session token
//	upload <path>            store a file
//	download <id> [dir]      fetch a file into dir (default ".")
//	list                     show stored files
//	logout                   forget the saved session
//
// With no command an interactive prompt is started (see App.Root).
package cli
