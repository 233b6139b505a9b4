// Package cli implements the interactive command loop of the client:
// prompting, command dispatch, and rendering of session state changes.
package cli
