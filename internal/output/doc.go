// Package output manages the local documentation tree that MkDocs renders.
//
// The tree is rebuilt on every run: Prepare empties it while keeping the home
// page, and WriteRepository writes one repository's files below
// <root>/<repository name>/.
package output
