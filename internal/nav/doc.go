// Package nav derives the MkDocs navigation from the documentation tree.
//
// Every non-hidden directory under the output root is a repository. Its
// Markdown files become leaves labelled from their file names (or page
// titles), nested in sections named after their parent directories. The
// result is an ordered tree serialized as the list-of-single-key-maps form
// MkDocs expects under `nav:`.
package nav
