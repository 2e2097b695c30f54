// Package fetch collects the Markdown files of one repository through a
// forge Source: resolve the branch, list the tree, keep `.md` blobs and
// download each of them.
package fetch
