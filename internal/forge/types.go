package forge

// Tree entry types returned by the git trees API.
const (
	EntryBlob = "blob"
	EntryTree = "tree"
)

// TreeEntry is one blob or subtree of a recursive tree listing.
type TreeEntry struct {
	Path string
	Type string
	SHA  string
	Size int
}

// IsBlob reports whether the entry is a file.
func (e TreeEntry) IsBlob() bool { return e.Type == EntryBlob }
