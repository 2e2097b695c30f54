package nav

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Humanize turns a file or directory name into a label: underscores and
// hyphens become spaces and every word is title-cased.
func Humanize(name string) string {
	r := strings.NewReplacer("_", " ", "-", " ")
	return titleCaser.String(r.Replace(name))
}

// Stem returns the file name without directory and extension.
func Stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// IsReadme reports whether p names a README file, case-insensitively.
func IsReadme(p string) bool {
	return strings.EqualFold(Stem(p), "readme")
}

// FileLabel is the filename-derived label of a page inside repository repo.
func FileLabel(repo, p, overview string) string {
	if IsReadme(p) {
		return repo + " " + overview
	}
	return Humanize(Stem(p))
}
