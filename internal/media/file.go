package media

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// File describes a video file discovered under the source root. Immutable
// once created by Scan.
type File struct {
	// Path is the absolute path of the source file.
	Path string
	// Size is the source file's length in bytes at discovery time.
	Size int64
	// RelPath is the path relative to the source root; the output tree
	// mirrors it.
	RelPath string
}

// Name returns the file's base name.
func (f File) Name() string {
	return filepath.Base(f.Path)
}

var titleCaser = cases.Title(language.English)

// DisplayTitle derives a human-readable title from the file name for
// notifications and summary text: "the.big.movie.mkv" becomes
// "The Big Movie".
func DisplayTitle(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	stem = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(stem)
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return name
	}
	return titleCaser.String(stem)
}
