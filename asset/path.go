package asset

import (
	"path"
	"strings"
)

// AssetPath names an asset inside the asset root: a slash separated file path
// and an optional label selecting a sub-asset the file's loader published.
// The string form is "<file>#<label>", for example "Fox.glb#Animation0".
type AssetPath struct {
	Path  string
	Label string
}

// ParseAssetPath splits s at the first '#'. The file part is cleaned.
func ParseAssetPath(s string) AssetPath {
	file, label, _ := strings.Cut(s, "#")
	if file != "" {
		file = path.Clean(file)
	}
	return AssetPath{Path: file, Label: label}
}

func (p AssetPath) String() string {
	if p.Label == "" {
		return p.Path
	}
	return p.Path + "#" + p.Label
}

// WithLabel returns the same file with another label.
func (p AssetPath) WithLabel(label string) AssetPath {
	return AssetPath{Path: p.Path, Label: label}
}

// Ext returns the lower-cased file extension including the dot.
func (p AssetPath) Ext() string {
	return strings.ToLower(path.Ext(p.Path))
}
