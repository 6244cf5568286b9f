package asset

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoLoader is returned when no loader is registered for a file extension.
	ErrNoLoader = errors.New("no loader registered")
	// ErrLabelNotFound is returned when a file loaded but did not publish the requested label.
	ErrLabelNotFound = errors.New("label not found")
	// ErrTypeMismatch is returned when the published asset has a different type than the handle.
	ErrTypeMismatch = errors.New("asset type mismatch")
)

// Loader decodes files of one or more extensions. Load runs on a background
// goroutine and must not touch ECS storage.
type Loader interface {
	// Extensions lists the lower-cased extensions the loader handles, with the dot.
	Extensions() []string
	// Load decodes the file and returns the asset for the unlabeled path.
	// Sub-assets are published through lc.AddLabeled. Every published value
	// must be a pointer to the asset type.
	Load(ctx context.Context, lc *LoadContext) (any, error)
}

// LoadContext is handed to a Loader for one file.
type LoadContext struct {
	// Path is the file path relative to the asset root.
	Path string
	// FullPath is Path joined to the asset root on the local filesystem.
	FullPath string

	labeled map[string]any
}

// AddLabeled publishes value as the sub-asset "<file>#<label>".
func (lc *LoadContext) AddLabeled(label string, value any) {
	if label == "" {
		panic("empty asset label")
	}
	if _, dup := lc.labeled[label]; dup {
		panic(fmt.Sprintf("label %q published twice by %s", label, lc.Path))
	}
	lc.labeled[label] = value
}

// Labels returns the labels published so far.
func (lc *LoadContext) Labels() []string {
	labels := make([]string, 0, len(lc.labeled))
	for label := range lc.labeled {
		labels = append(labels, label)
	}
	return labels
}
