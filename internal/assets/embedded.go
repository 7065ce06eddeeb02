package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader over the built-in assets.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{fsys: builtin}
}

// LoadStyle returns the built-in styles/{name}.css.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(Style, name)
}

// LoadTemplate returns the built-in templates/{name}.html.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(Template, name)
}

// Names lists the built-in assets of kind k, sorted, without extension.
func (e *EmbeddedLoader) Names(k Kind) []string {
	entries, err := fs.ReadDir(e.fsys, k.dir())
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if n, ok := strings.CutSuffix(ent.Name(), k.ext()); ok && !ent.IsDir() {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

func (e *EmbeddedLoader) load(k Kind, name string) (string, error) {
	file, err := k.file(name)
	if err != nil {
		return "", err
	}
	content, err := fs.ReadFile(e.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", k.notFound(name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

var _ Loader = (*EmbeddedLoader)(nil)
