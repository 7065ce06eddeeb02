package assets

import (
	"fmt"
	"path"
)

// Loader loads CSS styles and HTML templates by name.
type Loader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// Kind is a category of asset: a stylesheet or a page template.
type Kind int

const (
	Style Kind = iota
	Template
)

func (k Kind) String() string {
	if k == Template {
		return "template"
	}
	return "style"
}

// dir is the subdirectory holding assets of this kind, both embedded and
// under a custom base path.
func (k Kind) dir() string {
	if k == Template {
		return "templates"
	}
	return "styles"
}

func (k Kind) ext() string {
	if k == Template {
		return ".html"
	}
	return ".css"
}

func (k Kind) notFound(name string) error {
	if k == Template {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return fmt.Errorf("%w: %q", ErrStyleNotFound, name)
}

// file returns the slash-separated relative path of the named asset.
// Names are restricted to ASCII letters, digits, '-' and '_', so they can
// carry neither a separator nor an extension.
func (k Kind) file(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty %s name", ErrInvalidAssetName, k)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", fmt.Errorf("%w: %s %q", ErrInvalidAssetName, k, name)
		}
	}
	return path.Join(k.dir(), name+k.ext()), nil
}
