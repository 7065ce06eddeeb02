package assets

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_LoadStyle - Built-in stylesheets
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		styleName   string
		wantErr     error
		wantContain string
	}{
		{"export style", ExportStyle, nil, "max-width: 800px"},
		{"preview style", PreviewStyle, nil, ".markdown-table"},
		{"nonexistent", "nonexistent-style-xyz", ErrStyleNotFound, ""},
		{"empty name", "", ErrInvalidAssetName, ""},
		{"path traversal", "../secret", ErrInvalidAssetName, ""},
		{"name with dot", "export.css", ErrInvalidAssetName, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadStyle(tt.styleName)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("LoadStyle(%q) error = %v, want %v", tt.styleName, err, tt.wantErr)
			}
			if tt.wantContain != "" && !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadStyle(%q) missing %q", tt.styleName, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_ExportStyleValues(t *testing.T) {
	t.Parallel()

	css, err := LoadStyle(ExportStyle)
	if err != nil {
		t.Fatalf("LoadStyle() error = %v", err)
	}

	for _, want := range []string{
		"font-size: 14px",
		"line-height: 1.6",
		"color: #333",
		"padding: 20px",
		"border-collapse: collapse",
		"font-size: 12px",
		"border: 1px solid #ddd",
		"padding: 8px",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("export stylesheet missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader_LoadTemplate - Built-in templates
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	got, err := LoadTemplate(DocumentTemplate)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	for _, want := range []string{"{{.Title}}", "{{.Body}}", "</head>"} {
		if !strings.Contains(got, want) {
			t.Errorf("document template missing %q", want)
		}
	}

	if _, err := LoadTemplate("missing"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("LoadTemplate(missing) error = %v, want ErrTemplateNotFound", err)
	}
}
