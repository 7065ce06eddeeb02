// Package assets provides the stylesheets and HTML templates used for
// preview pages and PDF export.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in assets compiled in with go:embed
//	    ├── FilesystemLoader  - user overrides from a directory on disk
//	    └── Resolver          - custom first, embedded fallback
//
// The Resolver is what the editor and CLI use: a user can override the
// export stylesheet alone and keep every other built-in asset.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   ├── export.css     # standalone document printed to PDF
//	│   └── preview.css    # live preview page
//	└── templates/
//	    └── document.html  # html/template with .Title and .Body
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
