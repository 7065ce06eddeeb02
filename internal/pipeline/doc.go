// Package pipeline turns editor markdown into HTML.
//
// Two outputs are produced from the same goldmark configuration family:
//   - Fragment HTML for the live preview (Renderer), with GFM, hard line
//     breaks, typographic punctuation and raw HTML passthrough. Tables are
//     wrapped for horizontal scrolling and fenced code is highlighted with
//     CSS classes by the chroma Highlighter.
//   - Standalone documents for PDF export and file output (Document,
//     DocumentConverter), which embed the export stylesheet, page-break
//     rules and, for converted documents, inline-styled code.
//
// PDF generation itself lives in internal/export. This package only builds
// the HTML the browser prints.
package pipeline
