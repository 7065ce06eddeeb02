package export

import "errors"

// Sentinel errors for PDF export.
var (
	ErrInvalidOptions = errors.New("invalid export options")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrClosed         = errors.New("exporter closed")
)
