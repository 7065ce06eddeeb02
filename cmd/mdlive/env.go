package main

import (
	"io"
	"os"
	"time"

	mdlive "github.com/alnah/go-mdlive"
	"github.com/alnah/go-mdlive/internal/clipboard"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the collaborators that reach outside the process.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Clipboard overrides the system clipboard with its OSC 52 fallback.
	Clipboard clipboard.Writer
	// Exporter overrides the headless Chrome exporter.
	Exporter mdlive.Exporter
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
