package config

import "context"

// Loader reads a project description from a file.
type Loader interface {
	Load(ctx context.Context, path string) (*Project, error)
}

// Project is the format-agnostic result of loading a project file.
type Project struct {
	Name    string
	Version string
	Board   string
	MCU     string
	Output  string
	Inputs  []string
	// LongSize is zero when the file does not pin it.
	LongSize int
	// Source is the file the project was loaded from.
	Source string
}
