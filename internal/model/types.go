// Package model holds the data types shared by the resolver, the multiplexer
// backends and the CLI.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoProjectName is returned when a project name cannot be derived from a path.
var ErrNoProjectName = errors.New("project path has no usable final component")

// Project is a directory that gets its own multiplexer session.
type Project struct {
	// Path is the session's working directory. It is used as given.
	Path string `json:"path" yaml:"path"`
	// Name is the session name. It never contains '.' or ':'.
	Name string `json:"name" yaml:"name"`
}

// NewProject builds a project from a path and a name. Every '.' and ':' in
// name is replaced by '_': both separate parts of a tmux target, and tmux
// itself renames a session created with either.
func NewProject(path, name string) (Project, error) {
	name = SessionName(name)
	if name == "" {
		return Project{}, fmt.Errorf("project %q: %w", path, ErrNoProjectName)
	}
	return Project{Path: path, Name: name}, nil
}

// ProjectFromPath builds a project whose name is the final component of path.
func ProjectFromPath(path string) (Project, error) {
	return NewProject(path, BaseName(path))
}

// BaseName returns the final component of path, or "" when there is none
// (empty path, ".", "..", or a filesystem root).
func BaseName(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(filepath.Clean(path))
	switch base {
	case ".", "..", string(filepath.Separator):
		return ""
	}
	return base
}

var sessionNameReplacer = strings.NewReplacer(".", "_", ":", "_")

// SessionName normalizes a project name into a session name.
func SessionName(name string) string {
	return sessionNameReplacer.Replace(name)
}

// String returns the project name.
func (p Project) String() string {
	return p.Name
}
