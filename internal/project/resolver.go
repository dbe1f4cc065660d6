package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/timvw/mukduk/internal/logger"
	"github.com/timvw/mukduk/internal/model"
)

// ErrNoProjectSelected is returned when the picker yields nothing usable.
var ErrNoProjectSelected = errors.New("no project selected")

// Picker chooses one item from a list. An empty result means the user
// cancelled.
type Picker interface {
	Pick(ctx context.Context, items []string) (string, error)
}

// Resolver turns command-line input into a Project, asking a Picker to
// choose among the directories of Root when no path is given.
type Resolver struct {
	Root   string
	Picker Picker
	// List enumerates candidate directories. Defaults to ListDirectories.
	List func(root string) ([]string, error)
}

// Candidates returns one Project per directory under Root, in enumeration
// order. Directories whose name cannot form a session name are skipped.
func (r *Resolver) Candidates() ([]model.Project, error) {
	list := r.List
	if list == nil {
		list = ListDirectories
	}
	dirs, err := list(r.Root)
	if err != nil {
		return nil, err
	}

	log := logger.Component("project")
	projects := make([]model.Project, 0, len(dirs))
	for _, dir := range dirs {
		p, err := model.ProjectFromPath(dir)
		if err != nil {
			log.Warn("skipping directory", "path", dir, "err", err)
			continue
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Resolve returns the project to open.
//
// With an explicit path the project is built from it directly, named after
// explicitName or the path's last component; the path is not checked.
// Otherwise the candidates under Root are offered to the Picker and the
// chosen name is mapped back to its project. When two directories share a
// session name the first one enumerated wins.
func (r *Resolver) Resolve(ctx context.Context, explicitPath, explicitName string) (model.Project, error) {
	if explicitPath != "" {
		name := explicitName
		if name == "" {
			name = model.BaseName(explicitPath)
		}
		return model.NewProject(explicitPath, name)
	}

	candidates, err := r.Candidates()
	if err != nil {
		return model.Project{}, err
	}

	log := logger.Component("project")
	byName := make(map[string]model.Project, len(candidates))
	names := make([]string, 0, len(candidates))
	for _, p := range candidates {
		if first, dup := byName[p.Name]; dup {
			log.Warn("duplicate project name, keeping first", "name", p.Name, "kept", first.Path, "ignored", p.Path)
			continue
		}
		byName[p.Name] = p
		names = append(names, p.Name)
	}

	if r.Picker == nil {
		return model.Project{}, fmt.Errorf("resolving project: no picker configured")
	}
	choice, err := r.Picker.Pick(ctx, names)
	if err != nil {
		return model.Project{}, fmt.Errorf("picking project: %w", err)
	}
	p, found := byName[choice]
	if !found {
		if choice != "" {
			log.Warn("picked name does not match any project", "name", choice)
		}
		return model.Project{}, ErrNoProjectSelected
	}
	log.Debug("resolved project", "name", p.Name, "path", p.Path)
	return p, nil
}
