package lint

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// projectCacheSize bounds the number of directories whose project lookup is memoized.
const projectCacheSize = 512

// composerFile marks the root of a PHP project.
const composerFile = "composer.json"

// Project is the PHP project a file belongs to.
type Project struct {
	// Name is the package name from composer.json (e.g., "acme/shop").
	Name string

	// Root is the directory containing composer.json.
	Root string
}

type projectEntry struct {
	project Project
	found   bool
}

// RunContext carries data computed once per run and shared by every rule
// invocation. It is safe for concurrent use; the only mutable part is the
// project lookup memo, which is guarded by the LRU's own lock.
//
// A nil *RunContext is valid and answers every question with its zero value.
type RunContext struct {
	legacy   []string
	projects *lru.Cache[string, projectEntry]
}

// NewRunContext creates a run context. legacyProjects holds composer package
// names, or path.Match patterns over them, that identify legacy projects.
func NewRunContext(legacyProjects []string) (*RunContext, error) {
	for _, pattern := range legacyProjects {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("legacy project pattern %q: %w", pattern, err)
		}
	}

	projects, err := lru.New[string, projectEntry](projectCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create project cache: %w", err)
	}

	return &RunContext{
		legacy:   legacyProjects,
		projects: projects,
	}, nil
}

// ProjectFor returns the project owning the file at filePath, found by walking
// up from its directory to the nearest composer.json.
func (rc *RunContext) ProjectFor(filePath string) (Project, bool) {
	if rc == nil || filePath == "" {
		return Project{}, false
	}

	dir, err := filepath.Abs(filepath.Dir(filePath))
	if err != nil {
		return Project{}, false
	}

	var visited []string
	entry := projectEntry{}
	for {
		if cached, ok := rc.projects.Get(dir); ok {
			entry = cached
			break
		}
		visited = append(visited, dir)

		if project, ok := readProject(dir); ok {
			entry = projectEntry{project: project, found: true}
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	for _, v := range visited {
		rc.projects.Add(v, entry)
	}
	return entry.project, entry.found
}

func readProject(dir string) (Project, bool) {
	data, err := os.ReadFile(filepath.Join(dir, composerFile))
	if err != nil {
		return Project{}, false
	}

	var manifest struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		// A broken manifest still marks the project root.
		return Project{Root: dir}, true
	}
	return Project{Name: manifest.Name, Root: dir}, true
}

// IsLegacy reports whether the file belongs to a project configured as legacy.
func (rc *RunContext) IsLegacy(filePath string) bool {
	if rc == nil || len(rc.legacy) == 0 {
		return false
	}
	project, ok := rc.ProjectFor(filePath)
	if !ok || project.Name == "" {
		return false
	}
	for _, pattern := range rc.legacy {
		if matched, _ := path.Match(pattern, project.Name); matched {
			return true
		}
	}
	return false
}
