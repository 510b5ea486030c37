package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// MetadataFile is the filename for project metadata records.
	MetadataFile = "project.json"
	// TasksFile is the filename for the exploration task list.
	TasksFile = "tasks.md"
	// ExplorationDirName holds one file per archived conversation session.
	ExplorationDirName = "exploration"
	// SpecificationDirName holds one file per generated specification.
	SpecificationDirName = "specification"
	// ExecutionDirName holds the derived execution task list.
	ExecutionDirName = "execution"
	// FeedbackDirName holds free-form timestamped feedback notes.
	FeedbackDirName = "feedback"
)

// Dir returns the absolute path to a project's directory.
func Dir(root, slug string) string {
	return filepath.Join(root, slug)
}

// MetadataPath returns the absolute path to a project's project.json.
func MetadataPath(root, slug string) string {
	return filepath.Join(Dir(root, slug), MetadataFile)
}

// TasksPath returns the absolute path to a project's tasks.md.
func TasksPath(root, slug string) string {
	return filepath.Join(Dir(root, slug), TasksFile)
}

// ExplorationDir returns a project's exploration directory.
func ExplorationDir(root, slug string) string {
	return filepath.Join(Dir(root, slug), ExplorationDirName)
}

// SpecificationDir returns a project's specification directory.
func SpecificationDir(root, slug string) string {
	return filepath.Join(Dir(root, slug), SpecificationDirName)
}

// ExecutionDir returns a project's execution directory.
func ExecutionDir(root, slug string) string {
	return filepath.Join(Dir(root, slug), ExecutionDirName)
}

// FeedbackDir returns a project's feedback directory.
func FeedbackDir(root, slug string) string {
	return filepath.Join(Dir(root, slug), FeedbackDirName)
}

// Store defines the persistence interface for project metadata and the
// exploration task list. Abstracted for testability (DIP).
type Store interface {
	Create(p *Project) error
	Load(slug string) (*Project, error)
	Save(p *Project) error
	Exists(slug string) bool
	List() ([]*Project, error)
	LoadTasks(slug string) ([]Task, error)
	SaveTasks(p *Project, tasks []Task) error
}

// FileStore implements Store on the local filesystem, scoped to one
// projects root directory. The root is fixed at construction so no
// operation depends on the process working directory.
type FileStore struct {
	root string
}

// NewFileStore creates a filesystem-backed project store rooted at root.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the projects root directory this store is scoped to.
func (fs *FileStore) Root() string {
	return fs.root
}

// Create persists a new project and its directory skeleton. It fails
// with ErrExists if the slug is already taken; projects are never
// silently suffixed, so name collisions surface to the caller.
func (fs *FileStore) Create(p *Project) error {
	if fs.Exists(p.Slug) {
		return fmt.Errorf("project %q: %w", p.Slug, ErrExists)
	}

	for _, dir := range []string{
		ExplorationDir(fs.root, p.Slug),
		SpecificationDir(fs.root, p.Slug),
		ExecutionDir(fs.root, p.Slug),
		FeedbackDir(fs.root, p.Slug),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating project directory: %w", err)
		}
	}

	return fs.writeMetadata(p)
}

// Load reads a project's metadata record by slug.
func (fs *FileStore) Load(slug string) (*Project, error) {
	data, err := os.ReadFile(MetadataPath(fs.root, slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("project %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("reading project metadata: %w", err)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project.json for %q: %w", slug, err)
	}
	return &p, nil
}

// Save updates an existing project's metadata record.
func (fs *FileStore) Save(p *Project) error {
	return fs.writeMetadata(p)
}

// Exists reports whether a project with the given slug has a metadata
// record under the root.
func (fs *FileStore) Exists(slug string) bool {
	_, err := os.Stat(MetadataPath(fs.root, slug))
	return err == nil
}

// List returns all projects under the root, skipping entries whose
// metadata is missing or unreadable.
func (fs *FileStore) List() ([]*Project, error) {
	entries, err := os.ReadDir(fs.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading projects root: %w", err)
	}

	var result []*Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		p, err := fs.Load(entry.Name())
		if err != nil {
			continue // skip non-project directories
		}
		result = append(result, p)
	}
	return result, nil
}

// LoadTasks reads and parses a project's exploration task list.
// A missing tasks.md yields an empty list, not an error.
func (fs *FileStore) LoadTasks(slug string) ([]Task, error) {
	data, err := os.ReadFile(TasksPath(fs.root, slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading task list: %w", err)
	}
	return ParseTaskList(string(data)), nil
}

// SaveTasks regenerates a project's tasks.md from the given list.
func (fs *FileStore) SaveTasks(p *Project, tasks []Task) error {
	path := TasksPath(fs.root, p.Slug)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	return os.WriteFile(path, []byte(FormatTaskList(p, tasks)), 0o644)
}

// writeMetadata marshals and writes a project record to its project.json.
func (fs *FileStore) writeMetadata(p *Project) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling project metadata: %w", err)
	}

	path := MetadataPath(fs.root, p.Slug)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
