package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/FilletCorners/internal/document"
)

// FileExtension is the suffix of saved wireframe projects.
const FileExtension = ".fillet.json"

// FormatVersion is written into every project file.
const FormatVersion = "1.0.0"

// File is the on-disk layout of a project.
type File struct {
	Version  string         `json:"version"`
	SavedAt  string         `json:"saved_at"`
	Document document.State `json:"document"`
}

// SaveDocument writes doc to path as JSON, replacing any existing file.
// The undo history is not saved.
func SaveDocument(path string, doc *document.Document) error {
	f := File{
		Version:  FormatVersion,
		SavedAt:  time.Now().UTC().Format(time.RFC3339),
		Document: doc.State(),
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadDocument reads a project written by SaveDocument.
func LoadDocument(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("invalid project file: missing version field")
	}
	if major(f.Version) != major(FormatVersion) {
		return nil, fmt.Errorf("unsupported project version %s", f.Version)
	}
	doc, err := document.FromState(f.Document)
	if err != nil {
		return nil, fmt.Errorf("invalid project file: %w", err)
	}
	return doc, nil
}

// IsProjectFile reports whether path names a saved project.
func IsProjectFile(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), FileExtension)
}

func major(version string) string {
	if i := strings.IndexByte(version, '.'); i >= 0 {
		return version[:i]
	}
	return version
}
