// Package manifest loads and validates the weft.yaml task manifest.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/weftlabs/weft/internal/model"
)

// DefaultFileName is the manifest looked up in the working directory when no
// explicit path is configured.
const DefaultFileName = "weft.yaml"

// MaxFileBytes caps the manifest size; anything larger is rejected before
// parsing.
const MaxFileBytes = 1 << 20

// CommentMarker prefixes manifest entries that are documentation only.
// Entries whose name starts with it are dropped at load time.
const CommentMarker = "#"

type fileSchema struct {
	Tasks map[string]string `yaml:"tasks"`
	Env   map[string]string `yaml:"env"`
}

// Load reads and validates the manifest at path. Empty path resolves
// DefaultFileName relative to dir (or the current directory when dir is
// empty).
func Load(dir, path string) (*model.Manifest, error) {
	if path == "" {
		path = filepath.Join(dir, DefaultFileName)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}
	if info.Size() > MaxFileBytes {
		return nil, fmt.Errorf("manifest %s exceeds size limit (%d > %d bytes)", path, info.Size(), MaxFileBytes)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	return Parse(content)
}

// Parse decodes manifest content. Unknown top-level fields are rejected so a
// typo like "task:" fails loudly instead of yielding an empty manifest.
func Parse(content []byte) (*model.Manifest, error) {
	var f fileSchema
	dec := yamlv3.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse manifest yaml: %w", err)
	}

	if len(f.Tasks) == 0 {
		return nil, fmt.Errorf("manifest has no tasks")
	}

	entries := make(map[string]string, len(f.Tasks))
	for name, cmd := range f.Tasks {
		if strings.HasPrefix(name, CommentMarker) {
			continue
		}
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("manifest has a task with an empty name")
		}
		entries[name] = strings.TrimSpace(cmd)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("manifest has no runnable tasks (comment entries only)")
	}

	return &model.Manifest{Entries: entries, Env: f.Env}, nil
}
