package contents

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nbserve/internal/nbformat"
)

// ErrNotFound is returned when the requested path does not exist under the
// storage root.
var ErrNotFound = errors.New("path not found")

// Model describes a stored item. For notebooks the parsed document is
// attached; plain files and directories carry metadata only.
type Model struct {
	Name         string
	Path         string
	Type         string
	LastModified time.Time
	Size         int64
	Notebook     *nbformat.Notebook
}

const (
	TypeNotebook  = "notebook"
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// Manager provides read access to the notebook storage tree.
type Manager interface {
	// Get loads the item at the given storage path.
	Get(path string) (*Model, error)
	// OSPath maps a storage path to a filesystem path. ok is false when the
	// path tries to escape the storage root.
	OSPath(path string) (string, bool)
}

// FSManager serves content directly from a directory tree.
type FSManager struct {
	root string
}

func NewFSManager(root string) (*FSManager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage root %q is not a directory", root)
	}
	return &FSManager{root: abs}, nil
}

func (m *FSManager) OSPath(path string) (string, bool) {
	cleaned := filepath.Clean("/" + strings.TrimPrefix(path, "/"))
	if cleaned == "/" {
		return m.root, true
	}
	full := filepath.Join(m.root, cleaned)
	if full != m.root && !strings.HasPrefix(full, m.root+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}

func (m *FSManager) Get(path string) (*Model, error) {
	osPath, ok := m.OSPath(path)
	if !ok {
		return nil, ErrNotFound
	}

	info, err := os.Stat(osPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}

	model := &Model{
		Name:         info.Name(),
		Path:         strings.TrimPrefix(path, "/"),
		LastModified: info.ModTime().UTC(),
		Size:         info.Size(),
	}

	if info.IsDir() {
		model.Type = TypeDirectory
		return model, nil
	}

	if strings.EqualFold(filepath.Ext(osPath), ".ipynb") {
		data, err := os.ReadFile(osPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read notebook %q: %w", path, err)
		}
		nb, err := nbformat.Reads(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse notebook %q: %w", path, err)
		}
		model.Type = TypeNotebook
		model.Notebook = nb
		return model, nil
	}

	model.Type = TypeFile
	return model, nil
}
