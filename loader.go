package vendas

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store persists snapshots.
//
// Load never fails: whatever prevents reading the data yields an empty
// snapshot. Save must leave the previous state intact when it fails.
type Store interface {
	Load() *Snapshot
	Save(*Snapshot) error
}

// FileStore keeps the ledger in a single JSON file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore returns a store for the JSON document at path. A nil logger
// disables logging.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Load reads the backing document. A missing or corrupt file yields an empty
// snapshot, the cause is only logged.
func (f *FileStore) Load() *Snapshot {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Info("ledger file does not exist, starting empty", zap.String("path", f.path))
		} else {
			f.logger.Warn("could not open ledger file, starting empty", zap.String("path", f.path), zap.Error(err))
		}
		return NewSnapshot()
	}
	defer file.Close()

	s, err := DecodeSnapshot(file)
	if err != nil {
		f.logger.Warn("could not read ledger file, starting empty", zap.String("path", f.path), zap.Error(err))
		return NewSnapshot()
	}
	f.logger.Debug("ledger loaded",
		zap.String("path", f.path),
		zap.Int("clients", len(s.Clients)),
		zap.Int("stock", len(s.Stock)),
		zap.Int("sales", len(s.Sales)),
		zap.Int("payments", len(s.Payments)),
	)
	return s
}

// Save writes the snapshot to a temporary file next to the target and renames
// it over the target, so that readers never see a partial document.
func (f *FileStore) Save(s *Snapshot) error {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, s); err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", f.path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w", f.path, err)
	}
	tmpName := tmp.Name()
	// no-op once renamed.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write %q: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("could not sync %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("could not replace ledger file %q: %w", f.path, err)
	}
	return nil
}

// MemoryStore keeps the last saved snapshot in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

// Load decodes the last saved snapshot, or returns an empty one.
func (m *MemoryStore) Load() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return NewSnapshot()
	}
	s, err := DecodeSnapshot(bytes.NewReader(m.data))
	if err != nil {
		return NewSnapshot()
	}
	return s
}

// Save encodes the snapshot in memory.
func (m *MemoryStore) Save(s *Snapshot) error {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, s); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = buf.Bytes()
	return nil
}
