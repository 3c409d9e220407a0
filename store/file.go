package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var _ KV = (*File)(nil)

// File is a KV engine that keeps everything in memory and rewrites a JSON snapshot
// on every mutation. It suits a single small deployment. A mutation whose snapshot
// cannot be written is undone in memory as well.
type File struct {
	*Memory
	path string
}

// NewFile opens (or creates) the snapshot at path.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "[store NewFile] failed to create data directory")
	}

	f := &File{Memory: NewMemory(), path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.Wrap(err, "[store NewFile] failed to read snapshot")
	}
	if len(b) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(b, &f.data); err != nil {
		return nil, errors.Wrap(err, "[store NewFile] corrupt snapshot")
	}
	if f.data == nil {
		f.data = make(map[string][]byte)
	}
	return f, nil
}

func (f *File) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, existed := f.data[key]
	f.data[key] = clone(value)
	if err := f.saveLocked(); err != nil {
		if existed {
			f.data[key] = prev
		} else {
			delete(f.data, key)
		}
		return err
	}
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, ok := f.data[key]
	if !ok {
		return ErrNotFound
	}
	delete(f.data, key)
	if err := f.saveLocked(); err != nil {
		f.data[key] = prev
		return err
	}
	return nil
}

func (f *File) saveLocked() error {
	b, err := json.Marshal(f.data)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return errors.Wrap(err, "failed to write snapshot")
	}
	return errors.Wrap(os.Rename(tmp, f.path), "failed to replace snapshot")
}
