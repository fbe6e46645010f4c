package objstore

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// LocalStore keeps objects on the local filesystem under Dir and serves them
// through the web server's /uploads route. Default backend for development
// and single-node deployments.
type LocalStore struct {
	Dir       string
	PublicURL string
}

func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "objstore: create local dir")
	}
	return &LocalStore{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	fpath := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
		return "", errors.Wrap(err, "objstore: create folder")
	}
	f, err := os.Create(fpath)
	if err != nil {
		return "", errors.Wrap(err, "objstore: create file")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(fpath)
		return "", errors.Wrap(err, "objstore: write file")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(fpath)
		return "", errors.Wrap(err, "objstore: close file")
	}
	return s.URL(key), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "objstore: delete file")
	}
	return nil
}

func (s *LocalStore) List(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(s.Dir, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "objstore: list files")
	}
	return keys, nil
}

func (s *LocalStore) URL(key string) string {
	return s.PublicURL + "/" + key
}
