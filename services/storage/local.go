package storagesvc

import (
	"context"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
)

var ErrForeignURL = errors.New("file URL does not belong to this storage")

// LocalStorage stores objects on disk as <root>/<bucket>/<uuid><ext>. The root is served at publicBaseURL.
type LocalStorage struct {
	root          string
	publicBaseURL string
}

var _ core.FileStorage = (*LocalStorage)(nil)

func NewLocalStorage(conf *core.Config) (*LocalStorage, error) {
	root, err := filepath.Abs(conf.Storage.Root)
	if err != nil {
		return nil, errors.Wrap(err, "resolving storage root")
	}
	if err = os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating storage root")
	}
	return &LocalStorage{root: root, publicBaseURL: strings.TrimSuffix(conf.Storage.PublicBaseURL, "/")}, nil
}

// Root is the directory served publicly.
func (s *LocalStorage) Root() string { return s.root }

func (s *LocalStorage) Save(ctx context.Context, bucket, filename, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	bucket = path.Clean("/" + bucket)[1:]
	if bucket == "" {
		return "", errors.New("bucket is required")
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	dir := filepath.Join(s.root, filepath.FromSlash(bucket))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating bucket")
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", errors.Wrap(err, "creating file")
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", errors.Wrap(err, "writing file")
	}
	if err = f.Close(); err != nil {
		return "", errors.Wrap(err, "closing file")
	}
	return s.publicBaseURL + "/" + bucket + "/" + url.PathEscape(name), nil
}

func (s *LocalStorage) Open(ctx context.Context, publicURL string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, ok := s.relPath(publicURL)
	if !ok {
		return nil, ErrForeignURL
	}
	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	return f, nil
}

// Delete removes the object of publicURL. Missing objects are not an error.
func (s *LocalStorage) Delete(ctx context.Context, publicURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, ok := s.relPath(publicURL)
	if !ok {
		return ErrForeignURL
	}
	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing file")
	}
	return nil
}

// relPath maps a public URL back to a path under root, refusing anything outside it.
func (s *LocalStorage) relPath(publicURL string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}
	rel, err := url.PathUnescape(strings.TrimPrefix(publicURL, prefix))
	if err != nil {
		return "", false
	}
	rel = path.Clean("/" + rel)[1:]
	if rel == "" || !strings.Contains(rel, "/") {
		return "", false
	}
	return rel, true
}
