package storagesvc

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugrade/portal/core"
)

func newTestStorage(t *testing.T) *LocalStorage {
	conf := core.NewTestConfig()
	conf.Storage.Root = t.TempDir()
	conf.Storage.PublicBaseURL = "http://localhost/files/"
	s, err := NewLocalStorage(conf)
	require.NoError(t, err)
	return s
}

func TestLocalStorage_SaveDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u, err := s.Save(ctx, "achievements", "Certificate.PDF", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost/files/achievements/"))
	assert.True(t, strings.HasSuffix(u, ".pdf"))

	rel, ok := s.relPath(u)
	require.True(t, ok)
	content, err := os.ReadFile(filepath.Join(s.Root(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(content))

	require.NoError(t, s.Delete(ctx, u))
	_, err = os.Stat(filepath.Join(s.Root(), filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, u))
}

func TestLocalStorage_Delete_foreignURL(t *testing.T) {
	s := newTestStorage(t)
	tests := []string{
		"https://elsewhere.com/files/achievements/a.pdf",
		"http://localhost/files/a.pdf",
		"http://localhost/files/",
	}
	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			assert.ErrorIs(t, s.Delete(context.Background(), u), ErrForeignURL)
		})
	}
}

func TestLocalStorage_Save_traversal(t *testing.T) {
	s := newTestStorage(t)
	u, err := s.Save(context.Background(), "../../etc", "x.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost/files/etc/"))
}

func TestLocalStorage_Open(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u, err := s.Save(ctx, "internship-certificates", "offer.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	r, err := s.Open(ctx, u)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "%PDF-1.4", string(content))

	_, err = s.Open(ctx, "https://elsewhere.com/files/internship-certificates/a.pdf")
	assert.ErrorIs(t, err, ErrForeignURL)

	require.NoError(t, s.Delete(ctx, u))
	_, err = s.Open(ctx, u)
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}
