package library

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeOpener records what the core asked the host to open.
type fakeOpener struct {
	urls  []string
	files []string
	err   error
}

func (f *fakeOpener) OpenURL(rawURL string) error {
	f.urls = append(f.urls, rawURL)
	return f.err
}

func (f *fakeOpener) OpenFile(path string) error {
	f.files = append(f.files, path)
	return f.err
}

// fakeTransfer records fetch/copy destinations.
type fakeTransfer struct {
	fetched []string
	copied  []string
	err     error
}

func (f *fakeTransfer) FetchURL(rawURL, dest string) error {
	f.fetched = append(f.fetched, dest)
	return f.err
}

func (f *fakeTransfer) CopyFile(src, dest string) error {
	f.copied = append(f.copied, dest)
	return f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		DataFile:      filepath.Join(dir, "library_data.json"),
		DownloadsDir:  filepath.Join(dir, "downloads"),
		AuditLogPath:  filepath.Join(dir, "audit.db"),
		AdminUsername: "admin",
		AdminPassword: "admin-pass",
	}
}

func newTestLibrary(t *testing.T) (*Library, *fakeOpener, *fakeTransfer) {
	t.Helper()
	opener := &fakeOpener{}
	transfer := &fakeTransfer{}
	lib, err := New(testConfig(t),
		WithLogger(discardLogger()),
		WithOpener(opener),
		WithTransfer(transfer),
	)
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib, opener, transfer
}

func addResource(t *testing.T, lib *Library, title string) string {
	t.Helper()
	id, err := lib.AddResource(title, "A. Author", "Math", "English", "/tmp/does-not-exist.pdf", "Core Subjects", "")
	require.NoError(t, err)
	return id
}
