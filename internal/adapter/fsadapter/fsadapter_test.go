package fsadapter

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jgivc/anexofetch/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const workDir = "/data"

func newAdapter(t *testing.T, files map[string]string) (*fsAdapter, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(workDir, 0755))

	for name, content := range files {
		path := filepath.Join(workDir, name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}

	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	return NewFSAdapter(fs, log), fs
}

func readArchive(t *testing.T, fs afero.Fs, path string) map[string]string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		require.Equal(t, zip.Deflate, f.Method)

		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		entries[f.Name] = string(content)
	}

	return entries
}

func tempFiles(t *testing.T, fs afero.Fs) []string {
	t.Helper()

	entries, err := afero.ReadDir(fs, workDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), tempFileSuffix) {
			names = append(names, e.Name())
		}
	}

	return names
}

func TestWriteFile(t *testing.T) {
	a, fs := newAdapter(t, map[string]string{"anexo.pdf": "old content that is longer"})
	path := filepath.Join(workDir, "anexo.pdf")

	n, err := a.WriteFile(path, strings.NewReader("new"), 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Equal(t, "new", string(data))
	require.Empty(t, tempFiles(t, fs))
}

type failingReader struct {
	data []byte
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errors.New("connection reset")
	}

	n := copy(p, r.data)
	r.data = r.data[n:]

	return n, nil
}

func TestWriteFileReadError(t *testing.T) {
	a, fs := newAdapter(t, map[string]string{"anexo.pdf": "previous"})
	path := filepath.Join(workDir, "anexo.pdf")

	_, err := a.WriteFile(path, &failingReader{data: []byte("partial")}, 4)
	require.Error(t, err)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Equal(t, "previous", string(data))
	require.Empty(t, tempFiles(t, fs))
}

func TestScan(t *testing.T) {
	a, fs := newAdapter(t, map[string]string{
		"b.pdf":         "b",
		"a.pdf":         "a",
		"anexos.zip":    "zip",
		"notes.txt":     "txt",
		"sub/inner.pdf": "inner",
	})
	require.NoError(t, fs.MkdirAll(filepath.Join(workDir, "dir.pdf"), 0755))

	files, err := a.Scan(workDir, ".pdf")
	require.NoError(t, err)
	require.Equal(t, []*entity.File{
		{Name: "a.pdf", Path: filepath.Join(workDir, "a.pdf"), Size: 1},
		{Name: "b.pdf", Path: filepath.Join(workDir, "b.pdf"), Size: 1},
	}, files)

	_, err = a.Scan("/missing", ".pdf")
	require.Error(t, err)
}

func TestWriteArchive(t *testing.T) {
	a, fs := newAdapter(t, map[string]string{
		"anexo1.pdf": "first",
		"anexo2.pdf": strings.Repeat("second ", 100),
		"other.txt":  "skip",
	})

	files, err := a.Scan(workDir, ".pdf")
	require.NoError(t, err)

	path := filepath.Join(workDir, "anexos.zip")
	archive, err := a.WriteArchive(path, files)
	require.NoError(t, err)
	require.Equal(t, path, archive.Path)
	require.Equal(t, []string{"anexo1.pdf", "anexo2.pdf"}, archive.Entries)

	require.Equal(t, map[string]string{
		"anexo1.pdf": "first",
		"anexo2.pdf": strings.Repeat("second ", 100),
	}, readArchive(t, fs, path))
	require.Empty(t, tempFiles(t, fs))
}

func TestWriteArchiveEmpty(t *testing.T) {
	a, fs := newAdapter(t, nil)

	path := filepath.Join(workDir, "anexos.zip")
	archive, err := a.WriteArchive(path, nil)
	require.NoError(t, err)
	require.Empty(t, archive.Entries)
	require.Empty(t, readArchive(t, fs, path))
}

func TestWriteArchiveMissingFile(t *testing.T) {
	a, fs := newAdapter(t, nil)

	path := filepath.Join(workDir, "anexos.zip")
	_, err := a.WriteArchive(path, []*entity.File{{Name: "gone.pdf", Path: filepath.Join(workDir, "gone.pdf")}})
	require.Error(t, err)

	_, err = fs.Stat(path)
	require.True(t, os.IsNotExist(err))
	require.Empty(t, tempFiles(t, fs))
}

func TestWrittenFilesAreWorldReadable(t *testing.T) {
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	a := NewFSAdapter(afero.NewOsFs(), log)

	pdf := filepath.Join(dir, "anexo.pdf")
	_, err := a.WriteFile(pdf, strings.NewReader("%PDF"), 16)
	require.NoError(t, err)

	info, err := os.Stat(pdf)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	path := filepath.Join(dir, "anexos.zip")
	_, err = a.WriteArchive(path, []*entity.File{{Name: "anexo.pdf", Path: pdf}})
	require.NoError(t, err)

	info, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(filePerm), info.Mode().Perm())

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 1)
	require.Equal(t, os.FileMode(filePerm), zr.File[0].Mode().Perm())
}
