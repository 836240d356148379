package ops

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRestoreDataDir_RoundTrip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "archives"), 0o755))

	files := map[string]string{
		"data.json":                  `{"clients":[{"id":1,"name":"Amal","phone":"+966512345678"}],"tasks":[],"lastClientId":1,"lastTaskId":0}`,
		"taskmanager.db":             "not a real database, just bytes",
		"archives/older-backup.note": "kept alongside the live snapshot",
	}
	for rel, content := range files {
		path := filepath.Join(src, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	archive := filepath.Join(t.TempDir(), DefaultArchiveName(time.Now()))
	require.NoError(t, BackupDataDir(src, archive))
	_, err := os.Stat(archive)
	require.NoError(t, err, "archive missing")

	restoreDir := filepath.Join(t.TempDir(), "restore")
	require.NoError(t, RestoreDataDir(archive, restoreDir))

	got := map[string]string{}
	err = filepath.WalkDir(restoreDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(restoreDir, path)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, files, got)
}

func TestBackupDataDir_RejectsMissingSource(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "out.tar.gz")
	err := BackupDataDir(filepath.Join(t.TempDir(), "nope"), archive)
	assert.Error(t, err)
}

func TestRestoreDataDir_RejectsPathTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "bad.tar.gz")
	f, err := os.Create(archive)
	require.NoError(t, err)

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Typeflag: tar.TypeReg,
		Mode:     0o644,
		Size:     int64(len("bad")),
	}))
	_, err = tw.Write([]byte("bad"))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	err = RestoreDataDir(archive, filepath.Join(t.TempDir(), "out"))
	assert.Error(t, err, "expected restore to reject path traversal archive")
}

func TestDefaultArchiveName(t *testing.T) {
	at := time.Date(2026, 8, 31, 15, 45, 0, 0, time.UTC)
	assert.Equal(t, "taskmanager-20260831-154500.tar.gz", DefaultArchiveName(at))
}
