package vcard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExchange_EmptyPathMeansCancelled(t *testing.T) {
	in, err := FileExchange{}.RequestImportText()
	require.NoError(t, err)
	assert.True(t, in.Cancelled)

	out, err := FileExchange{}.DeliverExportText("anything")
	require.NoError(t, err)
	assert.True(t, out.Cancelled)
}

func TestFileExchange_ReadsAndWritesFiles(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "contacts.vcf")
	require.NoError(t, os.WriteFile(src, []byte("BEGIN:VCARD\n"), 0o644))

	in, err := FileExchange{ImportPath: src}.RequestImportText()
	require.NoError(t, err)
	assert.False(t, in.Cancelled)
	assert.Equal(t, "BEGIN:VCARD\n", in.Text)

	dst := filepath.Join(dir, "out.vcf")
	out, err := FileExchange{ExportPath: dst}.DeliverExportText("END:VCARD\n")
	require.NoError(t, err)
	assert.Equal(t, dst, out.Location)
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "END:VCARD\n", string(b))
}

func TestFileExchange_MissingImportFileIsAnError(t *testing.T) {
	_, err := FileExchange{ImportPath: filepath.Join(t.TempDir(), "nope.vcf")}.RequestImportText()
	assert.Error(t, err)
}
