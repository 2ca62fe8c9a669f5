package storage_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgiraldo/almacen/pkg/storage"
)

func TestLocalDiskPutGetDelete(t *testing.T) {
	root := t.TempDir()
	storage.Connect("local", root, "", "")

	require.NoError(t, storage.Put("uploads/foto.png", []byte("png-bytes")))
	assert.True(t, storage.Exists("uploads/foto.png"))

	data, err := storage.Get("uploads/foto.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	// The file really sits under the configured root.
	_, err = os.Stat(filepath.Join(root, "uploads", "foto.png"))
	require.NoError(t, err)

	require.NoError(t, storage.Delete("uploads/foto.png"))
	assert.False(t, storage.Exists("uploads/foto.png"))
}

func TestLocalDiskPutStream(t *testing.T) {
	storage.Connect("local", t.TempDir(), "", "")

	require.NoError(t, storage.PutStream("uploads/a.txt", bytes.NewReader([]byte("contenido"))))

	rc, err := storage.GetStream("uploads/a.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))
}

func TestPutOverwritesExistingFile(t *testing.T) {
	storage.Connect("local", t.TempDir(), "", "")

	require.NoError(t, storage.Put("uploads/x.txt", []byte("uno")))
	require.NoError(t, storage.Put("uploads/x.txt", []byte("dos")))

	data, err := storage.Get("uploads/x.txt")
	require.NoError(t, err)
	assert.Equal(t, "dos", string(data))
}

func TestURLJoinsBase(t *testing.T) {
	storage.Connect("local", t.TempDir(), "http://localhost:3000", "")
	assert.Equal(t, "http://localhost:3000/uploads/foto.png", storage.URL("uploads/foto.png"))
}
