package fsutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_Exists(t *testing.T) {
	fs := OSFileSystem{}

	if !fs.Exists("filesystem.go") {
		t.Error("expected filesystem.go to exist")
	}

	if fs.Exists("nonexistent_file_xyz.go") {
		t.Error("expected nonexistent file to not exist")
	}
}

func TestOSFileSystem_WalkDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b", "c"), 0755))
	for _, name := range []string{"a.dat", "b/one.dat", "b/c/two.dat", "b/notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("1 2 3"), 0644))
	}

	var files []string
	err := OSFileSystem{}.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, path)
			files = append(files, rel)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.dat", "b/c/two.dat", "b/notes.txt", "b/one.dat"}, files)
}

func TestOSFileSystem_CreateAndReadBack(t *testing.T) {
	fs := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "out", "chart.html")

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	w, err := fs.Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("<html/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html/>", string(data))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.Size())
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	testData := []byte("10 -20 30")
	require.NoError(t, mfs.WriteFile("/data/run1.dat", testData, 0644))

	data, err := mfs.ReadFile("/data/run1.dat")
	require.NoError(t, err)
	assert.Equal(t, testData, data)

	// returned slices are copies
	data[0] = 'x'
	again, _ := mfs.ReadFile("/data/run1.dat")
	assert.Equal(t, testData, again)
}

func TestMemoryFileSystem_ReadNonExistent(t *testing.T) {
	mfs := NewMemoryFileSystem()

	_, err := mfs.ReadFile("/missing.dat")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = mfs.Open("/missing.dat")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemoryFileSystem_CreateAndOpen(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("/out/plot.png")
	require.NoError(t, err)
	_, _ = w.Write([]byte("abc"))
	_, _ = w.Write([]byte("def"))
	require.NoError(t, w.Close())

	f, err := mfs.Open("/out/plot.png")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(data))

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "plot.png", info.Name())
	assert.Equal(t, int64(6), info.Size())
}

func TestMemoryFileSystem_StatAndExists(t *testing.T) {
	mfs := NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/data/a/run.dat", []byte("1"), 0600))
	require.NoError(t, mfs.MkdirAll("/empty/dir", 0755))

	info, err := mfs.Stat("/data/a/run.dat")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, os.FileMode(0600), info.Mode())

	for _, dir := range []string{"/data", "/data/a", "/empty", "/empty/dir"} {
		info, err := mfs.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
		assert.True(t, mfs.Exists(dir), dir)
	}

	assert.True(t, mfs.Exists("/data/a/../a/run.dat"))
	assert.False(t, mfs.Exists("/data/b"))

	_, err = mfs.Stat("/nope")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemoryFileSystem_WalkDir(t *testing.T) {
	mfs := NewMemoryFileSystem()
	for _, name := range []string{"/r/b/one.dat", "/r/a.dat", "/r/b/c/two.dat", "/other/x.dat"} {
		require.NoError(t, mfs.WriteFile(name, []byte("1"), 0644))
	}
	require.NoError(t, mfs.MkdirAll("/r/empty", 0755))

	type visit struct {
		path  string
		isDir bool
	}
	var got []visit
	err := mfs.WalkDir("/r", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		got = append(got, visit{path, d.IsDir()})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []visit{
		{"/r", true},
		{"/r/a.dat", false},
		{"/r/b", true},
		{"/r/b/c", true},
		{"/r/b/c/two.dat", false},
		{"/r/b/one.dat", false},
		{"/r/empty", true},
	}, got)
}

func TestMemoryFileSystem_WalkDirSkip(t *testing.T) {
	mfs := NewMemoryFileSystem()
	for _, name := range []string{"/r/a.dat", "/r/skip/one.dat", "/r/z.dat"} {
		require.NoError(t, mfs.WriteFile(name, []byte("1"), 0644))
	}

	var got []string
	err := mfs.WalkDir("/r", func(path string, d fs.DirEntry, err error) error {
		if d.IsDir() && d.Name() == "skip" {
			return fs.SkipDir
		}
		got = append(got, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/r", "/r/a.dat", "/r/z.dat"}, got)

	got = nil
	err = mfs.WalkDir("/r", func(path string, d fs.DirEntry, err error) error {
		got = append(got, path)
		if path == "/r/a.dat" {
			return fs.SkipAll
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/r", "/r/a.dat"}, got)
}

func TestMemoryFileSystem_WalkDirMissingRoot(t *testing.T) {
	mfs := NewMemoryFileSystem()

	err := mfs.WalkDir("/nowhere", func(path string, d fs.DirEntry, err error) error {
		assert.Nil(t, d)
		return err
	})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLexicalLess(t *testing.T) {
	assert.True(t, lexicalLess("a/b", "a.dat"), "directory contents sort by component")
	assert.True(t, lexicalLess("a", "a/b"))
	assert.False(t, lexicalLess("b", "a/z"))
}
