// Package recording discovers sample files and loads them into memory.
//
// A recording file holds whitespace-separated signed integers. Samples are
// stored with the opposite sign to the one the detector works on, so every
// value is negated as it is read.
package recording

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/banshee-data/pulse.report/internal/fsutil"
)

// DefaultExt is the extension of recording files.
const DefaultExt = ".dat"

// ErrInvalidSample is returned when a token in a recording is not an integer.
var ErrInvalidSample = errors.New("invalid sample")

// Recording is one loaded file.
type Recording struct {
	// Path is the location the recording was loaded from.
	Path string
	// Name is the base file name used in reports.
	Name string
	// Samples are the sign-inverted values in file order.
	Samples []int
}

// Discover walks root recursively and returns every regular file whose
// extension equals ext, sorted lexically so reports are stable.
func Discover(fsys fsutil.FileSystem, root, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExt
	}

	var paths []string
	err := fsys.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ext {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Load reads and parses the recording at path.
func Load(fsys fsutil.FileSystem, path string) (Recording, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return Recording{}, fmt.Errorf("failed to open recording: %w", err)
	}
	defer f.Close()

	samples, err := Parse(f)
	if err != nil {
		return Recording{}, fmt.Errorf("%s: %w", path, err)
	}

	return Recording{
		Path:    path,
		Name:    filepath.Base(path),
		Samples: samples,
	}, nil
}

// Parse reads whitespace-separated integers from r and returns them negated.
func Parse(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	samples := make([]int, 0, 1024)
	for pos := 0; sc.Scan(); pos++ {
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("%w at position %d: %q", ErrInvalidSample, pos, sc.Text())
		}
		samples = append(samples, -v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	return samples, nil
}
