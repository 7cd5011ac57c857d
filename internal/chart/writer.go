package chart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/pulse.report/internal/batch"
	"github.com/banshee-data/pulse.report/internal/fsutil"
	"github.com/banshee-data/pulse.report/internal/monitoring"
	"github.com/banshee-data/pulse.report/internal/pulse"
)

// Kind selects the output format of a Writer.
type Kind string

const (
	KindPNG  Kind = "png"
	KindHTML Kind = "html"
)

// Writer renders one chart file per outcome into Dir. Output names are
// derived from the recording path relative to Root so recordings with the
// same base name in different directories do not collide.
type Writer struct {
	FS   fsutil.FileSystem
	Root string
	Dir  string
	Kind Kind
}

// Consume implements batch.Sink.
func (cw *Writer) Consume(_ context.Context, o batch.Outcome) error {
	render, err := cw.renderer()
	if err != nil {
		return err
	}
	if err := cw.FS.MkdirAll(cw.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create chart directory: %w", err)
	}

	var buf bytes.Buffer
	if err := render(&buf, o.Recording.Name, o.Recording.Samples, o.Result); err != nil {
		return err
	}

	out := filepath.Join(cw.Dir, cw.OutputName(o.Recording.Path))
	if err := cw.FS.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	monitoring.Logf("wrote %s chart %s", cw.Kind, out)
	return nil
}

// OutputName returns the chart file name for the recording at path.
func (cw *Writer) OutputName(path string) string {
	rel := filepath.Base(path)
	if cw.Root != "" {
		if r, err := filepath.Rel(cw.Root, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	rel = strings.ReplaceAll(rel, string(filepath.Separator), "_")
	return rel + "." + string(cw.Kind)
}

func (cw *Writer) renderer() (func(io.Writer, string, []int, pulse.Result) error, error) {
	switch cw.Kind {
	case KindPNG:
		return WritePNG, nil
	case KindHTML:
		return WriteHTML, nil
	}
	return nil, fmt.Errorf("unknown chart kind %q", cw.Kind)
}
