package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/pulse.report/internal/fsutil"
	"github.com/banshee-data/pulse.report/internal/pulse"
)

// Parameter keys, shared by the JSON and key=value formats.
const (
	KeyVT             = "vt"
	KeyWidth          = "width"
	KeyPulseDelta     = "pulse_delta"
	KeyDropRatio      = "drop_ratio"
	KeyBelowDropRatio = "below_drop_ratio"
)

// maxFileSize bounds parameter files; anything larger is not a parameter file.
const maxFileSize = 1 * 1024 * 1024 // 1MB

var (
	ErrUnknownKey    = errors.New("unknown parameter key")
	ErrDuplicateKey  = errors.New("duplicate parameter key")
	ErrMissingKey    = errors.New("missing one or more parameter keys")
	ErrInvalidValue  = errors.New("invalid parameter value")
	ErrMalformedLine = errors.New("malformed parameter line")
)

// ParamsConfig is the on-disk form of the detection parameters. All values
// are held as read (float64) and narrowed to their pipeline types by
// ToParams once Validate has passed. A nil field means the key was absent.
type ParamsConfig struct {
	VT             *float64 `json:"vt,omitempty"`
	Width          *float64 `json:"width,omitempty"`
	PulseDelta     *float64 `json:"pulse_delta,omitempty"`
	DropRatio      *float64 `json:"drop_ratio,omitempty"`
	BelowDropRatio *float64 `json:"below_drop_ratio,omitempty"`
}

// LoadParams reads a parameter file. Files ending in .json are decoded as
// JSON; any other extension is read as key=value lines in the style of an
// .ini file. The result is validated before it is returned.
func LoadParams(fsys fsutil.FileSystem, path string) (*ParamsConfig, error) {
	cleanPath := filepath.Clean(path)

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat parameter file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("parameter file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}

	var cfg *ParamsConfig
	if strings.EqualFold(filepath.Ext(cleanPath), ".json") {
		cfg, err = ParseJSON(data)
	} else {
		cfg, err = ParseINI(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return cfg, nil
}

// ParseJSON decodes a JSON parameter object. Unknown fields are rejected.
func ParseJSON(data []byte) (*ParamsConfig, error) {
	cfg := &ParamsConfig{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownKey, err)
		}
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrInvalidValue, err)
	}
	return cfg, nil
}

// ParseINI reads key=value lines. Blank lines, [section] headers and lines
// starting with # or ; are ignored. Keys and values are trimmed.
func ParseINI(data []byte) (*ParamsConfig, error) {
	cfg := &ParamsConfig{}
	seen := make(map[string]bool)

	sc := bufio.NewScanner(bytes.NewReader(data))
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == ';' || line[0] == '[' {
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrMalformedLine, line)
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		field := cfg.field(key)
		if field == nil {
			return nil, fmt.Errorf("line %d: %w: %s", lineNo, ErrUnknownKey, key)
		}
		if seen[key] {
			return nil, fmt.Errorf("line %d: %w: %s", lineNo, ErrDuplicateKey, key)
		}
		seen[key] = true

		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w for %s: %q", lineNo, ErrInvalidValue, key, val)
		}
		*field = &v
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan parameters: %w", err)
	}
	return cfg, nil
}

// field maps a key to the struct field it populates.
func (c *ParamsConfig) field(key string) **float64 {
	switch key {
	case KeyVT:
		return &c.VT
	case KeyWidth:
		return &c.Width
	case KeyPulseDelta:
		return &c.PulseDelta
	case KeyDropRatio:
		return &c.DropRatio
	case KeyBelowDropRatio:
		return &c.BelowDropRatio
	}
	return nil
}

// Validate checks that every key is present, integer keys hold integral
// values, and counts and ratios are non-negative.
func (c *ParamsConfig) Validate() error {
	var missing []string
	for _, key := range []string{KeyVT, KeyWidth, KeyPulseDelta, KeyDropRatio, KeyBelowDropRatio} {
		if *c.field(key) == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingKey, strings.Join(missing, ", "))
	}

	// vt may legitimately be negative; a negative threshold flags flat data.
	if _, err := toInt(KeyVT, *c.VT); err != nil {
		return err
	}
	for _, key := range []string{KeyWidth, KeyPulseDelta, KeyBelowDropRatio} {
		n, err := toInt(key, **c.field(key))
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %d", ErrInvalidValue, key, n)
		}
	}

	r := *c.DropRatio
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidValue, KeyDropRatio, r)
	}
	return nil
}

// ToParams validates the configuration and narrows it to pipeline types.
func (c *ParamsConfig) ToParams() (pulse.Params, error) {
	if err := c.Validate(); err != nil {
		return pulse.Params{}, err
	}
	return pulse.Params{
		VT:             c.GetVT(),
		Width:          c.GetWidth(),
		PulseDelta:     c.GetPulseDelta(),
		DropRatio:      c.GetDropRatio(),
		BelowDropRatio: c.GetBelowDropRatio(),
	}, nil
}

// GetVT returns vt, or 0 when unset or not integral.
func (c *ParamsConfig) GetVT() int { return getInt(KeyVT, c.VT) }

// GetWidth returns width, or 0 when unset or not integral.
func (c *ParamsConfig) GetWidth() int { return getInt(KeyWidth, c.Width) }

// GetPulseDelta returns pulse_delta, or 0 when unset or not integral.
func (c *ParamsConfig) GetPulseDelta() int { return getInt(KeyPulseDelta, c.PulseDelta) }

// GetBelowDropRatio returns below_drop_ratio, or 0 when unset or not integral.
func (c *ParamsConfig) GetBelowDropRatio() int { return getInt(KeyBelowDropRatio, c.BelowDropRatio) }

// GetDropRatio returns drop_ratio, or 0 when unset.
func (c *ParamsConfig) GetDropRatio() float64 {
	if c.DropRatio == nil {
		return 0
	}
	return *c.DropRatio
}

func getInt(key string, v *float64) int {
	if v == nil {
		return 0
	}
	n, err := toInt(key, *v)
	if err != nil {
		return 0
	}
	return n
}

// maxExactInt is the largest magnitude a float64 holds without losing integers.
const maxExactInt = 1 << 53

// toInt narrows v to int. Values with a fractional part are rejected rather
// than truncated.
func toInt(key string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxExactInt {
		return 0, fmt.Errorf("%w: %s out of range: %v", ErrInvalidValue, key, v)
	}
	if math.Trunc(v) != v {
		return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidValue, key, v)
	}
	return int(v), nil
}
