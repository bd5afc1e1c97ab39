// Package export writes a report to csv, json, pdf and png files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

// Format is an output file type.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
)

// AllFormats lists every supported format.
var AllFormats = []Format{FormatCSV, FormatJSON, FormatPDF, FormatPNG}

// DefaultName is the file name prefix when none is configured.
const DefaultName = "wattdash_report"

const timestampLayout = "20060102_150405"

// ParseFormats accepts names or comma separated lists. Empty input means csv.
func ParseFormats(values []string) ([]Format, error) {
	var out []Format
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			name := strings.ToLower(strings.TrimSpace(part))
			if name == "" {
				continue
			}
			if name == "all" {
				out = append(out, AllFormats...)
				continue
			}
			f := Format(name)
			if !lo.Contains(AllFormats, f) {
				return nil, fmt.Errorf("unsupported export format %q (use csv, json, pdf, png or all)", part)
			}
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []Format{FormatCSV}, nil
	}
	return lo.Uniq(out), nil
}

// Options controls where files go.
type Options struct {
	// Dir is created if missing. Empty means the working directory.
	Dir string
	// Name is the file name prefix.
	Name    string
	Formats []Format
	Logger  *zap.Logger
	// Now stamps file names. Nil means time.Now.
	Now func() time.Time
}

// File is one written file.
type File struct {
	Format Format
	Path   string
	Size   int64
}

// String renders the path with a human readable size.
func (f File) String() string {
	return fmt.Sprintf("%s (%s)", f.Path, humanize.Bytes(uint64(f.Size)))
}

// Export writes rep once per requested format and returns the absolute paths written.
func Export(rep model.Report, opts Options) ([]File, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = DefaultName
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = []Format{FormatCSV}
	}
	stamp := now().Format(timestampLayout)

	var files []File
	for _, format := range formats {
		var (
			paths []string
			err   error
		)
		switch format {
		case FormatCSV:
			paths, err = single(opts.Dir, name, stamp, "csv", func(path string) error { return writeCSV(path, rep) })
		case FormatJSON:
			paths, err = single(opts.Dir, name, stamp, "json", func(path string) error { return writeJSON(path, rep) })
		case FormatPDF:
			paths, err = single(opts.Dir, name, stamp, "pdf", func(path string) error { return writePDF(path, rep, now()) })
		case FormatPNG:
			paths, err = writePNGs(opts.Dir, name, stamp, rep)
		default:
			err = fmt.Errorf("unsupported export format %q", format)
		}
		if err != nil {
			return files, fmt.Errorf("%s export failed: %w", format, err)
		}
		for _, path := range paths {
			f, err := describe(format, path)
			if err != nil {
				return files, err
			}
			logger.Info("report exported", zap.String("format", string(format)), zap.String("path", f.Path), zap.Int64("bytes", f.Size))
			files = append(files, f)
		}
	}
	return files, nil
}

func single(dir, name, stamp, ext string, write func(string) error) ([]string, error) {
	path, err := generateFilename(name, dir, stamp, ext)
	if err != nil {
		return nil, err
	}
	if err := write(path); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func describe(format Format, path string) (File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return File{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat %s: %w", abs, err)
	}
	return File{Format: format, Path: abs, Size: info.Size()}, nil
}

// generateFilename builds <dir>/<base>_<stamp>.<ext>, creating dir.
func generateFilename(base, dir, stamp, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating output directory %q: %w", dir, err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, stamp, ext)), nil
}

// number renders a figure rounded to six decimals without trailing zeros.
func number(v float64) string {
	return decimal.NewFromFloat(v).Round(6).String()
}

const dateLayout = "2006-01-02"

func deviceLabel(device string) string {
	if device == "" {
		return "(blank)"
	}
	return device
}
