package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Default resource limits for archive expansion.
const (
	// DefaultMaxEntryBytes is the per-file limit; larger entries are
	// skipped, not fatal.
	DefaultMaxEntryBytes = 10 << 20 // 10 MiB

	// DefaultMaxTotalBytes caps total decompressed output, guarding
	// against zip bombs.
	DefaultMaxTotalBytes = 100 << 20 // 100 MiB
)

// errTotalLimit stops expansion once the decompressed budget is spent.
var errTotalLimit = errors.New("archive total size limit reached")

// Extractor handles ZIP and TAR archives, recursing into contained
// files through the registry. Oversized, hidden and unsupported entries
// are skipped; only an unreadable container is fatal.
type Extractor struct {
	registry driven.ExtractorRegistry

	maxEntryBytes int64
	maxTotalBytes int64
}

// Option configures the archive extractor.
type Option func(*Extractor)

// WithMaxEntryBytes sets the per-entry decompressed size limit.
func WithMaxEntryBytes(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxEntryBytes = n
		}
	}
}

// WithMaxTotalBytes sets the total decompressed size limit.
func WithMaxTotalBytes(n int64) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxTotalBytes = n
		}
	}
}

// New creates an archive extractor that dispatches contained files
// through the given registry.
func New(registry driven.ExtractorRegistry, opts ...Option) *Extractor {
	e := &Extractor{
		registry:      registry,
		maxEntryBytes: DefaultMaxEntryBytes,
		maxTotalBytes: DefaultMaxTotalBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"zip", "tar", "gz", "tgz"}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"application/zip", "application/x-tar", "application/x-gzip", "application/gzip"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Format-specific extractor
}

// Extract expands the archive and concatenates the extracted text of
// each contained file, separated by entry headers.
func (e *Extractor) Extract(ctx context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	var (
		sections []string
		total    int64
		included int
		skipped  int
	)

	walk := func(name string, content []byte) error {
		if int64(len(content)) > e.maxEntryBytes {
			logger.Debug("Skipping oversized archive entry %s (%d bytes)", name, len(content))
			skipped++
			return nil
		}
		total += int64(len(content))
		if total > e.maxTotalBytes {
			return errTotalLimit
		}

		result, err := e.registry.Extract(ctx, name, content)
		if err != nil {
			// Nested archives and unsupported entries are skipped
			logger.Debug("Skipping archive entry %s: %v", name, err)
			skipped++
			return nil
		}
		if strings.TrimSpace(result.Text) == "" {
			return nil
		}
		included++
		sections = append(sections, fmt.Sprintf("--- %s ---\n%s", name, result.Text))
		return nil
	}

	err := e.walkArchive(filename, raw, walk)
	if err != nil && !errors.Is(err, errTotalLimit) {
		return nil, err
	}
	if errors.Is(err, errTotalLimit) {
		logger.Warn("Archive %s truncated at decompressed size limit", filename)
	}

	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))

	return &driven.ExtractResult{
		Text:  strings.Join(sections, "\n\n"),
		Title: strings.ReplaceAll(name, "_", " "),
		Metadata: map[string]any{
			"format":          "archive",
			"entries_used":    included,
			"entries_skipped": skipped,
		},
	}, nil
}

// walkArchive iterates entries of zip, tar and tar.gz containers.
func (e *Extractor) walkArchive(filename string, raw []byte, fn func(name string, content []byte) error) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	switch ext {
	case "zip":
		return e.walkZip(filename, raw, fn)
	case "tar":
		return e.walkTar(filename, bytes.NewReader(raw), fn)
	case "gz", "tgz":
		gz, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, filename, err)
		}
		defer gz.Close()

		// Plain .gz wraps a single file; .tar.gz and .tgz wrap a tarball
		inner := strings.TrimSuffix(filename, filepath.Ext(filename))
		if ext == "tgz" || strings.HasSuffix(strings.ToLower(inner), ".tar") {
			return e.walkTar(filename, gz, fn)
		}
		content, err := io.ReadAll(io.LimitReader(gz, e.maxEntryBytes+1))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, filename, err)
		}
		return fn(filepath.Base(inner), content)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, ext)
	}
}

// walkZip iterates zip entries.
func (e *Extractor) walkZip(filename string, raw []byte, fn func(name string, content []byte) error) error {
	reader, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return fmt.Errorf("%w: %s is not a valid zip archive", domain.ErrCorruptInput, filename)
	}

	for _, f := range reader.File {
		if f.FileInfo().IsDir() || isHiddenEntry(f.Name) {
			continue
		}
		// Check the declared size before decompressing at all
		if f.UncompressedSize64 > uint64(e.maxEntryBytes) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(io.LimitReader(rc, e.maxEntryBytes+1))
		rc.Close()
		if err != nil {
			continue
		}
		if err := fn(f.Name, content); err != nil {
			return err
		}
	}
	return nil
}

// walkTar iterates tar entries from the stream.
func (e *Extractor) walkTar(filename string, r io.Reader, fn func(name string, content []byte) error) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, filename, err)
		}
		if hdr.Typeflag != tar.TypeReg || isHiddenEntry(hdr.Name) {
			continue
		}
		if hdr.Size > e.maxEntryBytes {
			continue
		}

		content, err := io.ReadAll(io.LimitReader(tr, e.maxEntryBytes+1))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrCorruptInput, filename, err)
		}
		if err := fn(hdr.Name, content); err != nil {
			return err
		}
	}
}

// isHiddenEntry filters hidden and system files out of archives.
func isHiddenEntry(name string) bool {
	clean := filepath.ToSlash(name)
	for _, part := range strings.Split(clean, "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, ".") || strings.HasPrefix(part, "~$") ||
			part == "__MACOSX" || part == "Thumbs.db" || part == "desktop.ini" {
			return true
		}
	}
	return false
}
