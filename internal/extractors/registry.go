// Package extractors provides implementations of the Extractor
// interface for the supported document formats, plus the registry that
// dispatches raw uploads to the right one.
//
// Extractors are registered with the Registry at startup.
package extractors

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driven"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches files to extractors by extension, then by MIME
// sniff of the leading bytes. Higher-priority extractors win when more
// than one claims the same extension.
type Registry struct {
	mu     sync.RWMutex
	byExt  map[string][]driven.Extractor
	byMIME map[string][]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt:  make(map[string][]driven.Extractor),
		byMIME: make(map[string][]driven.Extractor),
	}
}

// Register adds an extractor to the registry.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range e.SupportedExtensions() {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		r.byExt[ext] = insertByPriority(r.byExt[ext], e)
	}
	for _, mime := range e.SupportedMIMETypes() {
		r.byMIME[strings.ToLower(mime)] = insertByPriority(r.byMIME[strings.ToLower(mime)], e)
	}
}

// insertByPriority keeps the slice ordered highest priority first.
func insertByPriority(list []driven.Extractor, e driven.Extractor) []driven.Extractor {
	list = append(list, e)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority() > list[j].Priority()
	})
	return list
}

// Extract runs the best matching extractor for the file.
// Unknown extensions fall back to MIME sniffing; if neither matches,
// the input fails with domain.ErrUnsupportedFormat.
func (r *Registry) Extract(ctx context.Context, filename string, raw []byte) (*driven.ExtractResult, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrInvalidInput)
	}

	candidates := r.candidates(filename, raw)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(filename))
	}

	var lastErr error
	for _, e := range candidates {
		result, err := e.Extract(ctx, filename, raw)
		if err == nil {
			return result, nil
		}
		logger.Debug("Extractor failed for %s: %v", filename, err)
		lastErr = err
	}
	return nil, lastErr
}

// candidates returns matching extractors, highest priority first.
func (r *Registry) candidates(filename string, raw []byte) []driven.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if list, ok := r.byExt[ext]; ok && len(list) > 0 {
		return list
	}

	// MIME sniff strips parameters like "; charset=utf-8"
	sniffed := http.DetectContentType(raw)
	if i := strings.Index(sniffed, ";"); i >= 0 {
		sniffed = sniffed[:i]
	}
	return r.byMIME[strings.TrimSpace(strings.ToLower(sniffed))]
}

// SupportedExtensions returns all extensions that can be extracted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
