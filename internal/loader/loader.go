// Package loader reads per-country irradiance files and memoizes them for the
// lifetime of the process.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KaramelBytes/solardash/internal/dataset"
	"github.com/KaramelBytes/solardash/internal/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"
)

// ErrNotFound indicates no data file exists for a country.
var ErrNotFound = errors.New("country data not found")

// Loader returns the dataset for a country. The first call per country reads
// storage; every later call is served from memory. Entries are never evicted:
// the files are treated as immutable while the process runs.
type Loader struct {
	fs      afero.Fs
	dataDir string
	opt     dataset.ReadOptions

	mu    sync.RWMutex
	cache map[string]*dataset.Dataset
	group singleflight.Group

	reads atomic.Int64
	hits  atomic.Int64
}

// Option customizes a Loader.
type Option func(*Loader)

// WithReadOptions overrides CSV decoding options.
func WithReadOptions(opt dataset.ReadOptions) Option {
	return func(l *Loader) { l.opt = opt }
}

// New builds a Loader rooted at dataDir on fsys. A nil fsys means the OS filesystem.
func New(fsys afero.Fs, dataDir string, opts ...Option) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	l := &Loader{
		fs:      fsys,
		dataDir: dataDir,
		opt:     dataset.DefaultReadOptions(),
		cache:   make(map[string]*dataset.Dataset),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Stats reports storage reads and cache hits since construction.
type Stats struct {
	Reads int64
	Hits  int64
}

func (l *Loader) Stats() Stats {
	return Stats{Reads: l.reads.Load(), Hits: l.hits.Load()}
}

// Path is the primary file location for a country: {dataDir}/{lowercase}_clean.csv.
func (l *Loader) Path(country string) string {
	return filepath.Join(l.dataDir, strings.ToLower(country)+"_clean.csv")
}

// candidates lists the primary path followed by the spellings multi-word
// countries are commonly exported under.
func (l *Loader) candidates(country string) []string {
	base := strings.ToLower(strings.TrimSpace(country))
	out := []string{l.Path(country)}
	if strings.Contains(base, " ") {
		for _, alt := range []string{
			strings.ReplaceAll(base, " ", "_"),
			strings.ReplaceAll(base, " ", "-"),
			strings.ReplaceAll(base, " ", ""),
		} {
			out = append(out, filepath.Join(l.dataDir, alt+"_clean.csv"))
		}
	}
	return out
}

// Resolve returns the file that would be read for country.
func (l *Loader) Resolve(country string) (string, error) {
	for _, p := range l.candidates(country) {
		if ok, _ := afero.Exists(l.fs, p); ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s (looked for %s): %w", ErrNotFound, country, l.Path(country), fs.ErrNotExist)
}

// Load returns the dataset for country. The returned dataset is shared with
// other callers and must be treated as read-only.
func (l *Loader) Load(ctx context.Context, country string) (*dataset.Dataset, error) {
	l.mu.RLock()
	d, ok := l.cache[country]
	l.mu.RUnlock()
	if ok {
		l.hits.Add(1)
		return d, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// The read is shared by every caller waiting on country, so it does not
	// follow any single caller's cancellation; each caller checks its own.
	v, err, shared := l.group.Do(country, func() (any, error) {
		l.mu.RLock()
		d, ok := l.cache[country]
		l.mu.RUnlock()
		if ok {
			return d, nil
		}
		d, err := l.read(country)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[country] = d
		l.mu.Unlock()
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.hits.Add(1)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.(*dataset.Dataset), nil
}

func (l *Loader) read(country string) (*dataset.Dataset, error) {
	path, err := l.Resolve(country)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	f, err := l.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, country, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	l.reads.Add(1)

	opt := l.opt
	if opt.Delimiter == 0 {
		opt.Delimiter = dataset.DelimiterFor(path)
	}
	d, err := dataset.ReadCSV(country, f, opt)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Infow("loaded country data", "country", country, "path", path, "rows", d.Len(), "elapsed", time.Since(start))
	return d, nil
}

// Cached reports whether country is already in memory.
func (l *Loader) Cached(country string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.cache[country]
	return ok
}
