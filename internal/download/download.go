package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ktnetscraper/ktnet/internal/config"
	"github.com/ktnetscraper/ktnet/internal/handout"
	"github.com/ktnetscraper/ktnet/internal/logger"
	"github.com/ktnetscraper/ktnet/internal/portal"
)

const (
	// OtherUnit is the directory for records that name no unit.
	OtherUnit = "その他"

	manifestName = "manifest.json"
)

// Fetcher returns the bytes behind a download URL.
type Fetcher interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Options tune a Saver.
type Options struct {
	// MaxRetries is the number of retries after a failed download.
	MaxRetries int

	// InitialInterval is the first retry delay; later delays grow
	// exponentially. Zero uses the backoff library default.
	InitialInterval time.Duration

	// Overwrite re-downloads files already listed in the manifest.
	Overwrite bool
}

// Saver downloads handout files into a directory tree.
type Saver struct {
	dir     string
	fetcher Fetcher
	opts    Options
}

// Manifest records the files saved under a download directory, keyed by
// download URL.
type Manifest struct {
	UpdatedAt string           `json:"updated_at"`
	Files     map[string]Entry `json:"files"`
}

// Entry is one saved file.
type Entry struct {
	Path    string         `json:"path"`
	SavedAt string         `json:"saved_at"`
	Record  handout.Record `json:"record"`
}

// New creates a Saver writing below dir, creating it if needed.
func New(dir string, fetcher Fetcher, opts Options) (*Saver, error) {
	dir = config.ExpandHome(dir)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}

	return &Saver{dir: dir, fetcher: fetcher, opts: opts}, nil
}

// Dir returns the expanded download directory.
func (s *Saver) Dir() string {
	return s.dir
}

// Path returns where rec would be saved.
func (s *Saver) Path(rec handout.Record) string {
	unit := sanitize(rec.Unit)
	if unit == "" {
		unit = OtherUnit
	}

	name := sanitize(rec.FileName)
	if name == "" {
		name = sanitize(rec.Name)
	}
	if name == "" {
		name = "handout"
	}
	return filepath.Join(s.dir, unit, name)
}

// sanitize makes s safe as a single path element.
func sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(s))

	if s == "." || s == ".." {
		return ""
	}
	return s
}

// Save downloads one record and returns the path written.
func (s *Saver) Save(ctx context.Context, rec handout.Record) (string, error) {
	return s.save(ctx, rec, s.Path(rec))
}

func (s *Saver) save(ctx context.Context, rec handout.Record, path string) (string, error) {
	url := rec.TargetURL()
	if url == "" {
		return "", fmt.Errorf("%s: not a download target", rec.Name)
	}

	var data []byte
	op := func() error {
		var err error
		data, err = s.fetcher.Download(ctx, url)
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Retrying download", logger.Fields{"url": url, "wait": wait.String(), "error": err.Error()})
		logger.IncrCounter("download.retries")
	}
	if err := backoff.RetryNotify(op, s.backoff(ctx), notify); err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating unit directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	logger.IncrCounter("download.files")
	logger.Info("Saved handout", logger.Fields{"path": path, "bytes": len(data)})
	return path, nil
}

func (s *Saver) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if s.opts.InitialInterval > 0 {
		b.InitialInterval = s.opts.InitialInterval
	}
	retries := s.opts.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// retryable reports whether a failed download is worth repeating. Client
// errors from the portal and cancellation are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *portal.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= http.StatusInternalServerError || statusErr.Code == http.StatusTooManyRequests
	}
	return true
}

// SaveAll downloads every download target of coll. A failed file does not
// stop the others; the returned error joins every failure. Paths are
// returned in collection order. Files listed in the manifest are skipped
// unless Options.Overwrite is set, and are not returned. A URL is saved at
// most once per call.
//
// A file is never written over another URL's file: paths recorded in the
// manifest for other URLs and files already on disk are treated as taken.
// A re-downloaded URL keeps the path the manifest gives it.
func (s *Saver) SaveAll(ctx context.Context, coll *handout.Collection) ([]string, error) {
	manifest, err := s.LoadManifest()
	if err != nil {
		return nil, err
	}

	owners := make(map[string]string, len(manifest.Files))
	for url, e := range manifest.Files {
		owners[e.Path] = url
	}

	var (
		saved []string
		errs  []error
		done  = make(map[string]bool)
	)
	for _, rec := range coll.Targets() {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		url := rec.TargetURL()
		if url == "" {
			logger.Debug("Skipping handout without file", logger.Fields{"name": rec.Name})
			continue
		}
		if done[url] {
			continue
		}
		done[url] = true

		path := s.Path(rec)
		if e, ok := manifest.Files[url]; ok {
			if !s.opts.Overwrite && exists(e.Path) {
				logger.Debug("Skipping saved handout", logger.Fields{"path": e.Path})
				logger.IncrCounter("download.skipped")
				continue
			}
			path = e.Path
		}

		path = uniquePath(path, func(p string) bool {
			if owner, ok := owners[p]; ok {
				return owner != url
			}
			return exists(p)
		})
		owners[path] = url

		if _, err := s.save(ctx, rec, path); err != nil {
			logger.Error("Download failed", logger.Fields{"name": rec.Name}, err)
			errs = append(errs, err)
			continue
		}
		saved = append(saved, path)
		manifest.Files[url] = Entry{
			Path:    path,
			SavedAt: time.Now().UTC().Format(time.RFC3339),
			Record:  rec,
		}
	}

	if len(saved) > 0 {
		if err := s.SaveManifest(manifest); err != nil {
			errs = append(errs, err)
		}
	}
	return saved, errors.Join(errs...)
}

// uniquePath appends " (2)", " (3)", ... before the extension while path is
// taken.
func uniquePath(path string, taken func(string) bool) string {
	if !taken(path) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		p := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		if !taken(p) {
			return p
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// LoadManifest reads the manifest, returning an empty one if none exists yet.
func (s *Saver) LoadManifest() (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Manifest{Files: make(map[string]Entry)}, nil
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if m.Files == nil {
		m.Files = make(map[string]Entry)
	}
	return &m, nil
}

// SaveManifest writes m to the download directory.
func (s *Saver) SaveManifest(m *Manifest) error {
	m.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, manifestName), data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
