package storage

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/launix-de/chronostore/schema"
)

// DefaultFilepathFormat is the path template used when
// TIME_SERIES_FS_FILEPATH_FORMAT is unset. Recognized tokens are
// {table}, {dimensions}, {year}, {month:02d}, {day:02d}. If {dimensions}
// is absent from a custom template, dimension values do not appear in
// the path and every dimension's points for a day share one file.
const DefaultFilepathFormat = "{table}/{dimensions}/{year}/{month:02d}/{day:02d}"

// FilesystemBackend is the primary Backend: one file per (table,
// dimension tuple, calendar day), laid out under root using format. It
// keeps every day file touched since the last Commit open, so repeated
// Persist calls against the same day reuse one *dayFile and its page
// cache instead of reopening the file per point.
type FilesystemBackend struct {
	root     string
	format   string
	archiver *S3Archiver
	watcher  *fsnotify.Watcher

	mu          sync.Mutex
	descriptors map[string]*schema.Descriptor
	structs     map[string]*BinaryStruct
	open        map[string]*dayFile
}

// NewFilesystemBackend builds a FilesystemBackend rooted at s.RootDir,
// and wires an S3Archiver if s.S3Bucket is set. A missing bucket leaves
// archiver nil, which Mirror treats as a no-op. When s.Debug is set, it
// also starts a best-effort WatchRoot over s.RootDir so an operator can
// see day files get written live; a failure to watch is logged and
// does not fail startup.
func NewFilesystemBackend(s SettingsT) (*FilesystemBackend, error) {
	var archiver *S3Archiver
	if s.S3Bucket != "" {
		a, err := NewS3Archiver(context.Background(), s.S3Bucket, s.S3Prefix)
		if err != nil {
			return nil, err
		}
		archiver = a
	}

	format := s.FilepathFormat
	if format == "" {
		format = DefaultFilepathFormat
	}

	var watcher *fsnotify.Watcher
	if s.Debug {
		if err := os.MkdirAll(s.RootDir, 0750); err != nil {
			slog.Warn("chronostore: creating root for watch failed", "root", s.RootDir, "err", err)
		} else if w, err := WatchRoot(s.RootDir); err != nil {
			slog.Warn("chronostore: watch root failed", "root", s.RootDir, "err", err)
		} else {
			watcher = w
		}
	}

	return &FilesystemBackend{
		root:        s.RootDir,
		format:      format,
		archiver:    archiver,
		watcher:     watcher,
		descriptors: make(map[string]*schema.Descriptor),
		structs:     make(map[string]*BinaryStruct),
		open:        make(map[string]*dayFile),
	}, nil
}

func (b *FilesystemBackend) PrepareType(d *schema.Descriptor) error {
	bs, err := NewBinaryStruct(d)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.descriptors[d.Table] = d
	b.structs[d.Table] = bs
	return nil
}

// dimensionPath renders a point's dimension values in the same
// name/value-pair order the planner uses, so a query's path prefix is
// always a literal substring of a persisted point's path.
func dimensionPath(d *schema.Descriptor, values map[string]any) string {
	parts := make([]string, 0, len(d.Dimensions)*2)
	for _, name := range d.Dimensions {
		parts = append(parts, name, toPathValue(values[name]))
	}
	return strings.Join(parts, "/")
}

func (b *FilesystemBackend) pathFor(d *schema.Descriptor, values map[string]any, ts time.Time) string {
	ts = ts.UTC()
	rendered := renderFilepathFormat(b.format, d, values, ts)
	return filepath.Join(b.root, filepath.FromSlash(rendered))
}

// renderFilepathFormat substitutes format's recognized tokens ({table},
// {dimensions}, {year}, {month:02d}, {day:02d}) and returns the
// resulting slash-separated path. Unrecognized tokens pass through
// unchanged. Double slashes left by an absent {dimensions} expansion
// (or any other empty token) are collapsed when the caller joins the
// result with filepath.Join, which runs filepath.Clean.
func renderFilepathFormat(format string, d *schema.Descriptor, values map[string]any, ts time.Time) string {
	replacer := strings.NewReplacer(
		"{table}", d.Table,
		"{dimensions}", dimensionPath(d, values),
		"{year}", fmt.Sprintf("%04d", ts.Year()),
		"{month:02d}", fmt.Sprintf("%02d", int(ts.Month())),
		"{day:02d}", fmt.Sprintf("%02d", ts.Day()),
	)
	return replacer.Replace(format)
}

// Persist encodes p and appends it to the day file its timestamp and
// dimension values select, opening that file on first touch and
// keeping it open until Commit.
func (b *FilesystemBackend) Persist(p schema.Point) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := p.Descriptor
	bs, ok := b.structs[d.Table]
	if !ok {
		return &ConfigError{Reason: fmt.Sprintf("table %q was never prepared", d.Table)}
	}

	path := b.pathFor(d, p.Values, p.Timestamp)
	df, ok := b.open[path]
	if !ok {
		opened, err := openDayFile(path, bs)
		if err != nil {
			return err
		}
		b.open[path] = opened
		df = opened
	}

	record, err := bs.Encode(p)
	if err != nil {
		return err
	}
	df.append(record)
	return nil
}

// Commit flushes every day file touched since the last Commit, mirrors
// each to the archival bucket if configured, and drops the open-file
// map.
func (b *FilesystemBackend) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for path, df := range b.open {
		if err := df.commit(); err != nil {
			return fmt.Errorf("chronostore: committing %s: %w", path, err)
		}
		rel, relErr := filepath.Rel(b.root, path)
		if relErr != nil {
			rel = path
		}
		b.archiver.Mirror(context.Background(), rel, path)
	}
	b.open = make(map[string]*dayFile)
	return nil
}

// Query walks every day file under root/table, prunes candidates via a
// planner built from dimensions and the time range, and lazily decodes
// each surviving file's records that fall in range and match dimensions
// exactly. The directory walk itself runs eagerly (its cost is paid
// once, before the sequence is returned), but no day file is opened,
// and no record is decoded, until the returned sequence is ranged over
// — and ranging may stop at any point without opening the next
// candidate file.
func (b *FilesystemBackend) Query(table string, dimensions map[string]any, start time.Time, end *time.Time) (iter.Seq2[schema.Point, error], error) {
	b.mu.Lock()
	d, ok := b.descriptors[table]
	bs := b.structs[table]
	b.mu.Unlock()
	if !ok {
		return nil, &ConfigError{Reason: fmt.Sprintf("table %q was never prepared", table)}
	}

	tableRoot := filepath.Join(b.root, table)
	plan := newPlanner(d.Dimensions, dimensions, start, end, strings.Contains(b.format, "{dimensions}"))

	var candidates []string
	walkErr := filepath.WalkDir(tableRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if plan.shouldVisit(path) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("chronostore: querying %s: %w", table, walkErr)
	}
	sort.Strings(candidates)

	var endSeconds *uint32
	if end != nil {
		v := uint32(end.UTC().Unix())
		endSeconds = &v
	}

	seq := func(yield func(schema.Point, error) bool) {
		for _, path := range candidates {
			df, err := openDayFile(path, bs)
			if err != nil {
				yield(schema.Point{}, err)
				return
			}

			var iterErr error
			consumerStopped := false
			scanErr := df.entries(endSeconds, func(record []byte) bool {
				p, decErr := bs.Decode(record)
				if decErr != nil {
					iterErr = decErr
					return false
				}
				if p.Timestamp.Before(start) {
					return true
				}
				if !matchesDimensions(d, p, dimensions) {
					return true
				}
				if !yield(p, nil) {
					consumerStopped = true
					return false
				}
				return true
			})
			closeErr := df.close()

			if iterErr != nil {
				yield(schema.Point{}, iterErr)
				return
			}
			if scanErr != nil {
				yield(schema.Point{}, scanErr)
				return
			}
			if closeErr != nil {
				yield(schema.Point{}, closeErr)
				return
			}
			if consumerStopped {
				return
			}
		}
	}
	return seq, nil
}

func matchesDimensions(d *schema.Descriptor, p schema.Point, dimensions map[string]any) bool {
	for _, name := range d.Dimensions {
		want, ok := dimensions[name]
		if !ok {
			continue
		}
		if toPathValue(want) != toPathValue(p.Values[name]) {
			return false
		}
	}
	return true
}
