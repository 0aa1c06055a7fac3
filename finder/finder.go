// Package finder discovers URLs in local files. Files are scanned in
// parallel with a two-stage extractor: a coarse regexp picks candidate
// lines, then a link recognizer pulls the exact tokens out of them.
package finder

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/linksweep/result"
)

// Finder runs the extractor over a set of files.
type Finder struct {
	extractor   *Extractor
	logger      zerolog.Logger
	parallelism int
}

// New creates a Finder that scans up to GOMAXPROCS files at once.
func New(extractor *Extractor, logger zerolog.Logger) *Finder {
	return &Finder{
		extractor:   extractor,
		logger:      logger.With().Str("component", "finder").Logger(),
		parallelism: runtime.GOMAXPROCS(0),
	}
}

// FindURLs returns every location found in paths. URLs from one file keep
// their order of appearance; the order across files is unspecified.
// If any file cannot be read the whole call fails and no partial results
// are returned.
func (f *Finder) FindURLs(ctx context.Context, paths []string) ([]result.URLLocation, error) {
	perFile := make([][]result.URLLocation, len(paths))

	errGroup, groupCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(f.parallelism)

	for i, path := range paths {
		errGroup.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			locs, err := f.extractor.ExtractFile(path)
			if err != nil {
				return err
			}
			f.logger.Debug().Str("file", path).Int("urls", len(locs)).Msg("scanned file")
			perFile[i] = locs
			return nil
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, locs := range perFile {
		total += len(locs)
	}
	all := make([]result.URLLocation, 0, total)
	for _, locs := range perFile {
		all = append(all, locs...)
	}
	return all, nil
}
