// Package sources reads producer artifacts from the dated directory layout.
// Missing and malformed files are logged and reported as absent, never as errors.
package sources

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/tidwall/gjson"

	"github.com/ternarybob/twbrief/internal/models"
	"github.com/ternarybob/twbrief/internal/services/normalize"
)

// Loader reads raw artifacts.
type Loader struct {
	logger arbor.ILogger
}

// NewLoader creates a Loader.
func NewLoader(logger arbor.ILogger) *Loader {
	return &Loader{logger: logger}
}

// File returns the contents of path, or nil when it does not exist or cannot be read.
func (l *Loader) File(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug().Str("path", path).Msg("Source not found")
		} else {
			l.logger.Warn().Err(err).Str("path", path).Msg("Failed to read source")
		}
		return nil
	}
	return data
}

// JSON returns the contents of dir/name when it holds valid JSON, or nil.
func (l *Loader) JSON(dir, name string) []byte {
	path := filepath.Join(dir, name)
	data := l.File(path)
	if data == nil {
		return nil
	}
	if !gjson.ValidBytes(data) {
		l.logger.Warn().Str("path", path).Int("bytes", len(data)).Msg("Source is not valid JSON, treating as missing")
		return nil
	}
	return data
}

// Institutional loads one market's institutional table from dir/name.
func (l *Loader) Institutional(dir, name, market string) models.InstitutionalTable {
	table := normalize.Institutional(l.JSON(dir, name), market)
	l.warn(name, table.Warnings)
	if table.Degenerate {
		l.logger.Warn().Str("source", name).Msg("Institutional source has no code field, rendering as no data")
	}
	return table
}

// PostMarketInstitutional loads institutional.json, or merges the per-market
// files in the same directory when it is absent. TWSE records win on duplicates.
func (l *Loader) PostMarketInstitutional(dir string) models.InstitutionalIndex {
	if combined := l.Institutional(dir, FileInstitutional, "ALL"); combined.Present {
		return models.IndexInstitutional(combined)
	}
	return models.IndexInstitutional(
		l.Institutional(dir, FileInstitutionalTWSE, "TWSE"),
		l.Institutional(dir, FileInstitutionalTPEX, "TPEX"),
	)
}

// News loads one news producer's feed.
func (l *Loader) News(dir, name, source, label string) models.NewsFeed {
	feed, warnings := normalize.NewsFeed(l.JSON(dir, name), source, label)
	l.warn(name, warnings)
	return feed
}

// Announcements loads the MOPS document. ok is false when it is absent or unusable.
func (l *Loader) Announcements(dir string) ([]models.MarketAnnouncements, bool) {
	markets, warnings, ok := normalize.Announcements(l.JSON(dir, FileMOPS))
	l.warn(FileMOPS, warnings)
	return markets, ok
}

// Quotes loads the session's price book.
func (l *Loader) Quotes(dir string) models.QuoteBook {
	book, warnings := normalize.Quotes(l.JSON(dir, FilePrices))
	l.warn(FilePrices, warnings)
	return book
}

func (l *Loader) warn(source string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	l.logger.Warn().Str("source", source).Strs("warnings", warnings).Msg("Source normalised with warnings")
}
