// Package briefing drives one pre-market or post-market run from raw artifacts to a written report.
package briefing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/twbrief/internal/common"
	"github.com/ternarybob/twbrief/internal/models"
	"github.com/ternarybob/twbrief/internal/services/impact"
	"github.com/ternarybob/twbrief/internal/services/predictions"
	"github.com/ternarybob/twbrief/internal/services/reconcile"
	"github.com/ternarybob/twbrief/internal/services/report"
	"github.com/ternarybob/twbrief/internal/services/sources"
	"github.com/ternarybob/twbrief/internal/services/stockcode"
)

// Market headings of the institutional section, TWSE first.
const (
	marketTWSE = "上市 (TWSE)"
	marketTPEX = "上櫃 (TPEX)"
)

// Service renders and writes the daily reports
type Service struct {
	config     *common.Config
	paths      sources.Paths
	loader     *sources.Loader
	classifier *impact.Classifier
	options    report.Options
	location   *time.Location
	logger     arbor.ILogger
	now        func() time.Time
}

// NewService creates a briefing service from configuration
func NewService(config *common.Config, logger arbor.ILogger) (*Service, error) {
	loc, err := time.LoadLocation(config.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load report timezone %s: %w", config.Report.Timezone, err)
	}

	opts := report.DefaultOptions()
	opts.ImpactRows = config.Report.ImpactRows
	opts.InstitutionalRows = config.Report.InstitutionalRows
	opts.NewsPerSource = config.Report.NewsPerSource
	opts.ReasonRunes = config.Report.ReasonRunes

	return &Service{
		config: config,
		paths: sources.Paths{
			Root:             config.Data.Root,
			ResearchSubdir:   config.Data.ResearchDir,
			PostMarketSubdir: config.Data.PostMarketDir,
			RawSubdir:        config.Data.RawDir,
		},
		loader:     sources.NewLoader(logger),
		classifier: impact.NewClassifier(vocabulary(config.Classifier)),
		options:    opts,
		location:   loc,
		logger:     logger,
		now:        time.Now,
	}, nil
}

func vocabulary(cfg common.ClassifierConfig) impact.Vocabulary {
	def := impact.DefaultVocabulary()
	bullish, bearish := def.Bullish(), def.Bearish()
	if len(cfg.Bullish) > 0 {
		bullish = cfg.Bullish
	}
	if len(cfg.Bearish) > 0 {
		bearish = cfg.Bearish
	}
	return impact.NewVocabulary(bullish, bearish)
}

// Today returns the current date in the report time zone.
func (s *Service) Today() string {
	return s.now().In(s.location).Format(common.DateLayout)
}

// RunStats summarises one report run
type RunStats struct {
	Date     string
	Path     string
	Duration time.Duration

	Headlines   int // pre-market: headlines scanned
	ImpactRows  int // pre-market: rows in the impact table
	Predictions int // post-market: predictions scored
	Origin      models.PredictionOrigin
	Stats       models.AccuracyStats
}

// RunPreMarket renders the pre-market research report for date and writes it.
func (s *Service) RunPreMarket(ctx context.Context, date string) (*RunStats, error) {
	if err := s.begin(ctx, date); err != nil {
		return nil, err
	}
	logger := s.logger.WithCorrelationId(common.NewRunID())
	start := time.Now()
	raw := s.paths.PreMarketRaw(date)

	logger.Info().Str("date", date).Str("raw_dir", raw).Msg("Starting pre-market report")

	in := report.PreMarket{
		Date:        date,
		GeneratedAt: s.now().In(s.location),
		Institutional: []models.InstitutionalTable{
			s.loader.Institutional(raw, sources.FileInstitutionalTWSE, marketTWSE),
			s.loader.Institutional(raw, sources.FileInstitutionalTPEX, marketTPEX),
		},
	}
	for _, ns := range s.config.Report.NewsSources {
		feed := s.loader.News(raw, ns.File, ns.Source, ns.Label)
		in.Feeds = append(in.Feeds, feed)
		for _, item := range feed.Items {
			in.News = append(in.News, s.classifier.Annotate(item, stockcode.Extract))
		}
	}
	in.Announcements, in.AnnouncementsPresent = s.loader.Announcements(raw)

	path := s.paths.PreMarketReport(date)
	if err := writeReport(path, report.RenderPreMarket(in, s.options)); err != nil {
		return nil, err
	}

	stats := &RunStats{
		Date:       date,
		Path:       path,
		Duration:   time.Since(start),
		Headlines:  len(in.News),
		ImpactRows: len(report.SelectImpactRows(in.News, s.options.ImpactRows, s.options.ReasonRunes)),
	}
	logger.Info().
		Str("path", path).
		Int("headlines", stats.Headlines).
		Int("impact_rows", stats.ImpactRows).
		Bool("mops", in.AnnouncementsPresent).
		Dur("duration", stats.Duration).
		Msg("Pre-market report written")
	return stats, nil
}

// RunPostMarket reconciles the day's predictions and writes the post-market accuracy report.
func (s *Service) RunPostMarket(ctx context.Context, date string) (*RunStats, error) {
	if err := s.begin(ctx, date); err != nil {
		return nil, err
	}
	logger := s.logger.WithCorrelationId(common.NewRunID())
	start := time.Now()
	raw := s.paths.PostMarketRaw(date)

	logger.Info().Str("date", date).Str("raw_dir", raw).Msg("Starting post-market report")

	set := predictions.Resolve(
		s.loader.JSON(raw, sources.FileInput),
		s.loader.File(s.paths.PreMarketReport(date)),
	)
	if len(set.Warnings) > 0 {
		logger.Warn().Strs("warnings", set.Warnings).Msg("Predictions loaded with warnings")
	}
	if set.Origin == models.PredictionsNone {
		logger.Warn().Str("date", date).Msg("No predictions found, report will be empty")
	}

	result := reconcile.Reconcile(set.Predictions, s.loader.Quotes(raw), s.loader.PostMarketInstitutional(raw))

	path := s.paths.PostMarketReport(date)
	md := report.RenderPostMarket(report.PostMarket{
		Date:          date,
		GeneratedAt:   s.now().In(s.location),
		PreMarketLink: report.PreMarketLink(s.config.Data.ResearchDir, date),
		Result:        result,
	}, s.options)
	if err := writeReport(path, md); err != nil {
		return nil, err
	}

	stats := &RunStats{
		Date:        date,
		Path:        path,
		Duration:    time.Since(start),
		Predictions: len(set.Predictions),
		Origin:      set.Origin,
		Stats:       result.Stats,
	}
	logger.Info().
		Str("path", path).
		Str("origin", string(set.Origin)).
		Int("predictions", stats.Predictions).
		Int("scored", result.Stats.Total).
		Int("matched", result.Stats.Matched).
		Int("accuracy_pct", result.Stats.AccuracyPct).
		Int("no_data", result.Stats.NoData).
		Dur("duration", stats.Duration).
		Msg("Post-market report written")
	return stats, nil
}

func (s *Service) begin(ctx context.Context, date string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := common.ParseTradeDate(date); err != nil {
		return err
	}
	return nil
}

func writeReport(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
