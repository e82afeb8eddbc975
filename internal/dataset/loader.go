package dataset

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
	"github.com/spigell/roadmap-matcher/internal/store"
)

// Summary describes the outcome of an import.
type Summary struct {
	Loaded   int            `json:"loaded"`
	Skipped  int            `json:"skipped"`
	Removed  int64          `json:"removed"`
	Missing  []string       `json:"missing,omitempty"`
	Datasets map[string]int `json:"datasets"`
	Domains  map[string]int `json:"domains"`
}

// TopDomains returns up to n domains ordered by template count.
func (s *Summary) TopDomains(n int) []DomainCount {
	counts := make([]DomainCount, 0, len(s.Domains))
	for domain, count := range s.Domains {
		counts = append(counts, DomainCount{Domain: domain, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Domain < counts[j].Domain
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// DomainCount pairs a domain with its template count.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// Loader turns dataset files into roadmap templates.
type Loader struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewLoader creates a loader.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger, now: time.Now}
}

// Load reads every dataset in order. Unreadable files and malformed rows are logged and skipped.
func (l *Loader) Load(ctx context.Context, paths []string) ([]roadmap.Template, *Summary) {
	summary := &Summary{
		Datasets: make(map[string]int),
		Domains:  make(map[string]int),
	}
	templates := make([]roadmap.Template, 0)
	seen := make(map[string]struct{})
	createdAt := l.now()

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		name := Name(path)
		records, err := readRecords(path)
		if err != nil {
			l.logger.Warn("dataset not loaded", zap.String("path", path), zap.Error(err))
			summary.Missing = append(summary.Missing, path)
			continue
		}

		loaded := 0
		for i, record := range records {
			t, err := l.template(name, record)
			if err != nil {
				l.logger.Warn("skipping dataset row",
					zap.String("dataset", name),
					zap.Int("row", i+2),
					zap.Error(err),
				)
				summary.Skipped++
				continue
			}

			if _, ok := seen[t.ID]; ok {
				l.logger.Warn("skipping duplicate dataset row",
					zap.String("dataset", name),
					zap.String("template_id", t.ID),
				)
				summary.Skipped++
				continue
			}
			seen[t.ID] = struct{}{}

			t.Position = len(templates)
			t.CreatedAt = createdAt
			templates = append(templates, *t)
			summary.Domains[t.Domain]++
			loaded++
		}

		summary.Datasets[name] = loaded
		summary.Loaded += loaded
		l.logger.Info("dataset loaded", zap.String("path", path), zap.Int("roadmaps", loaded))
	}

	return templates, summary
}

func (l *Loader) template(dataset string, record map[string]any) (*roadmap.Template, error) {
	row, err := decodeRow(record)
	if err != nil {
		return nil, err
	}
	if row.ID == "" {
		return nil, errors.New("id is empty")
	}
	if row.Goal == "" || row.Domain == "" {
		return nil, fmt.Errorf("row %s: goal and domain are required", row.ID)
	}

	steps, err := roadmap.ParseSteps(row.Roadmap)
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", row.ID, err)
	}

	t := &roadmap.Template{
		ID:               dataset + ":" + row.ID,
		SourceID:         row.ID,
		Dataset:          dataset,
		Origin:           roadmap.OriginBulkImport,
		Goal:             row.Goal,
		Domain:           row.Domain,
		RawText:          row.Roadmap,
		Steps:            steps,
		Difficulty:       row.Difficulty,
		Prerequisites:    row.Prerequisites,
		LearningOutcomes: row.LearningOutcomes,
	}
	hours, err := parseHours(row.EstimatedHours)
	if err != nil {
		l.logger.Warn("invalid estimated hours, using default",
			zap.String("dataset", dataset),
			zap.String("template_id", t.ID),
			zap.Error(err),
		)
	}
	t.EstimatedHours = hours

	if t.Difficulty == "" {
		t.Difficulty = roadmap.DefaultDifficulty
	}
	if t.EstimatedHours <= 0 {
		t.EstimatedHours = roadmap.DefaultEstimatedHours
	}

	return t, nil
}

// Reload replaces every bulk-imported template with the contents of paths.
// User roadmaps are never touched.
func (l *Loader) Reload(ctx context.Context, s store.Templates, paths []string) (*Summary, error) {
	templates, summary := l.Load(ctx, paths)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	removed, err := s.ReplaceTemplates(ctx, roadmap.OriginBulkImport, templates)
	if err != nil {
		return nil, fmt.Errorf("replace templates: %w", err)
	}
	summary.Removed = removed

	l.logger.Info("templates reloaded",
		zap.Int64("removed", removed),
		zap.Int("loaded", summary.Loaded),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// ImportIfEmpty loads the datasets only when the store holds no bulk-imported templates.
// It returns a nil summary when the import was not needed.
func (l *Loader) ImportIfEmpty(ctx context.Context, s store.Templates, paths []string) (*Summary, error) {
	count, err := s.CountTemplates(ctx, roadmap.OriginBulkImport)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		l.logger.Info("store already contains templates", zap.Int64("count", count))
		return nil, nil
	}

	return l.Reload(ctx, s, paths)
}
