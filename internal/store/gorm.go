package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

const insertBatchSize = 200

// Gorm is the SQL store backed by PostgreSQL or SQLite.
type Gorm struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGorm wraps an open connection and migrates the schema.
func NewGorm(ctx context.Context, db *gorm.DB, logger *zap.Logger) (*Gorm, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := db.WithContext(ctx).AutoMigrate(&templateRow{}, &userRoadmapRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &Gorm{db: db, logger: logger}, nil
}

func (g *Gorm) ListTemplates(ctx context.Context, filter TemplateFilter) ([]roadmap.Template, error) {
	q := g.db.WithContext(ctx).Model(&templateRow{}).Order("position ASC").Order("id ASC")
	if d := strings.TrimSpace(filter.Domain); d != "" {
		q = q.Where("LOWER(domain) LIKE ? ESCAPE '\\'", likePattern(d))
	}
	if d := strings.TrimSpace(filter.Difficulty); d != "" {
		q = q.Where("LOWER(difficulty) LIKE ? ESCAPE '\\'", likePattern(d))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []templateRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	out := make([]roadmap.Template, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.template())
	}
	return out, nil
}

func (g *Gorm) Domains(ctx context.Context) ([]string, error) {
	var domains []string
	err := g.db.WithContext(ctx).Model(&templateRow{}).
		Distinct("domain").
		Order("domain ASC").
		Pluck("domain", &domains).Error
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return domains, nil
}

func (g *Gorm) CountTemplates(ctx context.Context, origin string) (int64, error) {
	q := g.db.WithContext(ctx).Model(&templateRow{})
	if origin != "" {
		q = q.Where("origin = ?", origin)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}

func (g *Gorm) ReplaceTemplates(ctx context.Context, origin string, templates []roadmap.Template) (int64, error) {
	rows := make([]templateRow, 0, len(templates))
	for _, t := range templates {
		if t.Origin == "" {
			t.Origin = origin
		}
		rows = append(rows, newTemplateRow(t))
	}

	var removed int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("origin = ?", origin).Delete(&templateRow{})
		if res.Error != nil {
			return fmt.Errorf("delete %s templates: %w", origin, res.Error)
		}
		removed = res.RowsAffected

		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert templates: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	g.logger.Debug("templates replaced",
		zap.String("origin", origin),
		zap.Int64("removed", removed),
		zap.Int("inserted", len(rows)),
	)
	return removed, nil
}

func (g *Gorm) InsertUserRoadmap(ctx context.Context, r *roadmap.UserRoadmap) (*roadmap.UserRoadmap, error) {
	if r == nil {
		return nil, errors.New("user roadmap is required")
	}

	row := newUserRoadmapRow(r)
	row.ID = uuid.NewString()
	row.GenerationCount = 1
	row.CreatedAt = time.Time{}
	row.UpdatedAt = time.Time{}

	if err := g.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("insert user roadmap: %w", err)
	}

	out := row.userRoadmap()
	return &out, nil
}

func (g *Gorm) UpsertUserRoadmap(ctx context.Context, r *roadmap.UserRoadmap) (*roadmap.UserRoadmap, error) {
	if r == nil {
		return nil, errors.New("user roadmap is required")
	}
	if r.UserID == nil {
		return nil, errors.New("upsert requires a user id")
	}

	row := newUserRoadmapRow(r)
	row.ID = uuid.NewString()
	row.GenerationCount = 1
	row.CreatedAt = time.Time{}
	row.UpdatedAt = time.Time{}

	var stored userRoadmapRow
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "goal"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"title", "domain", "steps", "base_template_id", "updated_at"}),
				clause.Assignment{
					Column: clause.Column{Name: "generation_count"},
					Value:  gorm.Expr("user_roadmaps.generation_count + 1"),
				},
			),
		}).Create(row).Error
		if err != nil {
			return fmt.Errorf("upsert user roadmap: %w", err)
		}

		return tx.Where("user_id = ? AND goal = ?", *r.UserID, r.Goal).First(&stored).Error
	})
	if err != nil {
		return nil, err
	}

	out := stored.userRoadmap()
	return &out, nil
}

func (g *Gorm) ListUserRoadmaps(ctx context.Context, userID string) ([]roadmap.UserRoadmap, error) {
	var rows []userRoadmapRow
	err := byRecency(g.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list user roadmaps: %w", err)
	}
	return userRoadmaps(rows), nil
}

func (g *Gorm) ListAllUserRoadmaps(ctx context.Context, page Page) ([]roadmap.UserRoadmap, int64, error) {
	var total int64
	if err := g.db.WithContext(ctx).Model(&userRoadmapRow{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count user roadmaps: %w", err)
	}

	q := byRecency(g.db.WithContext(ctx))
	if page.Skip > 0 {
		q = q.Offset(page.Skip)
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}

	var rows []userRoadmapRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list all user roadmaps: %w", err)
	}
	return userRoadmaps(rows), total, nil
}

func (g *Gorm) DeleteUserRoadmap(ctx context.Context, id, userID string) error {
	res := g.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&userRoadmapRow{})
	if res.Error != nil {
		return fmt.Errorf("delete user roadmap: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return roadmap.ErrNotFound
	}
	return nil
}

func (g *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func byRecency(db *gorm.DB) *gorm.DB {
	return db.Model(&userRoadmapRow{}).
		Order("updated_at DESC").
		Order("created_at DESC").
		Order("id ASC")
}

func userRoadmaps(rows []userRoadmapRow) []roadmap.UserRoadmap {
	out := make([]roadmap.UserRoadmap, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].userRoadmap())
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a substring pattern with LIKE wildcards in s taken literally.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
