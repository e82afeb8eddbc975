package store

import (
	"time"

	"gorm.io/datatypes"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

type templateRow struct {
	ID               string `gorm:"primaryKey;size:191"`
	SourceID         string `gorm:"size:191"`
	Dataset          string `gorm:"size:191;index"`
	Origin           string `gorm:"size:64;index"`
	Position         int    `gorm:"index"`
	Goal             string `gorm:"type:text;not null"`
	Domain           string `gorm:"size:255;index;not null"`
	RawText          string `gorm:"type:text"`
	Steps            datatypes.JSONSlice[roadmap.Step]
	Difficulty       string `gorm:"size:64"`
	EstimatedHours   int
	Prerequisites    string `gorm:"type:text"`
	LearningOutcomes string `gorm:"type:text"`
	CreatedAt        time.Time
}

func (templateRow) TableName() string { return "roadmap_templates" }

type userRoadmapRow struct {
	ID              string  `gorm:"primaryKey;size:36"`
	UserID          *string `gorm:"size:191;uniqueIndex:idx_user_goal"`
	Goal            string  `gorm:"size:512;not null;uniqueIndex:idx_user_goal"`
	Title           string  `gorm:"size:512"`
	Domain          string  `gorm:"size:255"`
	Steps           datatypes.JSONSlice[roadmap.Step]
	BaseTemplateID  string `gorm:"size:191;index"`
	GenerationCount int    `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time `gorm:"index"`
}

func (userRoadmapRow) TableName() string { return "user_roadmaps" }

func newTemplateRow(t roadmap.Template) templateRow {
	return templateRow{
		ID:               t.ID,
		SourceID:         t.SourceID,
		Dataset:          t.Dataset,
		Origin:           t.Origin,
		Position:         t.Position,
		Goal:             t.Goal,
		Domain:           t.Domain,
		RawText:          t.RawText,
		Steps:            datatypes.JSONSlice[roadmap.Step](roadmap.CloneSteps(t.Steps)),
		Difficulty:       t.Difficulty,
		EstimatedHours:   t.EstimatedHours,
		Prerequisites:    t.Prerequisites,
		LearningOutcomes: t.LearningOutcomes,
		CreatedAt:        t.CreatedAt,
	}
}

func (r templateRow) template() roadmap.Template {
	return roadmap.Template{
		ID:               r.ID,
		SourceID:         r.SourceID,
		Dataset:          r.Dataset,
		Origin:           r.Origin,
		Position:         r.Position,
		Goal:             r.Goal,
		Domain:           r.Domain,
		RawText:          r.RawText,
		Steps:            []roadmap.Step(r.Steps),
		Difficulty:       r.Difficulty,
		EstimatedHours:   r.EstimatedHours,
		Prerequisites:    r.Prerequisites,
		LearningOutcomes: r.LearningOutcomes,
		CreatedAt:        r.CreatedAt,
	}
}

func newUserRoadmapRow(r *roadmap.UserRoadmap) *userRoadmapRow {
	return &userRoadmapRow{
		ID:              r.ID,
		UserID:          r.UserID,
		Goal:            r.Goal,
		Title:           r.Title,
		Domain:          r.Domain,
		Steps:           datatypes.JSONSlice[roadmap.Step](roadmap.CloneSteps(r.Steps)),
		BaseTemplateID:  r.BaseTemplateID,
		GenerationCount: r.GenerationCount,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (r *userRoadmapRow) userRoadmap() roadmap.UserRoadmap {
	return roadmap.UserRoadmap{
		ID:              r.ID,
		UserID:          r.UserID,
		Title:           r.Title,
		Goal:            r.Goal,
		Domain:          r.Domain,
		Steps:           []roadmap.Step(r.Steps),
		BaseTemplateID:  r.BaseTemplateID,
		GenerationCount: r.GenerationCount,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
