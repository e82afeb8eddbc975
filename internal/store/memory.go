package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

type userGoal struct {
	user string
	goal string
}

// Memory keeps everything in process memory.
type Memory struct {
	mu        sync.RWMutex
	templates []roadmap.Template
	roadmaps  map[string]*roadmap.UserRoadmap
	byGoal    map[userGoal]string

	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		roadmaps: make(map[string]*roadmap.UserRoadmap),
		byGoal:   make(map[userGoal]string),
		now:      time.Now,
	}
}

func (m *Memory) ListTemplates(_ context.Context, filter TemplateFilter) ([]roadmap.Template, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]roadmap.Template, 0, len(m.templates))
	for _, t := range m.templates {
		if filter.Domain != "" && !foldContains(t.Domain, filter.Domain) {
			continue
		}
		if filter.Difficulty != "" && !foldContains(t.Difficulty, filter.Difficulty) {
			continue
		}
		out = append(out, cloneTemplate(t))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (m *Memory) Domains(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	domains := make([]string, 0)
	for _, t := range m.templates {
		if _, ok := seen[t.Domain]; ok {
			continue
		}
		seen[t.Domain] = struct{}{}
		domains = append(domains, t.Domain)
	}
	sort.Strings(domains)
	return domains, nil
}

func (m *Memory) CountTemplates(_ context.Context, origin string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, t := range m.templates {
		if origin == "" || t.Origin == origin {
			count++
		}
	}
	return count, nil
}

func (m *Memory) ReplaceTemplates(_ context.Context, origin string, templates []roadmap.Template) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]roadmap.Template, 0, len(m.templates)+len(templates))
	var removed int64
	for _, t := range m.templates {
		if t.Origin == origin {
			removed++
			continue
		}
		kept = append(kept, t)
	}

	for _, t := range templates {
		t = cloneTemplate(t)
		if t.Origin == "" {
			t.Origin = origin
		}
		kept = append(kept, t)
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Position < kept[j].Position })
	m.templates = kept
	return removed, nil
}

func (m *Memory) InsertUserRoadmap(_ context.Context, r *roadmap.UserRoadmap) (*roadmap.UserRoadmap, error) {
	if r == nil {
		return nil, fmt.Errorf("user roadmap is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.insertLocked(r)
	return cloneUserRoadmap(stored), nil
}

func (m *Memory) UpsertUserRoadmap(_ context.Context, r *roadmap.UserRoadmap) (*roadmap.UserRoadmap, error) {
	if r == nil {
		return nil, fmt.Errorf("user roadmap is required")
	}
	if r.UserID == nil {
		return nil, fmt.Errorf("upsert requires a user id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := userGoal{user: *r.UserID, goal: r.Goal}
	id, ok := m.byGoal[key]
	if !ok {
		stored := m.insertLocked(r)
		m.byGoal[key] = stored.ID
		return cloneUserRoadmap(stored), nil
	}

	existing := m.roadmaps[id]
	existing.Title = r.Title
	existing.Domain = r.Domain
	existing.Steps = roadmap.CloneSteps(r.Steps)
	existing.BaseTemplateID = r.BaseTemplateID
	existing.GenerationCount++
	existing.UpdatedAt = m.now()

	return cloneUserRoadmap(existing), nil
}

func (m *Memory) insertLocked(r *roadmap.UserRoadmap) *roadmap.UserRoadmap {
	now := m.now()
	stored := cloneUserRoadmap(r)
	stored.ID = uuid.NewString()
	stored.GenerationCount = 1
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.roadmaps[stored.ID] = stored
	return stored
}

func (m *Memory) ListUserRoadmaps(_ context.Context, userID string) ([]roadmap.UserRoadmap, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]roadmap.UserRoadmap, 0)
	for _, r := range m.roadmaps {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, *cloneUserRoadmap(r))
		}
	}
	sortByUpdated(out)
	return out, nil
}

func (m *Memory) ListAllUserRoadmaps(_ context.Context, page Page) ([]roadmap.UserRoadmap, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]roadmap.UserRoadmap, 0, len(m.roadmaps))
	for _, r := range m.roadmaps {
		all = append(all, *cloneUserRoadmap(r))
	}
	sortByUpdated(all)

	total := int64(len(all))
	if page.Skip >= len(all) {
		return []roadmap.UserRoadmap{}, total, nil
	}
	all = all[max(page.Skip, 0):]
	if page.Limit > 0 && page.Limit < len(all) {
		all = all[:page.Limit]
	}
	return all, total, nil
}

func (m *Memory) DeleteUserRoadmap(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.roadmaps[id]
	if !ok || r.UserID == nil || *r.UserID != userID {
		return roadmap.ErrNotFound
	}

	delete(m.roadmaps, id)
	delete(m.byGoal, userGoal{user: userID, goal: r.Goal})
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

// sortByUpdated orders roadmaps most recently updated first, newest creation breaking ties.
func sortByUpdated(roadmaps []roadmap.UserRoadmap) {
	sort.SliceStable(roadmaps, func(i, j int) bool {
		if !roadmaps[i].UpdatedAt.Equal(roadmaps[j].UpdatedAt) {
			return roadmaps[i].UpdatedAt.After(roadmaps[j].UpdatedAt)
		}
		if !roadmaps[i].CreatedAt.Equal(roadmaps[j].CreatedAt) {
			return roadmaps[i].CreatedAt.After(roadmaps[j].CreatedAt)
		}
		return roadmaps[i].ID < roadmaps[j].ID
	})
}

func cloneTemplate(t roadmap.Template) roadmap.Template {
	t.Steps = roadmap.CloneSteps(t.Steps)
	return t
}

func cloneUserRoadmap(r *roadmap.UserRoadmap) *roadmap.UserRoadmap {
	out := *r
	out.Steps = roadmap.CloneSteps(r.Steps)
	if r.UserID != nil {
		user := *r.UserID
		out.UserID = &user
	}
	return &out
}
