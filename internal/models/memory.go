package models

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MemoryAnalysisStore keeps history in process memory. It is used when no
// database is configured and in tests.
type MemoryAnalysisStore struct {
	mu       sync.RWMutex
	analyses map[uuid.UUID]*Analysis
	seq      map[uuid.UUID]int64
	next     int64
	now      func() time.Time
}

func NewMemoryAnalysisStore() *MemoryAnalysisStore {
	return &MemoryAnalysisStore{
		analyses: make(map[uuid.UUID]*Analysis),
		seq:      make(map[uuid.UUID]int64),
		now:      time.Now,
	}
}

func (s *MemoryAnalysisStore) Create(_ context.Context, a *Analysis) error {
	if err := a.validate(); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a.CreatedAt = s.now()
	stored := *a
	s.analyses[a.ID] = &stored
	s.next++
	s.seq[a.ID] = s.next
	return nil
}

func (s *MemoryAnalysisStore) ByID(_ context.Context, id uuid.UUID) (*Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return nil, ErrAnalysisNotFound
	}
	found := *a
	return &found, nil
}

func (s *MemoryAnalysisStore) ByVisitor(_ context.Context, visitorID int64, limit int) ([]*Analysis, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	owned := lo.Filter(lo.Values(s.analyses), func(a *Analysis, _ int) bool {
		return a.VisitorID == visitorID
	})

	// newest first, insertion order breaks timestamp ties
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.After(owned[j].CreatedAt)
		}
		return s.seq[owned[i].ID] > s.seq[owned[j].ID]
	})
	if len(owned) > limit {
		owned = owned[:limit]
	}
	return lo.Map(owned, func(a *Analysis, _ int) *Analysis {
		c := *a
		return &c
	}), nil
}

func (s *MemoryAnalysisStore) CountByKind(_ context.Context, visitorID int64) (map[AnalysisKind]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[AnalysisKind]int)
	for _, a := range s.analyses {
		if a.VisitorID == visitorID {
			counts[a.Kind]++
		}
	}
	return counts, nil
}

func (s *MemoryAnalysisStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[id]; !ok {
		return ErrAnalysisNotFound
	}
	delete(s.analyses, id)
	delete(s.seq, id)
	return nil
}

// MemoryVisitorStore is the in-memory counterpart of VisitorService.
type MemoryVisitorStore struct {
	mu       sync.Mutex
	nextID   int64
	visitors map[string]*Visitor
}

func NewMemoryVisitorStore() *MemoryVisitorStore {
	return &MemoryVisitorStore{visitors: make(map[string]*Visitor)}
}

func (s *MemoryVisitorStore) Create(_ context.Context) (*Visitor, error) {
	token, err := GenerateToken(MinBytesPerToken)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now()
	v := &Visitor{
		ID:         s.nextID,
		TokenHash:  HashToken(token),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	s.visitors[v.TokenHash] = v

	created := *v
	created.Token = token
	return &created, nil
}

func (s *MemoryVisitorStore) ByToken(_ context.Context, token string) (*Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.visitors[HashToken(token)]
	if !ok {
		return nil, ErrVisitorNotFound
	}
	v.LastSeenAt = time.Now()
	found := *v
	return &found, nil
}
