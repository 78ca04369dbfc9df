package reviews

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Review
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Review)}
}

func (r *MemoryRepo) Create(ctx context.Context, rev Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rev.ID] = clone(rev)
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, rev Review) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[rev.ID]; !ok {
		return ErrNotFound
	}
	r.data[rev.ID] = clone(rev)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Review, error) {
	if err := ctx.Err(); err != nil {
		return Review{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	rev, ok := r.data[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	return clone(rev), nil
}

// List returns reviews newest first, honoring limit/offset. A limit of zero
// returns everything after offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	all := make([]Review, 0, len(r.data))
	for _, rev := range r.data {
		all = append(all, clone(rev))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []Review{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// clone detaches pointer fields so callers cannot mutate stored records.
func clone(rev Review) Review {
	if rev.Sections != nil {
		s := *rev.Sections
		rev.Sections = &s
	}
	if rev.CompletedAt != nil {
		t := *rev.CompletedAt
		rev.CompletedAt = &t
	}
	return rev
}

var _ Repo = (*MemoryRepo)(nil)
