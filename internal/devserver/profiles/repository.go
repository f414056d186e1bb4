// Package profiles stores the development backend's profiles in memory.
package profiles

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mazury/mazury-client/internal/client/models"
	"github.com/mazury/mazury-client/internal/common"
)

// Unique profile fields.
const (
	FieldUsername = "username"
	FieldEmail    = "email"
)

type Repository interface {
	Get(ctx context.Context, address string) (models.Profile, error)
	// Ensure returns the profile for address, creating an empty one first
	// when there is none.
	Ensure(ctx context.Context, address string) (models.Profile, bool, error)
	Put(ctx context.Context, p models.Profile) error
	// Taken reports whether another profile than except already uses value
	// for field. Comparison ignores case.
	Taken(ctx context.Context, field, value, except string) (bool, error)
}

// MemoryRepository is a Repository backed by a map keyed by lower-cased
// address.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]models.Profile
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: map[string]models.Profile{}}
}

func key(address string) string { return strings.ToLower(address) }

func (r *MemoryRepository) Get(_ context.Context, address string) (models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[key(address)]
	if !ok {
		return models.Profile{}, fmt.Errorf("profile %s: %w", address, common.ErrNotFound)
	}
	return p, nil
}

func (r *MemoryRepository) Ensure(_ context.Context, address string) (models.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.profiles[key(address)]; ok {
		return p, false, nil
	}
	p := models.Profile{Address: address}
	r.profiles[key(address)] = p
	return p, true, nil
}

func (r *MemoryRepository) Put(_ context.Context, p models.Profile) error {
	if p.Address == "" {
		return fmt.Errorf("%w: profile without address", common.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[key(p.Address)] = p
	return nil
}

func (r *MemoryRepository) Taken(_ context.Context, field, value, except string) (bool, error) {
	var get func(models.Profile) string
	switch field {
	case FieldUsername:
		get = func(p models.Profile) string { return p.Username }
	case FieldEmail:
		get = func(p models.Profile) string { return p.Email }
	default:
		return false, fmt.Errorf("%w: unknown field %q", common.ErrValidation, field)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for k, p := range r.profiles {
		if k == key(except) {
			continue
		}
		if v := get(p); v != "" && strings.EqualFold(v, value) {
			return true, nil
		}
	}
	return false, nil
}
