package plant

import (
	"context"
	"fmt"
)

// Service implements the ownership-scoped plant operations. The owner
// argument on every method is the username resolved from the caller's
// session; it is never taken from client input.
type Service struct {
	repo Repository
}

// NewService creates a plant service over the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListForOwner returns all plants belonging to the owner.
func (s *Service) ListForOwner(ctx context.Context, owner string) ([]Plant, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// Create adds a new plant for the owner. The plant's OwnerUsername must
// already match the authenticated owner; the store assigns the ID.
func (s *Service) Create(ctx context.Context, p *Plant, owner string) (*Plant, error) {
	if p.OwnerUsername != owner {
		return nil, ErrOwnerMismatch
	}

	p.ID = 0
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("creating plant: %w", err)
	}
	return p, nil
}

// Update rewrites an existing plant owned by the caller.
func (s *Service) Update(ctx context.Context, p *Plant, owner string) (*Plant, error) {
	if err := s.checkOwned(ctx, p, owner); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Remove deletes a plant owned by the caller and returns its last stored
// state.
func (s *Service) Remove(ctx context.Context, p *Plant, owner string) (*Plant, error) {
	if err := s.checkOwned(ctx, p, owner); err != nil {
		return nil, err
	}

	stored, err := s.repo.GetByIDForOwner(ctx, p.ID, owner)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, p.ID, owner); err != nil {
		return nil, err
	}
	return stored, nil
}

// checkOwned validates the preconditions shared by update and remove:
// the declared owner matches the caller, the ID is populated, and a row
// with that ID exists for this owner. A row owned by someone else reports
// ErrPlantNotFound, never its existence.
func (s *Service) checkOwned(ctx context.Context, p *Plant, owner string) error {
	if p.OwnerUsername != owner {
		return ErrOwnerMismatch
	}
	if p.ID == 0 {
		return ErrBlankID
	}
	if _, err := s.repo.GetByIDForOwner(ctx, p.ID, owner); err != nil {
		return err
	}
	return nil
}
