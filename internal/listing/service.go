package listing

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	errors "github.com/alxtravel/travel-booking/internal"
	listingDatamodel "github.com/alxtravel/travel-booking/internal/core/datamodel/listing"
)

// RepositoryAPI is the listing persistence contract. GetByID returns
// errors.ErrListingNotFound when nothing matches.
type RepositoryAPI interface {
	List(ctx context.Context, activeOnly bool) ([]*listingDatamodel.Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*listingDatamodel.Listing, error)
	Create(ctx context.Context, l *listingDatamodel.Listing) error
	Update(ctx context.Context, l *listingDatamodel.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServiceAPI interface {
	ListListings(ctx context.Context) ([]*Listing, error)
	GetListing(ctx context.Context, id uuid.UUID) (*Listing, error)
	CreateListing(ctx context.Context, hostID uuid.UUID, req CreateListingRequest) (*Listing, error)
	UpdateListing(ctx context.Context, actor Actor, id uuid.UUID, req UpdateListingRequest) (*Listing, error)
	DeleteListing(ctx context.Context, actor Actor, id uuid.UUID) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListListings returns the listings open for booking, newest first.
func (s *Service) ListListings(ctx context.Context) ([]*Listing, error) {
	listings, err := s.repo.List(ctx, true)
	if err != nil {
		s.logger.Error("failed to list listings", "error", err)
		return nil, fmt.Errorf("list listings: %w", err)
	}

	s.logger.Debug("retrieved listings", "count", len(listings))
	return FromDataModels(listings), nil
}

func (s *Service) GetListing(ctx context.Context, id uuid.UUID) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(l), nil
}

func (s *Service) CreateListing(ctx context.Context, hostID uuid.UUID, req CreateListingRequest) (*Listing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l := &listingDatamodel.Listing{
		HostID:        hostID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight.Round(2),
		IsActive:      req.Active(),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create listing", "host_id", hostID, "error", err)
		return nil, fmt.Errorf("create listing: %w", err)
	}

	s.logger.Info("listing created", "listing_id", l.ID, "host_id", hostID)
	return FromDataModel(l), nil
}

func (s *Service) UpdateListing(ctx context.Context, actor Actor, id uuid.UUID, req UpdateListingRequest) (*Listing, error) {
	l, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	merged := req.merge(l)
	if err := merged.Validate(); err != nil {
		return nil, err
	}

	l.Title = merged.Title
	l.Description = merged.Description
	l.Location = merged.Location
	l.PricePerNight = merged.PricePerNight.Round(2)
	l.IsActive = merged.Active()
	if err := s.repo.Update(ctx, l); err != nil {
		if stdErrors.Is(err, errors.ErrListingNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update listing", "listing_id", id, "error", err)
		return nil, fmt.Errorf("update listing: %w", err)
	}

	s.logger.Info("listing updated", "listing_id", id, "actor_id", actor.ID)
	return FromDataModel(l), nil
}

// DeleteListing removes the listing with its bookings, reviews and payments.
func (s *Service) DeleteListing(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.manageable(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if stdErrors.Is(err, errors.ErrListingNotFound) {
			return err
		}
		s.logger.Error("failed to delete listing", "listing_id", id, "error", err)
		return fmt.Errorf("delete listing: %w", err)
	}

	s.logger.Info("listing deleted", "listing_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) manageable(ctx context.Context, actor Actor, id uuid.UUID) (*listingDatamodel.Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(l) {
		s.logger.Warn("listing change refused", "listing_id", id, "actor_id", actor.ID)
		return nil, errors.ErrForbiddenAccess
	}
	return l, nil
}
