package listings

import (
	"context"
	"errors"
	"sort"

	"farmlink-backend/internal/domain"
	"farmlink-backend/internal/pkg/geo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("Listing not found")
	ErrNotOwner   = errors.New("Not authorized to modify this listing")
	ErrValidation = errors.New("Invalid listing data")
)

type Service struct {
	DB *gorm.DB
}

// SellerSummary is the projection of the seller joined onto listings.
type SellerSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
}

// ListingWithSeller is a listing with its seller populated.
type ListingWithSeller struct {
	domain.Listing
	Seller *SellerSummary `json:"seller"`
}

// GeoFilter restricts results to a radius around a point, nearest first.
type GeoFilter struct {
	Longitude float64
	Latitude  float64
	RadiusKm  float64
}

// ListingFilter holds the optional, independently-ANDed filters.
type ListingFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Geo      *GeoFilter
}

// GetListings returns active listings matching every provided filter.
// Category and price range narrow the DB query; the radius cut and
// nearest-first ordering run in-process so they behave identically on any
// SQL backend. Without a geo filter, newest first.
func (s *Service) GetListings(ctx context.Context, f ListingFilter) ([]ListingWithSeller, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("is_active = ?", true)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var rows []domain.Listing
	if f.Geo == nil {
		if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
			return nil, err
		}
		return s.withSellers(ctx, rows)
	}

	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	type scored struct {
		listing domain.Listing
		km      float64
	}
	within := make([]scored, 0, len(rows))
	for _, l := range rows {
		km := geo.DistanceKm(f.Geo.Longitude, f.Geo.Latitude, l.Location.Longitude, l.Location.Latitude)
		if km <= f.Geo.RadiusKm {
			within = append(within, scored{listing: l, km: km})
		}
	}
	// Nearest-first ordering takes priority over any other sort.
	sort.SliceStable(within, func(i, j int) bool { return within[i].km < within[j].km })
	out := make([]domain.Listing, len(within))
	for i, w := range within {
		out[i] = w.listing
	}
	return s.withSellers(ctx, out)
}

// GetListingByID returns one listing with its seller populated.
func (s *Service) GetListingByID(ctx context.Context, id uuid.UUID) (*ListingWithSeller, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	joined, err := s.withSellers(ctx, []domain.Listing{listing})
	if err != nil {
		return nil, err
	}
	return &joined[0], nil
}

// CreateListing stores a new listing owned by sellerID.
func (s *Service) CreateListing(ctx context.Context, sellerID uuid.UUID, listing domain.Listing) (*domain.Listing, error) {
	listing.ListingID = uuid.Nil
	listing.SellerID = sellerID
	listing.IsActive = true
	if err := s.DB.WithContext(ctx).Create(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// UpdateListingInput carries the optional fields of a partial update.
type UpdateListingInput struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Quantity    *float64
	Unit        *string
	Images      []byte
	Location    *domain.Coordinates
	IsActive    *bool
}

// UpdateListing applies a partial update. Existence is checked before
// authorization; only the owner or an admin may modify.
func (s *Service) UpdateListing(ctx context.Context, id uuid.UUID, actor *domain.User, in UpdateListingInput) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.SellerID != actor.UserID && actor.Role != domain.RoleAdmin {
		return nil, ErrNotOwner
	}

	if in.Title != nil {
		listing.Title = *in.Title
	}
	if in.Description != nil {
		listing.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, ErrValidation
		}
		listing.Price = *in.Price
	}
	if in.Category != nil {
		if !domain.ValidListingCategory(*in.Category) {
			return nil, ErrValidation
		}
		listing.Category = *in.Category
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return nil, ErrValidation
		}
		listing.Quantity = *in.Quantity
	}
	if in.Unit != nil {
		listing.Unit = *in.Unit
	}
	if in.Images != nil {
		listing.Images = in.Images
	}
	if in.Location != nil {
		listing.Location = *in.Location
	}
	if in.IsActive != nil {
		listing.IsActive = *in.IsActive
	}

	if err := s.DB.WithContext(ctx).Save(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// DeleteListing removes a listing; owner or admin only.
func (s *Service) DeleteListing(ctx context.Context, id uuid.UUID, actor *domain.User) error {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if listing.SellerID != actor.UserID && actor.Role != domain.RoleAdmin {
		return ErrNotOwner
	}
	return s.DB.WithContext(ctx).Delete(&listing).Error
}

// GetUserListings returns every listing by a seller, active or not.
func (s *Service) GetUserListings(ctx context.Context, sellerID uuid.UUID) ([]domain.Listing, error) {
	var rows []domain.Listing
	if err := s.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// withSellers joins seller name/email onto listings in one query.
func (s *Service) withSellers(ctx context.Context, rows []domain.Listing) ([]ListingWithSeller, error) {
	out := make([]ListingWithSeller, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(rows))
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, l := range rows {
		if !seen[l.SellerID] {
			seen[l.SellerID] = true
			ids = append(ids, l.SellerID)
		}
	}
	var sellers []domain.User
	if err := s.DB.WithContext(ctx).Where("user_id IN ?", ids).Find(&sellers).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*SellerSummary, len(sellers))
	for _, u := range sellers {
		byID[u.UserID] = &SellerSummary{
			ID:        u.UserID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		}
	}
	for i, l := range rows {
		out[i] = ListingWithSeller{Listing: l, Seller: byID[l.SellerID]}
	}
	return out, nil
}
