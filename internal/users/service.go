package users

import (
	"context"
	"errors"
	"sort"

	"farmlink-backend/internal/domain"
	"farmlink-backend/internal/identity"
	"farmlink-backend/internal/pkg/geo"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("User not found")

type Service struct {
	DB       *gorm.DB
	Identity identity.Client
}

// FindByIdentityID resolves a verified provider id to the local user row.
// Used by the auth middleware on every protected request.
func (s *Service) FindByIdentityID(ctx context.Context, identityID string) (*domain.User, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("identity_id = ?", identityID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers returns every account (admin view).
func (s *Service) GetUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByID returns one account.
func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUserInput carries the optional fields of a partial account update.
type UpdateUserInput struct {
	FirstName      *string
	LastName       *string
	Email          *string
	Role           *string
	IsVerified     *bool
	Location       *domain.Coordinates
	FarmSize       *float64
	Crops          []byte
	ProfilePicture *string
}

// UpdateUser applies a partial update and mirrors name/email changes to
// the identity provider. A provider sync failure is logged, not fatal;
// the local row stays authoritative for marketplace data.
func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	identityFields := map[string]interface{}{}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
		identityFields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
		identityFields["last_name"] = *in.LastName
	}
	if in.Email != nil {
		user.Email = *in.Email
		identityFields["email_address"] = *in.Email
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsVerified != nil {
		user.IsVerified = *in.IsVerified
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.FarmSize != nil {
		user.FarmSize = *in.FarmSize
	}
	if in.Crops != nil {
		user.Crops = in.Crops
	}
	if in.ProfilePicture != nil {
		user.ProfilePicture = *in.ProfilePicture
	}

	if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	if len(identityFields) > 0 && s.Identity != nil {
		if err := s.Identity.UpdateUser(ctx, user.IdentityID, identityFields); err != nil {
			log.Error().Err(err).Str("user_id", user.UserID.String()).Msg("Identity provider sync failed")
		}
	}
	return user, nil
}

// DeleteUser removes the account locally and at the identity provider.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(user).Error; err != nil {
		return err
	}
	if s.Identity != nil {
		if err := s.Identity.DeleteUser(ctx, user.IdentityID); err != nil {
			log.Error().Err(err).Str("user_id", user.UserID.String()).Msg("Identity provider delete failed")
		}
	}
	return nil
}

// FarmerWithDistance is a nearby farmer plus the computed distance.
type FarmerWithDistance struct {
	domain.User
	DistanceKm float64 `json:"distanceKm"`
}

// GetNearbyFarmers returns farmers within distanceKm of the point,
// nearest first. The radius cut runs in-process like the listing search.
func (s *Service) GetNearbyFarmers(ctx context.Context, lng, lat, distanceKm float64) ([]FarmerWithDistance, error) {
	var farmers []domain.User
	if err := s.DB.WithContext(ctx).Where("role = ?", domain.RoleFarmer).Find(&farmers).Error; err != nil {
		return nil, err
	}
	out := make([]FarmerWithDistance, 0, len(farmers))
	for _, f := range farmers {
		km := geo.DistanceKm(lng, lat, f.Location.Longitude, f.Location.Latitude)
		if km <= distanceKm {
			out = append(out, FarmerWithDistance{User: f, DistanceKm: km})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}
