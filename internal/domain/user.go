package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles known to the platform.
const (
	RoleFarmer = "farmer"
	RoleBuyer  = "buyer"
	RoleAdmin  = "admin"
)

// User is a marketplace account. Credentials live with the identity provider;
// identity_id links the local row to the provider's user.
type User struct {
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"id"`
	IdentityID     string         `gorm:"column:identity_id;uniqueIndex;not null" json:"-"`
	FirstName      string         `gorm:"column:first_name;not null" json:"firstName"`
	LastName       string         `gorm:"column:last_name;not null" json:"lastName"`
	Email          string         `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Role           string         `gorm:"column:role;type:varchar(20);default:'buyer'" json:"role"`
	Location       Coordinates    `gorm:"column:location;type:json" json:"location"`
	FarmSize       float64        `gorm:"column:farm_size;default:0" json:"farmSize"`
	Crops          datatypes.JSON `gorm:"column:crops" json:"crops"`
	ProfilePicture string         `gorm:"column:profile_picture" json:"profilePicture"`
	IsVerified     bool           `gorm:"column:is_verified;default:false" json:"isVerified"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets user_id if not already set (DBs without default uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
