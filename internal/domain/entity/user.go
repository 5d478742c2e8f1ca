package entity

import (
	"strings"
	"time"
)

const (
	RoleUser        = "user"
	RoleAdmin       = "admin"
	RoleDeliveryMan = "deliveryman"
)

// DefaultPhone is stored when a user registers without a phone number.
const DefaultPhone = "8801"

// NormalizeEmail is the form emails are stored and matched in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type User struct {
	ID       string `json:"_id" firestore:"id" bson:"_id"`
	Email    string `json:"email" firestore:"email" bson:"email"`
	Name     string `json:"name" firestore:"name" bson:"name"`
	PhotoURL string `json:"photoURL,omitempty" firestore:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Role     string `json:"role" firestore:"role" bson:"role"`
	Phone    string `json:"phone" firestore:"phone" bson:"phone"`

	BookedParcel int `json:"bookedParcel" firestore:"bookedParcel" bson:"bookedParcel"`

	// Deliveryman aggregates.
	NumOfDeliveredParcel int     `json:"numOfDeliveredParcel" firestore:"numOfDeliveredParcel" bson:"numOfDeliveredParcel"`
	AverageRating        float64 `json:"averageRating" firestore:"averageRating" bson:"averageRating"`
	ReviewCount          int     `json:"reviewCount" firestore:"reviewCount" bson:"reviewCount"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`
}

// UserWithSpending is a user annotated with the sum of their parcel prices.
type UserWithSpending struct {
	*User
	TotalSpent float64 `json:"totalSpent"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleDeliveryMan:
		return true
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsDeliveryMan() bool {
	return u.Role == RoleDeliveryMan
}

// ApplyRating folds one more rating into the running average. Callers must
// serialize ApplyRating per user; the result is exact only when every rating
// passes through here.
func (u *User) ApplyRating(rating int) {
	total := u.AverageRating * float64(u.ReviewCount)
	u.ReviewCount++
	u.AverageRating = (total + float64(rating)) / float64(u.ReviewCount)
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
