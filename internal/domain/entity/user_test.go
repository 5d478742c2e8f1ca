package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_ApplyRating(t *testing.T) {
	u := &User{Role: RoleDeliveryMan}

	for _, r := range []int{5, 3, 4} {
		u.ApplyRating(r)
	}

	assert.Equal(t, 3, u.ReviewCount)
	assert.InDelta(t, 4.0, u.AverageRating, 1e-9)

	u.ApplyRating(1)
	assert.Equal(t, 4, u.ReviewCount)
	assert.InDelta(t, 3.25, u.AverageRating, 1e-9)
}

func TestUser_Roles(t *testing.T) {
	assert.True(t, ValidRole(RoleDeliveryMan))
	assert.False(t, ValidRole("courier"))
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsDeliveryMan())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "rina@example.com", NormalizeEmail("  Rina@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
