package auth

import (
	"testing"

	"comicweb_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanReadChapter(t *testing.T) {
	ownerID := "owner"
	comic := &models.Comic{OwnerID: &ownerID}
	seeded := &models.Comic{}
	free := &models.Chapter{UnitPrice: 0}
	priced := &models.Chapter{UnitPrice: 50}

	owner := &Identity{UserID: "owner", Role: RoleUser}
	admin := &Identity{UserID: "admin", Role: RoleAdmin}
	stranger := &Identity{UserID: "stranger", Role: RoleUser}

	t.Run("free chapter is open to everyone", func(t *testing.T) {
		assert.True(t, CanReadChapter(nil, free, comic, false))
		assert.True(t, CanReadChapter(stranger, free, comic, false))
	})

	t.Run("priced chapter", func(t *testing.T) {
		assert.False(t, CanReadChapter(nil, priced, comic, false))
		assert.False(t, CanReadChapter(stranger, priced, comic, false))
		assert.True(t, CanReadChapter(stranger, priced, comic, true))
		assert.True(t, CanReadChapter(owner, priced, comic, false))
		assert.True(t, CanReadChapter(admin, priced, comic, false))
	})

	t.Run("platform content has no owner", func(t *testing.T) {
		assert.False(t, CanReadChapter(owner, priced, seeded, false))
		assert.True(t, CanReadChapter(admin, priced, seeded, false))
	})
}

func TestCanViewTransaction(t *testing.T) {
	tx := &models.Transaction{UserID: "u1"}

	assert.True(t, CanViewTransaction(&Identity{UserID: "u1", Role: RoleUser}, tx))
	assert.True(t, CanViewTransaction(&Identity{UserID: "x", Role: RoleAdmin}, tx))
	assert.False(t, CanViewTransaction(&Identity{UserID: "u2", Role: RoleUser}, tx))
	assert.False(t, CanViewTransaction(nil, tx))
}
