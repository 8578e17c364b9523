package repositories_test

import (
	"testing"

	"comicweb_backend/internal/models"
	"comicweb_backend/internal/repositories"
	"comicweb_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseRepository_InsertAndExists(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewPurchaseRepository()
	user := testutil.CreateUser(t, db, testutil.UniqueEmail("owner"), models.UserRoleUser)
	chapter := testutil.CreateChapter(t, db, testutil.CreateComic(t, db, nil), 10, 1)

	owned, err := repo.Exists(db, user.ID, models.PurchaseTypeChapter, chapter.ID)
	require.NoError(t, err)
	assert.False(t, owned)

	purchase := &models.UserPurchase{UserID: user.ID, PurchaseType: models.PurchaseTypeChapter, ReferenceID: chapter.ID}
	inserted, err := repo.Insert(db, purchase)
	require.NoError(t, err)
	assert.True(t, inserted)

	// повторная вставка - конфликт ключа, не ошибка
	inserted, err = repo.Insert(db, &models.UserPurchase{UserID: user.ID, PurchaseType: models.PurchaseTypeChapter, ReferenceID: chapter.ID})
	require.NoError(t, err)
	assert.False(t, inserted)

	owned, err = repo.Exists(db, user.ID, models.PurchaseTypeChapter, chapter.ID)
	require.NoError(t, err)
	assert.True(t, owned)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewUserRepository()
	user := testutil.CreateUser(t, db, testutil.UniqueEmail("promote"), models.UserRoleUser)

	require.NoError(t, repo.UpdateRole(db, user.ID, models.UserRoleAdmin))

	found, err := repo.FindByID(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAdmin, found.Role)

	err = repo.UpdateRole(db, "00000000-0000-0000-0000-000000000000", models.UserRoleAdmin)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}
