package auth

import "comicweb_backend/internal/models"

// Identity - аутентифицированный пользователь запроса.
// Выводится один раз в AuthMiddleware и передается в сервисы явно.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IdentityFromClaims строит Identity из проверенного токена
func IdentityFromClaims(c *Claims) *Identity {
	return &Identity{UserID: c.Subject, Email: c.Email, Role: c.Role}
}

// Роли
const (
	RoleAdmin = string(models.UserRoleAdmin)
	RoleUser  = string(models.UserRoleUser)
)

// Предикаты доступа (actor, resource). nil actor - анонимный запрос.

func IsAdmin(actor *Identity) bool {
	return actor != nil && actor.Role == RoleAdmin
}

// IsComicOwner - владелец комикса. У контента платформы владельца нет.
func IsComicOwner(actor *Identity, comic *models.Comic) bool {
	return actor != nil && comic != nil && comic.OwnerID != nil && *comic.OwnerID == actor.UserID
}

// CanManageComic - изменять комикс, его главы и страницы
func CanManageComic(actor *Identity, comic *models.Comic) bool {
	return IsAdmin(actor) || IsComicOwner(actor, comic)
}

// CanReadChapter - бесплатная глава, владелец, админ или купленная глава
func CanReadChapter(actor *Identity, chapter *models.Chapter, comic *models.Comic, purchased bool) bool {
	if chapter.IsFree() {
		return true
	}
	if IsComicOwner(actor, comic) || IsAdmin(actor) {
		return true
	}
	return actor != nil && purchased
}

// CanViewTransaction - владелец транзакции или админ
func CanViewTransaction(actor *Identity, tx *models.Transaction) bool {
	return IsAdmin(actor) || (actor != nil && tx.UserID == actor.UserID)
}

