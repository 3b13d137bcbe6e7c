package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB
	DBContextKey = contextKey("db")

	// IdentityContextKey - проверенная личность (auth.Identity) текущего запроса
	IdentityContextKey = contextKey("identity")
)

// Ключи gin.Context (c.Set / c.Get)
const (
	GinUserIDKey = "userID"
	GinRoleKey   = "role"
)
