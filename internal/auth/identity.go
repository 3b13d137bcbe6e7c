package auth

import (
	"context"
	"net/http"
	"strings"

	"jobportal_backend/internal/models"
	"jobportal_backend/pkg/contextkeys"
)

// Доверенные заголовки между gateway и backend-сервисом
const (
	HeaderUserID   = "X-USER-ID"
	HeaderUserRole = "X-USER-ROLE"
)

// Identity - проверенная личность запроса: subject id + роль.
type Identity struct {
	SubjectID string          `json:"subjectId"`
	Role      models.UserRole `json:"role"`
}

func (i Identity) IsZero() bool {
	return i.SubjectID == "" || i.Role == ""
}

// WithIdentity кладет проверенную личность в context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextkeys.IdentityContextKey, id)
}

// FromContext возвращает личность, если она была установлена на границе доверия
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextkeys.IdentityContextKey).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}

// StripIdentityHeaders удаляет присланные клиентом доверенные заголовки.
// http.Header канонизирует имена, поэтому удаляются любые варианты регистра.
func StripIdentityHeaders(h http.Header) {
	h.Del(HeaderUserID)
	h.Del(HeaderUserRole)
}

func SetIdentityHeaders(h http.Header, id Identity) {
	h.Set(HeaderUserID, id.SubjectID)
	h.Set(HeaderUserRole, string(id.Role))
}

// IdentityFromHeaders читает заголовки, выставленные gateway
func IdentityFromHeaders(h http.Header) (Identity, bool) {
	id := Identity{
		SubjectID: strings.TrimSpace(h.Get(HeaderUserID)),
		Role:      models.UserRole(strings.ToLower(strings.TrimSpace(h.Get(HeaderUserRole)))),
	}
	if id.SubjectID == "" || !id.Role.IsValid() {
		return Identity{}, false
	}
	return id, true
}
