package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgUnauthorized = "требуется аутентификация"
)

type contextKey string

const actorKey contextKey = "actor"

var (
	// ErrMissingCredentials возвращается, когда запрос не содержит данных пользователя
	ErrMissingCredentials = errors.New("auth: missing credentials")

	// ErrInvalidCredentials возвращается при некорректном токене или заголовках
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// Claims полезная нагрузка токена: sub - ID пользователя, role - его роль
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// Auth определяет действующее лицо запроса и кладёт его в контекст.
// Если jwtSecret задан, ожидается заголовок "Authorization: Bearer <HS256 JWT>",
// иначе ID и роль берутся из заголовков X-User-ID / X-User-Role, выставленных API-шлюзом.
func Auth(jwtSecret string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				actor domain.Actor
				err   error
			)

			if jwtSecret != "" {
				actor, err = actorFromToken(r, jwtSecret)
			} else {
				actor, err = actorFromHeaders(r)
			}

			if err != nil {
				logger.Warn("%s %s - Unauthorized: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor возвращает контекст с действующим лицом
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor извлекает действующее лицо из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// RequireRole пропускает только запросы с указанной ролью
func RequireRole(role domain.Role, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActor(r.Context())
			if !ok || actor.Role != role {
				logger.Warn("%s %s - Forbidden: role %s required", r.Method, r.URL.Path, role)
				handlers.RespondForbidden(w, "доступ запрещен")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func actorFromHeaders(r *http.Request) (domain.Actor, error) {
	rawID := r.Header.Get(HeaderUserID)
	rawRole := r.Header.Get(HeaderUserRole)
	if rawID == "" || rawRole == "" {
		return domain.Actor{}, ErrMissingCredentials
	}

	return parseActor(rawID, rawRole)
}

func actorFromToken(r *http.Request, secret string) (domain.Actor, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return domain.Actor{}, ErrMissingCredentials
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return parseActor(claims.Subject, claims.Role)
}

func parseActor(rawID, rawRole string) (domain.Actor, error) {
	role := domain.Role(rawRole)
	if !role.IsValid() {
		return domain.Actor{}, fmt.Errorf("%w: unknown role %q", ErrInvalidCredentials, rawRole)
	}

	if role == domain.RoleSystem && rawID == "" {
		return domain.SystemActor(), nil
	}

	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || userID < 0 || (userID == 0 && role != domain.RoleSystem) {
		return domain.Actor{}, fmt.Errorf("%w: invalid user id %q", ErrInvalidCredentials, rawID)
	}

	return domain.Actor{UserID: userID, Role: role}, nil
}
