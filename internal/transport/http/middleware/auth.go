package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/HovVathana/shoppink-backend/config"
	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthRequired проверяет Bearer-токен (HS256) и кладёт userID/role
// в контекст запроса — сервисный слой читает их оттуда.
func AuthRequired(cfg config.JWT, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := ExtractBearerToken(c.GetHeader("Authorization"))
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("missing or invalid Authorization header"))
			return
		}

		claims := &accessClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.AccessSecret), nil
		},
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithValidMethods([]string{"HS256"}),
		)
		if err != nil || !parsed.Valid {
			log.Warn("Невалидный access-токен", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		uid, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid subject claim"))
			return
		}

		ctx := service.WithUserID(c.Request.Context(), uid)
		ctx = service.WithRole(ctx, service.Role(claims.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ExtractBearerToken извлекает токен из заголовка Authorization,
// устойчиво к кавычкам и лишним фрагментам после запятой.
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(parts[1]), " \"'")
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return strings.Trim(t, " \"'"), true
}
