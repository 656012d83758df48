// Package jwtmw はダッシュボードAPIのBearer認証ミドルウェアを提供します。
// トークンは外部で発行され、このサービスは検証のみ行います。
package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"wealth_backend/internal/api"
)

// ContextSubject はトークンの sub クレームを格納するコンテキストキーです。
const ContextSubject = "subject"

// QueryParam は Authorization ヘッダーを付けられないクライアント向けのトークンのクエリ名です。
const QueryParam = "token"

// AuthRequired はHMAC署名のJWTを検証し、認証済みのリクエストだけを通します。
func AuthRequired(secret string) gin.HandlerFunc {
	return authRequired(secret, false)
}

// AuthRequiredAllowQuery は AuthRequired と同じ検証を行い、ヘッダーが無い場合は
// クエリ ?token= も受け付けます。<img> やブラウザのWebSocket向けです。
func AuthRequiredAllowQuery(secret string) gin.HandlerFunc {
	return authRequired(secret, true)
}

func authRequired(secret string, allowQuery bool) gin.HandlerFunc {
	key := []byte(secret)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	)

	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c, allowQuery)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "missing bearer token"})
			return
		}

		var claims jwt.RegisteredClaims
		token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid token"})
			return
		}

		if claims.Subject != "" {
			c.Set(ContextSubject, claims.Subject)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context, allowQuery bool) (string, bool) {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer "), true
	}
	if allowQuery && auth == "" {
		if t := c.Query(QueryParam); t != "" {
			return t, true
		}
	}
	return "", false
}
