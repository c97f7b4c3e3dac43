package api

import (
	"fmt"
	"net/http"
	"strings"

	"riskgraph/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

type RiskgraphJWT struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
	Role      string `json:"role"`
}

func (c RiskgraphJWT) Valid() error {
	std := jwt.StandardClaims{
		Subject:   c.Subject,
		ExpiresAt: c.ExpiresAt,
		IssuedAt:  c.IssuedAt,
	}
	if c.ExpiresAt == 0 {
		return fmt.Errorf("jwt is missing exp")
	}
	return std.Valid()
}

const userContextKey = "userID"

func parseJWT(jwtStr string, decodeToken string) (*RiskgraphJWT, error) {
	claims := RiskgraphJWT{}
	_, err := jwt.ParseWithClaims(jwtStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return &claims, nil
}

// authMiddleware requires a bearer HS256 token when decodeToken is set
func authMiddleware(decodeToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if decodeToken == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenStr == "" {
			returnErrorJsonCode(fmt.Errorf("missing bearer token"), c, http.StatusUnauthorized)
			return
		}

		claims, err := parseJWT(tokenStr, decodeToken)
		if err != nil {
			returnErrorJsonCode(err, c, http.StatusUnauthorized)
			return
		}

		c.Set(userContextKey, claims.Subject)
		if lg := logger.FromContext(c); lg != nil {
			c.Set(logger.ContextKey, lg.With("user_id", claims.Subject))
		}
		c.Next()
	}
}
