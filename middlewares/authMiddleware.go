package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
	"github.com/gin-gonic/gin"
)

type authString string

// IdentityProvider validates a bearer credential and returns the identity
// claim it carries. Implementations: signed JWTs (production) and a fixed
// development token selected by AUTH_PROVIDER=dev.
type IdentityProvider interface {
	Validate(token string) (*utils.JwtCustomClaim, error)
}

type jwtProvider struct{}

func (jwtProvider) Validate(token string) (*utils.JwtCustomClaim, error) {
	validated, err := utils.JwtValidate(token)
	if err != nil || !validated.Valid {
		return nil, errors.New("invalid token")
	}
	claim, ok := validated.Claims.(*utils.JwtCustomClaim)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claim, nil
}

type devProvider struct {
	token string
}

func (p devProvider) Validate(token string) (*utils.JwtCustomClaim, error) {
	if token != p.token {
		return nil, errors.New("invalid token")
	}
	return &utils.JwtCustomClaim{ID: 0, Username: "dev", Role: "dev"}, nil
}

func NewIdentityProvider() IdentityProvider {
	if config.AuthProvider() == config.AuthProviderDev {
		return devProvider{token: config.DevToken()}
	}
	return jwtProvider{}
}

// AuthMiddleware rejects requests without a valid bearer credential before
// any store access happens.
func AuthMiddleware(provider IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")

		const bearer = "Bearer "
		if auth == "" || !strings.HasPrefix(auth, bearer) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claim, err := provider.Validate(auth[len(bearer):])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		ctx := context.WithValue(c.Request.Context(), authString("auth"), claim)
		ctx = utils.SetUserIdInContext(ctx, claim.ID)
		ctx = utils.SetUsernameInContext(ctx, claim.Username)
		ctx = utils.SetRoleInContext(ctx, claim.Role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func CtxValue(ctx context.Context) *utils.JwtCustomClaim {
	raw, _ := ctx.Value(authString("auth")).(*utils.JwtCustomClaim)
	return raw
}
