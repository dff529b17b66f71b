package config

import (
	"os"
	"strings"
)

// Identity provider selection. The default validates signed JWTs; "dev"
// accepts the fixed DEV_TOKEN value so local frontends can talk to the API
// without a login round trip. Never enable "dev" in production.

const (
	AuthProviderJWT = "jwt"
	AuthProviderDev = "dev"
)

func AuthProvider() string {
	p := strings.TrimSpace(strings.ToLower(os.Getenv("AUTH_PROVIDER")))
	if p == AuthProviderDev {
		return AuthProviderDev
	}
	return AuthProviderJWT
}

func DevToken() string {
	t := strings.TrimSpace(os.Getenv("DEV_TOKEN"))
	if t == "" {
		return "dev-token"
	}
	return t
}
