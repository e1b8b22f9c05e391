package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthScheme sends "Authorization: <scheme> <token>".
	AuthScheme
	// AuthAPIKey sends the key in a named header.
	AuthAPIKey
	// AuthCustom uses a custom authentication function.
	AuthCustom
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Scheme is the Authorization scheme (AuthScheme), e.g. "ApiKey" or "Bearer".
	Scheme string
	// Token is the credential value.
	Token string
	// Header is the header name for AuthAPIKey. Defaults to "X-API-Key".
	Header string
	// Apply is a custom function to modify the request (AuthCustom).
	Apply func(*http.Request)
}

// SchemeAuth creates an Authorization header auth config with the given scheme.
func SchemeAuth(scheme, token string) *AuthConfig {
	return &AuthConfig{Type: AuthScheme, Scheme: scheme, Token: token}
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return SchemeAuth("Bearer", token)
}

// APIKeyAuthHeader creates an API key auth config sent in a custom header.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Token: key, Header: headerName}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthScheme:
		if a.Scheme == "" {
			req.Header.Set("Authorization", a.Token)
			return
		}
		req.Header.Set("Authorization", a.Scheme+" "+a.Token)
	case AuthAPIKey:
		name := a.Header
		if name == "" {
			name = "X-API-Key"
		}
		req.Header.Set(name, a.Token)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}
