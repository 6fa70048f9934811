package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Authenticator checks the shared token clients present, either as the
// token query parameter or as a bearer Authorization header. An empty token
// disables the check.
type Authenticator struct {
	token string
}

func NewAuthenticator(token string) Authenticator {
	return Authenticator{token: token}
}

func (a Authenticator) Enabled() bool { return a.token != "" }

func (a Authenticator) Authenticate(r *http.Request) error {
	if !a.Enabled() {
		return nil
	}
	presented := r.URL.Query().Get("token")
	if presented == "" {
		presented = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Middleware rejects unauthenticated requests with 401.
func (a Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := a.Authenticate(r); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
