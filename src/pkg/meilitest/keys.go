package meilitest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"meilikit/src/pkg/consts"
	"meilikit/src/pkg/httputil"
	"meilikit/src/pkg/meili"
)

const (
	msgNeedToken  = "Invalid API key: Need a token"
	msgInvalidKey = "Invalid API key: %s"
)

// DeriveKeys returns the private and public keys the server derives from
// master. An empty master yields empty keys.
func DeriveKeys(master string) meili.Keys {
	if master == "" {
		return meili.Keys{}
	}
	return meili.Keys{
		Private: sha256Hex(master + "-private"),
		Public:  sha256Hex(master + "-public"),
	}
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// accessLevel is the lowest key tier a route accepts.
type accessLevel int

const (
	levelPublic accessLevel = iota
	levelPrivate
	levelMaster
)

func (l accessLevel) String() string {
	switch l {
	case levelPrivate:
		return "private"
	case levelMaster:
		return "master"
	}
	return "public"
}

// keyFromRequest reads the key from X-Meili-API-Key, then from a bearer
// Authorization header.
func keyFromRequest(r *http.Request) string {
	if key := r.Header.Get(consts.HeaderAPIKey); key != "" {
		return key
	}
	auth := r.Header.Get(consts.HeaderAuthorization)
	if strings.HasPrefix(auth, consts.BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(auth, consts.BearerPrefix))
	}
	return ""
}

// levelOf returns the tier granted to key, and false for unknown keys.
func (s *Server) levelOf(key string) (accessLevel, bool) {
	switch key {
	case s.masterKey:
		return levelMaster, true
	case s.keys.Private:
		return levelPrivate, true
	case s.keys.Public:
		return levelPublic, true
	}
	return 0, false
}

// requireKey rejects requests whose key tier is below level. Every route is
// open when the server runs without a master key.
func (s *Server) requireKey(level accessLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.masterKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := keyFromRequest(r)
			if key == "" {
				s.writeError(w, r, newAPIError(http.StatusUnauthorized, meili.CodeMissingAuthorization, msgNeedToken))
				return
			}

			granted, ok := s.levelOf(key)
			if !ok || granted < level {
				s.writeError(w, r, newAPIError(http.StatusForbidden, meili.CodeInvalidToken, fmt.Sprintf(msgInvalidKey, key)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err *apiError) {
	httputil.WriteJSON(r.Context(), w, err.body, err.status)
}
