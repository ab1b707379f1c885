package middleware

import (
	"net/http"
	"strings"

	"github.com/voicecare/relay/internal/api/shared"
	"github.com/voicecare/relay/internal/domain"
)

// RequireAuthorization rejects requests without an Authorization header.
// The credential itself is not verified here.
func RequireAuthorization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized,
				domain.ErrUnauthorized.Error(), domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
