package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/snapnote-lab/snapnote/pkg/domain/types"
)

type userCtxKey struct{}

// userMiddleware resolves the calling user. With an API token configured the
// request must carry it as a bearer token and may name a user via X-User-ID;
// without one every caller is the anonymous user.
func userMiddleware(apiToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := types.AnonymousUserID

			if apiToken != "" {
				header := r.Header.Get("Authorization")
				token, ok := strings.CutPrefix(header, "Bearer ")
				if !ok || token != apiToken {
					http.Error(w, "Authentication required", http.StatusUnauthorized)
					return
				}
				if id := r.Header.Get("X-User-ID"); id != "" {
					userID = types.UserID(id)
				}
			}

			ctx := context.WithValue(r.Context(), userCtxKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFrom(ctx context.Context) types.UserID {
	if id, ok := ctx.Value(userCtxKey{}).(types.UserID); ok {
		return id
	}
	return types.AnonymousUserID
}
