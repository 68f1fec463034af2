package middleware

import (
	"context"
	"net/http"

	"github.com/mockwiseai/backend/internal/utils"
)

// Auth rejects requests without a valid recruiter bearer token and puts the
// recruiter id in the context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithRecruiterID(r.Context(), claims.Subject)))
		})
	}
}

func WithRecruiterID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, recruiterIDKey, id)
}

// RecruiterID returns the authenticated recruiter, or "" outside Auth.
func RecruiterID(ctx context.Context) string {
	id, _ := ctx.Value(recruiterIDKey).(string)
	return id
}
