package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/princekumarofficial/upload-service/internal/utils/jwt"
	"github.com/princekumarofficial/upload-service/internal/utils/response"
)

type contextKey string

const SubjectKey contextKey = "subject"

var (
	ErrMissingAuthorization   = errors.New("authorization header required")
	ErrMalformedAuthorization = errors.New("authorization header must be a bearer token")
)

// AuthMiddleware admits requests carrying a valid bearer token and puts its
// subject in the request context.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				unauthorized(w, r, err)
				return
			}

			subject, err := jwt.ExtractSubjectFromToken(token, jwtSecret)
			if err != nil {
				unauthorized(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrMissingAuthorization
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMalformedAuthorization
	}
	return strings.TrimSpace(token), nil
}

func unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	requestID, _ := GetRequestIDFromContext(r.Context())
	slog.Warn("rejected bearer token",
		slog.String("request_id", requestID),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))

	w.Header().Set("WWW-Authenticate", `Bearer realm="upload-service"`)
	if errors.Is(err, jwt.ErrInvalidToken) {
		err = jwt.ErrInvalidToken
	}
	response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(err))
}

// GetSubjectFromContext extracts the token subject from the request context
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}
