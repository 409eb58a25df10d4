package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vkarpenko/shareit-go/api/responses"
	pkgerrors "github.com/vkarpenko/shareit-go/pkg/errors"
	"github.com/vkarpenko/shareit-go/pkg/logger"
)

// SharerHeader names the trusted caller-identity header.
const SharerHeader = "X-Sharer-User-Id"

// SharerID parses the X-Sharer-User-Id header and stores it in the request
// context. The header is trusted as-is; there is no session behind it.
func SharerID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(SharerHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "X-Sharer-User-Id header is required"))
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeUnauthorized, "X-Sharer-User-Id header must be a positive integer"))
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
