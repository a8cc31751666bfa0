package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// withChiURLParam attaches a chi route parameter to the request so handlers
// under test can read it without a full router.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
