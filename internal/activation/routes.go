package activation

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает эндпоинт валидации на роутер.
// mw — опциональные middleware (rate limit и т.п.) только для этого пути.
func RegisterRoutes(r *mux.Router, svc *Service, mw ...mux.MiddlewareFunc) {
	h := NewHandler(svc)
	sub := r.PathPrefix("/").Subrouter()
	sub.Use(mw...)
	sub.HandleFunc("/validate_license", h.Validate).Methods(http.MethodPost)
}
