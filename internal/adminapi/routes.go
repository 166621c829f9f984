package adminapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes вешает админские ручки за shared-secret'ом.
func RegisterRoutes(r *mux.Router, store Store, secret string) {
	h := NewHandler(store)
	sub := r.PathPrefix("/").Subrouter()
	sub.Use(SharedSecretAuth(secret))
	sub.HandleFunc("/list_licenses", h.List).Methods(http.MethodGet)
	sub.HandleFunc("/revoke_license", h.Revoke).Methods(http.MethodPost)
}
