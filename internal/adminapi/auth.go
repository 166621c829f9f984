package adminapi

import (
	"crypto/subtle"
	"net/http"

	"github.com/gorilla/mux"

	"keywarden/internal/models"
)

// SecretHeader — заголовок с админским секретом (совместим с клиентами
// исходного протокола).
const SecretHeader = "X-ADMIN-SECRET"

// SharedSecretAuth пропускает запрос только при точном совпадении секрета.
// Пустой настроенный секрет не отключает проверку: валидация конфига
// такого не допускает, но на всякий случай отвечаем 401.
func SharedSecretAuth(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(SecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				models.WriteJSON(w, http.StatusUnauthorized, map[string]any{
					"success": false,
					"message": "Unauthorized",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
