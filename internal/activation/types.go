package activation

// ValidateRequest — тело POST /validate_license.
type ValidateRequest struct {
	License        string `json:"license"`
	InstallationID string `json:"installation_id"`
}

// ValidateResponse — единая форма ответа клиенту.
// ExpiresAt присутствует только при success=true.
type ValidateResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}
