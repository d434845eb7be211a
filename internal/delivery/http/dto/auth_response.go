package dto

import "time"

type TokenRequest struct {
	AdminID int64  `json:"admin_id"`
	APIKey  string `json:"api_key"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
