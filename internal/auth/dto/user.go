package dto

import (
	"time"
)

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type LoginHistoryOutput struct {
	LoginTimestamp time.Time `json:"login_timestamp"`
	IPAddress      *string   `json:"ip_address"`
	UserAgent      *string   `json:"user_agent"`
}
