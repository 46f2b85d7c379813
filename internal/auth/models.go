package auth

import "time"

type User struct {
	ID          string    `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Preferences []string  `json:"preferences"`
	CreatedAt   time.Time `json:"created_at"`
}

type CodeRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type VerifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
