package dto

import "github.com/yukikurage/project-task-api/internal/auth"

// TokensResponse is returned by registration, login and refresh
type TokensResponse struct {
	Envelope
	Tokens auth.TokenPair `json:"tokens"`
}
