package server

import renewaldomain "github.com/railzwaylabs/subcommerce/internal/renewal/domain"

// Generic Swagger response envelopes to match API shape.
type DataResponse struct {
	Data any `json:"data"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type RenewalRunsResponse struct {
	Data        []renewaldomain.Run `json:"data"`
	Malformed   int                 `json:"malformed"`
	Unavailable bool                `json:"unavailable,omitempty"`
	Message     string              `json:"message,omitempty"`
}
