package dto

import "backdrop-api/internal/domain"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Message       string `json:"message"`
	Version       string `json:"version"`
	APIConfigured bool   `json:"api_configured"`
}

type VideoMethods struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

type MethodsResponse struct {
	Image []domain.MethodInfo `json:"image"`
	Video VideoMethods        `json:"video"`
}

type IndexResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
