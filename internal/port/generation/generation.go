package generation

//go:generate mockgen -destination=../../mocks/mock_generator.go -package=mocks github.com/alanyang/stlc-manager/internal/port/generation Generator

import "context"

// Generator sends one fully substituted prompt to a completion endpoint.
type Generator interface {
	// ResolveModel maps a caller's short model key to a backend model id.
	// Empty or unknown keys resolve to the default model.
	ResolveModel(key string) string

	// Generate performs a single blocking completion call. Transport errors and
	// non-2xx responses are returned as errors; there is no retry.
	Generate(ctx context.Context, model, prompt string) (string, error)
}
