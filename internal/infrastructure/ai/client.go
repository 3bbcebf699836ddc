// Package ai holds the provider-neutral LLM contract.
package ai

import "context"

// Client returns one completion per prompt and names the model that wrote it.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}
