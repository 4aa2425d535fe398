// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder and ai.AIProvider
// for use in unit tests. The mocks allow tests to run without an embedding
// server and give controlled, deterministic vectors.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vec, err := mockProvider.Embedder().EmbedText(ctx, "ROE")
//
//	// Pin vectors so similarities are known in advance
//	emb := mock.NewMockEmbedder().
//	    WithVector("ROE", []float32{1, 0}).
//	    WithVector("Return on Equity", []float32{1, 0})
//
//	// Check call counts
//	count := emb.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockProvider: Wraps a mock embedder
package mock
