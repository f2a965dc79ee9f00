package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/arbor/pkg/ports"
)

// DocumentSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.DocumentSource.
// setupData must already be stored in the source.
func DocumentSourceContractTest(t *testing.T, source ports.DocumentSource, setupData map[string][]byte) {
	t.Helper()
	ctx := context.Background()

	t.Run("Fetch_Success", func(t *testing.T) {
		for key, expected := range setupData {
			content, err := source.Fetch(ctx, key)
			if err != nil {
				t.Fatalf("unexpected error fetching %s: %v", key, err)
			}
			if string(content) != string(expected) {
				t.Errorf("content mismatch for %s. got %q, want %q", key, content, expected)
			}
		}
	})

	t.Run("Fetch_NotFound", func(t *testing.T) {
		_, err := source.Fetch(ctx, "non-existent-document")
		if !errors.Is(err, ports.ErrDocumentNotFound) {
			t.Errorf("expected ErrDocumentNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		keys, err := source.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing documents: %v", err)
		}

		if len(keys) != len(setupData) {
			t.Errorf("expected %d documents, got %d", len(setupData), len(keys))
		}

		for i := 1; i < len(keys); i++ {
			if keys[i-1] > keys[i] {
				t.Errorf("keys not sorted: %v", keys)
				break
			}
		}

		lookup := make(map[string]bool)
		for _, key := range keys {
			lookup[key] = true
		}
		for key := range setupData {
			if !lookup[key] {
				t.Errorf("document %s missing from list", key)
			}
		}
	})
}
