package idgen

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerators(t *testing.T) {
	tests := []struct {
		name    string
		gen     Generator
		version uuid.Version
	}{
		{"v4", NewV4(), 4},
		{"v7", NewV7(), 7},
		{"v7 without retries", NewV7(WithRetries(0)), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[uuid.UUID]struct{}, 20)
			for range 20 {
				id, err := tt.gen.Generate()
				if err != nil {
					t.Fatalf("Generate() unexpected error: %v", err)
				}
				if id.Version() != tt.version {
					t.Fatalf("UUID version = %d, want %d", id.Version(), tt.version)
				}
				if _, dup := seen[id]; dup {
					t.Fatalf("duplicate UUID %v", id)
				}
				seen[id] = struct{}{}
			}
		})
	}
}
