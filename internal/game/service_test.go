package game

import (
	"context"
	"errors"
	"testing"
)

// Input validation happens before the service touches the database,
// so a nil pool is fine here.
func TestStartGameInputValidation(t *testing.T) {
	s := NewService(nil, nil, DefaultClockPolicy)

	tests := []struct {
		name string
		in   StartGameInput
	}{
		{name: "empty name", in: StartGameInput{OwnerID: "u1", Name: "   ", Position: "vocals"}},
		{name: "unknown position", in: StartGameInput{OwnerID: "u1", Name: "Joon", Position: "triangle"}},
	}
	for _, tc := range tests {
		if _, err := s.StartGame(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}
