package domain

import (
	"errors"
	"testing"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"lexical", StrategyLexical, false},
		{"keyword", StrategyLexical, false},
		{"vector", StrategyVector, false},
		{"hybrid", StrategyHybrid, false},
		{"semantic", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidQuery) {
					t.Fatalf("err = %v, want ErrInvalidQuery", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStrategyIsValid(t *testing.T) {
	for _, s := range []Strategy{StrategyLexical, StrategyVector, StrategyHybrid} {
		if !s.IsValid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Strategy("fulltext").IsValid() {
		t.Fatal("unknown strategy reported valid")
	}
}
