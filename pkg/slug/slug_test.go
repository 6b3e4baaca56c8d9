package slug

import (
	"context"
	"errors"
	"testing"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Nova Bolsa 2024":          "nova-bolsa-2024",
		"Ciência & Tecnologia":     "ciencia-tecnologia",
		"  --Edital   UFC--  ":     "edital-ufc",
		"Ação, Reação e Atenção!":  "acao-reacao-e-atencao",
		"snake_case stays_put":     "snake_case-stays_put",
		"already-a-slug":           "already-a-slug",
		"Über   Straße":            "uber-strae",
	}

	for in, want := range cases {
		if got := Make(in); got != want {
			t.Errorf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUniqueAppendsCounter(t *testing.T) {
	taken := map[string]bool{
		"nova-bolsa-2024":   true,
		"nova-bolsa-2024-1": true,
	}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := Unique(context.Background(), "nova-bolsa-2024", exists)
	if err != nil {
		t.Fatalf("unique: %v", err)
	}
	if got != "nova-bolsa-2024-2" {
		t.Fatalf("expected nova-bolsa-2024-2 got %s", got)
	}

	got, err = Unique(context.Background(), "outra", exists)
	if err != nil {
		t.Fatalf("unique: %v", err)
	}
	if got != "outra" {
		t.Fatalf("expected base slug to be kept, got %s", got)
	}
}

func TestUniquePropagatesLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Unique(context.Background(), "x", func(context.Context, string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}
