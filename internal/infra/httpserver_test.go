package infra

import (
	"context"
	"net/http"
	"testing"
)

func TestShutdownRunsDrainHooksInOrder(t *testing.T) {
	var order []string
	s := NewHTTPServer(&Config{Port: "0"}, http.NewServeMux(),
		func() { order = append(order, "runner") },
		func() { order = append(order, "store") },
	)

	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if len(order) != 2 || order[0] != "runner" || order[1] != "store" {
		t.Fatalf("drain order = %v, want [runner store]", order)
	}
}

func TestShutdownWithoutDrains(t *testing.T) {
	s := NewHTTPServer(&Config{Port: "0"}, http.NewServeMux())
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
