package domain_test

import (
	"testing"

	"bazaar/internal/domain"
)

func TestCanTransition_Table(t *testing.T) {
	allowed := map[domain.OrderStatus][]domain.OrderStatus{
		domain.StatusPending:    {domain.StatusConfirmed, domain.StatusCancelled},
		domain.StatusConfirmed:  {domain.StatusInProgress, domain.StatusCancelled},
		domain.StatusInProgress: {domain.StatusCompleted, domain.StatusCancelled},
		domain.StatusCompleted:  {domain.StatusRefunded},
		domain.StatusCancelled:  {domain.StatusRefunded},
		domain.StatusRefunded:   {},
	}
	all := []domain.OrderStatus{
		domain.StatusPending, domain.StatusConfirmed, domain.StatusInProgress,
		domain.StatusCompleted, domain.StatusCancelled, domain.StatusRefunded,
	}

	for from, tos := range allowed {
		ok := map[domain.OrderStatus]bool{}
		for _, to := range tos {
			ok[to] = true
		}
		for _, to := range all {
			if got := domain.CanTransition(from, to); got != ok[to] {
				t.Errorf("CanTransition(%s,%s) = %v, want %v", from, to, got, ok[to])
			}
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []domain.OrderStatus{domain.StatusCompleted, domain.StatusCancelled, domain.StatusRefunded} {
		if !domain.Terminal(s) {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []domain.OrderStatus{domain.StatusPending, domain.StatusConfirmed, domain.StatusInProgress} {
		if domain.Terminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, ok := domain.ParseOrderStatus("CONFIRMED"); !ok {
		t.Fatal("CONFIRMED should parse")
	}
	if _, ok := domain.ParseOrderStatus("SHIPPED"); ok {
		t.Fatal("SHIPPED should not parse")
	}
	if _, ok := domain.ParseOrderStatus(""); ok {
		t.Fatal("empty should not parse")
	}
}
