package order

import "testing"

func TestNewClientOrderIDIsUnique(t *testing.T) {
	t.Parallel()
	a := NewClientOrderID()
	b := NewClientOrderID()
	if a == "" || b == "" {
		t.Fatal("expected non-empty client order ids")
	}
	if a == b {
		t.Error("expected two generated client order ids to differ")
	}
}
