package account

import "testing"

func TestExchangeAccountIDString(t *testing.T) {
	t.Parallel()
	id := New("local_exchange_account_id", 0)
	if id.String() != "local_exchange_account_id:0" {
		t.Errorf("got %q", id.String())
	}
}

func TestExchangeAccountIDEquality(t *testing.T) {
	t.Parallel()
	a := New("binance", 1)
	b := New("binance", 1)
	c := New("binance", 2)
	if a != b {
		t.Error("expected equal ids to compare equal")
	}
	if a == c {
		t.Error("expected different indices to compare unequal")
	}

	set := map[ExchangeAccountID]bool{a: true}
	if !set[b] {
		t.Error("expected b to hit the same map slot as a")
	}
}
