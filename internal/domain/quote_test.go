package domain

import "testing"

func TestCheapestOffer(t *testing.T) {
	offers := []Offer{
		{Carrier: "AA", Total: 310.50, Currency: "EUR"},
		{Carrier: "BA", Total: 299.00, Currency: "EUR"},
		{Carrier: "LH", Total: 305.25, Currency: "EUR"},
	}

	min, ok := CheapestOffer(offers)
	if !ok {
		t.Fatal("expected an offer")
	}
	if min.Total != 299.00 || min.Carrier != "BA" {
		t.Fatalf("expected BA at 299.00, got %s at %.2f", min.Carrier, min.Total)
	}
}

func TestCheapestOfferTieKeepsFirst(t *testing.T) {
	offers := []Offer{
		{Carrier: "AA", Total: 300.00},
		{Carrier: "BA", Total: 300.00},
	}

	min, _ := CheapestOffer(offers)
	if min.Carrier != "AA" {
		t.Fatalf("tie should keep first-encountered offer, got %s", min.Carrier)
	}
}

func TestCheapestOfferEmpty(t *testing.T) {
	if _, ok := CheapestOffer(nil); ok {
		t.Fatal("expected ok=false for empty offers")
	}
}
