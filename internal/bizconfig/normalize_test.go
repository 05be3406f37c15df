package bizconfig

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeEmptyInputFillsDefaults(t *testing.T) {
	cfg := Normalize(nil)

	if len(cfg.Locations) != 1 || cfg.Locations[0].Name != "Main Office" {
		t.Fatalf("locations = %+v", cfg.Locations)
	}
	if len(cfg.Hours) == 0 {
		t.Fatal("hours not defaulted")
	}
	if len(cfg.Services) != 1 || cfg.Services[0].Name != "Consultation" {
		t.Fatalf("services = %+v", cfg.Services)
	}
	if cfg.Booking.Type != "mock" || cfg.Booking.RequiresPayment {
		t.Fatalf("booking = %+v", cfg.Booking)
	}
	if cfg.AIBehavior.Tone == "" || cfg.AIBehavior.Identity == "" {
		t.Fatalf("aiBehavior not defaulted: %+v", cfg.AIBehavior)
	}
	if len(cfg.Memory.Store) == 0 || cfg.Memory.PrivacyRules == "" {
		t.Fatalf("memory not defaulted: %+v", cfg.Memory)
	}
}

func TestNormalizeLegacyFlatToneAndIdentity(t *testing.T) {
	cfg := Normalize(map[string]any{
		"tone":     "bubbly",
		"identity": "spa concierge",
	})
	if cfg.AIBehavior.Tone != "bubbly" {
		t.Fatalf("tone = %q", cfg.AIBehavior.Tone)
	}
	if cfg.AIBehavior.Identity != "spa concierge" {
		t.Fatalf("identity = %q", cfg.AIBehavior.Identity)
	}

	// nested fields win over the legacy flat pair
	cfg = Normalize(map[string]any{
		"tone":       "bubbly",
		"aiBehavior": map[string]any{"tone": "calm"},
	})
	if cfg.AIBehavior.Tone != "calm" {
		t.Fatalf("tone = %q, want nested value", cfg.AIBehavior.Tone)
	}
}

func TestNormalizeArrayCoercion(t *testing.T) {
	cfg := Normalize(map[string]any{
		"memberships": "VIP Club",
		"faqs": []any{
			"Do you take walk-ins?",
			float64(42),
			map[string]any{"q": "Parking?", "a": "Free lot"},
		},
	})
	if !reflect.DeepEqual(cfg.Memberships, []string{"VIP Club"}) {
		t.Fatalf("memberships = %v", cfg.Memberships)
	}
	if len(cfg.FAQs) != 3 || cfg.FAQs[1] != "42" {
		t.Fatalf("faqs = %v", cfg.FAQs)
	}
	if cfg.FAQs[2] != `{"a":"Free lot","q":"Parking?"}` {
		t.Fatalf("structured faq = %q", cfg.FAQs[2])
	}
}

func TestNormalizeBarePriceNumber(t *testing.T) {
	cfg := Normalize(map[string]any{
		"services": []any{
			map[string]any{"name": "Botox", "price": float64(400)},
			map[string]any{"name": "Filler", "price": "$650"},
			map[string]any{"name": "Facial", "price": "varies by provider"},
		},
	})
	if got := cfg.Services[0].Price.StartingAt; got != 400 {
		t.Fatalf("botox startingAt = %v", got)
	}
	if got := cfg.Services[1].Price.StartingAt; got != 650 {
		t.Fatalf("filler startingAt = %v", got)
	}
	if got := cfg.Services[2].Price; got.StartingAt != 0 || got.Notes != "varies by provider" {
		t.Fatalf("facial price = %+v", got)
	}
}

func TestNormalizeKeepsRealData(t *testing.T) {
	cfg := Normalize(map[string]any{
		"id":   "biz-1",
		"name": "Glow Medspa",
		"locations": []any{
			map[string]any{"name": "Downtown", "address": "123 Main St Suite 2"},
			map[string]any{"name": "Uptown", "address": "9 Oak Ave"},
		},
		"hours": map[string]any{"Monday-Friday": "9am-5pm"},
		"booking": map[string]any{
			"type": "calendly", "url": "https://calendly.com/glow",
		},
	})
	if cfg.ID != "biz-1" || cfg.Name != "Glow Medspa" {
		t.Fatalf("identity fields = %q %q", cfg.ID, cfg.Name)
	}
	if len(cfg.Locations) != 2 || cfg.Locations[1].Address != "9 Oak Ave" {
		t.Fatalf("locations = %+v", cfg.Locations)
	}
	if cfg.Hours["Monday-Friday"] != "9am-5pm" {
		t.Fatalf("hours = %v", cfg.Hours)
	}
	if cfg.Booking.Type != "calendly" {
		t.Fatalf("booking = %+v", cfg.Booking)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []map[string]any{
		nil,
		{"name": "Glow Medspa", "tone": "bubbly"},
		{
			"services": []any{
				map[string]any{"name": "Botox", "price": float64(400), "durationMinutes": float64(15)},
			},
			"memberships": "VIP Club",
			"memory":      map[string]any{"store": []any{"allergies"}},
		},
	}

	for i, raw := range inputs {
		first := Normalize(raw)

		data, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("case %d: marshal: %v", i, err)
		}
		var roundTrip map[string]any
		if err := json.Unmarshal(data, &roundTrip); err != nil {
			t.Fatalf("case %d: unmarshal: %v", i, err)
		}

		second := Normalize(roundTrip)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("case %d: normalize not idempotent\nfirst:  %+v\nsecond: %+v", i, first, second)
		}
	}
}
