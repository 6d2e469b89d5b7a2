package games

import "testing"

func TestFilterControlsRendersThreeTogglesOneActive(t *testing.T) {
	c := NewFilterControls(FilterNewest, nil)

	toggles := c.Toggles()
	if len(toggles) != 3 {
		t.Fatalf("expected 3 toggles, got %d", len(toggles))
	}
	active := 0
	for _, tg := range toggles {
		if tg.Active {
			active++
			if tg.ID != FilterNewest {
				t.Fatalf("expected newest active, got %s", tg.ID)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active toggle, got %d", active)
	}
}

func TestFilterControlsClickInvokesCallbackForInactiveOnly(t *testing.T) {
	var calls []FilterType
	c := NewFilterControls(FilterLastAdded, func(f FilterType) { calls = append(calls, f) })

	c.Click(FilterLastAdded)
	if len(calls) != 0 {
		t.Fatalf("expected no callback for active toggle, got %v", calls)
	}

	c.Click(FilterOldest)
	if len(calls) != 1 || calls[0] != FilterOldest {
		t.Fatalf("expected oldest callback, got %v", calls)
	}
	if c.Active() != FilterOldest {
		t.Fatalf("expected oldest active, got %s", c.Active())
	}

	c.Click(FilterType("nope"))
	if len(calls) != 1 {
		t.Fatalf("expected unknown filter ignored, got %v", calls)
	}
}

func TestNewFilterControlsDefaultsInvalidActive(t *testing.T) {
	c := NewFilterControls(FilterType(""), nil)
	if c.Active() != FilterLastAdded {
		t.Fatalf("expected last-added default, got %s", c.Active())
	}
}
