package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Errorf("ByName(unknown) = %q, want %q", got.Name, FlexokiDark.Name)
	}
	for _, name := range Names() {
		if !Known(name) {
			t.Errorf("Known(%q) = false", name)
		}
		if ByName(name).Name != name {
			t.Errorf("ByName(%q) returned %q", name, ByName(name).Name)
		}
	}
	if Known("") {
		t.Error("empty name is not a theme")
	}
}

func TestThemesFillEveryRole(t *testing.T) {
	for _, th := range All {
		roles := map[string]string{
			"Background": string(th.Background), "Surface": string(th.Surface),
			"Selected": string(th.Selected), "Focus": string(th.Focus),
			"TextPrimary": string(th.TextPrimary), "Money": string(th.Money),
			"Chart": string(th.Chart), "Today": string(th.Today),
			"Error": string(th.Error),
		}
		for role, c := range roles {
			if c == "" {
				t.Errorf("%s: %s is empty", th.Name, role)
			}
		}
		for i, c := range th.Share {
			if c == "" {
				t.Errorf("%s: share level %d is empty", th.Name, i)
			}
		}
	}
}

func TestSetActive(t *testing.T) {
	t.Cleanup(func() { Active = FlexokiDark })
	SetActive("tokyo-night")
	if Active.Name != "tokyo-night" {
		t.Errorf("Active = %q", Active.Name)
	}
}
