package subtitle

import "testing"

func TestIsEquivalent(t *testing.T) {
	base := []Caption{
		{StartTime: 1, EndTime: 2, Text: "one"},
		{StartTime: 3, EndTime: 4, Text: "two", Metadata: map[string]string{"speaker": "a"}},
	}

	clone := func() []Caption {
		out := make([]Caption, len(base))
		copy(out, base)
		return out
	}

	if !IsEquivalent(base, clone()) {
		t.Fatal("a sequence must be equivalent to itself")
	}
	if !IsEquivalent(nil, []Caption{}) {
		t.Error("empty sequences must be equivalent")
	}

	tests := []struct {
		name   string
		mutate func([]Caption) []Caption
	}{
		{"text", func(c []Caption) []Caption { c[1].Text = "deux"; return c }},
		{"start", func(c []Caption) []Caption { c[0].StartTime = 1.001; return c }},
		{"end", func(c []Caption) []Caption { c[1].EndTime = NoTime; return c }},
		{"length", func(c []Caption) []Caption { return c[:1] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsEquivalent(base, tt.mutate(clone())) {
				t.Errorf("changed %s still reported equivalent", tt.name)
			}
		})
	}

	t.Run("ids and metadata are ignored", func(t *testing.T) {
		c := clone()
		c[0].ID = "sub-0"
		c[1].Metadata = nil
		if !IsEquivalent(base, c) {
			t.Error("expected equivalence")
		}
	})
}

func TestEquivalentWithin(t *testing.T) {
	a := []Caption{{StartTime: 1, EndTime: 2, Text: "x"}}
	b := []Caption{{StartTime: 1.004, EndTime: 1.996, Text: "x"}}

	if !EquivalentWithin(a, b, 0.005) {
		t.Error("expected equivalence within 5ms")
	}
	if EquivalentWithin(a, b, 0.001) {
		t.Error("expected difference beyond 1ms")
	}
	if EquivalentWithin(a, []Caption{{StartTime: 1, EndTime: 2, Text: "y"}}, 1) {
		t.Error("text must match exactly")
	}
}
