package coach

import (
	"strings"
	"testing"
)

func TestParseVoiceStyle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want VoiceStyle
	}{
		{name: "exact", in: "oracle", want: VoiceOracle},
		{name: "uppercase", in: "MOTIVATOR", want: VoiceMotivator},
		{name: "padded", in: "  wise_elder ", want: VoiceWiseElder},
		{name: "unknown", in: "drill_sergeant", want: DefaultVoice},
		{name: "empty", in: "", want: DefaultVoice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseVoiceStyle(tc.in); got != tc.want {
				t.Fatalf("ParseVoiceStyle(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCatalogProfiles(t *testing.T) {
	catalog := NewCatalog()

	phrases := map[VoiceStyle]string{
		VoiceCoolCousin: "I see you",
		VoiceOGBigBro:   "put you up on game",
		VoiceOracle:     "walk in your purpose",
		VoiceMotivator:  "show up and show out",
		VoiceWiseElder:  "listen, baby",
	}
	for style, phrase := range phrases {
		p := catalog.GetProfile(style)
		if p.Style != style {
			t.Fatalf("GetProfile(%q) returned style %q", style, p.Style)
		}
		if !strings.Contains(p.SystemTemplate, phrase) {
			t.Errorf("template for %q missing signature phrase %q", style, phrase)
		}
		if !strings.Contains(p.SystemTemplate, formatInstructionsSlot) {
			t.Errorf("template for %q missing format instructions slot", style)
		}
	}

	if got := catalog.GetProfile("nope"); got.Style != DefaultVoice {
		t.Fatalf("unknown style resolved to %q, want %q", got.Style, DefaultVoice)
	}
}

func TestListVoiceStyles(t *testing.T) {
	catalog := NewCatalog()
	styles := catalog.ListVoiceStyles()
	if len(styles) != 5 {
		t.Fatalf("got %d styles, want 5", len(styles))
	}
	if styles[0] != VoiceCoolCousin {
		t.Fatalf("first style = %q, want %q", styles[0], VoiceCoolCousin)
	}
	// Mutating the returned slice must not corrupt the catalog order.
	styles[0] = "mutated"
	if again := catalog.ListVoiceStyles(); again[0] != VoiceCoolCousin {
		t.Fatal("ListVoiceStyles returned a shared slice")
	}
}

func TestRenderSystemPrompt(t *testing.T) {
	catalog := NewCatalog()

	instructions := "Respond only in JSON."
	rendered := catalog.RenderSystemPrompt(VoiceOracle, instructions)
	if strings.Contains(rendered, formatInstructionsSlot) {
		t.Fatal("slot not substituted")
	}
	if !strings.Contains(rendered, instructions) {
		t.Fatal("instructions not present in rendered prompt")
	}

	freeText := catalog.RenderSystemPrompt(VoiceOracle, "")
	if strings.Contains(freeText, formatInstructionsSlot) {
		t.Fatal("slot survived empty substitution")
	}
	if strings.HasSuffix(freeText, "\n") || strings.HasSuffix(freeText, " ") {
		t.Fatal("rendered prompt has trailing whitespace")
	}
}
