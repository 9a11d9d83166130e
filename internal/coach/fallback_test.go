package coach

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFallbackPoolsComplete(t *testing.T) {
	pools := fallbackPools()
	voices := []VoiceStyle{VoiceCoolCousin, VoiceOGBigBro, VoiceOracle, VoiceMotivator, VoiceWiseElder}
	if len(pools) != len(voices) {
		t.Fatalf("got pools for %d voices, want %d", len(pools), len(voices))
	}
	for _, voice := range voices {
		voicePools, ok := pools[voice]
		if !ok {
			t.Fatalf("no pools for voice %q", voice)
		}
		for _, category := range Categories() {
			msgs, ok := voicePools[category]
			if !ok {
				t.Fatalf("voice %q missing category %q", voice, category)
			}
			if len(msgs) != 3 {
				t.Errorf("voice %q category %q has %d messages, want 3", voice, category, len(msgs))
			}
			for i, m := range msgs {
				if strings.TrimSpace(m) == "" {
					t.Errorf("voice %q category %q message %d is empty", voice, category, i)
				}
			}
		}
	}
}

func TestFallbackMessageResolution(t *testing.T) {
	g := NewFallbackGenerator()
	if msg := g.Message("unknown_voice", CategoryGeneral); msg == "" {
		t.Fatal("unknown voice produced empty message")
	}
	if msg := g.Message(VoiceOracle, "unknown_category"); msg == "" {
		t.Fatal("unknown category produced empty message")
	}
	// Unknown category draws from the voice's general pool.
	general := map[string]bool{}
	for _, m := range fallbackPools()[VoiceOracle][CategoryGeneral] {
		general[m] = true
	}
	for i := 0; i < 20; i++ {
		if m := g.Message(VoiceOracle, "unknown_category"); !general[m] {
			t.Fatalf("unknown category drew outside the general pool: %q", m)
		}
	}
}

func TestCategoryForPrompt(t *testing.T) {
	cases := []struct {
		name   string
		prompt string
		want   Category
	}{
		{name: "analyze", prompt: "Can you analyze my schedule?", want: CategoryAnalysis},
		{name: "assessment", prompt: "I want an honest assessment", want: CategoryAnalysis},
		{name: "suggest", prompt: "Suggest something for tomorrow", want: CategorySuggestion},
		{name: "advice", prompt: "I need advice", want: CategorySuggestion},
		{name: "plan", prompt: "Help me plan my day", want: CategoryActionPlan},
		{name: "action", prompt: "What action should I take?", want: CategoryActionPlan},
		{name: "review", prompt: "Give me a review of my progress", want: CategoryWeeklyReview},
		{name: "week", prompt: "How was my week?", want: CategoryWeeklyReview},
		{name: "default", prompt: "hello there", want: CategoryGeneral},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategoryForPrompt(tc.prompt); got != tc.want {
				t.Fatalf("CategoryForPrompt(%q)=%q, want %q", tc.prompt, got, tc.want)
			}
		})
	}
}

func TestCoachingMessageFallback(t *testing.T) {
	g := NewFallbackGenerator()

	result := g.CoachingMessage(VoiceMotivator, "How do I stay focused?")
	if !result.Fallback {
		t.Fatal("fallback flag not set")
	}
	if result.Model != FallbackModel {
		t.Fatalf("model = %q, want %q", result.Model, FallbackModel)
	}
	if result.VoiceStyle != VoiceMotivator {
		t.Fatalf("voice = %q, want %q", result.VoiceStyle, VoiceMotivator)
	}
	if !strings.HasPrefix(result.Text, "Regarding 'How do I stay focused?':") {
		t.Fatalf("missing prompt preview prefix: %q", result.Text)
	}

	long := strings.Repeat("x", 80)
	truncated := g.CoachingMessage(VoiceMotivator, long)
	if !strings.Contains(truncated.Text, strings.Repeat("x", 50)+"...") {
		t.Fatalf("long prompt not truncated to 50 chars: %q", truncated.Text)
	}
}

func TestCoachingMessagePreviewKeepsRunesIntact(t *testing.T) {
	g := NewFallbackGenerator()

	prompt := "a" + strings.Repeat("é", 60)
	result := g.CoachingMessage(VoiceOracle, prompt)
	if !utf8.ValidString(result.Text) {
		t.Fatalf("preview produced invalid UTF-8: %q", result.Text)
	}
	if !strings.Contains(result.Text, "a"+strings.Repeat("é", 49)+"...") {
		t.Fatalf("multi-byte prompt not cut at 50 runes: %q", result.Text)
	}
}

func TestAnalysisFallbackShape(t *testing.T) {
	g := NewFallbackGenerator()
	result := g.Analysis(VoiceWiseElder, "Morning run")

	if result.Score != 5 {
		t.Fatalf("score = %d, want 5", result.Score)
	}
	if result.AlignedGoals == nil || len(result.AlignedGoals) != 0 {
		t.Fatalf("aligned goals = %v, want empty non-nil slice", result.AlignedGoals)
	}
	if !strings.HasPrefix(result.Analysis, "Regarding 'Morning run':") {
		t.Fatalf("analysis missing event title prefix: %q", result.Analysis)
	}
	if result.Suggestion == "" {
		t.Fatal("suggestion is empty")
	}
	if result.NewGoalSuggestion != nil {
		t.Fatal("new goal suggestion should be nil on the fallback path")
	}
	if !result.Fallback || result.Model != FallbackModel {
		t.Fatalf("fallback markers wrong: fallback=%v model=%q", result.Fallback, result.Model)
	}

	untitled := g.Analysis(VoiceWiseElder, "")
	if strings.HasPrefix(untitled.Analysis, "Regarding") {
		t.Fatalf("empty title should not produce a prefix: %q", untitled.Analysis)
	}
}

func TestWeeklyReviewFallback(t *testing.T) {
	g := NewFallbackGenerator()

	named := g.WeeklyReview(VoiceOGBigBro, "Jordan")
	if !strings.HasPrefix(named.Text, "Jordan, ") {
		t.Fatalf("review missing name prefix: %q", named.Text)
	}
	if !strings.Contains(named.Text, "\n\n") {
		t.Fatal("review should append a suggestion after a blank line")
	}
	if named.Model != FallbackModel || !named.Fallback {
		t.Fatal("fallback markers wrong")
	}

	anon := g.WeeklyReview(VoiceOGBigBro, "")
	if strings.HasPrefix(anon.Text, ", ") {
		t.Fatalf("empty name produced a dangling prefix: %q", anon.Text)
	}
}

func TestPlanOfActionFallback(t *testing.T) {
	g := NewFallbackGenerator()
	result := g.PlanOfAction(VoiceCoolCousin)

	if len(result.Actions) == 0 || len(result.Priorities) == 0 || len(result.Insights) == 0 {
		t.Fatalf("plan lists must be non-empty: %+v", result.ActionPlan)
	}
	for _, a := range result.Actions {
		if strings.TrimSpace(a) == "" {
			t.Fatal("empty action in plan")
		}
	}
	if result.Model != FallbackModel || !result.Fallback {
		t.Fatal("fallback markers wrong")
	}
	if result.VoiceStyle != VoiceCoolCousin {
		t.Fatalf("voice = %q, want %q", result.VoiceStyle, VoiceCoolCousin)
	}
}
