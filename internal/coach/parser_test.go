package coach

import (
	"errors"
	"testing"
)

func validAlignmentRaw() map[string]any {
	return map[string]any{
		"score":               float64(8),
		"aligned_goals":       []any{"goal-1", "goal-2"},
		"analysis":            "Strong alignment with your fitness goal.",
		"suggestion":          "Schedule the run earlier to protect the habit.",
		"new_goal_suggestion": nil,
	}
}

func TestParseAlignmentValid(t *testing.T) {
	got, err := ParseAlignment(validAlignmentRaw())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Score != 8 {
		t.Fatalf("score = %d, want 8", got.Score)
	}
	if len(got.AlignedGoals) != 2 || got.AlignedGoals[0] != "goal-1" {
		t.Fatalf("aligned goals = %v", got.AlignedGoals)
	}
	if got.NewGoalSuggestion != nil {
		t.Fatal("nil new_goal_suggestion should stay nil")
	}
}

func TestParseAlignmentNewGoal(t *testing.T) {
	raw := validAlignmentRaw()
	raw["new_goal_suggestion"] = "Take up swimming"
	got, err := ParseAlignment(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.NewGoalSuggestion == nil || *got.NewGoalSuggestion != "Take up swimming" {
		t.Fatalf("new goal = %v", got.NewGoalSuggestion)
	}
}

func TestParseAlignmentErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "missing_score", mutate: func(m map[string]any) { delete(m, "score") }},
		{name: "score_too_low", mutate: func(m map[string]any) { m["score"] = float64(0) }},
		{name: "score_too_high", mutate: func(m map[string]any) { m["score"] = float64(11) }},
		{name: "score_fractional", mutate: func(m map[string]any) { m["score"] = 7.5 }},
		{name: "score_not_number", mutate: func(m map[string]any) { m["score"] = "eight" }},
		{name: "missing_analysis", mutate: func(m map[string]any) { delete(m, "analysis") }},
		{name: "empty_suggestion", mutate: func(m map[string]any) { m["suggestion"] = "  " }},
		{name: "goals_not_list", mutate: func(m map[string]any) { m["aligned_goals"] = "goal-1" }},
		{name: "goals_mixed_types", mutate: func(m map[string]any) { m["aligned_goals"] = []any{"ok", 3} }},
		{name: "new_goal_not_string", mutate: func(m map[string]any) { m["new_goal_suggestion"] = 42 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validAlignmentRaw()
			tc.mutate(raw)
			if _, err := ParseAlignment(raw); !errors.Is(err, ErrParse) {
				t.Fatalf("got %v, want ErrParse", err)
			}
		})
	}

	if _, err := ParseAlignment(nil); !errors.Is(err, ErrParse) {
		t.Fatalf("nil input: got %v, want ErrParse", err)
	}
}

func TestParseAlignmentText(t *testing.T) {
	fenced := "Here's what I found:\n```json\n" +
		`{"score": 6, "aligned_goals": [], "analysis": "Decent.", "suggestion": "Keep going.", "new_goal_suggestion": null}` +
		"\n```\nHope that helps!"
	got, err := ParseAlignmentText(fenced)
	if err != nil {
		t.Fatalf("fenced: unexpected error: %v", err)
	}
	if got.Score != 6 {
		t.Fatalf("fenced: score = %d, want 6", got.Score)
	}

	// Trailing comma is near-JSON; the repair pass should recover it.
	nearJSON := `{"score": 4, "aligned_goals": ["g"], "analysis": "ok", "suggestion": "ok", "new_goal_suggestion": null,}`
	got, err = ParseAlignmentText(nearJSON)
	if err != nil {
		t.Fatalf("near-JSON: unexpected error: %v", err)
	}
	if got.Score != 4 {
		t.Fatalf("near-JSON: score = %d, want 4", got.Score)
	}

	if _, err := ParseAlignmentText("I'm sorry, I can't help with that."); !errors.Is(err, ErrParse) {
		t.Fatalf("prose: got %v, want ErrParse", err)
	}
}

func TestParseActionPlan(t *testing.T) {
	valid := map[string]any{
		"actions":    []any{"Run in the morning"},
		"priorities": []any{"Health"},
		"insights":   []any{"Mornings are your most reliable window"},
	}
	plan, err := ParseActionPlan(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.Actions) != 1 || plan.Actions[0] != "Run in the morning" {
		t.Fatalf("actions = %v", plan.Actions)
	}

	empty := map[string]any{
		"actions":    []any{},
		"priorities": []any{"Health"},
		"insights":   []any{"x"},
	}
	if _, err := ParseActionPlan(empty); !errors.Is(err, ErrParse) {
		t.Fatalf("empty actions: got %v, want ErrParse", err)
	}

	missing := map[string]any{"actions": []any{"a"}, "priorities": []any{"b"}}
	if _, err := ParseActionPlan(missing); !errors.Is(err, ErrParse) {
		t.Fatalf("missing insights: got %v, want ErrParse", err)
	}
}

func TestParseActionPlanText(t *testing.T) {
	fenced := "```json\n" +
		`{"actions": ["Run"], "priorities": ["Health"], "insights": ["Mornings suit you"]}` +
		"\n```"
	plan, err := ParseActionPlanText(fenced)
	if err != nil {
		t.Fatalf("fenced: unexpected error: %v", err)
	}
	if len(plan.Actions) != 1 || plan.Actions[0] != "Run" {
		t.Fatalf("fenced: actions = %v", plan.Actions)
	}

	nearJSON := `{"actions": ["Run"], "priorities": ["Health"], "insights": ["x"],}`
	if _, err := ParseActionPlanText(nearJSON); err != nil {
		t.Fatalf("near-JSON: unexpected error: %v", err)
	}

	if _, err := ParseActionPlanText("no plan today"); !errors.Is(err, ErrParse) {
		t.Fatalf("prose: got %v, want ErrParse", err)
	}
}
