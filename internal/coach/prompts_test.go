package coach

import (
	"strings"
	"testing"
	"time"
)

func TestAlignmentUserPrompt(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	event := EventContext{
		Title:       "Morning run",
		Description: "5k around the park",
		StartTime:   start,
		EndTime:     &end,
		IsCompleted: true,
	}
	goals := []GoalContext{
		{ID: "g-1", Title: "Get fit", Description: "Run 3x a week", IsCompleted: false},
	}

	prompt := AlignmentUserPrompt(event, goals)
	for _, want := range []string{
		"Title: Morning run",
		"Start Time: 2026-03-14T09:00:00Z",
		"End Time: 2026-03-14T10:00:00Z",
		"Completed: true",
		`"id":"g-1"`,
		"alignment score (1-10)",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// Deterministic for identical inputs.
	if again := AlignmentUserPrompt(event, goals); again != prompt {
		t.Fatal("prompt is not deterministic")
	}

	noGoals := AlignmentUserPrompt(event, nil)
	if !strings.Contains(noGoals, "No goals found for this user.") {
		t.Fatal("empty goal list should substitute the placeholder")
	}
}

func TestWeeklyReviewUserPrompt(t *testing.T) {
	empty := WeeklyReviewUserPrompt(nil, nil)
	if !strings.Contains(empty, "No events recorded this week.") {
		t.Fatal("missing events placeholder")
	}
	if !strings.Contains(empty, "No active goals.") {
		t.Fatal("missing goals placeholder")
	}

	events := []EventContext{{Title: "Deep work", Description: "Writing"}}
	goals := []GoalContext{{Title: "Ship the book", Description: "Finish draft"}}
	full := WeeklyReviewUserPrompt(events, goals)
	if !strings.Contains(full, "- Deep work: Writing") {
		t.Fatal("event line not rendered")
	}
	if !strings.Contains(full, "- Ship the book: Finish draft") {
		t.Fatal("goal line not rendered")
	}
}

func TestActionPlanUserPrompt(t *testing.T) {
	prompt := ActionPlanUserPrompt(nil, []GoalContext{{Title: "Learn Go", Description: "Daily practice"}})
	if !strings.Contains(prompt, "No events recorded this week.") {
		t.Fatal("missing events placeholder")
	}
	if !strings.Contains(prompt, "- Learn Go: Daily practice") {
		t.Fatal("goal line not rendered")
	}
}

func TestSchemas(t *testing.T) {
	alignment := AlignmentSchema()
	props, ok := alignment["properties"].(map[string]any)
	if !ok {
		t.Fatal("alignment schema has no properties")
	}
	for _, field := range []string{"score", "aligned_goals", "analysis", "suggestion", "new_goal_suggestion"} {
		if _, ok := props[field]; !ok {
			t.Errorf("alignment schema missing %q", field)
		}
	}
	if ap := alignment["additionalProperties"]; ap != false {
		t.Fatal("alignment schema must forbid additional properties")
	}

	plan := ActionPlanSchema()
	planProps := plan["properties"].(map[string]any)
	for _, field := range []string{"actions", "priorities", "insights"} {
		if _, ok := planProps[field]; !ok {
			t.Errorf("action plan schema missing %q", field)
		}
	}
}

func TestFormatInstructions(t *testing.T) {
	out := FormatInstructions(AlignmentSchema())
	if !strings.Contains(out, "```json") {
		t.Fatal("instructions missing json fence")
	}
	if !strings.Contains(out, "aligned_goals") {
		t.Fatal("instructions missing schema content")
	}
}
