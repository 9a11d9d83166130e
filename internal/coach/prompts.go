package coach

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Placeholders substituted for empty list-valued payload fields so the model
// never receives an empty block mid-prompt.
const (
	noGoalsForUser   = "No goals found for this user."
	noEventsThisWeek = "No events recorded this week."
	noActiveGoals    = "No active goals."
)

// EventContext is the slice of an event the prompt assembler needs. Times are
// rendered in RFC 3339 so output is stable across runs.
type EventContext struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	IsCompleted bool
}

type GoalContext struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetDate  string `json:"target_date"`
	IsCompleted bool   `json:"is_completed"`
}

// AlignmentUserPrompt builds the user turn for the goal-alignment analysis
// task. Deterministic for identical inputs; performs no I/O.
func AlignmentUserPrompt(event EventContext, goals []GoalContext) string {
	goalsBlock := noGoalsForUser
	if len(goals) > 0 {
		raw, err := json.Marshal(goals)
		if err == nil {
			goalsBlock = string(raw)
		}
	}
	endTime := ""
	if event.EndTime != nil {
		endTime = event.EndTime.UTC().Format(time.RFC3339)
	}
	var b strings.Builder
	b.WriteString("Please analyze this event:\n\n")
	b.WriteString("EVENT:\n")
	fmt.Fprintf(&b, "Title: %s\n", event.Title)
	fmt.Fprintf(&b, "Description: %s\n", event.Description)
	fmt.Fprintf(&b, "Start Time: %s\n", event.StartTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "End Time: %s\n", endTime)
	fmt.Fprintf(&b, "Completed: %t\n\n", event.IsCompleted)
	b.WriteString("USER'S GOALS:\n")
	b.WriteString(goalsBlock)
	b.WriteString("\n\nAnalyze how well this event aligns with the user's goals.\n")
	b.WriteString("Provide:\n")
	b.WriteString("1. An alignment score (1-10)\n")
	b.WriteString("2. Which goals (if any) this event contributes to\n")
	b.WriteString("3. A brief analysis (2-3 sentences)\n")
	b.WriteString("4. One suggestion to improve alignment\n")
	b.WriteString("5. If the event doesn't align with any goals, suggest a new potential goal it might support\n")
	return b.String()
}

// WeeklyReviewUserPrompt builds the user turn for the weekly-review task.
func WeeklyReviewUserPrompt(events []EventContext, goals []GoalContext) string {
	eventsBlock := noEventsThisWeek
	if len(events) > 0 {
		lines := make([]string, 0, len(events))
		for _, e := range events {
			lines = append(lines, fmt.Sprintf("- %s: %s", e.Title, e.Description))
		}
		eventsBlock = strings.Join(lines, "\n")
	}
	goalsBlock := noActiveGoals
	if len(goals) > 0 {
		lines := make([]string, 0, len(goals))
		for _, g := range goals {
			lines = append(lines, fmt.Sprintf("- %s: %s", g.Title, g.Description))
		}
		goalsBlock = strings.Join(lines, "\n")
	}
	var b strings.Builder
	b.WriteString("Please provide a weekly review for this user based on their activity:\n\n")
	b.WriteString("EVENTS THIS WEEK:\n")
	b.WriteString(eventsBlock)
	b.WriteString("\n\nACTIVE GOALS:\n")
	b.WriteString(goalsBlock)
	b.WriteString("\n\nPlease include:\n")
	b.WriteString("1. A summary of their week\n")
	b.WriteString("2. Patterns or insights from their time use\n")
	b.WriteString("3. How their activities align with their goals\n")
	b.WriteString("4. Encouragement and suggestions for the coming week\n")
	return b.String()
}

// ActionPlanUserPrompt builds the user turn for the structured action-plan
// task.
func ActionPlanUserPrompt(events []EventContext, goals []GoalContext) string {
	eventsBlock := noEventsThisWeek
	if len(events) > 0 {
		lines := make([]string, 0, len(events))
		for _, e := range events {
			lines = append(lines, fmt.Sprintf("- %s: %s", e.Title, e.Description))
		}
		eventsBlock = strings.Join(lines, "\n")
	}
	goalsBlock := noActiveGoals
	if len(goals) > 0 {
		lines := make([]string, 0, len(goals))
		for _, g := range goals {
			lines = append(lines, fmt.Sprintf("- %s: %s", g.Title, g.Description))
		}
		goalsBlock = strings.Join(lines, "\n")
	}
	var b strings.Builder
	b.WriteString("Create a focused action plan for this user based on their goals and recent activity:\n\n")
	b.WriteString("RECENT EVENTS:\n")
	b.WriteString(eventsBlock)
	b.WriteString("\n\nACTIVE GOALS:\n")
	b.WriteString(goalsBlock)
	b.WriteString("\n\nProvide concrete actions for the coming days, the priorities behind them, ")
	b.WriteString("and any insights about how the user is spending their time.\n")
	return b.String()
}

// AlignmentSchema is the machine-readable contract for the goal-alignment
// structured completion.
func AlignmentSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"description": "Alignment score from 1-10 (10 being perfectly aligned).",
			},
			"aligned_goals": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "List of goal IDs this event contributes to.",
			},
			"analysis": map[string]any{
				"type":        "string",
				"description": "Brief analysis of the alignment (2-3 sentences).",
			},
			"suggestion": map[string]any{
				"type":        "string",
				"description": "One suggestion to improve alignment with goals.",
			},
			"new_goal_suggestion": map[string]any{
				"type":        []string{"string", "null"},
				"description": "Suggested new goal if the event doesn't align with any existing goals, or null.",
			},
		},
		"required":             []string{"score", "aligned_goals", "analysis", "suggestion", "new_goal_suggestion"},
		"additionalProperties": false,
	}
}

// ActionPlanSchema is the machine-readable contract for the action-plan
// structured completion.
func ActionPlanSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"actions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Concrete actions the user should take.",
			},
			"priorities": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "The priorities these actions serve, most important first.",
			},
			"insights": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Observations about how the user is spending their time.",
			},
		},
		"required":             []string{"actions", "priorities", "insights"},
		"additionalProperties": false,
	}
}

// FormatInstructions renders a human-readable description of a schema for
// inclusion in the system prompt of schema-constrained tasks.
func FormatInstructions(schema map[string]any) string {
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("The output should be a markdown code snippet formatted as JSON, ")
	b.WriteString("conforming to the following schema:\n\n```json\n")
	b.Write(raw)
	b.WriteString("\n```")
	return b.String()
}
