package coach

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrParse marks model output that could not be interpreted as the requested
// schema. A parse failure is total: no partially populated result is ever
// produced.
var ErrParse = errors.New("coach: model output does not match expected schema")

// ParseAlignment validates a decoded structured completion against the
// goal-alignment schema. Score must be an integer in [1,10]; all fields but
// new_goal_suggestion are required.
func ParseAlignment(raw map[string]any) (Alignment, error) {
	if raw == nil {
		return Alignment{}, fmt.Errorf("%w: empty output", ErrParse)
	}

	score, err := intField(raw, "score")
	if err != nil {
		return Alignment{}, err
	}
	if score < 1 || score > 10 {
		return Alignment{}, fmt.Errorf("%w: score %d outside range 1-10", ErrParse, score)
	}

	alignedGoals, err := stringSliceField(raw, "aligned_goals")
	if err != nil {
		return Alignment{}, err
	}

	analysis, err := stringField(raw, "analysis")
	if err != nil {
		return Alignment{}, err
	}
	suggestion, err := stringField(raw, "suggestion")
	if err != nil {
		return Alignment{}, err
	}

	var newGoal *string
	if v, ok := raw["new_goal_suggestion"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return Alignment{}, fmt.Errorf("%w: new_goal_suggestion is not a string", ErrParse)
		}
		if strings.TrimSpace(s) != "" {
			newGoal = &s
		}
	}

	return Alignment{
		Score:             score,
		AlignedGoals:      alignedGoals,
		Analysis:          analysis,
		Suggestion:        suggestion,
		NewGoalSuggestion: newGoal,
	}, nil
}

// ParseAlignmentText parses a model completion that should contain the
// alignment JSON, tolerating markdown fences and near-JSON output (repaired
// once before strict validation).
func ParseAlignmentText(text string) (Alignment, error) {
	raw, err := decodeObject(text)
	if err != nil {
		return Alignment{}, err
	}
	return ParseAlignment(raw)
}

// ParseActionPlan validates a decoded structured completion against the
// action-plan schema. All three lists must be non-empty.
func ParseActionPlan(raw map[string]any) (ActionPlan, error) {
	if raw == nil {
		return ActionPlan{}, fmt.Errorf("%w: empty output", ErrParse)
	}
	actions, err := stringSliceField(raw, "actions")
	if err != nil {
		return ActionPlan{}, err
	}
	priorities, err := stringSliceField(raw, "priorities")
	if err != nil {
		return ActionPlan{}, err
	}
	insights, err := stringSliceField(raw, "insights")
	if err != nil {
		return ActionPlan{}, err
	}
	if len(actions) == 0 || len(priorities) == 0 || len(insights) == 0 {
		return ActionPlan{}, fmt.Errorf("%w: action plan lists must be non-empty", ErrParse)
	}
	return ActionPlan{Actions: actions, Priorities: priorities, Insights: insights}, nil
}

// ParseActionPlanText parses a model completion that should contain the
// action-plan JSON, with the same fence and repair tolerance as
// ParseAlignmentText.
func ParseActionPlanText(text string) (ActionPlan, error) {
	raw, err := decodeObject(text)
	if err != nil {
		return ActionPlan{}, err
	}
	return ParseActionPlan(raw)
}

// decodeObject turns a completion into a JSON object: strip any markdown
// fence, try a strict decode, then repair once and decode again.
func decodeObject(text string) (map[string]any, error) {
	payload := stripCodeFence(text)
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(payload)
		if repairErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	return raw, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}

func stringField(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("%w: missing field %q", ErrParse, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q is not a string", ErrParse, key)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: field %q is empty", ErrParse, key)
	}
	return s, nil
}

func intField(raw map[string]any, key string) (int, error) {
	v, ok := raw[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing field %q", ErrParse, key)
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: field %q is not an integer", ErrParse, key)
		}
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: field %q is not an integer", ErrParse, key)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("%w: field %q is not a number", ErrParse, key)
	}
}

func stringSliceField(raw map[string]any, key string) ([]string, error) {
	v, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrParse, key)
	}
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %q contains a non-string entry", ErrParse, key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: field %q is not a list", ErrParse, key)
	}
}
