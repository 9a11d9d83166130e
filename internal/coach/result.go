package coach

// FallbackModel is the sentinel model identifier carried by every result
// produced on the fallback path.
const FallbackModel = "fallback"

// MessageResult is the outcome of a free-text coaching task (ask-a-question,
// weekly review). Live and fallback results share this exact shape; consumers
// never need to branch on origin.
type MessageResult struct {
	Text       string     `json:"text"`
	VoiceStyle VoiceStyle `json:"voice_style"`
	Model      string     `json:"model"`
	TokenUsage *int       `json:"token_usage,omitempty"`
	Fallback   bool       `json:"fallback,omitempty"`
}

// Alignment is the structured payload of a goal-alignment analysis.
type Alignment struct {
	Score             int      `json:"score"`
	AlignedGoals      []string `json:"aligned_goals"`
	Analysis          string   `json:"analysis"`
	Suggestion        string   `json:"suggestion"`
	NewGoalSuggestion *string  `json:"new_goal_suggestion"`
}

// AnalysisResult wraps an Alignment with the voice and model metadata shared
// by all coaching results.
type AnalysisResult struct {
	Alignment
	VoiceStyle VoiceStyle `json:"voice_style"`
	Model      string     `json:"model"`
	TokenUsage *int       `json:"token_usage,omitempty"`
	Fallback   bool       `json:"fallback,omitempty"`
}

// ActionPlan is the structured payload of an action-plan task. All three
// lists are non-empty on both the live and fallback paths.
type ActionPlan struct {
	Actions    []string `json:"actions"`
	Priorities []string `json:"priorities"`
	Insights   []string `json:"insights"`
}

type ActionPlanResult struct {
	ActionPlan
	VoiceStyle VoiceStyle `json:"voice_style"`
	Model      string     `json:"model"`
	TokenUsage *int       `json:"token_usage,omitempty"`
	Fallback   bool       `json:"fallback,omitempty"`
}
