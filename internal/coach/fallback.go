package coach

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

// Category selects which pre-authored message pool a fallback draws from.
type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryAnalysis     Category = "analysis"
	CategorySuggestion   Category = "suggestion"
	CategoryWeeklyReview Category = "weekly_review"
	CategoryActionPlan   Category = "action_plan"
)

// Categories lists all message categories in a stable order.
func Categories() []Category {
	return []Category{CategoryGeneral, CategoryAnalysis, CategorySuggestion, CategoryWeeklyReview, CategoryActionPlan}
}

// fallbackNeutralScore is the alignment score assigned when no analysis ran.
// The midpoint of the 1-10 range reads as "no information".
const fallbackNeutralScore = 5

// FallbackGenerator produces coaching results of identical shape to the live
// path from static per-voice message pools. It is network-free, never fails,
// and is safe for concurrent use (the pools are read-only and the random
// selection needs no coordination).
type FallbackGenerator struct {
	pools map[VoiceStyle]map[Category][]string
}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{pools: fallbackPools()}
}

// Message selects uniformly at random from the (voice, category) pool. An
// unknown voice resolves to the default voice; an unknown category resolves
// to that voice's general pool. Never returns an empty string.
func (g *FallbackGenerator) Message(style VoiceStyle, category Category) string {
	voicePools, ok := g.pools[style]
	if !ok {
		voicePools = g.pools[DefaultVoice]
	}
	pool, ok := voicePools[category]
	if !ok || len(pool) == 0 {
		pool = voicePools[CategoryGeneral]
	}
	return pool[rand.IntN(len(pool))]
}

// CategoryForPrompt picks a message category from keywords in the user's
// prompt. The heuristic mirrors how users phrase each task type.
func CategoryForPrompt(prompt string) Category {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "analyze") || strings.Contains(p, "assessment"):
		return CategoryAnalysis
	case strings.Contains(p, "suggest") || strings.Contains(p, "advice"):
		return CategorySuggestion
	case strings.Contains(p, "plan") || strings.Contains(p, "action"):
		return CategoryActionPlan
	case strings.Contains(p, "review") || strings.Contains(p, "week"):
		return CategoryWeeklyReview
	default:
		return CategoryGeneral
	}
}

// CoachingMessage produces a free-text fallback for the ask-a-question task,
// echoing a preview of the question for context.
func (g *FallbackGenerator) CoachingMessage(style VoiceStyle, userPrompt string) MessageResult {
	preview := userPrompt
	if utf8.RuneCountInString(preview) > 50 {
		runes := []rune(preview)
		preview = string(runes[:50]) + "..."
	}
	text := g.Message(style, CategoryForPrompt(userPrompt))
	if strings.TrimSpace(preview) != "" {
		text = fmt.Sprintf("Regarding '%s': %s", preview, text)
	}
	return MessageResult{
		Text:       text,
		VoiceStyle: style,
		Model:      FallbackModel,
		Fallback:   true,
	}
}

// Analysis produces a goal-alignment result with a neutral score, an empty
// aligned-goal list, and pool-drawn analysis and suggestion text. The event
// title, when known, prefixes the analysis.
func (g *FallbackGenerator) Analysis(style VoiceStyle, eventTitle string) AnalysisResult {
	analysis := g.Message(style, CategoryAnalysis)
	if strings.TrimSpace(eventTitle) != "" {
		analysis = fmt.Sprintf("Regarding '%s': %s", eventTitle, analysis)
	}
	return AnalysisResult{
		Alignment: Alignment{
			Score:        fallbackNeutralScore,
			AlignedGoals: []string{},
			Analysis:     analysis,
			Suggestion:   g.Message(style, CategorySuggestion),
		},
		VoiceStyle: style,
		Model:      FallbackModel,
		Fallback:   true,
	}
}

// WeeklyReview produces a free-text weekly review, addressed to the user by
// name when known.
func (g *FallbackGenerator) WeeklyReview(style VoiceStyle, userName string) MessageResult {
	review := g.Message(style, CategoryWeeklyReview)
	if strings.TrimSpace(userName) != "" {
		review = fmt.Sprintf("%s, %s", userName, review)
	}
	return MessageResult{
		Text:       review + "\n\n" + g.Message(style, CategorySuggestion),
		VoiceStyle: style,
		Model:      FallbackModel,
		Fallback:   true,
	}
}

// PlanOfAction produces a structured action plan with non-empty actions,
// priorities, and insights.
func (g *FallbackGenerator) PlanOfAction(style VoiceStyle) ActionPlanResult {
	return ActionPlanResult{
		ActionPlan: ActionPlan{
			Actions: []string{
				g.Message(style, CategoryActionPlan),
				"Focus on your highest priority task today",
				"Take a few minutes to review your current goals",
			},
			Priorities: []string{
				"Maintaining your daily routines",
				"Progress on your most important goal",
			},
			Insights: []string{
				"Consistency is key to long-term success",
				"Small daily actions lead to significant results over time",
			},
		},
		VoiceStyle: style,
		Model:      FallbackModel,
		Fallback:   true,
	}
}

func fallbackPools() map[VoiceStyle]map[Category][]string {
	return map[VoiceStyle]map[Category][]string{
		VoiceCoolCousin: {
			CategoryGeneral: {
				"Hey, looks like our connection's acting up. Let's try again in a bit.",
				"My bad, I'm having a moment. Can we circle back?",
				"Hmm, seems like there's a glitch in the system. Let's give it another shot later.",
			},
			CategoryAnalysis: {
				"I can't analyze this right now, but from what I see, you're putting in good work. Keep it up!",
				"System's tripping right now, but don't let that stop you. Your schedule is looking solid.",
				"Can't run the full analysis at the moment, but I see you showing up for yourself. That's what matters.",
			},
			CategorySuggestion: {
				"Can't connect to get personalized advice right now, but remember to stay consistent with your goals.",
				"System's down, but here's something to think about - are you making time for what really matters?",
				"Network's acting up, but one thing I always say: protect your time like it's valuable, because it is.",
			},
			CategoryWeeklyReview: {
				"Can't pull your full weekly review right now, but I see you putting in work. Keep that momentum!",
				"System's not cooperating for a full review, but from what I can see, you've been showing up this week.",
				"Having trouble getting all your data, but don't worry about it. Focus on finishing the week strong.",
			},
			CategoryActionPlan: {
				"Can't create your custom plan right now, but keep focusing on your top priorities.",
				"System's down for the detailed plan, but remember: progress over perfection.",
				"Network issue with the planning system, but don't let that stop you. One step at a time.",
			},
		},
		VoiceOGBigBro: {
			CategoryGeneral: {
				"Listen, we got some technical difficulties right now. Let me get back to you.",
				"Hold up, system's acting up. We'll figure this out, don't worry.",
				"Something ain't right with the connection. Give it a minute and we'll be back.",
			},
			CategoryAnalysis: {
				"Can't break down the full analysis right now, but I see you putting in that work. Keep building.",
				"System's down, but I've been watching your progress. You're on the right path, trust me on that.",
				"Can't access everything right now, but I know you're staying consistent. That's how you build legacy.",
			},
			CategorySuggestion: {
				"Network's down for specific advice, but remember what I always say - discipline beats motivation every time.",
				"Can't get you personalized guidance right now, but stay focused on your long-term vision.",
				"System's acting up, but here's some OG advice: protect your peace and your time.",
			},
			CategoryWeeklyReview: {
				"Can't pull your full stats this week, but I know you've been handling business.",
				"System's down for the detailed review, but I see that consistency. That's what separates the real from the fake.",
				"Technical difficulties with your review, but don't sweat it. Keep your eyes on the prize.",
			},
			CategoryActionPlan: {
				"Can't get you that custom plan right now, but remember: strategic planning beats random hustle.",
				"System's down for the detailed plan, but focus on what moves the needle forward.",
				"Technical issue with the planning system, but trust your instincts on what needs to get done.",
			},
		},
		VoiceOracle: {
			CategoryGeneral: {
				"The digital pathways are obscured at the moment. Patience will reveal clarity.",
				"There is interference in our connection. The ancestors remind us that patience is wisdom.",
				"The technological waters are troubled. Let us seek reconnection when they are calm.",
			},
			CategoryAnalysis: {
				"I cannot access the full vision of your journey now, but I sense alignment in your path.",
				"The digital realm is clouded, but your spirit's work is evident even without the full analysis.",
				"Though the analysis is veiled from me now, I feel the intentionality in your actions.",
			},
			CategorySuggestion: {
				"The system cannot channel specific guidance now, but remember that your intuition carries ancient wisdom.",
				"Technical barriers prevent personalized counsel, but listen to the wisdom that already resides within you.",
				"Our connection is hindered, but this moment calls for you to trust the voice within.",
			},
			CategoryWeeklyReview: {
				"The full reflection of your week's journey is obscured, but I sense growth in your path.",
				"Technical veils hide the details of your week, but your spirit's progress cannot be hidden.",
				"Though we cannot see the full pattern of your week, trust that your consistent actions weave purpose.",
			},
			CategoryActionPlan: {
				"The detailed map cannot be drawn at this moment, but you already know the next right step.",
				"Technical barriers prevent the full plan, but follow the wisdom of one deliberate action at a time.",
				"While the system rests, reflect on which actions will bring your spirit into alignment.",
			},
		},
		VoiceMotivator: {
			CategoryGeneral: {
				"We've hit a temporary roadblock, but nothing stops our momentum! We'll be back up soon!",
				"Technical timeout! But remember, challenges are just setups for comebacks!",
				"System's taking a breather, but WE DON'T STOP! We'll reconnect shortly!",
			},
			CategoryAnalysis: {
				"Can't get your full analysis right now, but I KNOW you're crushing those goals! Keep that energy!",
				"System's down but your POTENTIAL isn't! Keep pushing forward while we fix this!",
				"Technical difficulties can't dim your SHINE! Keep moving while we get this fixed!",
			},
			CategorySuggestion: {
				"Network's down for personalized advice, but don't let ANYTHING stop your progress today!",
				"Can't deliver custom suggestions right now, but you've got the POWER to make great decisions!",
				"System issues won't define your day! YOU decide what happens next!",
			},
			CategoryWeeklyReview: {
				"Can't access your full week's VICTORIES right now, but I know you've been SHOWING UP!",
				"Technical pause on your review, but your COMMITMENT this week has been seen!",
				"System's catching its breath, but your DEDICATION doesn't need analysis to be POWERFUL!",
			},
			CategoryActionPlan: {
				"Can't generate your customized plan, but NOTHING stops you from taking bold action today!",
				"System's down for detailed planning, but your GREATNESS isn't dependent on technology!",
				"Technical difficulties with the plan, but your DETERMINATION knows what needs to happen next!",
			},
		},
		VoiceWiseElder: {
			CategoryGeneral: {
				"Child, it seems we're having some difficulties with the connection. Let's pause and try again soon.",
				"The system is experiencing some troubles right now. These things happen; we'll wait patiently.",
				"Seems like the technology is needing a rest. We'll come back to this when it's ready.",
			},
			CategoryAnalysis: {
				"I can't see all the details of your journey right now, but I've lived long enough to recognize good work when I see it.",
				"The system can't show me everything, but what I do see tells me you're on the right path. Keep going.",
				"Technical issues prevent a full analysis, but don't worry about that now. Focus on consistent progress, one day at a time.",
			},
			CategorySuggestion: {
				"Can't get you specific advice at the moment, but remember what our elders taught us - consistency builds character.",
				"The system's down for personalized guidance, but wisdom says: make time for what feeds your spirit.",
				"Technical difficulties prevent detailed suggestions, but listen to that still, small voice within. It knows.",
			},
			CategoryWeeklyReview: {
				"Can't pull together all your week's activity, but I've seen enough to know you're doing the work. That matters.",
				"System can't show me everything from your week, but persistence is how we build legacy. Keep at it.",
				"Technical issues with retrieving your full week, but remember: it's not about perfect weeks, it's about faithful progress.",
			},
			CategoryActionPlan: {
				"Can't create your detailed plan right now, but wisdom doesn't always need technology. Focus on your priorities.",
				"System's having trouble with planning, but our people have always known how to make a way out of no way.",
				"Technical difficulties with your plan, but remember what the elders say: 'Plan your work, then work your plan.'",
			},
		},
	}
}
