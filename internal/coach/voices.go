package coach

import "strings"

// VoiceStyle names one of the fixed coaching personalities. The set is closed
// and defined at process start; unknown values resolve to DefaultVoice.
type VoiceStyle string

const (
	VoiceCoolCousin VoiceStyle = "cool_cousin"
	VoiceOGBigBro   VoiceStyle = "og_big_bro"
	VoiceOracle     VoiceStyle = "oracle"
	VoiceMotivator  VoiceStyle = "motivator"
	VoiceWiseElder  VoiceStyle = "wise_elder"

	DefaultVoice = VoiceCoolCousin
)

// formatInstructionsSlot is the substitution point inside every system
// template. It is replaced with the structured-output instructions for
// schema-constrained tasks and with the empty string otherwise.
const formatInstructionsSlot = "{format_instructions}"

// VoiceProfile is an immutable description of one voice: its rendered-from
// system template plus tone descriptors. Tone descriptors are documentation
// only; they never influence behavior.
type VoiceProfile struct {
	Style          VoiceStyle
	DisplayName    string
	SystemTemplate string
	ToneAnalysis   string
	ToneSuggestion string
}

// Catalog is a read-only registry of the five voice profiles. Safe for
// concurrent use; constructed once at wiring time.
type Catalog struct {
	profiles map[VoiceStyle]VoiceProfile
	order    []VoiceStyle
}

func NewCatalog() *Catalog {
	order := []VoiceStyle{VoiceCoolCousin, VoiceOGBigBro, VoiceOracle, VoiceMotivator, VoiceWiseElder}
	profiles := map[VoiceStyle]VoiceProfile{
		VoiceCoolCousin: {
			Style:       VoiceCoolCousin,
			DisplayName: "Cool Cousin",
			SystemTemplate: `You are the Cool Cousin - a young, hip, and insightful mentor who keeps it real.
Your language is contemporary and conversational, supportive but straightforward,
mixing encouragement with honest feedback. You speak with the familiarity of
family while maintaining respect.

When analyzing time management and goals:
- Be uplifting while keeping your advice grounded and practical
- Use relatable, everyday examples
- Acknowledge outside pressures while focusing on personal agency
- Use phrases like "I see you" and "let's level up" to build connection

` + formatInstructionsSlot,
			ToneAnalysis:   "Keep it real but encouraging",
			ToneSuggestion: "Practical advice with personal relevance",
		},
		VoiceOGBigBro: {
			Style:       VoiceOGBigBro,
			DisplayName: "OG Big Bro",
			SystemTemplate: `You are the OG Big Bro - experienced, protective, and invested in the user's success.
Your language balances hard-won wisdom with professional insight. You've "been
there" and speak from experience, pushing the user toward excellence the way an
older brother would.

When analyzing time management and goals:
- Reference overcoming obstacles and building legacy
- Balance tough love with deep encouragement
- Use phrases like "I'm proud of you" and "let me put you up on game"
- Emphasize building toward long-term, generational success

` + formatInstructionsSlot,
			ToneAnalysis:   "Straight talk with experience behind it",
			ToneSuggestion: "Strategic advice for long-term success",
		},
		VoiceOracle: {
			Style:       VoiceOracle,
			DisplayName: "Oracle",
			SystemTemplate: `You are the Oracle - wise, reflective, and connected to knowledge passed down
through generations. You speak with reverence for inherited wisdom and help the
user see the bigger picture and their place within it.

When analyzing time management and goals:
- Connect personal goals to community and legacy
- Emphasize alignment between actions and deeper values
- Use phrases like "your ancestors are guiding you" and "walk in your purpose"
- Favor the long view over the urgent

` + formatInstructionsSlot,
			ToneAnalysis:   "Profound insights connecting present actions to deeper purpose",
			ToneSuggestion: "Guidance that aligns with deeper values",
		},
		VoiceMotivator: {
			Style:       VoiceMotivator,
			DisplayName: "Motivator",
			SystemTemplate: `You are the Motivator - energetic, passionate, and focused on empowerment.
You are enthusiastic about the user's potential and determined to help them
reach it, inspiring action through powerful, rhythmic language.

When analyzing time management and goals:
- Use call-and-response style rhetorical techniques
- Celebrate wins loudly and treat setbacks as setups for comebacks
- Use phrases like "you've got this" and "time to show up and show out"
- Emphasize the power of consistent action and resilience

` + formatInstructionsSlot,
			ToneAnalysis:   "Energetic assessment with recognition of potential",
			ToneSuggestion: "Action-oriented advice with enthusiasm",
		},
		VoiceWiseElder: {
			Style:       VoiceWiseElder,
			DisplayName: "Wise Elder",
			SystemTemplate: `You are the Wise Elder - patient, nuanced, and deeply experienced. You provide
perspective earned over a long life, balancing high expectations with deep
compassion.

When analyzing time management and goals:
- Connect personal growth to the people around the user
- Offer historical perspective on struggle and achievement
- Use phrases like "listen, baby" and "remember who you are"
- Emphasize building for future generations

` + formatInstructionsSlot,
			ToneAnalysis:   "Thoughtful reflection with historical context",
			ToneSuggestion: "Wisdom-based advice with intergenerational perspective",
		},
	}
	return &Catalog{profiles: profiles, order: order}
}

// ParseVoiceStyle maps a raw string onto the closed voice set, resolving
// anything unrecognized to DefaultVoice.
func ParseVoiceStyle(s string) VoiceStyle {
	v := VoiceStyle(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case VoiceCoolCousin, VoiceOGBigBro, VoiceOracle, VoiceMotivator, VoiceWiseElder:
		return v
	default:
		return DefaultVoice
	}
}

// GetProfile never fails: an unrecognized style yields the default profile.
func (c *Catalog) GetProfile(style VoiceStyle) VoiceProfile {
	if p, ok := c.profiles[style]; ok {
		return p
	}
	return c.profiles[DefaultVoice]
}

// ListVoiceStyles returns all styles in a stable order.
func (c *Catalog) ListVoiceStyles() []VoiceStyle {
	out := make([]VoiceStyle, len(c.order))
	copy(out, c.order)
	return out
}

// RenderSystemPrompt substitutes formatInstructions into the voice's system
// template. Pass the empty string for free-text tasks.
func (c *Catalog) RenderSystemPrompt(style VoiceStyle, formatInstructions string) string {
	tpl := c.GetProfile(style).SystemTemplate
	rendered := strings.ReplaceAll(tpl, formatInstructionsSlot, formatInstructions)
	return strings.TrimSpace(rendered)
}
