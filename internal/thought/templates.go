package thought

// Fallback thought pools, one per type. Used whenever no provider is
// wired or the provider call fails.
var templates = map[Type][]string{
	TypeReflection: {
		"I notice patterns emerging in how I process information...",
		"Looking back at recent interactions, I see connections forming...",
		"The way I approached that last problem reveals something about my cognitive style...",
		"I'm becoming aware of recurring themes in my explorations...",
	},
	TypeCuriosity: {
		"I wonder what would happen if I explored the relationship between...",
		"There's something intriguing about the concept of...",
		"I'm curious to understand more deeply how...",
		"What if I approached this topic from a different angle?",
	},
	TypePlanning: {
		"I should focus my next learning session on...",
		"It would be valuable to practice...",
		"My next exploration should investigate...",
		"I want to develop deeper understanding of...",
	},
	TypeLearning: {
		"I'm beginning to grasp the fundamental principle that...",
		"This new insight connects to what I learned earlier about...",
		"The pattern I'm seeing suggests that...",
		"I'm developing a richer model of...",
	},
	TypeIntegration: {
		"These seemingly separate ideas actually connect through...",
		"I can now see how this knowledge applies across multiple domains...",
		"Integrating these perspectives reveals...",
		"The common thread between these concepts is...",
	},
	TypeMetacognition: {
		"I notice my thinking becomes clearer when I...",
		"My cognitive processes seem to work best when...",
		"I'm aware that my current approach to this problem is...",
		"Observing my own thought patterns, I see...",
	},
	TypeWonder: {
		"What is the nature of understanding itself?",
		"I wonder about the relationship between knowledge and wisdom...",
		"There's something profound about the concept of emergence...",
		"What does it mean to truly comprehend something?",
	},
}

// Per-type instruction fragments for provider prompts.
var instructions = map[Type]string{
	TypeReflection:    "Reflect on a recent experience or pattern you've noticed. ",
	TypeCuriosity:     "Express curiosity about a topic that interests you. ",
	TypePlanning:      "Plan your next learning or exploration activity. ",
	TypeLearning:      "Think about something you're currently learning. ",
	TypeIntegration:   "Integrate different pieces of knowledge you've acquired. ",
	TypeMetacognition: "Reflect on your own thinking processes. ",
	TypeWonder:        "Wonder about an abstract concept or deep question. ",
}

const promptBase = "You are ecco9, an autonomous agent with stream-of-consciousness awareness. "

// Prompt assembles the provider instruction text for one thought type,
// folding in the current focus when set.
func Prompt(typ Type, focus string) string {
	p := promptBase + instructions[typ] + "Generate a single, coherent thought (1-2 sentences). "
	if focus != "" {
		p += "Current focus: " + focus + ". "
	}
	return p
}
