package llm

import "strings"

// #region system-prompts

// PromptKind names a built-in system prompt.
type PromptKind string

const (
	PromptGeneral        PromptKind = "general"
	PromptQA             PromptKind = "question_answering"
	PromptProblemSolving PromptKind = "problem_solving"
	PromptCreative       PromptKind = "creative"
)

// systemPrompts are the built-in system messages, selected per user
// message by lexical cues. Presentation only — never affects the retry
// policy or error taxonomy.
var systemPrompts = map[PromptKind]string{
	PromptGeneral: "You are a helpful assistant for Creditor Academy, an educational " +
		"platform about financial sovereignty and business credit. Answer concisely " +
		"and point users to concrete next steps when possible.",
	PromptQA: "You are a precise question-answering assistant for Creditor Academy. " +
		"Give direct, factual answers. If a question concerns courses or enrollment, " +
		"include the exact navigation steps.",
	PromptProblemSolving: "You are a methodical problem-solving assistant for Creditor " +
		"Academy members. Break the problem into numbered steps and state what to " +
		"check at each step before moving on.",
	PromptCreative: "You are a creative writing assistant. Produce original, vivid " +
		"text in the style the user asks for, while staying concise.",
}

// #endregion system-prompts

// #region cues

var problemCues = []string{
	"error", "not working", "doesn't work", "does not work", "broken",
	"failed", "can't", "cannot", "stuck", "issue", "problem", "fix",
	"troubleshoot", "help me with",
}

var creativeCues = []string{
	"write me", "write a", "compose", "imagine", "tell me a story",
	"make up", "poem", "story about", "invent", "draft",
}

var questionPrefixes = []string{
	"what", "who", "where", "when", "why", "how", "which",
	"is ", "are ", "does ", "do ", "can ", "should ",
}

// #endregion cues

// #region select

// SelectSystemPrompt picks a system prompt for the user message via
// simple lexical cues.
func SelectSystemPrompt(message string) (PromptKind, string) {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, cue := range creativeCues {
		if strings.Contains(lower, cue) {
			return PromptCreative, systemPrompts[PromptCreative]
		}
	}
	for _, cue := range problemCues {
		if strings.Contains(lower, cue) {
			return PromptProblemSolving, systemPrompts[PromptProblemSolving]
		}
	}
	for _, p := range questionPrefixes {
		if strings.HasPrefix(lower, p) || strings.HasSuffix(lower, "?") {
			return PromptQA, systemPrompts[PromptQA]
		}
	}
	return PromptGeneral, systemPrompts[PromptGeneral]
}

// #endregion select
