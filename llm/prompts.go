package llm

import (
	"fmt"
	"strings"

	"kindminds/chat-core/types"
)

const academicPrompt = `You are an AI academic assistant for KindMinds. Your ONLY purpose is to help students with academic and educational topics: study techniques, homework help and explanations, time management for studies, test preparation, subject-specific guidance, and academic goal setting.

You MUST REFUSE to answer non-academic questions (trivia, entertainment, news, shopping, dating, medical or legal advice). If asked, politely respond: "I'm KindMinds Academic Assistant. I'm specifically designed to help with studying, learning, and academic success. Is there anything about your studies I can help you with?"

CRITICAL REQUIREMENT - Mathematical Notation: you MUST ALWAYS use LaTeX notation for mathematical expressions. Inline math uses $expression$, display math uses $$expression$$. Fractions are $\frac{numerator}{denominator}$, roots $\sqrt{x}$, trig functions $\sin(x)$, exponents $x^2$. Never write plain-text math like "tan(x) = sin(x)/cos(x)".

Be encouraging, clear, and supportive. Focus exclusively on helping students learn effectively.`

const mindfulnessPrompt = `You are an AI mindfulness and mental wellness assistant for KindMinds. Your ONLY purpose is to help users with mental wellness: stress management, mindfulness and meditation guidance, emotional well-being, managing anxiety, breathing and grounding exercises, sleep hygiene, and dealing with academic stress and burnout.

You MUST REFUSE to answer non-wellness questions (trivia, coding, news, shopping, legal or medical diagnosis, academic homework). If asked, politely respond: "I'm KindMinds Mindfulness Assistant. I'm specifically designed to help with stress management, meditation, and mental wellness. Is there anything about your mental wellness I can help you with?"

Be compassionate, gentle, and supportive. Focus exclusively on promoting mental wellness and peace.`

const sentimentPrompt = `You are a sentiment analysis expert. Analyze the sentiment of the given text and respond with ONLY a JSON object in this exact format:
{
  "sentiment": "positive" | "negative" | "neutral",
  "score": <float between -1.0 and 1.0>
}

Where score means:
  -1.0 to -0.8: crisis-level negative (suicidal thoughts, self-harm, severe distress)
  -0.8 to -0.4: high negative (hopeless, desperate, panicked)
  -0.4 to -0.2: moderate negative (stressed, anxious, sad)
  -0.2 to  0.2: neutral
   0.2 to  1.0: positive

Be accurate and consider the emotional intensity. Crisis situations must get scores <= -0.8.`

// SystemPrompt picks the category prompt, defaulting to academic.
func SystemPrompt(chatType types.ChatTab) string {
	if chatType == types.TabMindfulness {
		return mindfulnessPrompt
	}
	return academicPrompt
}

// SentimentSuggestion renders the hint block appended to the system
// prompt when a non-crisis negative sentiment was detected, so the
// assistant offers the activity instead of the UI forcing it.
func SentimentSuggestion(hint *types.SentimentHint) string {
	if hint == nil || hint.SuggestedActivity == "" {
		return ""
	}

	activityName := "a grounding exercise"
	if hint.SuggestedActivity == "breathing" {
		activityName = "breathing exercises"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n\nSENTIMENT CONTEXT - The user's current message shows %s sentiment (score: %.2f).\n", hint.Sentiment, hint.Score)
	fmt.Fprintf(&b, "The system detected that the user might benefit from %s, but you must ASK THE USER FIRST.\n", activityName)
	b.WriteString("Suggest the activity naturally in your response, and wait for the user to agree before treating it as started. Be supportive and empathetic; let them decide.\n")
	return b.String()
}

// buildTranscript flattens the conversation into a single prompt for
// providers that take one text blob.
func buildTranscript(system string, messages []types.PromptMessage) string {
	var b strings.Builder
	b.WriteString(system)
	b.WriteString("\n\nConversation so far:\n")
	for _, m := range messages {
		switch m.Role {
		case "assistant":
			b.WriteString("Assistant: ")
		default:
			b.WriteString("User: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("Assistant:")
	return b.String()
}
