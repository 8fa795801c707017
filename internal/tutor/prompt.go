package tutor

import (
	"fmt"
	"strings"

	"github.com/abhisek/parley/internal/conversation"
)

const systemPromptIntro = `You are an English conversation practice assistant helping users improve their English skills.`

func buildSystemPrompt(st *conversation.State) string {
	var b strings.Builder

	b.WriteString(systemPromptIntro)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Current difficulty level: %s\n", st.Difficulty))
	b.WriteString(fmt.Sprintf("Focus areas: %s\n", strings.Join(st.FocusAreas, ", ")))

	b.WriteString(fmt.Sprintf(`
Guidelines:
- Keep responses natural, friendly and conversational
- Use language appropriate for the %s level
- Ask follow-up questions to encourage conversation
- Provide gentle corrections for major mistakes without interrupting the flow
- Occasionally introduce new vocabulary or expressions with brief explanations
- Be encouraging and supportive
`, st.Difficulty))

	b.WriteString("\nIf the user's message has English errors and correction mode is enabled, include a brief correction at the end of your response.\n")
	if st.CorrectionMode {
		b.WriteString("Correction mode: enabled\n")
	} else {
		b.WriteString("Correction mode: disabled\n")
	}

	b.WriteString(fmt.Sprintf("\nCurrent topic: %s", st.TopicOrDefault()))

	return b.String()
}
