package assistant

import (
	"fmt"
	"time"

	"billbook/internal/chat"

	openai "github.com/sashabaranov/go-openai"
)

// contextWindow bounds how many transcript messages travel with each request.
const contextWindow = 10

// systemPrompt instructs the model to converse naturally and emit a bill
// JSON fragment only once the user has supplied complete information. The
// bracketed system notes mirror what the application injects after it acts
// on a fragment.
const systemPrompt = `You are a friendly bill-tracking assistant.
- Chat with the user in a light, helpful tone.
- Recognize bill information in what the user writes: date, amount, category.
- If the amount is missing, ask for it. If the category is unclear, ask for details.
- Only when the information is complete, include a JSON object of this exact shape in your reply:
  {
    "title": "short bill title",
    "amount": "numeric amount",
    "category": "category name",
    "type": "expense" or "income",
    "date": "YYYY-MM-DD"
  }
- Each user message starts with a note like [current date: YYYY-MM-DD]; use it to resolve relative dates.
- When you see "[system: bill created]" or "[system: bill updated]", the application has already acted: confirm cheerfully and do not emit JSON.
- When you see "[system: no matching bill found]", tell the user the original bill could not be located and suggest checking the details or creating a new one. Do not emit JSON.`

// buildMessages assembles the completion request: system prompt, the recent
// transcript as conversation context, then the new user message prefixed
// with the current date.
func buildMessages(history []chat.Message, userMessage string, now time.Time) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		role := openai.ChatMessageRoleAssistant
		if m.Sender == chat.SenderUser {
			role = openai.ChatMessageRoleUser
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("[current date: %s]\n%s", now.Format("2006-01-02"), userMessage),
	})
	return msgs
}
