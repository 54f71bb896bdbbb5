package prompt

import (
	"fmt"
	"strings"

	"docchat/internal/llm"
)

// DocExcerptLimit caps how many characters of a stored document are embedded
// per question. The tail beyond the limit is cut silently.
const DocExcerptLimit = 5000

const imageTemplate = `You are a helpful assistant that can describe and discuss images.
Conversation history:
%s

User question:
%s

Image: data:image/jpeg;base64,%s`

const documentTemplate = `You are a helpful assistant that answers questions based on a document.
Conversation history:
%s

Document content:
%s

User question:
%s

Answer using both document and prior conversation.`

const plainTemplate = `You are a helpful conversational assistant.
Conversation history:
%s

User question:
%s

Answer helpfully and naturally.`

// RenderHistory flattens turns into "User: ..."/"Assistant: ..." lines in
// conversational order.
func RenderHistory(history []llm.Message) string {
	var b strings.Builder
	for _, msg := range history {
		label := "Assistant"
		if msg.Role == llm.RoleUser {
			label = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, msg.Content)
	}
	return b.String()
}

// Assemble renders the final prompt. An attached image wins over a stored
// document; with neither, the plain conversational shape is used.
func Assemble(history []llm.Message, question, docExcerpt, imageB64 string) string {
	hist := RenderHistory(history)
	switch {
	case imageB64 != "":
		return fmt.Sprintf(imageTemplate, hist, question, imageB64)
	case docExcerpt != "":
		if runes := []rune(docExcerpt); len(runes) > DocExcerptLimit {
			docExcerpt = string(runes[:DocExcerptLimit])
		}
		return fmt.Sprintf(documentTemplate, hist, docExcerpt, question)
	default:
		return fmt.Sprintf(plainTemplate, hist, question)
	}
}
