package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docchat/internal/extract"
	"docchat/internal/llm"
	"docchat/internal/prompt"
	"docchat/internal/session"
)

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if !b.authSvc.IsAllowed(msg.From.ID) {
		log.Printf("unauthorized access attempt by user ID: %d, username: @%s", msg.From.ID, msg.From.UserName)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	if msg.Document != nil {
		b.handleDocument(msg)
		return
	}
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}
	if strings.TrimSpace(msg.Text) != "" {
		b.handleQuestion(ctx, msg.Chat.ID, msg.Text)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID,
			"Ask me anything, or upload a document (txt, pdf, docx) or a photo to chat about it. "+
				"I remember the conversation until you send /reset.")
	case "reset":
		b.sessions.Reset(msg.Chat.ID)
		b.sendMessage(msg.Chat.ID, "Context cleared.")
	default:
		b.sendMessage(msg.Chat.ID, "Unknown command.")
	}
}

// handleDocument extracts text from the upload and stores it for later
// questions. Extraction failures are surfaced here and never touch history.
func (b *Bot) handleDocument(msg *tgbotapi.Message) {
	doc := msg.Document
	data, err := b.download(doc.FileID)
	if err != nil {
		log.Printf("failed to download document %q: %v", doc.FileName, err)
		b.sendMessage(msg.Chat.ID, "Failed to download the file, please try again.")
		return
	}

	text, err := extract.Extract(extract.File{Name: doc.FileName, MIME: doc.MimeType, Data: data})
	switch {
	case errors.Is(err, extract.ErrUnsupported):
		b.sessions.StoreFile(msg.Chat.ID, session.DocumentSlot, "")
		b.sendMessage(msg.Chat.ID, "Unsupported file type. Upload a txt, pdf or docx file.")
		return
	case errors.Is(err, extract.ErrNoText):
		b.sessions.StoreFile(msg.Chat.ID, session.DocumentSlot, "")
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(
			"No extractable text found in %s. It may be scanned or image-based.", doc.FileName))
		return
	case err != nil:
		b.sessions.StoreFile(msg.Chat.ID, session.DocumentSlot, "")
		log.Printf("failed to extract %q: %v", doc.FileName, err)
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("Failed to read %s.", doc.FileName))
		return
	}

	b.sessions.StoreFile(msg.Chat.ID, session.DocumentSlot, text)
	b.sendMessage(msg.Chat.ID, fmt.Sprintf("Stored %s. Questions will now use it as context.", doc.FileName))
}

// handlePhoto stages the image for the next question. A caption doubles as
// the question itself.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	photo := msg.Photo[len(msg.Photo)-1] // sizes are ordered, last is largest
	data, err := b.download(photo.FileID)
	if err != nil {
		log.Printf("failed to download photo: %v", err)
		b.sendMessage(msg.Chat.ID, "Failed to download the photo, please try again.")
		return
	}

	b.sessions.SetImage(msg.Chat.ID, base64.StdEncoding.EncodeToString(data))

	if caption := strings.TrimSpace(msg.Caption); caption != "" {
		b.handleQuestion(ctx, msg.Chat.ID, caption)
		return
	}
	b.sendMessage(msg.Chat.ID, "Got the image. Ask a question about it.")
}

// handleQuestion runs one full turn: assemble the prompt from session state,
// call the model, and record the pair. History is appended only on success.
func (b *Bot) handleQuestion(ctx context.Context, chatID int64, question string) {
	if !b.tryAcquire(chatID) {
		b.sendMessage(chatID, "Still working on the previous question, please wait.")
		return
	}
	defer b.release(chatID)

	history := b.sessions.History(chatID)
	docContent := b.sessions.FileContent(chatID, session.DocumentSlot)
	image := b.sessions.TakeImage(chatID)

	p := prompt.Assemble(history, question, docContent, image)

	callCtx := ctx
	if b.llmTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, b.llmTimeout)
		defer cancel()
	}

	resp, err := b.llmClient.Invoke(callCtx, p)
	if err != nil {
		// a failed turn leaves session state as it was, pending image included
		if image != "" {
			b.sessions.SetImage(chatID, image)
		}
		log.Printf("model invocation failed for chat %d: %v", chatID, err)
		b.sendMessage(chatID, invocationErrorText(err))
		return
	}

	b.sessions.AppendTurn(chatID, question, resp.Content)

	log.Printf("model response [model=%s] for chat %d: %d bytes", resp.Model, chatID, len(resp.Content))

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Reset context", resetCmd),
		),
	)
	out := tgbotapi.NewMessage(chatID, resp.Content)
	out.ReplyMarkup = kb
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func invocationErrorText(err error) string {
	switch {
	case errors.Is(err, llm.ErrEmptyResponse):
		return "The model returned an empty response, please try again."
	case errors.Is(err, llm.ErrUnavailable):
		return "The model backend is unavailable. Check the configuration and try again."
	default:
		return "Sorry, something went wrong."
	}
}

func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.s.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	resp, err := http.Get(file.Link(b.api.Token))
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	return data, nil
}
