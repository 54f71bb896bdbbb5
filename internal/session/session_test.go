package session

import (
	"testing"
	"time"

	"docchat/internal/llm"
)

func TestAppendTurnAndHistory(t *testing.T) {
	m := NewManager()
	chatA := int64(1)
	chatB := int64(2)

	m.AppendTurn(chatA, "hello", "hi")
	m.AppendTurn(chatB, "foo", "bar")

	msgsA := m.History(chatA)
	msgsB := m.History(chatB)

	if len(msgsA) != 2 || len(msgsB) != 2 {
		t.Fatalf("unexpected lengths: A=%d B=%d", len(msgsA), len(msgsB))
	}
	if msgsA[0].Role != llm.RoleUser || msgsA[0].Content != "hello" {
		t.Fatalf("unexpected A[0]: %+v", msgsA[0])
	}
	if msgsA[1].Role != llm.RoleAssistant || msgsA[1].Content != "hi" {
		t.Fatalf("unexpected A[1]: %+v", msgsA[1])
	}

	// Ensure copy semantics (modifying returned slice does not affect internal state)
	msgsA[0] = llm.Message{Role: llm.RoleUser, Content: "mutated"}
	if m.History(chatA)[0].Content != "hello" {
		t.Fatalf("internal state mutated via returned slice")
	}
}

func TestHistoryInitIdempotent(t *testing.T) {
	m := NewManager()
	if got := m.History(7); len(got) != 0 {
		t.Fatalf("fresh session should have empty history, got %d", len(got))
	}
	if got := m.History(7); len(got) != 0 {
		t.Fatalf("repeated init should still be empty, got %d", len(got))
	}
}

func TestStoreFileOverwrites(t *testing.T) {
	m := NewManager()
	chat := int64(5)

	m.StoreFile(chat, DocumentSlot, "first version")
	if got := m.FileContent(chat, DocumentSlot); got != "first version" {
		t.Fatalf("unexpected content: %q", got)
	}

	// A failed extraction overwrites with nothing
	m.StoreFile(chat, DocumentSlot, "")
	if got := m.FileContent(chat, DocumentSlot); got != "" {
		t.Fatalf("expected empty slot after overwrite, got %q", got)
	}
}

func TestFileContentAbsentSlot(t *testing.T) {
	m := NewManager()
	if got := m.FileContent(9, DocumentSlot); got != "" {
		t.Fatalf("absent slot should be empty, got %q", got)
	}
}

func TestTakeImageConsumes(t *testing.T) {
	m := NewManager()
	chat := int64(3)

	m.SetImage(chat, "payload")
	if got := m.TakeImage(chat); got != "payload" {
		t.Fatalf("unexpected image: %q", got)
	}
	if got := m.TakeImage(chat); got != "" {
		t.Fatalf("image should be consumed, got %q", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	m := NewManager()
	chatA := int64(1)
	chatB := int64(2)

	m.AppendTurn(chatA, "q", "a")
	m.StoreFile(chatA, DocumentSlot, "doc")
	m.SetImage(chatA, "img")
	m.AppendTurn(chatB, "q", "a")

	m.Reset(chatA)

	if len(m.History(chatA)) != 0 {
		t.Fatalf("reset did not clear history")
	}
	if m.FileContent(chatA, DocumentSlot) != "" {
		t.Fatalf("reset did not clear files")
	}
	if m.TakeImage(chatA) != "" {
		t.Fatalf("reset did not clear pending image")
	}
	if len(m.History(chatB)) != 2 {
		t.Fatalf("reset should not affect other chats")
	}
}

func TestSweepIdle(t *testing.T) {
	m := NewManager()
	m.AppendTurn(1, "q", "a")
	m.AppendTurn(2, "q", "a")

	if n := m.SweepIdle(time.Hour); n != 0 {
		t.Fatalf("fresh sessions swept: %d", n)
	}

	time.Sleep(20 * time.Millisecond)
	m.AppendTurn(2, "again", "sure") // keep chat 2 active

	if n := m.SweepIdle(10 * time.Millisecond); n != 1 {
		t.Fatalf("expected 1 swept session, got %d", n)
	}
	if len(m.History(1)) != 0 {
		t.Fatalf("idle session survived sweep")
	}
	if len(m.History(2)) != 4 {
		t.Fatalf("active session swept")
	}
}
