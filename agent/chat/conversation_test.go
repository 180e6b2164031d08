package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type echoAnswerer struct {
	queries []string
}

func (e *echoAnswerer) Answer(ctx context.Context, query string) string {
	e.queries = append(e.queries, query)
	return "answer to " + query
}

func TestConversationAskRecordsTranscript(t *testing.T) {
	t.Parallel()

	answerer := &echoAnswerer{}
	conv, err := NewConversation(answerer)
	if err != nil {
		t.Fatalf("NewConversation() error = %v", err)
	}
	if _, err := uuid.Parse(conv.ID()); err != nil {
		t.Fatalf("conversation id is not a uuid: %q", conv.ID())
	}

	reply := conv.Ask(context.Background(), "List all financial advisors")
	if reply != "answer to List all financial advisors" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	history := conv.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(history))
	}
	if history[0].Role != RoleUser || history[1].Role != RoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", history[0].Role, history[1].Role)
	}
	if history[1].Content != reply {
		t.Fatalf("unexpected assistant turn: %q", history[1].Content)
	}
}

func TestConversationHistoryIsACopy(t *testing.T) {
	t.Parallel()

	conv, err := NewConversation(&echoAnswerer{})
	if err != nil {
		t.Fatalf("NewConversation() error = %v", err)
	}
	conv.Ask(context.Background(), "hi")

	history := conv.History()
	history[0].Content = "changed"
	if conv.History()[0].Content != "hi" {
		t.Fatal("mutating History() result must not change the transcript")
	}
}

func TestConversationClear(t *testing.T) {
	t.Parallel()

	answerer := &echoAnswerer{}
	conv, err := NewConversation(answerer)
	if err != nil {
		t.Fatalf("NewConversation() error = %v", err)
	}
	conv.Ask(context.Background(), "first")
	conv.Clear()

	if got := len(conv.History()); got != 0 {
		t.Fatalf("expected empty transcript after Clear, got %d turns", got)
	}

	conv.Ask(context.Background(), "second")
	if got := len(conv.History()); got != 2 {
		t.Fatalf("expected 2 turns after Clear and Ask, got %d", got)
	}
}

func TestNewConversationRequiresAnswerer(t *testing.T) {
	t.Parallel()

	if _, err := NewConversation(nil); err == nil {
		t.Fatal("expected error without answerer")
	}
}

func TestExamplesCoverAdvisorScenarios(t *testing.T) {
	t.Parallel()

	want := []string{
		"Show me the clients managed by John Smith",
		"What are all the financial advisors in the system?",
	}
	if len(Examples) != len(want) {
		t.Fatalf("unexpected examples: %#v", Examples)
	}
	for i := range want {
		if Examples[i] != want[i] {
			t.Fatalf("Examples[%d] = %q, want %q", i, Examples[i], want[i])
		}
	}
}
