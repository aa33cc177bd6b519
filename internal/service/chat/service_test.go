package chat_test

import (
	"context"
	"testing"

	model "github.com/sridharsri/consultancy/backend/internal/model/chat"
	chat "github.com/sridharsri/consultancy/backend/internal/service/chat"
)

func TestCreateSessionSeedsGreeting(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	messages, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}

	if len(messages) != 1 {
		t.Fatalf("expected greeting message, got %d messages", len(messages))
	}
	if messages[0].Sender != model.SenderBot {
		t.Fatalf("greeting sender: got %s", messages[0].Sender)
	}
	if messages[0].Text != chat.Greeting {
		t.Fatalf("greeting text: got %q", messages[0].Text)
	}
}

func TestEnsureSessionIsIdempotent(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	first, err := svc.EnsureSession(ctx, "conv-1")
	if err != nil {
		t.Fatalf("EnsureSession err: %v", err)
	}

	if err := svc.SaveMessage(ctx, model.Message{
		ConversationID: "conv-1",
		Sender:         model.SenderUser,
		Text:           "hello",
	}); err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}

	second, err := svc.EnsureSession(ctx, "conv-1")
	if err != nil {
		t.Fatalf("EnsureSession err: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same session, got %s and %s", first.ID, second.ID)
	}

	messages, err := svc.LoadTranscript(ctx, "conv-1")
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("re-ensuring must not reset the transcript, got %d messages", len(messages))
	}
}

func TestSaveMessageIgnoresEmptyUserText(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	for _, text := range []string{"", "   ", "\t\n"} {
		if err := svc.SaveMessage(ctx, model.Message{
			ConversationID: session.ID,
			Sender:         model.SenderUser,
			Text:           text,
		}); err != nil {
			t.Fatalf("SaveMessage(%q) err: %v", text, err)
		}
	}

	messages, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("empty user text must not be appended, got %d messages", len(messages))
	}
}

func TestSaveMessageUnknownSession(t *testing.T) {
	svc := chat.NewService()

	err := svc.SaveMessage(context.Background(), model.Message{
		ConversationID: "missing",
		Sender:         model.SenderUser,
		Text:           "hello",
	})
	if err == nil {
		t.Fatal("expected error for missing session")
	}
}

func TestSaveMessageRejectsUnknownSender(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	err = svc.SaveMessage(ctx, model.Message{
		ConversationID: session.ID,
		Sender:         "system",
		Text:           "hello",
	})
	if err == nil {
		t.Fatal("expected error for unknown sender")
	}
}

func TestTranscriptPreservesAppendOrder(t *testing.T) {
	svc := chat.NewService()
	ctx := context.Background()

	session, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}

	turns := []struct {
		sender string
		text   string
	}{
		{model.SenderUser, "Can I book an appointment?"},
		{model.SenderBot, "Of course."},
		{model.SenderUser, "Tomorrow?"},
		{model.SenderBot, "Let me check."},
	}
	for _, turn := range turns {
		if err := svc.SaveMessage(ctx, model.Message{
			ConversationID: session.ID,
			Sender:         turn.sender,
			Text:           turn.text,
		}); err != nil {
			t.Fatalf("SaveMessage err: %v", err)
		}
	}

	messages, err := svc.LoadTranscript(ctx, session.ID)
	if err != nil {
		t.Fatalf("LoadTranscript err: %v", err)
	}
	if len(messages) != len(turns)+1 {
		t.Fatalf("expected %d messages, got %d", len(turns)+1, len(messages))
	}
	for i, turn := range turns {
		got := messages[i+1]
		if got.Sender != turn.sender || got.Text != turn.text {
			t.Fatalf("message %d: got {%s %q} want {%s %q}", i+1, got.Sender, got.Text, turn.sender, turn.text)
		}
	}

	// The returned slice is a copy; mutating it must not affect the store.
	messages[0].Text = "tampered"
	reloaded, _ := svc.LoadTranscript(ctx, session.ID)
	if reloaded[0].Text == "tampered" {
		t.Fatal("LoadTranscript must return a defensive copy")
	}
}
