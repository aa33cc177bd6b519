package widget

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sridharsri/consultancy/backend/internal/model/chat"
	"github.com/sridharsri/consultancy/backend/internal/resolver"
	"github.com/sridharsri/consultancy/backend/internal/resolver/rules"
	chatservice "github.com/sridharsri/consultancy/backend/internal/service/chat"
	"github.com/sridharsri/consultancy/backend/internal/speech"
)

func newController(t *testing.T, res resolver.Resolver, onChange func()) *Controller {
	t.Helper()
	ctrl, err := New(context.Background(), chatservice.NewService(), res, speech.NewAdapter(nil), onChange)
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	return ctrl
}

func submitAndWait(t *testing.T, ctrl *Controller, text string) {
	t.Helper()
	ctrl.SetDraft(text)
	done, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit(%q) err: %v", text, err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Submit(%q) did not complete", text)
	}
}

func TestSubmitAppendsUserBeforeBot(t *testing.T) {
	ctrl := newController(t, rules.New(nil), nil)

	submitAndWait(t, ctrl, "Can I book an appointment?")

	messages, err := ctrl.Transcript(context.Background())
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected greeting + user + bot, got %d messages", len(messages))
	}
	if messages[0].Text != chatservice.Greeting || messages[0].Sender != chat.SenderBot {
		t.Fatalf("transcript must start with the greeting, got %+v", messages[0])
	}
	if messages[1].Sender != chat.SenderUser || messages[1].Text != "Can I book an appointment?" {
		t.Fatalf("user message out of order: %+v", messages[1])
	}
	if messages[2].Sender != chat.SenderBot || messages[2].Text != "To book an appointment, please select a doctor from our specialists list and choose an available time slot." {
		t.Fatalf("unexpected bot reply: %+v", messages[2])
	}
	if ctrl.Typing() {
		t.Fatal("typing must be cleared after the reply lands")
	}
	if ctrl.Draft() != "" {
		t.Fatal("draft must be cleared on submit")
	}
}

func TestSubmitEmptyDraftIsNoop(t *testing.T) {
	var calls int32
	res := resolver.Func(func(context.Context, string, string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "reply", nil
	})
	ctrl := newController(t, res, nil)

	for _, draft := range []string{"", "   ", "\n\t"} {
		ctrl.SetDraft(draft)
		done, err := ctrl.Submit(context.Background())
		if err != nil {
			t.Fatalf("Submit(%q) err: %v", draft, err)
		}
		<-done
	}

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("resolver called %d times for empty drafts", got)
	}
	if ctrl.Typing() {
		t.Fatal("typing must not be set for empty drafts")
	}

	messages, _ := ctrl.Transcript(context.Background())
	if len(messages) != 1 {
		t.Fatalf("empty drafts must not append messages, got %d", len(messages))
	}
}

func TestSubmitRejectedWhileTyping(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	res := resolver.Func(func(ctx context.Context, _, _ string) (string, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "done", nil
	})
	ctrl := newController(t, res, nil)

	ctrl.SetDraft("first")
	done, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("first Submit err: %v", err)
	}

	if !ctrl.Typing() {
		t.Fatal("typing must be set while the resolver is outstanding")
	}

	ctrl.SetDraft("second")
	if _, err := ctrl.Submit(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy for second submit, got %v", err)
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("first submit did not complete")
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one resolver call, got %d", got)
	}
}

func TestResolverFailureAppendsFallback(t *testing.T) {
	res := resolver.Func(func(context.Context, string, string) (string, error) {
		return "", resolver.ErrRemoteUnavailable
	})
	ctrl := newController(t, res, nil)

	submitAndWait(t, ctrl, "hello?")

	messages, _ := ctrl.Transcript(context.Background())
	last := messages[len(messages)-1]
	if last.Sender != chat.SenderBot || last.Text != resolver.Fallback {
		t.Fatalf("expected fallback bot message, got %+v", last)
	}
	if ctrl.Typing() {
		t.Fatal("typing must be cleared after a resolver failure")
	}
}

func TestToggleDoesNotTouchTranscript(t *testing.T) {
	ctrl := newController(t, rules.New(nil), nil)

	submitAndWait(t, ctrl, "hello")
	before, _ := ctrl.Transcript(context.Background())

	if !ctrl.Toggle() {
		t.Fatal("first toggle should open the widget")
	}
	if ctrl.Toggle() {
		t.Fatal("second toggle should close the widget")
	}
	ctrl.Toggle()

	after, _ := ctrl.Transcript(context.Background())
	if len(after) != len(before) {
		t.Fatalf("toggling changed the transcript: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Text != after[i].Text {
			t.Fatalf("message %d changed across toggles", i)
		}
	}
}

func TestTranscriptChangeCallbackFires(t *testing.T) {
	var notifications int32
	ctrl := newController(t, rules.New(nil), func() {
		atomic.AddInt32(&notifications, 1)
	})

	submitAndWait(t, ctrl, "hello")

	// One notification for the user append, one for the bot reply.
	if got := atomic.LoadInt32(&notifications); got != 2 {
		t.Fatalf("expected 2 transcript notifications, got %d", got)
	}
}

func TestVoiceInputUnsupportedWithoutCapability(t *testing.T) {
	ctrl := newController(t, rules.New(nil), nil)

	err := ctrl.VoiceInput(context.Background())
	if !errors.Is(err, speech.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if ctrl.Draft() != "" {
		t.Fatal("draft must stay unchanged when voice input is unavailable")
	}
}
