// Package widget orchestrates one chat widget instance: visibility, the
// input draft, the typing indicator and the hand-off between conversation
// state, response resolver and speech input. Each instance owns its own
// session, so no state is shared across widgets.
package widget

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/sridharsri/consultancy/backend/internal/model/chat"
	"github.com/sridharsri/consultancy/backend/internal/resolver"
	chatservice "github.com/sridharsri/consultancy/backend/internal/service/chat"
	"github.com/sridharsri/consultancy/backend/internal/speech"
)

// ErrBusy reports a submit while a reply is still outstanding. Send
// controls are disabled during typing, so at most one resolver call is in
// flight per widget.
var ErrBusy = errors.New("a reply is still pending")

// Controller drives a single widget instance.
type Controller struct {
	mu      sync.Mutex
	open    bool
	draft   string
	typing  bool
	session chat.Session

	chatSvc  *chatservice.Service
	resolver resolver.Resolver
	voice    *speech.Adapter

	// onTranscriptChange fires after every transcript append so the view
	// can scroll to the latest message.
	onTranscriptChange func()
}

// New mounts a widget: it provisions a fresh session (seeded with the
// greeting) and binds the resolver chosen for this deployment. The
// transcript-change callback may be nil.
func New(ctx context.Context, chatSvc *chatservice.Service, res resolver.Resolver, voice *speech.Adapter, onTranscriptChange func()) (*Controller, error) {
	session, err := chatSvc.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	return &Controller{
		session:            session,
		chatSvc:            chatSvc,
		resolver:           res,
		voice:              voice,
		onTranscriptChange: onTranscriptChange,
	}, nil
}

// SessionID returns the widget's conversation identifier.
func (c *Controller) SessionID() string {
	return c.session.ID
}

// Toggle flips the widget between open and closed and returns the new
// state. Visibility has no effect on the transcript.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	return c.open
}

// Open reports whether the widget is visible.
func (c *Controller) Open() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SetDraft replaces the current input draft.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Draft returns the current input draft.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Typing reports whether a reply is outstanding.
func (c *Controller) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// Transcript returns a copy of the conversation so far.
func (c *Controller) Transcript(ctx context.Context) ([]chat.Message, error) {
	return c.chatSvc.LoadTranscript(ctx, c.session.ID)
}

// Submit sends the current draft. An empty or whitespace-only draft is
// ignored silently. While a reply is outstanding, further submits return
// ErrBusy. The user message is appended synchronously before the resolver
// is invoked, so transcript order always reflects submission order; the
// returned channel closes once the bot reply (or the fixed fallback on
// resolver failure) has been appended and typing cleared.
func (c *Controller) Submit(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	if c.typing {
		c.mu.Unlock()
		return nil, ErrBusy
	}

	text := strings.TrimSpace(c.draft)
	if text == "" {
		c.mu.Unlock()
		done := make(chan struct{})
		close(done)
		return done, nil
	}

	c.draft = ""
	c.typing = true
	c.mu.Unlock()

	if err := c.chatSvc.SaveMessage(ctx, chat.Message{
		ConversationID: c.session.ID,
		Sender:         chat.SenderUser,
		Text:           text,
	}); err != nil {
		c.mu.Lock()
		c.typing = false
		c.mu.Unlock()
		return nil, err
	}
	c.notifyTranscriptChange()

	done := make(chan struct{})
	go c.resolve(ctx, text, done)
	return done, nil
}

// resolve runs the single outstanding resolver call and lands the reply.
func (c *Controller) resolve(ctx context.Context, text string, done chan struct{}) {
	defer close(done)

	reply, err := c.resolver.Resolve(ctx, c.session.ID, text)
	if err != nil {
		log.Printf("[widget] resolver failed for session=%s: %v", c.session.ID, err)
		reply = resolver.Fallback
	}

	if err := c.chatSvc.SaveMessage(ctx, chat.Message{
		ConversationID: c.session.ID,
		Sender:         chat.SenderBot,
		Text:           reply,
	}); err != nil {
		log.Printf("[widget] failed to save bot message for session=%s: %v", c.session.ID, err)
	}

	c.mu.Lock()
	c.typing = false
	c.mu.Unlock()
	c.notifyTranscriptChange()
}

// VoiceInput captures one utterance through the speech adapter and places
// the transcript into the draft. Without a configured capability it
// returns speech.ErrUnsupported so the caller can surface a notice; on
// capture errors the draft is left unchanged.
func (c *Controller) VoiceInput(ctx context.Context) error {
	if !c.voice.Available() {
		return speech.ErrUnsupported
	}

	text, err := c.voice.Listen(ctx)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) != "" {
		c.SetDraft(text)
	}
	return nil
}

// StopVoice cancels an active capture. Idempotent.
func (c *Controller) StopVoice() {
	c.voice.StopListening()
}

// Listening reports whether voice capture is active.
func (c *Controller) Listening() bool {
	return c.voice.Available() && c.voice.Listening()
}

func (c *Controller) notifyTranscriptChange() {
	if c.onTranscriptChange != nil {
		c.onTranscriptChange()
	}
}
