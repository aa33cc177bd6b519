// Package resolver defines the contract that maps a user utterance to a
// bot reply. Implementations are interchangeable behind the same
// interface: a pure keyword-rule matcher, a remote chat endpoint client,
// and an LLM-backed assistant all satisfy it, and a widget is bound to
// exactly one of them at construction time.
package resolver

import (
	"context"
	"errors"
)

var (
	// ErrRemoteUnavailable marks network failures and non-2xx responses
	// from a remote chat endpoint.
	ErrRemoteUnavailable = errors.New("remote chat endpoint unavailable")
	// ErrMalformedResponse marks a reply that lacks the expected
	// response field.
	ErrMalformedResponse = errors.New("malformed chat response")
)

// Fallback is the fixed bot message shown whenever a resolver fails. The
// conversation never surfaces a raw error to the user.
const Fallback = "Sorry, I'm having trouble responding right now. Please try again in a moment."

// Resolver produces a bot reply for the latest user utterance. The session
// identifier lets remote implementations correlate the conversation
// server-side; local implementations may ignore it.
type Resolver interface {
	Resolve(ctx context.Context, sessionID, question string) (string, error)
}

// Func adapts a plain function to the Resolver interface.
type Func func(ctx context.Context, sessionID, question string) (string, error)

// Resolve implements Resolver.
func (f Func) Resolve(ctx context.Context, sessionID, question string) (string, error) {
	return f(ctx, sessionID, question)
}
