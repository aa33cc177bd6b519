// Package speech turns a callback-style speech-to-text capability into a
// single async listen operation the widget can await.
package speech

import "context"

// Events carries the callbacks a capability fires during one utterance.
// OnResult delivers the transcript at most once; OnEnd signals capture
// finished; OnError signals a platform failure. After OnEnd or OnError the
// capability is inactive.
type Events struct {
	OnResult func(text string)
	OnEnd    func()
	OnError  func(err error)
}

// Capability abstracts a platform speech-to-text facility operating in
// non-continuous, single-utterance mode: capture stops automatically after
// one result.
type Capability interface {
	// Start activates capture and fires events until the utterance
	// completes or fails.
	Start(ctx context.Context, events Events) error
	// Stop deactivates capture. It must be safe to call at any time,
	// repeatedly.
	Stop()
}
