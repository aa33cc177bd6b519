package speech

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrUnsupported reports that no speech capability was configured.
	ErrUnsupported = errors.New("speech recognition is not available")
	// ErrListening reports a Listen call while capture is already active.
	ErrListening = errors.New("speech capture already active")
	// ErrNoSpeech reports that capture ended without producing a result.
	ErrNoSpeech = errors.New("no speech detected")
)

// Adapter wraps a Capability and exposes a single blocking Listen call.
// Exactly one capture can be outstanding at a time.
type Adapter struct {
	mu         sync.Mutex
	capability Capability
	listening  bool
}

// NewAdapter returns an Adapter over the injected capability. A nil
// capability yields an adapter that reports ErrUnsupported on Listen,
// letting the caller surface an unsupported-feature notice.
func NewAdapter(capability Capability) *Adapter {
	return &Adapter{capability: capability}
}

// Available reports whether a capability was configured. Checked once at
// widget startup.
func (a *Adapter) Available() bool {
	return a != nil && a.capability != nil
}

// Listening reports whether a capture is currently active.
func (a *Adapter) Listening() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.listening
}

// Listen captures one utterance and returns its transcript. It blocks
// until the capability reports a result, the capture ends without one, a
// platform error occurs, or the context is cancelled. The transcript is
// delivered exactly once; capture is deactivated on every return path.
func (a *Adapter) Listen(ctx context.Context) (string, error) {
	if !a.Available() {
		return "", ErrUnsupported
	}

	a.mu.Lock()
	if a.listening {
		a.mu.Unlock()
		return "", ErrListening
	}
	a.listening = true
	a.mu.Unlock()

	defer func() {
		a.capability.Stop()
		a.mu.Lock()
		a.listening = false
		a.mu.Unlock()
	}()

	var once sync.Once
	resultCh := make(chan string, 1)
	endCh := make(chan struct{}, 1)
	errCh := make(chan error, 1)

	events := Events{
		OnResult: func(text string) {
			once.Do(func() { resultCh <- text })
		},
		OnEnd: func() {
			select {
			case endCh <- struct{}{}:
			default:
			}
		},
		OnError: func(err error) {
			select {
			case errCh <- err:
			default:
			}
		},
	}

	if err := a.capability.Start(ctx, events); err != nil {
		return "", err
	}

	select {
	case text := <-resultCh:
		return text, nil
	case err := <-errCh:
		return "", err
	case <-endCh:
		// End can race with a result or error fired just before it;
		// prefer whichever arrived.
		select {
		case text := <-resultCh:
			return text, nil
		default:
		}
		select {
		case err := <-errCh:
			return "", err
		default:
		}
		return "", ErrNoSpeech
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// StopListening deactivates any active capture. Safe to call when idle.
func (a *Adapter) StopListening() {
	if !a.Available() {
		return
	}
	a.capability.Stop()
}
