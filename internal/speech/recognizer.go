package speech

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// audioChunkSize is the binary frame payload size streamed to the ASR
// endpoint; 3200 bytes is 100ms of 16kHz 16-bit mono PCM.
const audioChunkSize = 3200

// RecognizerConfig describes the external ASR websocket endpoint.
type RecognizerConfig struct {
	Endpoint   string
	Language   string
	Format     string
	SampleRate int
	Timeout    time.Duration
}

// WSRecognizer implements Capability against a websocket ASR service. It
// streams audio from the configured source and emits the first final
// transcript, then deactivates — single-utterance mode.
type WSRecognizer struct {
	cfg    RecognizerConfig
	source io.Reader

	mu     sync.Mutex
	conn   *websocket.Conn
	closer sync.Once
}

// NewWSRecognizer returns a recognizer streaming audio read from source.
func NewWSRecognizer(cfg RecognizerConfig, source io.Reader) *WSRecognizer {
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.Format == "" {
		cfg.Format = "pcm"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &WSRecognizer{cfg: cfg, source: source}
}

type configFrame struct {
	Type       string `json:"type"`
	Format     string `json:"format"`
	Language   string `json:"language"`
	SampleRate int    `json:"sampleRate"`
}

type transcriptFrame struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	IsFinal bool   `json:"isFinal"`
	Error   string `json:"error,omitempty"`
}

// Start dials the ASR endpoint, streams the audio source and fires events
// as transcript frames arrive. It returns once the connection is
// established; capture continues in the background.
func (r *WSRecognizer) Start(ctx context.Context, events Events) error {
	dialer := websocket.Dialer{HandshakeTimeout: r.cfg.Timeout}
	conn, _, err := dialer.DialContext(ctx, r.cfg.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial asr endpoint: %w", err)
	}

	r.mu.Lock()
	r.conn = conn
	r.closer = sync.Once{}
	r.mu.Unlock()

	cfgFrame := configFrame{
		Type:       "config",
		Format:     r.cfg.Format,
		Language:   r.cfg.Language,
		SampleRate: r.cfg.SampleRate,
	}
	if err := conn.WriteJSON(cfgFrame); err != nil {
		r.Stop()
		return fmt.Errorf("send asr config: %w", err)
	}

	go r.streamAudio(ctx, conn)
	go r.readTranscripts(conn, events)

	return nil
}

// Stop closes the connection, ending capture. Idempotent.
func (r *WSRecognizer) Stop() {
	r.mu.Lock()
	conn := r.conn
	r.mu.Unlock()
	if conn == nil {
		return
	}
	r.closer.Do(func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
}

func (r *WSRecognizer) streamAudio(ctx context.Context, conn *websocket.Conn) {
	buf := make([]byte, audioChunkSize)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := r.source.Read(buf)
		if n > 0 {
			if werr := conn.WriteMessage(websocket.BinaryMessage, buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			// EOF ends the utterance; the endpoint replies with the
			// final transcript.
			_ = conn.WriteJSON(map[string]string{"type": "end"})
			return
		}
	}
}

func (r *WSRecognizer) readTranscripts(conn *websocket.Conn, events Events) {
	defer func() {
		r.Stop()
		if events.OnEnd != nil {
			events.OnEnd()
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if events.OnError != nil {
					events.OnError(fmt.Errorf("asr connection: %w", err))
				}
			}
			return
		}

		var frame transcriptFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			log.Printf("[speech] skipping unparseable asr frame: %v", err)
			continue
		}

		switch frame.Type {
		case "transcript":
			if frame.IsFinal {
				if events.OnResult != nil {
					events.OnResult(frame.Text)
				}
				return
			}
		case "error":
			if events.OnError != nil {
				events.OnError(fmt.Errorf("asr error: %s", frame.Error))
			}
			return
		}
	}
}
