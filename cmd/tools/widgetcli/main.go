// widgetcli drives the chat widget from a terminal: type a message and
// the widget submits it through the configured resolver, local keyword
// rules or a remote chat endpoint. An optional audio file exercises the
// voice input path against the configured ASR endpoint.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sridharsri/consultancy/backend/internal/config"
	"github.com/sridharsri/consultancy/backend/internal/model/chat"
	"github.com/sridharsri/consultancy/backend/internal/resolver"
	"github.com/sridharsri/consultancy/backend/internal/resolver/remote"
	"github.com/sridharsri/consultancy/backend/internal/resolver/rules"
	chatservice "github.com/sridharsri/consultancy/backend/internal/service/chat"
	"github.com/sridharsri/consultancy/backend/internal/speech"
	"github.com/sridharsri/consultancy/backend/internal/widget"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] no .env file, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	mode := flag.String("resolver", "local", "resolver variant: local or remote")
	endpoint := flag.String("endpoint", "", "chat endpoint URL for the remote resolver (defaults to CHAT_REMOTE_ENDPOINT)")
	audioPath := flag.String("audio", "", "audio file for the /voice command (needs SPEECH_ENDPOINT)")
	timeout := flag.Duration("timeout", 45*time.Second, "per-reply timeout")

	flag.Parse()

	var res resolver.Resolver
	switch *mode {
	case "local":
		res = rules.New(nil)
	case "remote":
		target := *endpoint
		if target == "" {
			target = cfg.Chat.RemoteEndpoint
		}
		res = remote.New(target, nil)
		log.Printf("using remote resolver at %s", target)
	default:
		flag.Usage()
		log.Fatal("specify -resolver=local or -resolver=remote")
	}

	voice := buildVoiceAdapter(cfg, *audioPath)

	chatSvc := chatservice.NewService()
	ctrl, err := widget.New(context.Background(), chatSvc, res, voice, nil)
	if err != nil {
		log.Fatalf("failed to mount widget: %v", err)
	}

	ctrl.Toggle()
	printTranscript(ctrl)
	runLoop(ctrl, *timeout)
}

// buildVoiceAdapter wires the websocket recognizer when both an audio
// source and an ASR endpoint are configured; otherwise the adapter reports
// the voice feature as unsupported.
func buildVoiceAdapter(cfg *config.Config, audioPath string) *speech.Adapter {
	if audioPath == "" || !cfg.Speech.Enabled {
		return speech.NewAdapter(nil)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		log.Fatalf("failed to open audio file: %v", err)
	}

	recognizer := speech.NewWSRecognizer(speech.RecognizerConfig{
		Endpoint:   cfg.Speech.Endpoint,
		Language:   cfg.Speech.Language,
		Format:     cfg.Speech.Format,
		SampleRate: cfg.Speech.SampleRate,
		Timeout:    time.Duration(cfg.Speech.Timeout) * time.Second,
	}, file)

	return speech.NewAdapter(recognizer)
}

func runLoop(ctrl *widget.Controller, timeout time.Duration) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("type a message, /voice to dictate, /toggle to open or close, /quit to exit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit":
			return
		case line == "/toggle":
			if ctrl.Toggle() {
				fmt.Println("widget opened")
				printTranscript(ctrl)
			} else {
				fmt.Println("widget closed")
			}
			continue
		case line == "/voice":
			if err := ctrl.VoiceInput(context.Background()); err != nil {
				if errors.Is(err, speech.ErrUnsupported) {
					fmt.Println("voice input is not available; start with -audio and SPEECH_ENDPOINT")
				} else {
					fmt.Printf("voice input failed: %v\n", err)
				}
				continue
			}
			fmt.Printf("draft: %s\n", ctrl.Draft())
			continue
		}

		ctrl.SetDraft(line)
		submit(ctrl, timeout)
	}
}

func submit(ctrl *widget.Controller, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done, err := ctrl.Submit(ctx)
	if err != nil {
		fmt.Printf("submit rejected: %v\n", err)
		return
	}

	fmt.Println("bot is typing...")
	select {
	case <-done:
	case <-ctx.Done():
		fmt.Println("timed out waiting for a reply")
		return
	}

	messages, err := ctrl.Transcript(ctx)
	if err != nil || len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	fmt.Printf("%s\n", formatMessage(last))
}

func printTranscript(ctrl *widget.Controller) {
	messages, err := ctrl.Transcript(context.Background())
	if err != nil {
		return
	}
	for _, msg := range messages {
		fmt.Println(formatMessage(msg))
	}
}

func formatMessage(msg chat.Message) string {
	label := "you"
	if msg.Sender == chat.SenderBot {
		label = "bot"
	}
	return fmt.Sprintf("[%s] %s", label, msg.Text)
}
