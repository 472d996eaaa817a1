// voicecli records a voice message through the capture state machine and
// forwards it to the advisor platform, printing the transcription and reply.
// Capture is simulated from an audio file so the flow can be exercised
// without a microphone stack.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fin-advisor/internal/config"
	"fin-advisor/internal/infrastructure/agent"
	"fin-advisor/internal/voice"
)

func main() {
	var (
		file      = flag.String("file", "", "audio file standing in for the microphone capture")
		mime      = flag.String("mime", "audio/webm", "MIME type of the audio file")
		mode      = flag.String("mode", "hold", "interaction mode: hold or toggle")
		holdFor   = flag.Duration("hold", 2*time.Second, "how long to hold the record control")
		variant   = flag.String("variant", "demo", "advisor backend variant: primary, legacy, demo")
		baseURL   = flag.String("base-url", "", "advisor backend base URL (primary and legacy variants)")
		token     = flag.String("token", "", "bearer token for the legacy variant")
		userID    = flag.String("user", "voicecli", "user id sent to the platform")
		sessionID = flag.String("session", "", "session id to continue, empty for a new one")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read audio: %v", err)
	}

	backend, err := agent.NewFromConfig(config.AdvisorConfig{
		Variant:        *variant,
		PrimaryBaseURL: *baseURL,
		LegacyBaseURL:  *baseURL,
		RequestTimeout: 60 * time.Second,
	}, agent.NewMemoryTokenStore(*token))
	if err != nil {
		log.Fatalf("backend: %v", err)
	}

	done := make(chan voice.Blob, 1)
	rec := voice.NewRecorder(voice.Config{
		Mode:       parseMode(*mode),
		Device:     fileDevice{data: data, mime: *mime},
		OnComplete: func(b voice.Blob) { done <- b },
		OnError:    func(err error) { log.Fatalf("recorder: %v", err) },
		OnTick:     func(s int) { fmt.Printf("recording... %ds\n", s) },
	})
	defer rec.Close()

	ctx := context.Background()
	switch parseMode(*mode) {
	case voice.ModeHold:
		if err := rec.Press(ctx); err != nil {
			log.Fatalf("press: %v", err)
		}
		time.Sleep(*holdFor)
		rec.Release()
	case voice.ModeToggle:
		if err := rec.Toggle(ctx); err != nil {
			log.Fatalf("toggle: %v", err)
		}
		time.Sleep(*holdFor)
		if err := rec.Toggle(ctx); err != nil {
			log.Fatalf("toggle: %v", err)
		}
	}

	blob := <-done
	fmt.Printf("captured %d bytes (%s) in %s\n", len(blob.Data), blob.MIMEType, blob.Duration.Round(time.Millisecond))

	resp, err := backend.SendMessage(ctx, agent.SendRequest{
		UserID:           *userID,
		SessionID:        *sessionID,
		Audio:            blob.Data,
		AudioFilename:    "recording.webm",
		AudioContentType: blob.MIMEType,
	})
	if err != nil {
		log.Fatalf("send: %v", err)
	}

	if resp.Transcription != "" {
		fmt.Printf("heard: %s\n", resp.Transcription)
	}
	fmt.Printf("session: %s\n", resp.SessionID)
	fmt.Printf("reply: %s\n", resp.ResponseText)
}

func parseMode(s string) voice.Mode {
	if s == "toggle" {
		return voice.ModeToggle
	}
	return voice.ModeHold
}

// fileDevice satisfies the capture device with a pre-recorded file.
type fileDevice struct {
	data []byte
	mime string
}

func (d fileDevice) RequestPermission(ctx context.Context) (bool, error) { return true, nil }

func (d fileDevice) Open(ctx context.Context) (voice.Stream, error) {
	return &fileStream{data: d.data, mime: d.mime}, nil
}

type fileStream struct {
	data []byte
	mime string
}

func (s *fileStream) Tracks() []voice.Track { return []voice.Track{noopTrack{}} }
func (s *fileStream) Data() []byte          { return s.data }
func (s *fileStream) MIMEType() string      { return s.mime }

type noopTrack struct{}

func (noopTrack) Stop() {}
