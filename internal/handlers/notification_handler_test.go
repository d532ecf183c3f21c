package handlers

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/models"
	"github.com/SeoulMomentTech/seoul-moment-api-sub001/internal/notify"
)

// sseFrame covers both frame shapes on the stream: keep-alive sentinels and
// group-tagged chat events.
type sseFrame struct {
	Type    string                  `json:"type"`
	GroupID uint                    `json:"groupId"`
	Data    *models.MessageEnvelope `json:"data"`
}

// startStream runs the handler's stream loop against a pipe and returns a
// reader over the produced frames. The pipe closes when the loop exits.
func startStream(h *NotificationHandler, events <-chan notify.Event) *bufio.Reader {
	pr, pw := io.Pipe()
	go func() {
		h.stream(bufio.NewWriter(pw), events)
		pw.Close()
	}()
	return bufio.NewReader(pr)
}

// nextFrame reads one "data: ..." frame, failing the test if none arrives in
// time or the payload is malformed.
func nextFrame(t *testing.T, r *bufio.Reader) sseFrame {
	t.Helper()
	type result struct {
		frame sseFrame
		err   error
	}
	done := make(chan result, 1)
	go func() {
		line, err := r.ReadString('\n')
		if err != nil {
			done <- result{err: err}
			return
		}
		// consume the frame-terminating blank line
		if _, err := r.ReadString('\n'); err != nil {
			done <- result{err: err}
			return
		}
		var frame sseFrame
		payload := strings.TrimPrefix(strings.TrimSpace(line), "data: ")
		done <- result{frame: frame, err: json.Unmarshal([]byte(payload), &frame)}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("reading frame: %v", res.err)
		}
		return res.frame
	case <-time.After(2 * time.Second):
		t.Fatal("no frame arrived")
		return sseFrame{}
	}
}

func TestStreamSendsKeepAlivesWhileIdle(t *testing.T) {
	bridge := notify.NewBridge()
	h := NewNotificationHandler(bridge, 10*time.Millisecond)
	events, cancel := bridge.Subscribe(1)

	r := startStream(h, events)
	for i := 0; i < 2; i++ {
		frame := nextFrame(t, r)
		if frame.Type != "keep-alive" {
			t.Fatalf("idle frame %d: got %+v, want keep-alive", i, frame)
		}
		if frame.Data != nil {
			t.Fatalf("idle frame %d carries chat data: %+v", i, frame)
		}
	}

	cancel()
	if _, err := r.ReadString('\n'); err != io.EOF {
		// A keep-alive may still be in flight when the subscription
		// closes; the stream must end shortly after.
		drainUntilEOF(t, r)
	}
}

func drainUntilEOF(t *testing.T, r *bufio.Reader) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			if _, err := r.ReadString('\n'); err != nil {
				close(done)
				return
			}
		}
	}()
	select {
	case <-done:
	case <-deadline:
		t.Fatal("stream did not terminate after cancel")
	}
}

func TestStreamDeliversOnlySubscribedGroup(t *testing.T) {
	bridge := notify.NewBridge()
	h := NewNotificationHandler(bridge, time.Minute)
	events, cancel := bridge.Subscribe(1)
	defer cancel()

	r := startStream(h, events)

	bridge.Publish(2, &models.MessageEnvelope{SenderID: "x", Message: "other group"})
	bridge.Publish(1, &models.MessageEnvelope{SenderID: "a", Message: "hello"})

	frame := nextFrame(t, r)
	if frame.GroupID != 1 || frame.Data == nil || frame.Data.Message != "hello" {
		t.Fatalf("first frame: got %+v, want group 1 chat event", frame)
	}
}

func TestStreamFallsBackToDefaultInterval(t *testing.T) {
	h := NewNotificationHandler(notify.NewBridge(), 0)
	if h.keepAliveInterval != defaultKeepAliveInterval {
		t.Errorf("interval: got %v, want %v", h.keepAliveInterval, defaultKeepAliveInterval)
	}
}
