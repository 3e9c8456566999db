package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-ipo-ledger/internal/domain"
	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	failures int
	calls    int
	got      []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.calls++
	if w.calls <= w.failures {
		return errors.New("broker unavailable")
	}
	w.got = append(w.got, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishLedgerEventKeysByCompany(t *testing.T) {
	w := &recordingWriter{}
	p := &DefaultKafkaPublisher{writer: w, topic: "ledger-events", maxRetries: 3}

	event := domain.LedgerEvent{
		Type:       domain.EventOrderPlaced,
		CompanyID:  "c1",
		OfferingID: "o1",
		EntityID:   "m1",
		OccurredAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if err := p.PublishLedgerEvent(event); err != nil {
		t.Fatalf("PublishLedgerEvent: %v", err)
	}
	if len(w.got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.got))
	}
	msg := w.got[0]
	if msg.Topic != "ledger-events" || string(msg.Key) != "c1" {
		t.Fatalf("unexpected topic/key %q/%q", msg.Topic, msg.Key)
	}
	var decoded domain.LedgerEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != event.Type || decoded.EntityID != "m1" {
		t.Fatalf("unexpected payload %+v", decoded)
	}
}

func TestPublishLedgerEventRetries(t *testing.T) {
	w := &recordingWriter{failures: 1}
	p := &DefaultKafkaPublisher{writer: w, topic: "t", maxRetries: 3}
	if err := p.PublishLedgerEvent(domain.LedgerEvent{Type: domain.EventOrderEdited, CompanyID: "c"}); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if w.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", w.calls)
	}
}

func TestPublishLedgerEventGivesUp(t *testing.T) {
	w := &recordingWriter{failures: 10}
	p := &DefaultKafkaPublisher{writer: w, topic: "t", maxRetries: 2}
	if err := p.PublishLedgerEvent(domain.LedgerEvent{Type: domain.EventOrderDeleted}); err == nil {
		t.Fatal("expected error")
	}
	if w.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", w.calls)
	}
}
