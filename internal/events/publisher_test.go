package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"github.com/Akashpkm/STOCKMANAGEMENT/internal/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_PublishPartsSynced(t *testing.T) {
	fw := &fakeWriter{}
	p := newKafkaPublisherWith(fw)

	e := PartsSynced{ProductID: 7, ProductName: "SCREWS-M", Status: models.SyncOK, Created: 2}
	if err := p.PublishPartsSynced(context.Background(), e); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(fw.msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "7" {
		t.Errorf("want key 7, got %q", fw.msgs[0].Key)
	}

	var got PartsSynced
	if err := json.Unmarshal(fw.msgs[0].Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ProductName != "SCREWS-M" || got.Created != 2 || got.Status != models.SyncOK {
		t.Errorf("unexpected payload %+v", got)
	}

	if err := p.Close(); err != nil || !fw.closed {
		t.Errorf("close not forwarded: %v", err)
	}
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisherWith(fw)

	if err := p.PublishPartsSynced(context.Background(), PartsSynced{ProductID: 1}); err == nil {
		t.Fatal("expected error")
	}
}
