package amqp

import (
	"testing"
	"time"
)

func TestBillEventMessageRoundTrip(t *testing.T) {
	msg := NewBillEventMessage("1714550000000", ActionUpdate)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	got, err := BillEventMessageFromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != msg.ID || got.Action != msg.Action {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Fatalf("timestamp: %v", got.Timestamp)
	}
}

func TestBillEventMessageFromJSONInvalid(t *testing.T) {
	if _, err := BillEventMessageFromJSON([]byte("{")); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}
