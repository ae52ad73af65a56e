package statusquery

import (
	"context"
	"testing"
	"time"

	"github.com/neewerctl/neewerctl/pkg/transport"
	"github.com/neewerctl/neewerctl/pkg/transport/fake"
)

func TestQueryDecodesPowerOnAndChannel(t *testing.T) {
	tr := fake.NewTransport()
	conn, err := tr.Dial(context.Background(), "AA:AA:AA:AA:AA:AA")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	fc := tr.Conn("AA:AA:AA:AA:AA:AA")

	go deliverOnWrite(t, fc, powerQueryFrame, []byte{120, 2, 1, 1})
	go deliverOnWrite(t, fc, channelQueryFrame, []byte{120, 1, 1, 4})

	status, err := Query(context.Background(), conn, Options{Timeout: 200 * time.Millisecond, Retries: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if status.Power != PowerOn {
		t.Errorf("Power = %v, want ON", status.Power)
	}
	if status.Channel != 4 {
		t.Errorf("Channel = %d, want 4", status.Channel)
	}
	if status.ChannelString() != "4" {
		t.Errorf("ChannelString() = %q, want %q", status.ChannelString(), "4")
	}
}

func TestQueryDecodesStandby(t *testing.T) {
	tr := fake.NewTransport()
	conn, _ := tr.Dial(context.Background(), "BB:BB:BB:BB:BB:BB")
	fc := tr.Conn("BB:BB:BB:BB:BB:BB")

	go deliverOnWrite(t, fc, powerQueryFrame, []byte{120, 2, 1, 2})
	go deliverOnWrite(t, fc, channelQueryFrame, []byte{120, 1, 1, 7})

	status, err := Query(context.Background(), conn, Options{Timeout: 200 * time.Millisecond, Retries: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if status.Power != PowerStandby {
		t.Errorf("Power = %v, want STBY", status.Power)
	}
}

func TestQueryTimesOutWithNoNotify(t *testing.T) {
	tr := fake.NewTransport()
	conn, _ := tr.Dial(context.Background(), "CC:CC:CC:CC:CC:CC")

	_, err := Query(context.Background(), conn, Options{Timeout: 20 * time.Millisecond, Retries: 2})
	if err == nil {
		t.Fatal("expected an error when no notify ever arrives")
	}
}

func TestQueryUnsubscribesOnTimeout(t *testing.T) {
	tr := fake.NewTransport()
	conn, _ := tr.Dial(context.Background(), "DD:DD:DD:DD:DD:DD")
	fc := tr.Conn("DD:DD:DD:DD:DD:DD")

	_, _ = Query(context.Background(), conn, Options{Timeout: 10 * time.Millisecond, Retries: 1})

	if err := fc.Deliver(transport.NotifyCharUUID, []byte{120, 2, 1, 1}); err == nil {
		t.Error("Deliver should fail after Query unsubscribed, but a handler was still registered")
	}
}

func TestQueryIgnoresMismatchedDiscriminator(t *testing.T) {
	tr := fake.NewTransport()
	conn, _ := tr.Dial(context.Background(), "EE:EE:EE:EE:EE:EE")
	fc := tr.Conn("EE:EE:EE:EE:EE:EE")

	go func() {
		waitForWrite(fc, powerQueryFrame)
		fc.Deliver(transport.NotifyCharUUID, []byte{120, 1, 1, 9}) // wrong discriminator, must be skipped
		fc.Deliver(transport.NotifyCharUUID, []byte{120, 2, 1, 1})
	}()
	go deliverOnWrite(t, fc, channelQueryFrame, []byte{120, 1, 1, 3})

	status, err := Query(context.Background(), conn, Options{Timeout: 200 * time.Millisecond, Retries: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if status.Power != PowerOn {
		t.Errorf("Power = %v, want ON (mismatched payload must be skipped, not matched)", status.Power)
	}
}

// deliverOnWrite waits for frame to be written to fc, then delivers payload
// on the notify characteristic, simulating the fixture's response.
func deliverOnWrite(t *testing.T, fc *fake.Conn, frame []byte, payload []byte) {
	waitForWrite(fc, frame)
	if err := fc.Deliver(transport.NotifyCharUUID, payload); err != nil {
		t.Errorf("Deliver: %v", err)
	}
}

func waitForWrite(fc *fake.Conn, frame []byte) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, w := range fc.Writes {
			if string(w.Data) == string(frame) {
				return
			}
		}
		time.Sleep(time.Millisecond)
	}
}
