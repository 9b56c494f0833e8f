package mirror

import (
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/milk9111/threesixty/config"
	"github.com/milk9111/threesixty/filmstrip"
)

type doneToken struct {
	mqtt.Token
	err error
}

func (t doneToken) Wait() bool { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error { return t.err }

type message struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	messages     []message
	err          error
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message{topic, qos, retained, payload.([]byte)})
	return doneToken{err: c.err}
}

func (c *fakeClient) Disconnect(uint) {
	c.mu.Lock()
	c.disconnected = true
	c.mu.Unlock()
}

func TestPublisherMirrorsVisibleFrame(t *testing.T) {
	client := &fakeClient{}
	p := NewPublisher(client, "turntable/frame", 1, 180)

	p.CreateFrame(filmstrip.Frame{Index: 0})
	p.ShowFrame(0)
	p.RevealAll()
	p.HideFrame(0)
	p.ShowFrame(178)
	p.HideFrame(178)
	p.ShowFrame(178)
	p.ShowFrame(-1)
	p.ShowFrame(180)
	p.Reset(360)
	p.ShowFrame(178)
	p.ShowFrame(359)
	p.Close()

	want := []struct {
		topic string
		index int
		total int
	}{
		{"turntable/frame", 0, 180},
		{"turntable/frame/ready", -1, 0},
		{"turntable/frame", 178, 180},
		{"turntable/frame", 178, 360},
		{"turntable/frame", 359, 360},
	}
	if len(client.messages) != len(want) {
		t.Fatalf("expected %d messages, got %+v", len(want), client.messages)
	}
	for i, w := range want {
		m := client.messages[i]
		if m.topic != w.topic || !m.retained || m.qos != 1 {
			t.Fatalf("message %d: %+v", i, m)
		}
		if w.index < 0 {
			continue
		}
		index, total, err := Decode(m.payload)
		if err != nil || index != w.index || total != w.total {
			t.Fatalf("message %d: decoded %d/%d, %v", i, index, total, err)
		}
	}
	if !client.disconnected {
		t.Fatalf("Close did not disconnect")
	}
}

func TestPublisherSurvivesPublishErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("not connected")}
	p := NewPublisher(client, "t", 0, 10)
	p.ShowFrame(3)
	p.ShowFrame(4)
	p.Close()
	if len(client.messages) != 2 {
		t.Fatalf("expected both publishes to be attempted, got %d", len(client.messages))
	}
}

func TestDecodeRejectsShortPayload(t *testing.T) {
	if _, _, err := Decode([]byte{1, 2}); err == nil {
		t.Fatalf("expected error")
	}
	index, total, err := Decode(Encode(513, 720))
	if err != nil || index != 513 || total != 720 {
		t.Fatalf("got %d/%d, %v", index, total, err)
	}
}

func TestConnectRequiresURL(t *testing.T) {
	if _, err := Connect(config.MirrorSpec{Topic: "t"}, 10); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}
