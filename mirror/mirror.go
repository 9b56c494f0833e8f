package mirror

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/milk9111/threesixty/config"
	"github.com/milk9111/threesixty/filmstrip"
)

const publishTimeout = 5 * time.Second

var ErrDisabled = errors.New("mirror: no broker url configured")

// Publisher is a render adapter that mirrors the visible frame index to an
// MQTT topic. Each message is four bytes: the frame index and the frame
// count as little-endian uint16. Messages are retained so late subscribers
// see the current frame.
type Publisher struct {
	client      mqtt.Client
	topic       string
	qos         byte
	totalFrames int

	last int
	wg   sync.WaitGroup
}

// NewPublisher wraps a connected client.
func NewPublisher(client mqtt.Client, topic string, qos byte, totalFrames int) *Publisher {
	return &Publisher{client: client, topic: topic, qos: qos, totalFrames: totalFrames, last: -1}
}

// Connect dials the broker described by the mirror section of the config.
func Connect(ms config.MirrorSpec, totalFrames int) (*Publisher, error) {
	if !ms.Enabled() {
		return nil, ErrDisabled
	}
	options := mqtt.NewClientOptions().
		AddBroker(ms.URL).
		SetClientID(ms.ClientID).
		SetUsername(ms.Username).
		SetPassword(ms.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(options)

	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("mirror: connect %s: timed out", ms.URL)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mirror: connect %s: %w", ms.URL, err)
	}
	return NewPublisher(client, ms.Topic, ms.QoS, totalFrames), nil
}

// Reset prepares the publisher for a new widget with totalFrames frames.
func (p *Publisher) Reset(totalFrames int) {
	p.totalFrames = totalFrames
	p.last = -1
}

func (p *Publisher) CreateFrame(filmstrip.Frame) {}

func (p *Publisher) ShowFrame(index int) {
	if index < 0 || index >= p.totalFrames || index == p.last {
		return
	}
	p.last = index
	p.publish(p.topic, Encode(index, p.totalFrames))
}

// HideFrame does nothing: every hide is followed by a show in the same tick.
func (p *Publisher) HideFrame(int) {}

func (p *Publisher) RevealAll() {
	p.publish(p.topic+"/ready", []byte{1})
}

func (p *Publisher) publish(topic string, payload []byte) {
	token := p.client.Publish(topic, p.qos, true, payload)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if !token.WaitTimeout(publishTimeout) {
			log.Printf("mirror: publish %s: timed out", topic)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("mirror: publish %s: %v", topic, err)
		}
	}()
}

// Close waits for in-flight publishes and disconnects.
func (p *Publisher) Close() {
	p.wg.Wait()
	p.client.Disconnect(250)
}

// Encode builds the frame message payload.
func Encode(index, totalFrames int) []byte {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint16(data, uint16(index))
	binary.LittleEndian.PutUint16(data[2:], uint16(totalFrames))
	return data
}

// Decode parses a frame message payload.
func Decode(data []byte) (index, totalFrames int, err error) {
	if len(data) != 4 {
		return 0, 0, fmt.Errorf("mirror: frame message has %d bytes, want 4", len(data))
	}
	return int(binary.LittleEndian.Uint16(data)), int(binary.LittleEndian.Uint16(data[2:])), nil
}
