package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/calvinmclean/servospeed"
)

const publishTimeout = 5 * time.Second

// Publisher sends each measurement as JSON to an MQTT topic
type Publisher struct {
	client mqtt.Client
	topic  string
}

// NewPublisher connects to broker
func NewPublisher(broker, clientID, topic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("error connecting to MQTT broker: %w", token.Error())
	}

	return newPublisher(client, topic), nil
}

func newPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

// Report publishes the measurement, waiting until it is delivered or ctx is done
func (p *Publisher) Report(ctx context.Context, m servospeed.Measurement) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("error encoding measurement: %w", err)
	}

	token := p.client.Publish(p.topic, 0, false, payload)

	timeout := time.NewTimer(publishTimeout)
	defer timeout.Stop()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("error publishing measurement: %w", err)
		}
		return nil
	case <-timeout.C:
		return fmt.Errorf("timed out publishing to %s", p.topic)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
