// Package report forwards measurements from the host controller to a babyapi server or an MQTT broker
package report

import (
	"context"
	"fmt"

	"github.com/calvinmclean/babyapi"

	"github.com/calvinmclean/servospeed"
)

// Run is a single measurement stored by the server under /runs
type Run struct {
	babyapi.DefaultResource
	servospeed.Measurement

	Session string `json:"session,omitempty"`
}

type Client struct {
	client  *babyapi.Client[*Run]
	session string
}

// NewClient creates a Client for the server at addr. Each run is tagged with session so results from
// one bench session can be grouped
func NewClient(addr, session string) *Client {
	client := babyapi.NewClient[*Run](addr, "/runs")
	return &Client{client: client, session: session}
}

// Report creates a Run for the measurement
func (c *Client) Report(ctx context.Context, m servospeed.Measurement) error {
	_, err := c.create(ctx, m)
	return err
}

func (c *Client) create(ctx context.Context, m servospeed.Measurement) (string, error) {
	resp, err := c.client.Post(ctx, &Run{
		Measurement: m,
		Session:     c.session,
	})
	if err != nil {
		return "", fmt.Errorf("error posting run: %w", err)
	}

	return resp.Data.GetID(), nil
}
