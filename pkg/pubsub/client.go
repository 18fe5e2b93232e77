package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/krow6750/gearshare-backend/pkg/config"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

var errProjectIDRequired = errors.New("gcp project id is required")

// Client publishes dashboard events to Pub/Sub.
type Client struct {
	client    *pubsub.Client
	projectID string
	cfg       config.PubSubConfig
}

// NewClient creates a Pub/Sub v2 client for the configured project.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return nil, errProjectIDRequired
	}

	psClient, err := pubsub.NewClient(ctx, gcp.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "pubsub client initialized")
	}

	return &Client{
		client:    psClient,
		projectID: gcp.ProjectID,
		cfg:       cfg,
	}, nil
}

// EnsureStatsTopicExists verifies the stats topic is present before the
// worker starts publishing to it.
func (c *Client) EnsureStatsTopicExists(ctx context.Context) error {
	fullName := c.topicResourceName(c.cfg.StatsTopic)
	if fullName == "" {
		return fmt.Errorf("stats topic %q not configured", c.cfg.StatsTopic)
	}

	_, err := c.client.TopicAdminClient.GetTopic(
		ctx,
		&pubsubpb.GetTopicRequest{Topic: fullName},
	)
	if err != nil {
		// v2 uses gRPC errors; NotFound means the topic doesn't exist.
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("topic %q does not exist", c.cfg.StatsTopic)
		}
		return fmt.Errorf("checking topic %q: %w", c.cfg.StatsTopic, err)
	}

	return nil
}

// StatsPublisher returns the configured stats event publisher.
func (c *Client) StatsPublisher() *pubsub.Publisher {
	return c.publisher(c.cfg.StatsTopic)
}

// PublishStatsRefreshed emits a JSON event announcing a completed refresh
// pass and blocks until the server acknowledges it.
func (c *Client) PublishStatsRefreshed(ctx context.Context, payload any) error {
	pub := c.StatsPublisher()
	if pub == nil {
		return errors.New("stats topic not configured")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode stats event: %w", err)
	}
	result := pub.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"event": "stats.refreshed"},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publish stats event: %w", err)
	}
	return nil
}

// Close releases the Pub/Sub client resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) publisher(name string) *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	fullName := c.topicResourceName(name)
	if fullName == "" {
		return nil
	}
	return c.client.Publisher(fullName)
}

func (c *Client) topicResourceName(name string) string {
	if c == nil {
		return ""
	}
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	p := strings.TrimSpace(c.projectID)
	if p == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", p, n)
}
