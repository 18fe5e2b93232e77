package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cloudfirestore "cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/krow6750/gearshare-backend/pkg/config"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

var errProjectIDRequired = errors.New("gcp project id is required")

// Client wraps the Firestore connection holding activity logs and users.
type Client struct {
	client    *cloudfirestore.Client
	projectID string
}

// New creates a Firestore client for the configured project.
func New(ctx context.Context, cfg config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errProjectIDRequired
	}

	var opts []option.ClientOption
	if creds := strings.TrimSpace(cfg.CredentialsFile); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	fsClient, err := cloudfirestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "firestore client initialized")
	}

	return &Client{client: fsClient, projectID: cfg.ProjectID}, nil
}

// Collection returns a handle on the named collection.
func (c *Client) Collection(name string) *cloudfirestore.CollectionRef {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Collection(name)
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
