package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"

	"meilikit/src/pkg/loggingutil"
	"meilikit/src/pkg/meili"
	"meilikit/src/pkg/meilitest"
)

// Clients is one client per key tier, all pointed at the same server.
type Clients struct {
	Master    *meili.Client
	Private   *meili.Client
	Public    *meili.Client
	Anonymous *meili.Client

	PrivateKey string
	PublicKey  string

	standIn *httptest.Server
}

// NewClients builds the client set for config. Missing private and public
// keys are fetched with the master key.
func NewClients(ctx context.Context, config *TestConfig) (*Clients, error) {
	c := &Clients{}

	host := config.Host
	if config.UsesStandIn() {
		srv := meilitest.New(meilitest.Options{MasterKey: config.MasterKey})
		c.standIn = httptest.NewServer(srv.Handler())
		host = c.standIn.URL
	}

	newClient := func(key string) *meili.Client {
		return meili.NewClient(host, key, meili.WithTimeout(config.RequestTimeout))
	}

	c.Master = newClient(config.MasterKey)

	c.PrivateKey, c.PublicKey = config.PrivateKey, config.PublicKey
	if c.PrivateKey == "" || c.PublicKey == "" {
		keys, err := c.Master.Keys(ctx)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to fetch keys from %s: %w", host, err)
		}
		if c.PrivateKey == "" {
			c.PrivateKey = keys.Private
		}
		if c.PublicKey == "" {
			c.PublicKey = keys.Public
		}
	}

	c.Private = newClient(c.PrivateKey)
	c.Public = newClient(c.PublicKey)
	c.Anonymous = newClient("")

	return c, nil
}

// Host returns the base URL every client talks to.
func (c *Clients) Host() string {
	return c.Master.Host()
}

// Close stops the stand-in server, if one was started.
func (c *Clients) Close() {
	if c.standIn != nil {
		c.standIn.Close()
		c.standIn = nil
	}
}

// ClearAllIndexes deletes every index visible to client.
func ClearAllIndexes(ctx context.Context, client *meili.Client) error {
	indexes, err := client.ListIndexes(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, idx := range indexes {
		if _, err := client.GetIndex(idx.UID).DeleteIndex(ctx); err != nil && !errors.Is(err, meili.ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", idx.UID, err))
		}
	}
	return errors.Join(errs...)
}

// Context returns a background context carrying a debug logger when config
// asks for request logging.
func Context(config *TestConfig) context.Context {
	ctx := context.Background()
	if config.DebugLogging {
		ctx = loggingutil.Set(ctx, loggingutil.New(loggingutil.Options{
			Level:  "debug",
			Writer: os.Stderr,
		}))
	}
	return ctx
}
