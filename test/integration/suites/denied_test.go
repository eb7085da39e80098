package suites

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"meilikit/src/pkg/meili"
)

type deniedCall struct {
	name string
	call func(ctx context.Context, c *meili.Client) error
}

var indexCalls = []deniedCall{
	{"list indexes", func(ctx context.Context, c *meili.Client) error {
		_, err := c.ListIndexes(ctx)
		return err
	}},
	{"create an index with a primary key", func(ctx context.Context, c *meili.Client) error {
		_, err := c.CreateIndex(ctx, uidAndPrimaryKey)
		return err
	}},
	{"create an index with no primary key", func(ctx context.Context, c *meili.Client) error {
		_, err := c.CreateIndex(ctx, uidNoPrimaryKey)
		return err
	}},
	{"show an index", func(ctx context.Context, c *meili.Client) error {
		_, err := c.GetIndex(uidNoPrimaryKey.UID).Show(ctx)
		return err
	}},
	{"delete an index", func(ctx context.Context, c *meili.Client) error {
		_, err := c.GetIndex(uidAndPrimaryKey.UID).DeleteIndex(ctx)
		return err
	}},
	{"update an index", func(ctx context.Context, c *meili.Client) error {
		_, err := c.GetIndex(uidAndPrimaryKey.UID).UpdateIndex(ctx, meili.UpdateIndexRequest{PrimaryKey: uidAndPrimaryKey.PrimaryKey})
		return err
	}},
}

var masterCalls = []deniedCall{
	{"get the version", func(ctx context.Context, c *meili.Client) error {
		_, err := c.Version(ctx)
		return err
	}},
	{"get system info", func(ctx context.Context, c *meili.Client) error {
		_, err := c.SysInfo(ctx)
		return err
	}},
	{"get pretty system info", func(ctx context.Context, c *meili.Client) error {
		_, err := c.PrettySysInfo(ctx)
		return err
	}},
	{"get /stats information", func(ctx context.Context, c *meili.Client) error {
		_, err := c.Stats(ctx)
		return err
	}},
}

// describeDenied expects every call to fail with an auth error whose message
// is produced by message.
func describeDenied(permission string, calls []deniedCall, client func() *meili.Client, message func() string) {
	for _, dc := range calls {
		It(fmt.Sprintf("%s key: tries to %s and is denied", permission, dc.name), func() {
			err := dc.call(ctx, client())
			Expect(err).To(MatchError(ContainSubstring(message())))
			Expect(err).To(MatchError(meili.ErrUnauthorized))
		})
	}
}

var _ = Describe("Routes where the private key has no access", func() {
	describeDenied("Private", masterCalls,
		func() *meili.Client { return clients.Private },
		func() string { return "Invalid API key: " + clients.PrivateKey })
})

var _ = Describe("Routes where the public key has no access", func() {
	Context("on indexes", func() {
		describeDenied("Public", indexCalls,
			func() *meili.Client { return clients.Public },
			func() string { return "Invalid API key: " + clients.PublicKey })
	})
	Context("on base routes", func() {
		describeDenied("Public", masterCalls,
			func() *meili.Client { return clients.Public },
			func() string { return "Invalid API key: " + clients.PublicKey })
	})
})

var _ = Describe("Routes where a client without a key has no access", func() {
	Context("on indexes", func() {
		describeDenied("No", indexCalls,
			func() *meili.Client { return clients.Anonymous },
			func() string { return "Invalid API key: Need a token" })
	})
	Context("on base routes", func() {
		describeDenied("No", masterCalls,
			func() *meili.Client { return clients.Anonymous },
			func() string { return "Invalid API key: Need a token" })
	})

	It("still reports the server as healthy", func() {
		healthy, err := clients.Anonymous.IsHealthy(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(healthy).To(BeTrue())
	})
})
