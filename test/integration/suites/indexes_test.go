package suites

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"meilikit/src/pkg/meili"
	"meilikit/test/integration"
)

var (
	uidNoPrimaryKey  = meili.CreateIndexRequest{UID: "movies_test"}
	uidAndPrimaryKey = meili.CreateIndexRequest{UID: "movies_test2", PrimaryKey: "id"}
)

// describeIndexLifecycle runs the full index lifecycle with a key that is
// allowed to manage indexes.
func describeIndexLifecycle(permission string, client func() *meili.Client) {
	Describe(fmt.Sprintf("%s key on indexes", permission), Ordered, func() {
		BeforeAll(func() {
			Expect(integration.ClearAllIndexes(ctx, clients.Master)).To(Succeed())
		})

		It("lists no indexes when empty", func() {
			indexes, err := client().ListIndexes(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(indexes).NotTo(BeNil())
			Expect(indexes).To(BeEmpty())
		})

		It("creates an index with no primary key", func() {
			created, err := client().CreateIndex(ctx, uidNoPrimaryKey)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.UID).To(Equal(uidNoPrimaryKey.UID))

			shown, err := client().GetIndex(uidNoPrimaryKey.UID).Show(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(shown.UID).To(Equal(uidNoPrimaryKey.UID))
			Expect(shown.PrimaryKey).To(BeNil())
			Expect(shown.CreatedAt).NotTo(BeZero())
			Expect(shown.UpdatedAt).NotTo(BeZero())
		})

		It("creates an index with a primary key", func() {
			created, err := client().CreateIndex(ctx, uidAndPrimaryKey)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.UID).To(Equal(uidAndPrimaryKey.UID))

			shown, err := client().GetIndex(uidAndPrimaryKey.UID).Show(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(shown.PrimaryKey).To(HaveValue(Equal(uidAndPrimaryKey.PrimaryKey)))
			Expect(shown.CreatedAt).NotTo(BeZero())
			Expect(shown.UpdatedAt).NotTo(BeZero())
		})

		It("lists both indexes", func() {
			indexes, err := client().ListIndexes(ctx)
			Expect(err).NotTo(HaveOccurred())

			uids := make([]string, 0, len(indexes))
			for _, idx := range indexes {
				uids = append(uids, idx.UID)
			}
			Expect(uids).To(ConsistOf(uidNoPrimaryKey.UID, uidAndPrimaryKey.UID))
		})

		It("shows the index with a primary key", func() {
			shown, err := client().GetIndex(uidAndPrimaryKey.UID).Show(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(shown.UID).To(Equal(uidAndPrimaryKey.UID))
			Expect(shown.PrimaryKeyOrEmpty()).To(Equal(uidAndPrimaryKey.PrimaryKey))
		})

		It("shows the index with no primary key", func() {
			shown, err := client().GetIndex(uidNoPrimaryKey.UID).Show(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(shown.UID).To(Equal(uidNoPrimaryKey.UID))
			Expect(shown.HasPrimaryKey()).To(BeFalse())
		})

		It("sets the primary key on an index that has none", func() {
			updated, err := client().GetIndex(uidNoPrimaryKey.UID).UpdateIndex(ctx, meili.UpdateIndexRequest{PrimaryKey: "newPrimaryKey"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.UID).To(Equal(uidNoPrimaryKey.UID))
			Expect(updated.PrimaryKey).To(HaveValue(Equal("newPrimaryKey")))
		})

		It("refuses to change an existing primary key", func() {
			_, err := client().GetIndex(uidAndPrimaryKey.UID).UpdateIndex(ctx, meili.UpdateIndexRequest{PrimaryKey: "newPrimaryKey"})
			Expect(err).To(MatchError(ContainSubstring("The primary key cannot be updated")))
			Expect(err).To(MatchError(meili.ErrPrimaryKeyImmutable))
		})

		It("deletes an index", func() {
			body, err := client().GetIndex(uidNoPrimaryKey.UID).DeleteIndex(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(body).To(BeEmpty())

			indexes, err := client().ListIndexes(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(indexes).To(HaveLen(1))
		})

		It("fails to show a deleted index", func() {
			_, err := client().GetIndex(uidNoPrimaryKey.UID).Show(ctx)
			Expect(err).To(MatchError(ContainSubstring(fmt.Sprintf("Index %s not found", uidNoPrimaryKey.UID))))
			Expect(err).To(MatchError(meili.ErrNotFound))
		})

		It("fails to create an index whose uid already exists", func() {
			_, err := client().CreateIndex(ctx, uidAndPrimaryKey)
			Expect(err).To(MatchError(ContainSubstring("Impossible to create index; index already exists")))
			Expect(err).To(MatchError(meili.ErrAlreadyExists))
		})

		It("fails to create an index without a uid", func() {
			_, err := client().CreateIndex(ctx, meili.CreateIndexRequest{})
			Expect(err).To(MatchError(ContainSubstring("Index creation must have an uid")))
			Expect(err).To(MatchError(meili.ErrInvalidRequest))
		})

		It("fails to delete an index that does not exist", func() {
			_, err := client().GetIndex(uidNoPrimaryKey.UID).DeleteIndex(ctx)
			Expect(err).To(MatchError(ContainSubstring(fmt.Sprintf("Index %s not found", uidNoPrimaryKey.UID))))
		})

		It("reports the server as healthy", func() {
			healthy, err := client().IsHealthy(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(healthy).To(BeTrue())
		})
	})
}

var _ = Describe("Index lifecycle", func() {
	describeIndexLifecycle("Master", func() *meili.Client { return clients.Master })
	describeIndexLifecycle("Private", func() *meili.Client { return clients.Private })
})
