// Package storagetest holds the shared ginkgo specs every storage.Driver
// implementation must pass.
package storagetest

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/storage"
)

// NewRecord returns a completed record started at the given offset from a
// fixed base time.
func NewRecord(id string, offset time.Duration) *storage.Record {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC).Add(offset)
	return &storage.Record{
		ID:             id,
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		From:           "en",
		To:             "zh-Hans",
		SourceText:     "hello",
		TranslatedText: "你好",
		Streaming:      true,
		Status:         storage.StatusCompleted,
		StartedAt:      started,
		CompletedAt:    started.Add(1500 * time.Millisecond),
		DurationMs:     1500,
	}
}

// DriverSpecs registers the shared driver tests. driver is called in each test and
// must return the driver under test for that test.
func DriverSpecs(driver func() storage.Driver) {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Put and Get", func() {
		It("stores and retrieves a record", func() {
			rec := NewRecord("rec-1", 0)
			Expect(driver().Put(ctx, rec)).To(Succeed())

			got, err := driver().Get(ctx, "rec-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(rec))
		})

		It("keeps failure details", func() {
			rec := NewRecord("rec-failed", 0)
			rec.Status = storage.StatusFailed
			rec.TranslatedText = ""
			rec.ErrorKind = "secretKey"
			rec.ErrorMessage = "配置错误 - 请确认您的 API Key 是否正确"
			Expect(driver().Put(ctx, rec)).To(Succeed())

			got, err := driver().Get(ctx, "rec-failed")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(storage.StatusFailed))
			Expect(got.ErrorKind).To(Equal("secretKey"))
			Expect(got.ErrorMessage).To(Equal(rec.ErrorMessage))
		})

		It("replaces a record with the same id", func() {
			rec := NewRecord("rec-1", 0)
			Expect(driver().Put(ctx, rec)).To(Succeed())

			rec.TranslatedText = "您好"
			Expect(driver().Put(ctx, rec)).To(Succeed())

			got, err := driver().Get(ctx, "rec-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.TranslatedText).To(Equal("您好"))

			n, err := driver().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})

		It("rejects a nil record", func() {
			Expect(driver().Put(ctx, nil)).To(MatchError(storage.ErrNilRecord))
		})

		It("returns ErrNotFound for a missing id", func() {
			_, err := driver().Get(ctx, "missing")
			Expect(err).To(MatchError(storage.ErrNotFound))
			Expect(err.Error()).To(ContainSubstring("missing"))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for i := range 5 {
				rec := NewRecord(fmt.Sprintf("rec-%d", i), time.Duration(i)*time.Minute)
				if i%2 == 1 {
					rec.Provider = "gemini"
				}
				Expect(driver().Put(ctx, rec)).To(Succeed())
			}
		})

		It("returns records newest first", func() {
			recs, err := driver().List(ctx, storage.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(recs)).To(Equal([]string{"rec-4", "rec-3", "rec-2", "rec-1", "rec-0"}))
		})

		It("applies limit and offset", func() {
			recs, err := driver().List(ctx, storage.ListOptions{Limit: 2, Offset: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(recs)).To(Equal([]string{"rec-3", "rec-2"}))
		})

		It("filters by provider", func() {
			recs, err := driver().List(ctx, storage.ListOptions{Provider: "gemini"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(recs)).To(Equal([]string{"rec-3", "rec-1"}))
		})

		It("returns an empty slice past the end", func() {
			recs, err := driver().List(ctx, storage.ListOptions{Offset: 10})
			Expect(err).NotTo(HaveOccurred())
			Expect(recs).NotTo(BeNil())
			Expect(recs).To(BeEmpty())
		})

		It("counts every record", func() {
			n, err := driver().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(5))
		})
	})
}

func ids(recs []*storage.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
