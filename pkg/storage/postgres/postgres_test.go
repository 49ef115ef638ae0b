package postgres_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/lingo/pkg/storage"
	"github.com/papercomputeco/lingo/pkg/storage/postgres"
	"github.com/papercomputeco/lingo/pkg/storage/storagetest"
)

// connStr returns the PostgreSQL connection string from environment or skips the test.
func connStr() string {
	dsn := os.Getenv("LINGO_TEST_POSTGRES_DSN")
	if dsn == "" {
		Skip("LINGO_TEST_POSTGRES_DSN not set, skipping PostgreSQL tests")
	}
	return dsn
}

var _ = Describe("Driver", func() {
	var (
		driver *postgres.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		dsn := connStr()

		var err error
		driver, err = postgres.NewDriver(ctx, dsn)
		Expect(err).NotTo(HaveOccurred())

		// Clean all records before each test for isolation.
		_, err = driver.DB().ExecContext(ctx, "DELETE FROM translations")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if driver != nil {
			driver.Close()
		}
	})

	storagetest.DriverSpecs(func() storage.Driver { return driver })

	It("fails fast on an unreachable server", func() {
		_, err := postgres.NewDriver(ctx, "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
		Expect(err).To(MatchError(ContainSubstring("failed to ping database")))
	})
})
