package persistence_test

import (
	"os"
	"shopwork/persistence"
	"testing"

	. "github.com/onsi/gomega"
)

func TestParseDatabaseConfigFromEnv(t *testing.T) {
	RegisterTestingT(t)

	originURL := os.Getenv("DATABASE_URL")
	defer os.Setenv("DATABASE_URL", originURL)

	t.Run("should parse driver type and args from DATABASE_URL", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "mysql://root:root@(127.0.0.1:3306)/shopwork?charset=utf8mb4&parseTime=True")
		config, err := persistence.ParseDatabaseConfigFromEnv()
		Expect(err).To(BeNil())
		Expect(config.DriverType).To(Equal("mysql"))
		Expect(config.DriverArgs).To(Equal("root:root@(127.0.0.1:3306)/shopwork?charset=utf8mb4&parseTime=True"))
	})

	t.Run("should fail when DATABASE_URL is not set", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "")
		config, err := persistence.ParseDatabaseConfigFromEnv()
		Expect(config).To(BeNil())
		Expect(err).To(MatchError("environment variable DATABASE_URL is not set"))
	})

	t.Run("should fail when DATABASE_URL is malformed", func(t *testing.T) {
		os.Setenv("DATABASE_URL", "root:root@(127.0.0.1:3306)/shopwork")
		config, err := persistence.ParseDatabaseConfigFromEnv()
		Expect(config).To(BeNil())
		Expect(err).ToNot(BeNil())

		os.Setenv("DATABASE_URL", "mysql://")
		config, err = persistence.ParseDatabaseConfigFromEnv()
		Expect(config).To(BeNil())
		Expect(err).ToNot(BeNil())
	})
}
