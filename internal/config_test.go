package internal_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/nexus/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Database: internal.DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 2},
		Security: internal.SecurityConfig{
			JWTSecret:        "0123456789abcdef0123456789abcdef",
			ServiceJWTSecret: "fedcba9876543210fedcba9876543210",
		},
		AI: internal.AIConfig{BaseURL: "http://localhost:8000"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func setenv(key, value string) {
	prev, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, prev)
			return
		}
		os.Unsetenv(key)
	})
}

var _ = Describe("Config", func() {
	It("fills defaults", func() {
		cfg := validConfig()
		Expect(cfg.Server.Port).To(Equal(5000))
		Expect(cfg.Security.BCryptCost).To(Equal(10))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(24 * time.Hour))
		Expect(cfg.Security.ServiceTokenDuration).To(Equal(5 * time.Minute))
		Expect(cfg.AI.Sentinel.Timeout).To(Equal(500 * time.Millisecond))
		Expect(cfg.AI.Sentinel.OnUnavailable).To(Equal("allow"))
		Expect(cfg.AI.Router.OnUnavailable).To(Equal("deny"))
		Expect(cfg.AI.Router.Timeout).To(BeZero())
		Expect(cfg.Department.Port).To(Equal(5001))
		Expect(cfg.Validate()).To(Succeed())
	})

	DescribeTable("rejects invalid settings",
		func(mutate func(*internal.Config), fragment string) {
			cfg := validConfig()
			mutate(cfg)
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("short jwt secret", func(c *internal.Config) { c.Security.JWTSecret = "short" }, "jwt_secret"),
		Entry("short service secret", func(c *internal.Config) { c.Security.ServiceJWTSecret = "short" }, "service_jwt_secret"),
		Entry("bcrypt cost", func(c *internal.Config) { c.Security.BCryptCost = 20 }, "bcrypt_cost"),
		Entry("ai url", func(c *internal.Config) { c.AI.BaseURL = "not a url" }, "base_url"),
		Entry("sentinel policy", func(c *internal.Config) { c.AI.Sentinel.OnUnavailable = "maybe" }, "sentinel.on_unavailable"),
		Entry("idle above open", func(c *internal.Config) { c.Database.MaxIdleConns = 50 }, "max_idle_conns"),
		Entry("trusted proxy", func(c *internal.Config) { c.Server.TrustedProxies = "10.0.0.1, not-an-ip" }, "invalid trusted proxy"),
		Entry("log format", func(c *internal.Config) { c.Observability.Logging.Format = "xml" }, "logging config"),
	)

	It("accepts trusted proxies as addresses or ranges", func() {
		cfg := validConfig()
		cfg.Server.TrustedProxies = "10.0.0.1, 172.16.0.0/12, ::1"
		Expect(cfg.Validate()).To(Succeed())
	})

	It("requires a department code for the department process", func() {
		cfg := validConfig()
		Expect(cfg.Department.Validate()).To(HaveOccurred())
		cfg.Department.Code = "healthcare"
		cfg.ApplyDefaults()
		Expect(cfg.Department.Code).To(Equal("HEALTHCARE"))
		Expect(cfg.Department.Validate()).To(Succeed())
	})

	It("builds from the environment", func() {
		setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
		setenv("SERVICE_JWT_SECRET", "fedcba9876543210fedcba9876543210")
		setenv("AI_SENTINEL_ENABLED", "false")
		setenv("AI_ROUTER_ON_UNAVAILABLE", "allow")
		setenv("PORT", "7000")
		setenv("DEPARTMENT_CODE", "healthcare")

		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Server.Port).To(Equal(7000))
		Expect(cfg.AI.Sentinel.Enabled).To(BeFalse())
		Expect(cfg.AI.Router.OnUnavailable).To(Equal("allow"))
		Expect(cfg.Department.Code).To(Equal("HEALTHCARE"))
		Expect(cfg.Validate()).To(Succeed())
	})
})

var _ = Describe("AppError", func() {
	It("matches sentinels through wrapping", func() {
		wrapped := internal.ErrInvalidToken.WithCause(errors.New("signature"))
		Expect(errors.Is(wrapped, internal.ErrInvalidToken)).To(BeTrue())
		Expect(errors.Is(wrapped, internal.ErrInsufficientRole)).To(BeFalse())
	})

	It("reports the first field message and joins all of them", func() {
		err := internal.NewValidationErrors([]internal.ValidationError{
			{Field: "name", Message: "name is required"},
			{Field: "email", Message: "email is required"},
		})
		Expect(err.Error()).To(Equal("name is required"))
		Expect(err.GetDetailedMessage()).To(Equal("name is required; email is required"))
	})
})
