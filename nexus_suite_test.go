package main_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/nexus/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
)

func TestNexus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Nexus Suite")
}

var _ = Describe("sample config.yml", func() {
	It("loads into a valid configuration", func() {
		v := viper.New()
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yml")
		Expect(v.ReadInConfig()).To(Succeed())

		var cfg internal.Config
		Expect(v.Unmarshal(&cfg)).To(Succeed())
		cfg.ApplyDefaults()

		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Department.Validate()).To(Succeed())
		Expect(cfg.Server.Port).To(Equal(5000))
		Expect(cfg.AI.Sentinel.Timeout).To(Equal(500 * time.Millisecond))
		Expect(cfg.AI.Router.OnUnavailable).To(Equal("deny"))
		Expect(cfg.AI.Router.Timeout).To(BeZero())
		Expect(cfg.Server.TrustedProxies).To(BeEmpty())
		Expect(cfg.Department.Code).To(Equal("HEALTHCARE"))
	})
})
