package cmd

import (
	"fmt"
	"os"

	"github.com/frahmantamala/nexus/internal/transport/rest"
	"github.com/frahmantamala/nexus/pkg/logger"
	"github.com/spf13/cobra"
)

var healthcareServerCmd = &cobra.Command{
	Use:   "healthcare",
	Short: "Start the Healthcare department microservice",
	Long:  `Start the Healthcare department service. Its internal API only accepts gateway service tokens.`,
	Run: func(cmd *cobra.Command, args []string) {
		startHealthcareServer()
	},
}

func startHealthcareServer() {
	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Department.Code == "" {
		cfg.Department.Code = "HEALTHCARE"
	}
	if cfg.Department.Database.Source == "" {
		cfg.Department.Database = cfg.Database
	}
	if err := cfg.Department.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid department config: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)
	lg := logger.LoggerWrapper().With("department", cfg.Department.Code)

	db, sqlDB, err := initDB(cfg.Department.Database)
	if err != nil {
		lg.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	router, err := rest.BuildHealthcare(rest.HealthcareOptions{
		DB:               db,
		ServiceJWTSecret: cfg.Security.ServiceJWTSecret,
		DepartmentCode:   cfg.Department.Code,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		Logger:           lg,
	})
	if err != nil {
		lg.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	server := newHTTPServer(cfg.Server, cfg.Department.Port, router)
	serve(server, lg, func() {
		if err := sqlDB.Close(); err != nil {
			lg.Error("Database close error", "error", err)
		}
	})
}
