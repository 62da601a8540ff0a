package cmd

import (
	"errors"
	"fmt"
	"log"

	catalogDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/catalog"
	userDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	healthcareURL string
	seedPassword  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the gateway database with sample data",
	Long:  `Seed an admin, a Healthcare department with its appointment service, and a Healthcare officer.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		if err := seed(db, string(hash)); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		fmt.Println("Seeding complete. Password for seeded users:", seedPassword)
	},
}

func seed(db *gorm.DB, passwordHash string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := ensureUser(tx, "admin@nexus.gov", "Nexus Admin", passwordHash, "ADMIN", nil); err != nil {
			return err
		}

		dept := catalogDatamodel.Department{
			Name:            "Healthcare",
			Description:     "Public hospitals and clinics",
			Code:            "HEALTHCARE",
			EndpointBaseURL: healthcareURL,
			Icon:            "hospital",
			IsActive:        true,
		}
		if err := tx.Where("code = ?", dept.Code).FirstOrCreate(&dept).Error; err != nil {
			return fmt.Errorf("failed to seed department: %w", err)
		}
		fmt.Println("Seeded department:", dept.Code)

		svc := catalogDatamodel.Service{
			Name:         "Doctor Appointment",
			Description:  "Book an appointment with a government doctor",
			DepartmentID: dept.ID,
			EndpointPath: "/internal/appointments",
			Method:       "POST",
			Icon:         "stethoscope",
			IsActive:     true,
			FormSchema: []catalogDatamodel.FormField{
				{Name: "doctorType", Label: "Doctor Type", Type: "select", Required: true, Options: []string{"general", "specialist", "dentist", "pediatrician"}},
				{Name: "preferredDate", Label: "Preferred Date", Type: "date", Required: true},
				{Name: "preferredTime", Label: "Preferred Time", Type: "text", Placeholder: "10:00 AM"},
				{Name: "symptoms", Label: "Symptoms", Type: "textarea", Required: true},
			},
		}
		if err := tx.Where("department_id = ? AND name = ?", dept.ID, svc.Name).FirstOrCreate(&svc).Error; err != nil {
			return fmt.Errorf("failed to seed service: %w", err)
		}
		fmt.Println("Seeded service:", svc.Name)

		if _, err := ensureUser(tx, "officer.health@nexus.gov", "Healthcare Officer", passwordHash, "DEPARTMENT_PERSON", &dept.ID); err != nil {
			return err
		}
		if _, err := ensureUser(tx, "citizen@nexus.gov", "Sample Citizen", passwordHash, "CITIZEN", nil); err != nil {
			return err
		}
		return nil
	})
}

func ensureUser(tx *gorm.DB, email, name, passwordHash, role string, departmentID *int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := tx.Where("email = ?", email).First(&u).Error
	if err == nil {
		fmt.Println("user already exists:", email)
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up %s: %w", email, err)
	}

	u = userDatamodel.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		DepartmentID: departmentID,
		IsActive:     true,
	}
	if err := tx.Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", email, err)
	}
	fmt.Println("Seeded user:", email)
	return &u, nil
}

func init() {
	seedCmd.Flags().StringVar(&healthcareURL, "healthcare-url", "http://localhost:5001", "base URL of the Healthcare microservice")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "password for every seeded user")
}
