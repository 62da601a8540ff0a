package rest_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/catalog"
	catalogDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/catalog"
	userDatamodel "github.com/frahmantamala/nexus/internal/core/datamodel/user"
	"github.com/frahmantamala/nexus/internal/healthcare"
	"github.com/frahmantamala/nexus/internal/request"
	"github.com/frahmantamala/nexus/internal/transport/rest"
	"github.com/frahmantamala/nexus/pkg/logger"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func gatewayConfig(aiURL string) *internal.Config {
	cfg := &internal.Config{
		Security: internal.SecurityConfig{
			JWTSecret:        jwtSecret,
			ServiceJWTSecret: serviceSecret,
			BCryptCost:       bcrypt.MinCost,
		},
		AI: internal.AIConfig{
			BaseURL: aiURL,
			Router:  internal.RouterConfig{Timeout: time.Second},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Gateway", func() {
	var (
		deptServer *httptest.Server
		aiServer   *httptest.Server
		gateway    *httptest.Server
		adminToken string
		aiBlocked  bool
	)

	newGateway := func(cfg *internal.Config) *httptest.Server {
		db := openSQLite(&catalogDatamodel.Department{}, &catalogDatamodel.Service{}, &userDatamodel.User{}, &request.Request{})
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Create(&userDatamodel.User{Name: "Admin", Email: "admin@nexus.gov", PasswordHash: string(hash), Role: "ADMIN", IsActive: true}).Error).To(Succeed())

		router, err := rest.BuildGateway(rest.GatewayOptions{
			Config:  cfg,
			DB:      db,
			StatsDB: sqlx.NewDb(sqlDB, "sqlite3"),
			Logger:  logger.Discard(),
		})
		Expect(err).NotTo(HaveOccurred())
		return httptest.NewServer(router)
	}

	login := func(email, password string) string {
		status, env := call(gateway.URL, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
		ExpectWithOffset(1, status).To(Equal(http.StatusOK))
		var result struct {
			Token string `json:"token"`
		}
		env.into(&result)
		return result.Token
	}

	BeforeEach(func() {
		aiBlocked = false
		deptDB := openSQLite(&healthcare.Appointment{}, &healthcare.Patient{})
		deptRouter, err := rest.BuildHealthcare(rest.HealthcareOptions{
			DB:               deptDB,
			ServiceJWTSecret: serviceSecret,
			DepartmentCode:   "HEALTHCARE",
			Logger:           logger.Discard(),
		})
		Expect(err).NotTo(HaveOccurred())
		deptServer = httptest.NewServer(deptRouter)

		aiServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Path {
			case "/api/security/validate":
				fmt.Fprintf(w, `{"blocked":%t,"reason":"anomalous traffic"}`, aiBlocked)
			case "/api/route-query":
				fmt.Fprint(w, `{"department":"HEALTHCARE","confidence":0.91}`)
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))

		gateway = newGateway(gatewayConfig(aiServer.URL))
		adminToken = login("admin@nexus.gov", "password123")
	})

	AfterEach(func() {
		gateway.Close()
		aiServer.Close()
		deptServer.Close()
	})

	It("reports health", func() {
		status, _ := call(gateway.URL, http.MethodGet, "/api/health", "", nil)
		Expect(status).To(Equal(http.StatusOK))
	})

	It("answers unknown routes with the not found envelope", func() {
		status, env := call(gateway.URL, http.MethodGet, "/api/nowhere", "", nil)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(Equal("Endpoint not found."))
	})

	It("serves the OpenAPI document", func() {
		resp, err := http.Get(gateway.URL + "/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("routes free text queries through the AI engine", func() {
		status, env := call(gateway.URL, http.MethodPost, "/api/ai/route", "", map[string]string{"query": "I need a doctor"})
		Expect(status).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(MatchJSON(`{"department":"HEALTHCARE","confidence":0.91}`))
	})

	It("requires authentication and the right role", func() {
		status, _ := call(gateway.URL, http.MethodGet, "/api/admin/departments", "", nil)
		Expect(status).To(Equal(http.StatusUnauthorized))

		status, env := call(gateway.URL, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Asha", "email": "asha@nexus.gov", "password": "password123",
		})
		Expect(status).To(Equal(http.StatusCreated))
		var reg struct {
			Token string                 `json:"token"`
			User  map[string]interface{} `json:"user"`
		}
		env.into(&reg)
		Expect(reg.User).To(HaveKeyWithValue("role", "CITIZEN"))

		status, _ = call(gateway.URL, http.MethodGet, "/api/admin/departments", reg.Token, nil)
		Expect(status).To(Equal(http.StatusForbidden))
		status, _ = call(gateway.URL, http.MethodGet, "/api/officer/requests", reg.Token, nil)
		Expect(status).To(Equal(http.StatusForbidden))
		status, _ = call(gateway.URL, http.MethodGet, "/api/citizen/departments", adminToken, nil)
		Expect(status).To(Equal(http.StatusForbidden))
	})

	It("lists admin-created records exactly as submitted", func() {
		By("creating and listing a department")
		deptIn := catalog.DepartmentDTO{
			Name:            "Water Supply",
			Description:     "Municipal water connections and complaints",
			Code:            "WATER",
			EndpointBaseURL: "http://water.internal:5002",
			Icon:            "droplet",
		}
		status, env := call(gateway.URL, http.MethodPost, "/api/admin/departments", adminToken, deptIn)
		Expect(status).To(Equal(http.StatusCreated))
		var created catalog.Department
		env.into(&created)

		status, env = call(gateway.URL, http.MethodGet, "/api/admin/departments", adminToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var departments []catalog.Department
		env.into(&departments)
		Expect(departments).To(HaveLen(1))
		Expect(departments[0].ID).To(Equal(created.ID))
		Expect(departments[0].Name).To(Equal(deptIn.Name))
		Expect(departments[0].Description).To(Equal(deptIn.Description))
		Expect(departments[0].Code).To(Equal(deptIn.Code))
		Expect(departments[0].EndpointBaseURL).To(Equal(deptIn.EndpointBaseURL))
		Expect(departments[0].Icon).To(Equal(deptIn.Icon))
		Expect(departments[0].IsActive).To(BeTrue())

		By("creating and listing a service")
		schema := []catalog.FormField{
			{Name: "connectionType", Label: "Connection", Type: catalog.FieldSelect, Required: true, Options: []string{"domestic", "commercial"}},
			{Name: "address", Label: "Address", Type: catalog.FieldTextarea, Required: true, Placeholder: "House, street, ward"},
			{Name: "contact", Label: "Phone", Type: catalog.FieldTel, Placeholder: "10 digit mobile"},
			{Name: "visitDate", Label: "Visit date", Type: catalog.FieldDate},
		}
		svcIn := catalog.ServiceDTO{
			Name:         "New Connection",
			Description:  "Apply for a new water connection",
			DepartmentID: created.ID,
			EndpointPath: "/internal/connections",
			Method:       http.MethodPut,
			Icon:         "pipe",
			FormSchema:   schema,
		}
		status, _ = call(gateway.URL, http.MethodPost, "/api/admin/services", adminToken, svcIn)
		Expect(status).To(Equal(http.StatusCreated))

		status, env = call(gateway.URL, http.MethodGet, "/api/admin/services", adminToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var services []catalog.Service
		env.into(&services)
		Expect(services).To(HaveLen(1))
		svc := services[0]
		Expect(svc.Name).To(Equal(svcIn.Name))
		Expect(svc.Description).To(Equal(svcIn.Description))
		Expect(svc.DepartmentID).To(Equal(created.ID))
		Expect(svc.EndpointPath).To(Equal(svcIn.EndpointPath))
		Expect(svc.Method).To(Equal(http.MethodPut))
		Expect(svc.Icon).To(Equal(svcIn.Icon))
		Expect(svc.FormSchema).To(Equal(schema))

		By("creating and listing an officer")
		userIn := map[string]interface{}{
			"name": "Water Officer", "email": "officer.water@nexus.gov", "password": "password123",
			"role": "DEPARTMENT_PERSON", "departmentId": created.ID,
		}
		status, _ = call(gateway.URL, http.MethodPost, "/api/admin/users", adminToken, userIn)
		Expect(status).To(Equal(http.StatusCreated))

		status, env = call(gateway.URL, http.MethodGet, "/api/admin/users?role=DEPARTMENT_PERSON", adminToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var users []struct {
			Name         string `json:"name"`
			Email        string `json:"email"`
			Role         string `json:"role"`
			DepartmentID *int64 `json:"departmentId"`
			Password     string `json:"password"`
		}
		env.into(&users)
		Expect(users).To(HaveLen(1))
		Expect(users[0].Name).To(Equal("Water Officer"))
		Expect(users[0].Email).To(Equal("officer.water@nexus.gov"))
		Expect(users[0].Role).To(Equal("DEPARTMENT_PERSON"))
		Expect(users[0].DepartmentID).NotTo(BeNil())
		Expect(*users[0].DepartmentID).To(Equal(created.ID))
		Expect(users[0].Password).To(BeEmpty())
	})

	It("carries a citizen request from submission to an accepted appointment", func() {
		By("creating the department and its service")
		status, env := call(gateway.URL, http.MethodPost, "/api/admin/departments", adminToken, map[string]string{
			"name": "Healthcare", "code": "HEALTHCARE", "endpointBaseUrl": deptServer.URL,
		})
		Expect(status).To(Equal(http.StatusCreated))
		var dept struct {
			ID int64 `json:"id"`
		}
		env.into(&dept)

		status, env = call(gateway.URL, http.MethodPost, "/api/admin/services", adminToken, map[string]interface{}{
			"name":         "Doctor Appointment",
			"departmentId": dept.ID,
			"endpointPath": "/internal/appointments",
			"formSchema": []map[string]interface{}{
				{"name": "doctorType", "label": "Doctor", "type": "select", "options": []string{"general", "specialist", "dentist", "pediatrician"}},
				{"name": "preferredDate", "label": "Date", "type": "date", "required": true},
				{"name": "symptoms", "label": "Symptoms", "type": "textarea", "required": true},
			},
		})
		Expect(status).To(Equal(http.StatusCreated))
		var svc struct {
			ID int64 `json:"id"`
		}
		env.into(&svc)

		status, env = call(gateway.URL, http.MethodGet, "/api/admin/services", adminToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var services []map[string]interface{}
		env.into(&services)
		Expect(services).To(HaveLen(1))
		Expect(services[0]).To(HaveKeyWithValue("name", "Doctor Appointment"))

		By("creating an officer for the department")
		status, _ = call(gateway.URL, http.MethodPost, "/api/admin/users", adminToken, map[string]interface{}{
			"name": "Officer Health", "email": "officer.health@nexus.gov", "password": "password123",
			"role": "DEPARTMENT_PERSON", "departmentId": dept.ID,
		})
		Expect(status).To(Equal(http.StatusCreated))

		By("submitting as a citizen")
		status, _ = call(gateway.URL, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Asha", "email": "asha@nexus.gov", "password": "password123",
		})
		Expect(status).To(Equal(http.StatusCreated))
		citizenToken := login("asha@nexus.gov", "password123")

		status, env = call(gateway.URL, http.MethodPost, "/api/citizen/requests", citizenToken, map[string]interface{}{
			"serviceId": svc.ID,
			"payload":   map[string]string{"symptoms": "fever", "preferredDate": "2026-01-10"},
		})
		Expect(status).To(Equal(http.StatusCreated))
		Expect(env.Message).To(Equal("Request submitted successfully."))
		var submitted struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		}
		env.into(&submitted)
		Expect(submitted.Status).To(Equal("PENDING"))

		By("accepting as the officer")
		officerToken := login("officer.health@nexus.gov", "password123")
		status, env = call(gateway.URL, http.MethodGet, "/api/officer/requests", officerToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var queue []map[string]interface{}
		env.into(&queue)
		Expect(queue).To(HaveLen(1))

		status, env = call(gateway.URL, http.MethodPatch, fmt.Sprintf("/api/officer/requests/%d/accept", submitted.ID), officerToken,
			map[string]string{"remarks": "approved"})
		Expect(status).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Request accepted."))

		status, _ = call(gateway.URL, http.MethodPatch, fmt.Sprintf("/api/officer/requests/%d/reject", submitted.ID), officerToken,
			map[string]string{"remarks": "changed my mind"})
		Expect(status).To(Equal(http.StatusBadRequest))

		By("reading the outcome as the citizen")
		status, env = call(gateway.URL, http.MethodGet, fmt.Sprintf("/api/citizen/requests/%d", submitted.ID), citizenToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var outcome struct {
			Status         string                 `json:"status"`
			OfficerRemarks string                 `json:"officerRemarks"`
			ResponseData   map[string]interface{} `json:"responseData"`
		}
		env.into(&outcome)
		Expect(outcome.Status).To(Equal("ACCEPTED"))
		Expect(outcome.OfficerRemarks).To(Equal("approved"))
		Expect(outcome.ResponseData).To(HaveKeyWithValue("assignedDoctor", "Dr. Sarah Johnson"))
		Expect(outcome.ResponseData).To(HaveKey("appointmentId"))

		status, env = call(gateway.URL, http.MethodGet, "/api/citizen/recent-appointments", citizenToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var recent []map[string]interface{}
		env.into(&recent)
		Expect(recent).To(HaveLen(1))
		Expect(recent[0]).To(HaveKeyWithValue("departmentCode", "HEALTHCARE"))

		By("checking the dashboards")
		status, env = call(gateway.URL, http.MethodGet, "/api/officer/stats", officerToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var counts request.StatusCounts
		env.into(&counts)
		Expect(counts).To(Equal(request.StatusCounts{Total: 1, Accepted: 1}))

		status, env = call(gateway.URL, http.MethodGet, "/api/admin/stats", adminToken, nil)
		Expect(status).To(Equal(http.StatusOK))
		var stats request.AdminStats
		env.into(&stats)
		Expect(stats.Users.Total).To(Equal(int64(3)))
		Expect(stats.Departments).To(Equal(request.ActiveCount{Total: 1, Active: 1}))
		Expect(stats.RecentRequests).To(HaveLen(1))
	})

	It("keeps a request pending when the department is offline", func() {
		status, env := call(gateway.URL, http.MethodPost, "/api/admin/departments", adminToken, map[string]string{
			"name": "Water", "code": "WATER", "endpointBaseUrl": "http://127.0.0.1:1",
		})
		Expect(status).To(Equal(http.StatusCreated))
		var dept struct {
			ID int64 `json:"id"`
		}
		env.into(&dept)
		status, env = call(gateway.URL, http.MethodPost, "/api/admin/services", adminToken, map[string]interface{}{
			"name": "Tanker Booking", "departmentId": dept.ID, "endpointPath": "/internal/tankers",
		})
		Expect(status).To(Equal(http.StatusCreated))
		var svc struct {
			ID int64 `json:"id"`
		}
		env.into(&svc)

		status, _ = call(gateway.URL, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Asha", "email": "asha@nexus.gov", "password": "password123",
		})
		Expect(status).To(Equal(http.StatusCreated))
		citizenToken := login("asha@nexus.gov", "password123")

		status, env = call(gateway.URL, http.MethodPost, "/api/citizen/requests", citizenToken, map[string]interface{}{"serviceId": svc.ID})
		Expect(status).To(Equal(http.StatusCreated))
		var submitted struct {
			Status string `json:"status"`
		}
		env.into(&submitted)
		Expect(submitted.Status).To(Equal("PENDING"))
	})

	Describe("with the sentinel enabled", func() {
		BeforeEach(func() {
			gateway.Close()
			cfg := gatewayConfig(aiServer.URL)
			cfg.AI.Sentinel.Enabled = true
			gateway = newGateway(cfg)
		})

		It("blocks requests the AI engine flags", func() {
			aiBlocked = true
			status, env := call(gateway.URL, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "admin@nexus.gov", "password": "password123"})
			Expect(status).To(Equal(http.StatusForbidden))
			Expect(env.Message).To(Equal("Access Denied by AI Security Shield"))
			Expect(env.Reason).To(Equal("anomalous traffic"))
		})

		It("never screens the health check", func() {
			aiBlocked = true
			status, _ := call(gateway.URL, http.MethodGet, "/api/health", "", nil)
			Expect(status).To(Equal(http.StatusOK))
		})

		It("passes clean traffic", func() {
			Expect(login("admin@nexus.gov", "password123")).NotTo(BeEmpty())
		})
	})
})
