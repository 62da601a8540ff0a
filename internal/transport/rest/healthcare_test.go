package rest_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/nexus/internal/healthcare"
	"github.com/frahmantamala/nexus/internal/servicejwt"
	"github.com/frahmantamala/nexus/internal/transport/rest"
	"github.com/frahmantamala/nexus/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Healthcare router", func() {
	var (
		server *httptest.Server
		signer *servicejwt.Signer
	)

	BeforeEach(func() {
		db := openSQLite(&healthcare.Appointment{}, &healthcare.Patient{})
		router, err := rest.BuildHealthcare(rest.HealthcareOptions{
			DB:               db,
			ServiceJWTSecret: serviceSecret,
			DepartmentCode:   "HEALTHCARE",
			Logger:           logger.Discard(),
		})
		Expect(err).NotTo(HaveOccurred())
		server = httptest.NewServer(router)
		signer = servicejwt.NewSigner(serviceSecret, time.Minute)
	})

	AfterEach(func() {
		server.Close()
	})

	token := func(dept string) string {
		t, err := signer.Sign(dept)
		Expect(err).NotTo(HaveOccurred())
		return t
	}

	It("serves health without a token", func() {
		status, _ := call(server.URL, http.MethodGet, "/health", "", nil)
		Expect(status).To(Equal(http.StatusOK))
	})

	It("rejects internal calls without a token", func() {
		status, env := call(server.URL, http.MethodPost, "/internal/appointments", "", map[string]interface{}{})
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(env.Message).To(Equal("Unauthorized: No service token provided."))
	})

	It("rejects tokens minted for another department", func() {
		status, env := call(server.URL, http.MethodGet, "/internal/appointments", token("WATER"), nil)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(env.Message).To(Equal("Forbidden: Token not authorized for this department."))
	})

	It("protects the patient registry", func() {
		status, _ := call(server.URL, http.MethodGet, "/health/patients", "", nil)
		Expect(status).To(Equal(http.StatusUnauthorized))

		status, env := call(server.URL, http.MethodPost, "/health/patients", token("HEALTHCARE"),
			map[string]string{"name": "Ravi", "mobileNumber": "9876543210"})
		Expect(status).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())
	})

	It("runs intake, decision and lookup for an appointment", func() {
		t := token("HEALTHCARE")

		status, _ := call(server.URL, http.MethodPost, "/internal/appointments", t, map[string]interface{}{
			"requestId":   "42",
			"citizenId":   "5",
			"citizenName": "Asha",
			"data":        map[string]string{"doctorType": "specialist", "preferredDate": "2026-01-10", "symptoms": "fever"},
		})
		Expect(status).To(Equal(http.StatusOK))

		status, env := call(server.URL, http.MethodPatch, "/internal/appointments/status", t, map[string]string{
			"requestId": "42", "status": "ACCEPTED", "remarks": "approved", "processedBy": "Officer Health",
		})
		Expect(status).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Appointment status updated."))
		var a map[string]interface{}
		env.into(&a)
		Expect(a).To(HaveKeyWithValue("assignedDoctor", "Dr. Michael Chen"))

		status, env = call(server.URL, http.MethodGet, "/internal/appointments/citizen?citizenId=5", t, nil)
		Expect(status).To(Equal(http.StatusOK))
		var list []map[string]interface{}
		env.into(&list)
		Expect(list).To(HaveLen(1))
		Expect(list[0]).To(HaveKeyWithValue("status", "ACCEPTED"))
	})

	It("returns 404 for an unknown appointment", func() {
		status, env := call(server.URL, http.MethodGet, "/internal/appointments/99", token("HEALTHCARE"), nil)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Appointment not found."))
	})
})
