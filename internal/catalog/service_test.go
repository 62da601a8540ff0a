package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/nexus/internal/catalog"
	catalogPostgres "github.com/frahmantamala/nexus/internal/catalog/postgres"
	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/frahmantamala/nexus/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Catalog", func() {
	var (
		db  *gorm.DB
		svc *catalog.Catalog
	)

	healthcare := catalog.DepartmentDTO{
		Name:            "Healthcare",
		Code:            " healthcare ",
		EndpointBaseURL: "http://localhost:5001/",
	}

	appointment := func(deptID int64) catalog.ServiceDTO {
		return catalog.ServiceDTO{
			Name:         "Doctor Appointment",
			DepartmentID: deptID,
			EndpointPath: "/internal/appointments",
			FormSchema:   appointmentForm,
		}
	}

	BeforeEach(func() {
		db = openTestDB()
		svc = catalog.NewCatalog(catalogPostgres.NewCatalogRepository(db), logger.Discard())
	})

	Describe("departments", func() {
		It("normalizes and stores a new department", func() {
			d, err := svc.CreateDepartment(healthcare)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.ID).NotTo(BeZero())
			Expect(d.Code).To(Equal("HEALTHCARE"))
			Expect(d.EndpointBaseURL).To(Equal("http://localhost:5001"))
			Expect(d.IsActive).To(BeTrue())

			all, err := svc.ListDepartments(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
		})

		It("refuses a duplicate code", func() {
			_, err := svc.CreateDepartment(healthcare)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.CreateDepartment(catalog.DepartmentDTO{Name: "Other", Code: "HEALTHCARE", EndpointBaseURL: "http://other"})
			Expect(err).To(MatchError(catalog.ErrCodeTaken))
		})

		It("requires an absolute endpoint", func() {
			_, err := svc.CreateDepartment(catalog.DepartmentDTO{Name: "Water", Code: "WATER", EndpointBaseURL: "localhost:5002"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(Equal("endpointBaseUrl must be an absolute http(s) URL"))
		})

		It("keeps the code immutable on update", func() {
			d, _ := svc.CreateDepartment(healthcare)

			_, err := svc.UpdateDepartment(d.ID, catalog.DepartmentDTO{Name: "Health", Code: "HEALTH", EndpointBaseURL: "http://x"})
			Expect(err).To(MatchError(catalog.ErrCodeImmutable))

			updated, err := svc.UpdateDepartment(d.ID, catalog.DepartmentDTO{Name: "Health", EndpointBaseURL: "http://health.local"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Health"))
			Expect(updated.Code).To(Equal("HEALTHCARE"))
		})

		It("hides disabled departments from the active listing", func() {
			d, _ := svc.CreateDepartment(healthcare)
			_, err := svc.SetDepartmentActive(d.ID, false)
			Expect(err).NotTo(HaveOccurred())

			active, err := svc.ListActiveDepartments()
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(BeEmpty())

			_, err = svc.GetActiveDepartment(d.ID)
			Expect(err).To(MatchError(catalog.ErrDepartmentNotFound))
		})

		It("deletes a department together with its services", func() {
			d, _ := svc.CreateDepartment(healthcare)
			s, err := svc.CreateService(appointment(d.ID))
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.DeleteDepartment(d.ID)).To(Succeed())

			_, err = svc.GetService(s.ID)
			Expect(err).To(MatchError(catalog.ErrServiceNotFound))
			Expect(svc.DeleteDepartment(d.ID)).To(MatchError(catalog.ErrDepartmentNotFound))
		})
	})

	Describe("services", func() {
		var dept *catalog.Department

		BeforeEach(func() {
			var err error
			dept, err = svc.CreateDepartment(healthcare)
			Expect(err).NotTo(HaveOccurred())
		})

		It("creates a service with POST as the default method", func() {
			s, err := svc.CreateService(appointment(dept.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Method).To(Equal(http.MethodPost))
			Expect(s.FormSchema).To(HaveLen(len(appointmentForm)))
			Expect(s.URL(dept)).To(Equal("http://localhost:5001/internal/appointments"))
		})

		It("requires an existing department", func() {
			_, err := svc.CreateService(appointment(999))
			Expect(err).To(MatchError(catalog.ErrUnknownDepartment))
		})

		It("validates the form schema", func() {
			dto := appointment(dept.ID)
			dto.FormSchema = []catalog.FormField{{Name: "x", Label: "X", Type: "color"}}
			_, err := svc.CreateService(dto)
			Expect(err).To(HaveOccurred())
		})

		It("lists services with their department reference", func() {
			_, err := svc.CreateService(appointment(dept.ID))
			Expect(err).NotTo(HaveOccurred())

			services, err := svc.ListServices(0, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(services).To(HaveLen(1))
			Expect(services[0].Department).To(Equal(&catalog.DepartmentRef{ID: dept.ID, Name: "Healthcare", Code: "HEALTHCARE"}))
		})

		It("keeps the department immutable on update", func() {
			s, _ := svc.CreateService(appointment(dept.ID))
			dto := appointment(dept.ID + 1)
			_, err := svc.UpdateService(s.ID, dto)
			Expect(err).To(MatchError(catalog.ErrDepartmentImmutable))
		})

		It("only resolves enabled services of enabled departments", func() {
			s, _ := svc.CreateService(appointment(dept.ID))

			resolved, d, err := svc.ResolveForSubmission(s.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.ID).To(Equal(s.ID))
			Expect(d.Code).To(Equal("HEALTHCARE"))

			_, err = svc.SetDepartmentActive(dept.ID, false)
			Expect(err).NotTo(HaveOccurred())
			_, _, err = svc.ResolveForSubmission(s.ID)
			Expect(err).To(MatchError(catalog.ErrServiceUnavailable))

			_, err = svc.GetActiveService(s.ID)
			Expect(err).To(MatchError(catalog.ErrServiceNotFound))
		})
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			h := catalog.NewHandler(transport.NewBaseHandler(logger.Discard()), svc)
			router = chi.NewRouter()
			router.Post("/departments", h.CreateDepartment)
			router.Get("/departments", h.ListDepartments)
			router.Get("/services/{id}", h.GetService)
		})

		do := func(method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
			req := httptest.NewRequest(method, path, strings.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			var resp map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			return w, resp
		}

		It("creates a department with a 201 envelope", func() {
			w, resp := do(http.MethodPost, "/departments", `{"name":"Water","code":"water","endpointBaseUrl":"http://localhost:5002"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(resp["success"]).To(BeTrue())
			Expect(resp["message"]).To(Equal("Department created successfully."))
			Expect(resp["data"]).To(HaveKeyWithValue("code", "WATER"))
		})

		It("reports validation failures as 400", func() {
			w, resp := do(http.MethodPost, "/departments", `{"code":"water"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(resp["success"]).To(BeFalse())
			Expect(resp["message"]).To(ContainSubstring("name is required"))
		})

		It("rejects a non numeric id", func() {
			w, _ := do(http.MethodGet, "/services/abc", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for an unknown service", func() {
			w, resp := do(http.MethodGet, "/services/42", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(resp["message"]).To(Equal("Service not found"))
		})
	})
})
