package deptclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/frahmantamala/nexus/internal/deptclient"
	"github.com/frahmantamala/nexus/internal/servicejwt"
	"github.com/frahmantamala/nexus/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDeptClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Client Suite")
}

const secret = "department-client-test-secret-32ch"

type captured struct {
	method  string
	path    string
	query   string
	headers http.Header
	body    map[string]interface{}
}

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		last     captured
		status   int
		response string
		client   *deptclient.Client
		target   deptclient.Target
		verifier *servicejwt.Verifier
	)

	BeforeEach(func() {
		status = http.StatusOK
		response = `{"success":true}`
		last = captured{}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			last = captured{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, headers: r.Header.Clone()}
			_ = json.NewDecoder(r.Body).Decode(&last.body)
			w.WriteHeader(status)
			_, _ = w.Write([]byte(response))
		}))

		client = deptclient.NewClient(deptclient.Config{Timeout: time.Second}, servicejwt.NewSigner(secret, time.Minute), nil, logger.Discard())
		target = deptclient.Target{Code: "HEALTHCARE", BaseURL: server.URL + "/", Path: "/internal/appointments", Method: http.MethodPost}
		verifier = servicejwt.NewVerifier(secret, "HEALTHCARE")
	})

	AfterEach(func() {
		server.Close()
	})

	verifyBearer := func() {
		auth := last.headers.Get("Authorization")
		Expect(auth).To(HavePrefix("Bearer "))
		claims, err := verifier.Verify(auth[len("Bearer "):])
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Department).To(Equal("HEALTHCARE"))
	}

	It("submits with a department scoped token and correlation headers", func() {
		response = `{"success":true,"status":"PENDING","remarks":"Appointment request received.","responseData":{"appointmentId":7}}`

		result, err := client.Submit(context.Background(), target, deptclient.Submission{
			RequestID:    "42",
			CitizenID:    "5",
			CitizenName:  "Asha",
			CitizenEmail: "asha@nexus.gov",
			Data:         map[string]interface{}{"symptoms": "fever"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Status).To(Equal("PENDING"))
		Expect(result.ResponseData).To(HaveKeyWithValue("appointmentId", float64(7)))

		Expect(last.method).To(Equal(http.MethodPost))
		Expect(last.path).To(Equal("/internal/appointments"))
		Expect(last.headers.Get(servicejwt.HeaderCitizenID)).To(Equal("5"))
		Expect(last.headers.Get(servicejwt.HeaderRequestID)).To(Equal("42"))
		Expect(last.headers.Get("Content-Type")).To(Equal("application/json"))
		Expect(last.body).To(HaveKeyWithValue("requestId", "42"))
		Expect(last.body).To(HaveKeyWithValue("citizenName", "Asha"))
		verifyBearer()
	})

	It("honours the service method", func() {
		target.Method = http.MethodPut
		_, err := client.Submit(context.Background(), target, deptclient.Submission{RequestID: "1"})
		Expect(err).NotTo(HaveOccurred())
		Expect(last.method).To(Equal(http.MethodPut))
	})

	It("relays status with PATCH on the status sub path", func() {
		response = `{"success":true,"message":"Appointment status updated.","data":{"assignedDoctor":"Dr. Sarah Johnson"}}`

		result, err := client.RelayStatus(context.Background(), target, deptclient.StatusUpdate{
			RequestID: "42", Status: "ACCEPTED", Remarks: "approved", ProcessedBy: "Officer Health",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Data).To(HaveKeyWithValue("assignedDoctor", "Dr. Sarah Johnson"))

		Expect(last.method).To(Equal(http.MethodPatch))
		Expect(last.path).To(Equal("/internal/appointments/status"))
		Expect(last.headers.Get(servicejwt.HeaderRequestID)).To(Equal("42"))
		Expect(last.body).To(HaveKeyWithValue("processedBy", "Officer Health"))
		verifyBearer()
	})

	It("lists citizen appointments", func() {
		response = `{"success":true,"data":[{"id":1,"status":"PENDING"}]}`

		records, err := client.CitizenAppointments(context.Background(), deptclient.Target{Code: "HEALTHCARE", BaseURL: server.URL}, "5")
		Expect(err).NotTo(HaveOccurred())
		Expect(records).To(HaveLen(1))
		Expect(last.method).To(Equal(http.MethodGet))
		Expect(last.path).To(Equal("/internal/appointments/citizen"))
		Expect(last.query).To(Equal("citizenId=5"))
		Expect(last.headers.Get(servicejwt.HeaderCitizenID)).To(Equal("5"))
		verifyBearer()
	})

	It("maps non-2xx responses to unavailable", func() {
		status = http.StatusUnauthorized
		response = `{"success":false,"message":"Unauthorized: Invalid service token."}`

		_, err := client.Submit(context.Background(), target, deptclient.Submission{RequestID: "1"})
		Expect(errors.Is(err, deptclient.ErrDepartmentUnavailable)).To(BeTrue())
	})

	It("maps connection failures to unavailable", func() {
		server.Close()
		_, err := client.Submit(context.Background(), target, deptclient.Submission{RequestID: "1"})
		Expect(errors.Is(err, deptclient.ErrDepartmentUnavailable)).To(BeTrue())
	})
})
