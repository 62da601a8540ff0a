package transport_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/frahmantamala/nexus/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTransport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Suite")
}

var _ = Describe("BaseHandler.DecodeJSON", func() {
	var h *transport.BaseHandler

	BeforeEach(func() {
		h = transport.NewBaseHandler(logger.Discard())
	})

	decode := func(body string) (map[string]interface{}, error) {
		req := httptest.NewRequest(http.MethodPost, "/api/citizen/requests", strings.NewReader(body))
		var out map[string]interface{}
		err := h.DecodeJSON(req, &out)
		return out, err
	}

	It("decodes a normal body", func() {
		out, err := decode(`{"serviceId":1,"payload":{"symptoms":"fever"}}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveKeyWithValue("serviceId", 1.0))
	})

	It("treats an empty body as no input", func() {
		out, err := decode("")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeNil())
	})

	It("rejects malformed JSON with a 400", func() {
		_, err := decode(`{"serviceId":`)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
	})

	It("refuses bodies over the limit with a 413", func() {
		big := `{"symptoms":"` + strings.Repeat("a", transport.MaxBodyBytes) + `"}`
		_, err := decode(big)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodePayloadTooLarge))
		Expect(appErr.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))

		w := httptest.NewRecorder()
		h.HandleServiceError(w, err, "")
		Expect(w.Code).To(Equal(http.StatusRequestEntityTooLarge))
		var env transport.Envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		Expect(env.Success).To(BeFalse())
		Expect(env.Message).To(Equal("Request body too large"))
	})
})
