package middleware

import (
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("log filtering", func() {
	It("masks credentials and mobile numbers in JSON bodies", func() {
		out := filterSensitiveBody([]byte(`{"email":"a@b.c","password":"hunter22","data":{"mobile":"9876543210","symptoms":"fever"}}`))

		var body map[string]interface{}
		Expect(json.Unmarshal([]byte(out), &body)).To(Succeed())
		Expect(body["email"]).To(Equal("a@b.c"))
		Expect(body["password"]).To(Equal("[FILTERED]"))
		Expect(body["data"]).To(HaveKeyWithValue("mobile", "[FILTERED]"))
		Expect(body["data"]).To(HaveKeyWithValue("symptoms", "fever"))
	})

	It("masks the authorization header", func() {
		h := http.Header{}
		h.Set("Authorization", "Bearer abc")
		h.Set("Accept", "application/json")

		filtered := filterSensitiveHeaders(h)
		Expect(filtered["Authorization"]).To(Equal("[FILTERED]"))
		Expect(filtered["Accept"]).To(Equal("application/json"))
	})
})
