package catalog_test

import (
	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/catalog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var appointmentForm = []catalog.FormField{
	{Name: "doctorType", Label: "Doctor", Type: catalog.FieldSelect, Options: []string{"general", "dentist"}},
	{Name: "preferredDate", Label: "Date", Type: catalog.FieldDate, Required: true},
	{Name: "symptoms", Label: "Symptoms", Type: catalog.FieldTextarea, Required: true},
	{Name: "age", Label: "Age", Type: catalog.FieldNumber},
	{Name: "contact", Label: "Email", Type: catalog.FieldEmail},
}

var _ = Describe("ValidateSchema", func() {
	It("accepts a well formed form", func() {
		Expect(catalog.ValidateSchema(appointmentForm)).To(Succeed())
	})

	It("accepts an empty form", func() {
		Expect(catalog.ValidateSchema(nil)).To(Succeed())
	})

	It("treats a missing type as text", func() {
		Expect(catalog.ValidateSchema([]catalog.FormField{{Name: "note", Label: "Note"}})).To(Succeed())
	})

	DescribeTable("rejects malformed fields",
		func(fields []catalog.FormField, message string) {
			err := catalog.ValidateSchema(fields)
			Expect(err).To(HaveOccurred())
			Expect(err).To(MatchError(internal.NewValidationErrors(nil)))
			Expect(err.Error()).To(Equal(message))
		},
		Entry("missing name", []catalog.FormField{{Label: "x"}}, "formSchema[0].name is required"),
		Entry("missing label", []catalog.FormField{{Name: "x"}}, "formSchema[0].label is required"),
		Entry("duplicate", []catalog.FormField{{Name: "x", Label: "a"}, {Name: "x", Label: "b"}}, `duplicate form field "x"`),
		Entry("duplicate after trimming", []catalog.FormField{{Name: "symptoms", Label: "a"}, {Name: " symptoms ", Label: "b"}}, `duplicate form field "symptoms"`),
		Entry("unknown type", []catalog.FormField{{Name: "x", Label: "a", Type: "color"}}, `unsupported field type "color"`),
		Entry("select without options", []catalog.FormField{{Name: "x", Label: "a", Type: catalog.FieldSelect}}, `select field "x" needs options`),
	)
})

var _ = Describe("ValidatePayload", func() {
	It("accepts a complete payload", func() {
		err := catalog.ValidatePayload(appointmentForm, map[string]interface{}{
			"doctorType":    "dentist",
			"preferredDate": "2026-01-10",
			"symptoms":      "toothache",
			"age":           float64(31),
			"contact":       "citizen@nexus.gov",
			"unlisted":      "kept",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("reports missing required fields", func() {
		err := catalog.ValidatePayload(appointmentForm, map[string]interface{}{"symptoms": "  "})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(Equal("preferredDate is required"))
	})

	DescribeTable("rejects values of the wrong shape",
		func(key string, value interface{}) {
			payload := map[string]interface{}{"preferredDate": "2026-01-10", "symptoms": "fever", key: value}
			Expect(catalog.ValidatePayload(appointmentForm, payload)).NotTo(Succeed())
		},
		Entry("option outside select", "doctorType", "surgeon"),
		Entry("bad date", "preferredDate", "tomorrow"),
		Entry("text in number", "age", "thirty"),
		Entry("bad email", "contact", "nope"),
	)
})
