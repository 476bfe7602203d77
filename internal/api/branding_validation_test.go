package api

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestBrandingColorValidation(t *testing.T) {
	v := validator.New()

	strPtr := func(s string) *string { return &s }

	cases := []struct {
		name string
		req  updateBrandingRequest
		ok   bool
	}{
		{"full_hex", updateBrandingRequest{PrimaryColor: "#1f2937", SecondaryColor: "#f59e0b"}, true},
		{"short_hex", updateBrandingRequest{PrimaryColor: "#fff", SecondaryColor: "#0af"}, true},
		{"with_logo", updateBrandingRequest{PrimaryColor: "#1f2937", SecondaryColor: "#f59e0b", LogoURL: strPtr("https://cdn.example.com/logo.png")}, true},
		{"missing_hash", updateBrandingRequest{PrimaryColor: "1f2937", SecondaryColor: "#f59e0b"}, false},
		{"not_hex", updateBrandingRequest{PrimaryColor: "#1f2937", SecondaryColor: "#gggggg"}, false},
		{"empty_primary", updateBrandingRequest{PrimaryColor: "", SecondaryColor: "#f59e0b"}, false},
		{"css_name", updateBrandingRequest{PrimaryColor: "tomato", SecondaryColor: "#f59e0b"}, false},
		{"bad_logo_url", updateBrandingRequest{PrimaryColor: "#1f2937", SecondaryColor: "#f59e0b", LogoURL: strPtr("not a url")}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(&tc.req)
			if tc.ok && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("%+v passed validation, want rejection", tc.req)
			}
		})
	}
}
