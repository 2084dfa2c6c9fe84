package fleet

import "testing"

func TestInferMIME(t *testing.T) {
	cases := []struct {
		name, declaredType, declaredMIME, want string
	}{
		{"doc.pdf", "", "", "application/pdf"},
		{"photo.jpg", "", "", "image/jpeg"},
		{"photo.JPEG", "", "", "image/jpeg"},
		{"scan.png", "", "", "image/png"},
		{"mystery.dat", "", "", "application/pdf"},
		{"noextension", "", "", "application/pdf"},
		{"photo.png", "image/jpeg", "", "image/jpeg"},
		{"photo.png", "", "image/jpeg", "image/jpeg"},
		{"photo.png", "image/jpeg", "image/png", "image/jpeg"},
	}
	for _, tc := range cases {
		got := InferMIME(tc.name, tc.declaredType, tc.declaredMIME)
		if got != tc.want {
			t.Errorf("InferMIME(%q, %q, %q) = %q, want %q",
				tc.name, tc.declaredType, tc.declaredMIME, got, tc.want)
		}
	}
}

func TestEnsureExtension(t *testing.T) {
	cases := []struct {
		name, mime, want string
	}{
		{"license", "image/jpeg", "license.jpg"},
		{"license", "image/png", "license.png"},
		{"license", "application/pdf", "license.pdf"},
		{"license", "application/unknown", "license.pdf"},
		{"license.jpg", "image/png", "license.jpg"},
	}
	for _, tc := range cases {
		if got := EnsureExtension(tc.name, tc.mime); got != tc.want {
			t.Errorf("EnsureExtension(%q, %q) = %q, want %q", tc.name, tc.mime, got, tc.want)
		}
	}
}
