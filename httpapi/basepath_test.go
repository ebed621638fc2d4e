package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"socfolio", "/socfolio"},
		{"/socfolio", "/socfolio"},
		{"/socfolio/", "/socfolio"},
		{" /a/b/ ", "/a/b"},
	}
	for _, tc := range cases {
		if got := normalizeBasePath(tc.in); got != tc.want {
			t.Fatalf("normalizeBasePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMountBasePath(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.URL.Path))
	})
	handler := mountBasePath("/socfolio", inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/socfolio/healthz", nil))
	if rec.Body.String() != "/healthz" {
		t.Fatalf("expected stripped path, got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/socfolio", nil))
	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != "/socfolio/" {
		t.Fatalf("expected redirect to slash form, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 outside the prefix, got %d", rec.Code)
	}

	if mountBasePath("", inner) == nil {
		t.Fatalf("expected handler without prefix")
	}
}
