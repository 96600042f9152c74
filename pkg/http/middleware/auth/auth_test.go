package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBearerMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{name: "matching token", token: "abc", header: "Bearer abc", want: http.StatusNoContent},
		{name: "wrong token", token: "abc", header: "Bearer abd", want: http.StatusUnauthorized},
		{name: "missing header", token: "abc", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", token: "abc", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "disabled", token: "", header: "", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			NewBearerMiddleware(tt.token)(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
			}
		})
	}
}
