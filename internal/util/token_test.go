package util

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestReadBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc.def", "abc.def", false},
		{"lower case scheme", "bearer abc", "abc", false},
		{"missing header", "", "", true},
		{"no token", "Bearer ", "", true},
		{"wrong scheme", "Basic abc", "", true},
		{"no separator", "Bearer", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			ctx.Request = httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				ctx.Request.Header.Set("Authorization", tt.header)
			}

			got, err := ReadBearerToken(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadBearerToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReadBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
