package meili

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meilikit/src/pkg/consts"
)

func TestHTTPClientOptions(t *testing.T) {
	own := &http.Client{Timeout: 42 * time.Second}

	tests := []struct {
		name        string
		opts        []Option
		wantSame    bool
		wantTimeout time.Duration
	}{
		{
			name:        "default",
			wantTimeout: consts.DefaultTimeoutSeconds * time.Second,
		},
		{
			name:        "timeout only",
			opts:        []Option{WithTimeout(time.Second)},
			wantTimeout: time.Second,
		},
		{
			name:        "http client then timeout",
			opts:        []Option{WithHTTPClient(own), WithTimeout(time.Second)},
			wantSame:    true,
			wantTimeout: 42 * time.Second,
		},
		{
			name:        "timeout then http client",
			opts:        []Option{WithTimeout(time.Second), WithHTTPClient(own)},
			wantSame:    true,
			wantTimeout: 42 * time.Second,
		},
		{
			name:        "nil http client keeps default",
			opts:        []Option{WithHTTPClient(nil), WithTimeout(time.Second)},
			wantTimeout: time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("http://h", "k", tt.opts...)

			if tt.wantSame {
				assert.Same(t, own, c.httpClient)
			} else {
				assert.NotSame(t, own, c.httpClient)
			}
			assert.Equal(t, tt.wantTimeout, c.httpClient.Timeout)
			assert.Equal(t, 42*time.Second, own.Timeout)
		})
	}
}
