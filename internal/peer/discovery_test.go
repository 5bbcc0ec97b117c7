package peer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/isync/pkg/api"
)

func TestDiscovery_Fetch(t *testing.T) {
	tests := []struct {
		handler  http.HandlerFunc
		name     string
		expected []api.PeerInfo
	}{
		{
			name: "valid list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				_, _ = w.Write([]byte(`[{"name":"relay-1","url":"http://10.0.0.1:8080","verified":true}]`))
			},
			expected: []api.PeerInfo{{Name: "relay-1", URL: "http://10.0.0.1:8080", Verified: true}},
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
			expected: []api.PeerInfo{},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			expected: []api.PeerInfo{},
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not":"a list"}`))
			},
			expected: []api.PeerInfo{},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			expected: []api.PeerInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			d := NewDiscovery(srv.URL, 200*time.Millisecond, testLogger())
			require.True(t, d.Enabled())

			got := d.Fetch(context.Background())
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDiscovery_Disabled(t *testing.T) {
	d := NewDiscovery("", 0, testLogger())
	assert.False(t, d.Enabled())
	assert.Empty(t, d.Fetch(context.Background()))

	var nilDiscovery *Discovery
	assert.False(t, nilDiscovery.Enabled())
}

func TestDiscovery_Unreachable(t *testing.T) {
	d := NewDiscovery("http://127.0.0.1:1/peers", time.Second, testLogger())
	assert.Empty(t, d.Fetch(context.Background()))
}
