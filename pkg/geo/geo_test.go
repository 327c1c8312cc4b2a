package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "Pune, Maharashtra, India", Format(Geo{City: "Pune", Region: "Maharashtra", Country: "India"}))
	assert.Equal(t, "India", Format(Geo{City: " ", Country: "India"}))
	assert.Equal(t, "", Format(Geo{}))
}

func TestIPAPIResolver_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/49.36.1.1", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","country":"India","regionName":"Punjab","city":"Ludhiana","timezone":"Asia/Kolkata"}`))
	}))
	defer srv.Close()

	g, err := IPAPIResolver{BaseURL: srv.URL}.Lookup(context.Background(), "49.36.1.1")
	require.NoError(t, err)
	assert.Equal(t, Geo{City: "Ludhiana", Region: "Punjab", Country: "India", Timezone: "Asia/Kolkata"}, g)
}

func TestIPAPIResolver_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	_, err := IPAPIResolver{BaseURL: srv.URL}.Lookup(context.Background(), "49.36.1.1")
	assert.ErrorContains(t, err, "reserved range")
}

func TestIPAPIResolver_SkipsPrivateAddresses(t *testing.T) {
	r := IPAPIResolver{BaseURL: "http://127.0.0.1:1"}
	for _, ip := range []string{"127.0.0.1", "10.1.2.3", "192.168.0.10", "not-an-ip"} {
		_, err := r.Lookup(context.Background(), ip)
		assert.ErrorIs(t, err, ErrUnroutableIP, ip)
	}
	_, err := r.Lookup(context.Background(), "")
	assert.Error(t, err)
}
