package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenERProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/BRL":
			w.Write([]byte(`{"result":"success","base_code":"BRL","rates":{"BRL":1,"USD":0.2}}`))
		case "/XXX":
			w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	p := NewOpenERProvider(srv.URL+"/", srv.Client())

	rates, err := p.GetRates(context.Background(), "brl")
	require.NoError(t, err)
	assert.Equal(t, 0.2, rates["USD"])

	_, err = p.GetRates(context.Background(), "XXX")
	assert.ErrorContains(t, err, "unsupported-code")

	_, err = p.GetRates(context.Background(), "EUR")
	assert.ErrorContains(t, err, "status: 500")
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider()

	rates, err := p.GetRates(context.Background(), "BRL")
	require.NoError(t, err)
	assert.Equal(t, 1.0, rates["BRL"])
	assert.InDelta(t, 0.2, rates["USD"], 1e-9)

	_, err = p.GetRates(context.Background(), "ZZZ")
	assert.Error(t, err)
}
