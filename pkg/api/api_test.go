package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fako1024/hx711/pkg/mock"
	"github.com/fako1024/hx711/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()

	s, err := scale.New(mock.NewSource(1500), scale.UnitGrams, 100, 500)
	require.Nil(t, err)

	return newAPI(s)
}

func TestWeight(t *testing.T) {

	api := newTestAPI(t)

	resp, err := api.router.Test(httptest.NewRequest(http.MethodGet, "/weight?samples=5&type=average", nil))
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Weight float64 `json:"weight"`
		Unit   string  `json:"unit"`
	}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 10., body.Weight)
	assert.Equal(t, "g", body.Unit)
}

func TestWeightValidation(t *testing.T) {

	api := newTestAPI(t)

	for _, target := range []string{
		"/weight?type=mode",
		"/weight?samples=0",
	} {
		resp, err := api.router.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.Nil(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestConfigRoundTrip(t *testing.T) {

	api := newTestAPI(t)

	body, err := json.Marshal(map[string]interface{}{
		"unit":           "oz",
		"reference_unit": 200.,
		"offset":         250.,
	})
	require.Nil(t, err)

	req := httptest.NewRequest(http.MethodPost, "/config", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := api.router.Test(req)
	require.Nil(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = api.router.Test(httptest.NewRequest(http.MethodGet, "/config", nil))
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg struct {
		Unit          string  `json:"unit"`
		ReferenceUnit float64 `json:"reference_unit"`
		Offset        float64 `json:"offset"`
	}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, "oz", cfg.Unit)
	assert.Equal(t, 200., cfg.ReferenceUnit)
	assert.Equal(t, 250., cfg.Offset)
}

func TestConfigRejectsZeroReferenceUnit(t *testing.T) {

	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/config", bytes.NewReader([]byte(`{"reference_unit": 0}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := api.router.Test(req)
	require.Nil(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestZero(t *testing.T) {

	api := newTestAPI(t)

	resp, err := api.router.Test(httptest.NewRequest(http.MethodPost, "/zero?samples=3", nil))
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Offset float64 `json:"offset"`
	}
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&body))

	// Constant raw 1500 against the prior offset of 500 zeroes to 1000
	assert.Equal(t, 1000., body.Offset)
}
