package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorepath/insight-api/internal/domain"
)

func TestNetworkFromBatchEndpoint(t *testing.T) {
	t.Parallel()

	handler := NewAnalyticsHandler(newFakeExperienceService())

	t.Run("derives network from batch", func(t *testing.T) {
		t.Parallel()
		batch := `[
			{
				"id": "a", "timestamp": "t", "learner": {"id": "l"},
				"context": {"location": {"name": "n"}},
				"experience": {"type": "w", "description": "d", "domains": ["math", "physics"]}
			},
			{
				"id": "b", "timestamp": "t", "learner": {"id": "l"},
				"context": {"location": {"name": "n"}},
				"experience": {"type": "w", "description": "d", "domains": ["physics", "chemistry"]}
			}
		]`
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/network",
			strings.NewReader(batch))
		rec := httptest.NewRecorder()

		handler.NetworkFromBatch(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var network domain.DomainNetwork
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &network))
		assert.Len(t, network.Nodes, 3)
		assert.Len(t, network.Edges, 2)
	})

	t.Run("empty batch yields empty network", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/network",
			strings.NewReader(`[]`))
		rec := httptest.NewRecorder()

		handler.NetworkFromBatch(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"nodes": [], "edges": []}`, rec.Body.String())
	})

	t.Run("undecodable batch is a hard 400", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/network",
			strings.NewReader(`{"not": "an array"}`))
		rec := httptest.NewRecorder()

		handler.NetworkFromBatch(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNetworkFromStoreEndpoint(t *testing.T) {
	t.Parallel()

	svc := newFakeExperienceService()
	svc.records["a"] = domain.Experience{
		ID:   "a",
		Data: domain.ExperienceData{Domains: []string{"math", "cs"}},
	}
	handler := NewAnalyticsHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/network", nil)
	rec := httptest.NewRecorder()

	handler.NetworkFromStore(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var network domain.DomainNetwork
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &network))
	assert.Len(t, network.Nodes, 2)
	assert.Len(t, network.Edges, 1)
}

func TestSimilarityEndpoint(t *testing.T) {
	t.Parallel()

	handler := NewAnalyticsHandler(newFakeExperienceService())

	t.Run("computes similarity", func(t *testing.T) {
		t.Parallel()
		body := `{"set_a": ["math", "physics"], "set_b": ["physics", "cs"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/similarity",
			strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Similarity(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp SimilarityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.InDelta(t, 1.0/3.0, resp.Similarity, 1e-9)
	})

	t.Run("empty sets yield zero", func(t *testing.T) {
		t.Parallel()
		body := `{"set_a": [], "set_b": []}`
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/similarity",
			strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Similarity(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"similarity": 0}`, rec.Body.String())
	})

	t.Run("missing set rejected", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/similarity",
			strings.NewReader(`{"set_a": ["math"]}`))
		rec := httptest.NewRecorder()

		handler.Similarity(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("undecodable set is a hard 400", func(t *testing.T) {
		t.Parallel()
		body := `{"set_a": "not a list", "set_b": ["math"]}`
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/similarity",
			strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.Similarity(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
