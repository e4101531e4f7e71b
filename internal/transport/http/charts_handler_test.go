package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/services"
	api "stockdash/pkg/contracts/api/v1"
	"stockdash/pkg/contracts/domain"
)

func TestChartsHandler_GetCharts(t *testing.T) {
	svc := &mockDashboardService{
		chartsFunc: func(ctx context.Context, req api.ChartRequest) (*domain.AnalysisCharts, error) {
			assert.Equal(t, "returns_comparison", req.Kind)
			assert.Equal(t, []string{"Kaggle_AAPL"}, req.Tickers)
			return &domain.AnalysisCharts{
				Returns: &domain.ReturnsChart{
					Series: []domain.ReturnsSeries{{Source: "Kaggle_AAPL"}},
				},
			}, nil
		},
	}
	handler := NewChartsHandler(svc, testLogger())

	req := httptest.NewRequest("GET", "/returns_comparison?tickers=Kaggle_AAPL", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "success", response["status"])

	data := response["data"].(map[string]interface{})
	assert.Contains(t, data, "returns")
}

func TestChartsHandler_UnknownKind(t *testing.T) {
	svc := &mockDashboardService{
		chartsFunc: func(ctx context.Context, req api.ChartRequest) (*domain.AnalysisCharts, error) {
			return nil, fmt.Errorf("%w: %q", services.ErrUnknownAnalysisKind, req.Kind)
		},
	}
	handler := NewChartsHandler(svc, testLogger())

	req := httptest.NewRequest("GET", "/palm_reading", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartsHandler_DatasetNotLoaded(t *testing.T) {
	svc := &mockDashboardService{
		chartsFunc: func(ctx context.Context, req api.ChartRequest) (*domain.AnalysisCharts, error) {
			return nil, services.ErrDatasetNotLoaded
		},
	}
	handler := NewChartsHandler(svc, testLogger())

	req := httptest.NewRequest("GET", "/price_trends", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
