package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/service"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/pricing"
)

type mockLogger struct{}

func (mockLogger) Info(string, ...interface{})  {}
func (mockLogger) Error(string, ...interface{}) {}

type mockStockService struct {
	syncFunc   func(ctx context.Context, company string) (*service.SyncResult, error)
	latestFunc func(ctx context.Context, company string) (*entity.StockSnapshot, error)
}

func (m *mockStockService) Sync(ctx context.Context, company string) (*service.SyncResult, error) {
	return m.syncFunc(ctx, company)
}

func (m *mockStockService) Latest(ctx context.Context, company string) (*entity.StockSnapshot, error) {
	return m.latestFunc(ctx, company)
}

func (m *mockStockService) History(ctx context.Context, company string, limit, offset int) ([]*entity.SyncRun, error) {
	return []*entity.SyncRun{{ID: "run-1", CompanyName: company}}, nil
}

func (m *mockStockService) DefaultCompany() string {
	return "Acme"
}

type mockBillingService struct {
	priceFunc     func(ctx context.Context, company string, req service.LineRequest) (*service.PricedLine, error)
	priceBillFunc func(ctx context.Context, company string, reqs []service.LineRequest) ([]*service.PricedLine, error)
}

func (m *mockBillingService) PriceLine(ctx context.Context, company string, req service.LineRequest) (*service.PricedLine, error) {
	return m.priceFunc(ctx, company, req)
}

func (m *mockBillingService) PriceBill(ctx context.Context, company string, reqs []service.LineRequest) ([]*service.PricedLine, error) {
	if m.priceBillFunc != nil {
		return m.priceBillFunc(ctx, company, reqs)
	}
	lines := make([]*service.PricedLine, 0, len(reqs))
	for _, req := range reqs {
		line, err := m.priceFunc(ctx, company, req)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (m *mockBillingService) Totals(ctx context.Context, company string, lines []pricing.Line) (pricing.Totals, error) {
	return pricing.BillTotals(lines), nil
}

type mockExporter struct{}

func (mockExporter) Render(snapshot *entity.StockSnapshot) ([]byte, error) {
	return []byte("xlsx"), nil
}

func testSnapshot() *entity.StockSnapshot {
	return &entity.StockSnapshot{
		Run:   entity.SyncRun{ID: "run-1", CompanyName: "Acme", Status: entity.SyncStatusCompleted},
		Items: []entity.StockItem{{Name: "Soap", TotalQuantity: decimal.NewFromInt(7)}},
	}
}

func newTestServer(stock *mockStockService, billing *mockBillingService) *Server {
	return NewServer(DefaultServerConfig(), stock, billing, mockExporter{}, mockLogger{})
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	var resp Response
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(&mockStockService{}, &mockBillingService{})

	w, resp := doRequest(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestSyncStock(t *testing.T) {
	tests := []struct {
		name       string
		syncErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"ledger unreachable", &ledger.NetworkError{Endpoint: "http://tally", Err: errors.New("refused")}, http.StatusBadGateway},
		{"malformed report", &ledger.ParseError{Err: errors.New("eof")}, http.StatusBadGateway},
		{"no company", ledger.ErrEmptyCompany, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCompany string
			stock := &mockStockService{
				syncFunc: func(ctx context.Context, company string) (*service.SyncResult, error) {
					gotCompany = company
					if tt.syncErr != nil {
						return nil, tt.syncErr
					}
					return &service.SyncResult{Snapshot: testSnapshot()}, nil
				},
			}
			s := newTestServer(stock, &mockBillingService{})

			w, resp := doRequest(t, s, http.MethodPost, "/api/stock/sync?company=Acme%20Traders", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.syncErr == nil, resp.Success)
			assert.Equal(t, "Acme Traders", gotCompany)
		})
	}
}

func TestGetStock(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s := newTestServer(&mockStockService{
			latestFunc: func(ctx context.Context, company string) (*entity.StockSnapshot, error) {
				return testSnapshot(), nil
			},
		}, &mockBillingService{})

		w, resp := doRequest(t, s, http.MethodGet, "/api/stock", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Contains(t, w.Body.String(), `"itemName":"Soap"`)
	})

	t.Run("never synced", func(t *testing.T) {
		s := newTestServer(&mockStockService{
			latestFunc: func(ctx context.Context, company string) (*entity.StockSnapshot, error) {
				return nil, service.ErrNoSnapshot
			},
		}, &mockBillingService{})

		w, resp := doRequest(t, s, http.MethodGet, "/api/stock", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, resp.Success)
	})
}

func TestListRuns(t *testing.T) {
	s := newTestServer(&mockStockService{}, &mockBillingService{})

	w, resp := doRequest(t, s, http.MethodGet, "/api/stock/runs?company=Acme&limit=500", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestExportStock(t *testing.T) {
	s := newTestServer(&mockStockService{
		latestFunc: func(ctx context.Context, company string) (*entity.StockSnapshot, error) {
			return testSnapshot(), nil
		},
	}, &mockBillingService{})

	w, _ := doRequest(t, s, http.MethodGet, "/api/stock/export", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "stock_Acme_run-1.xlsx")
	assert.Equal(t, "xlsx", w.Body.String())
}

func TestPriceLine(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		priceErr   error
		wantStatus int
	}{
		{"priced", map[string]interface{}{"itemName": "Soap", "quantity": 2}, nil, http.StatusOK},
		{"missing item name", map[string]interface{}{"quantity": 2}, nil, http.StatusBadRequest},
		{"validation error", map[string]interface{}{"itemName": "Soap", "quantity": 0}, &pricing.ValidationError{Field: "quantity", Reason: "must be greater than zero"}, http.StatusUnprocessableEntity},
		{"missing HSN", map[string]interface{}{"itemName": "Rice", "quantity": 1}, service.ErrMissingHSN, http.StatusUnprocessableEntity},
		{"insufficient stock", map[string]interface{}{"itemName": "Soap", "quantity": 99}, service.ErrInsufficientStock, http.StatusConflict},
		{"unknown item", map[string]interface{}{"itemName": "Sugar", "quantity": 1}, service.ErrItemNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			billing := &mockBillingService{
				priceFunc: func(ctx context.Context, company string, req service.LineRequest) (*service.PricedLine, error) {
					if tt.priceErr != nil {
						return nil, tt.priceErr
					}
					line, err := pricing.ComputeLine(pricing.LineInput{ItemName: req.ItemName, Quantity: req.Quantity, MRP: decimal.NewFromInt(10)})
					if err != nil {
						return nil, err
					}
					return &service.PricedLine{Line: line}, nil
				},
			}
			s := newTestServer(&mockStockService{}, billing)

			w, _ := doRequest(t, s, http.MethodPost, "/api/pricing/line", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestBillTotals(t *testing.T) {
	billing := &mockBillingService{
		priceFunc: func(ctx context.Context, company string, req service.LineRequest) (*service.PricedLine, error) {
			line, err := pricing.ComputeLine(pricing.LineInput{ItemName: req.ItemName, Quantity: req.Quantity, MRP: decimal.RequireFromString("10.4")})
			if err != nil {
				return nil, err
			}
			return &service.PricedLine{Line: line}, nil
		},
	}
	s := newTestServer(&mockStockService{}, billing)

	body := map[string]interface{}{
		"company": "Acme",
		"lines": []map[string]interface{}{
			{"itemName": "Soap", "quantity": 1},
			{"itemName": "Oil", "quantity": 2},
		},
	}
	w, resp := doRequest(t, s, http.MethodPost, "/api/bills/totals", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Contains(t, w.Body.String(), `"roundedTotal":"31"`)

	w, _ = doRequest(t, s, http.MethodPost, "/api/bills/totals", map[string]interface{}{"lines": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillTotals_RepeatedItemOversold(t *testing.T) {
	var got []service.LineRequest
	billing := &mockBillingService{
		priceBillFunc: func(ctx context.Context, company string, reqs []service.LineRequest) ([]*service.PricedLine, error) {
			got = reqs
			return nil, fmt.Errorf("line 2: %w", service.ErrInsufficientStock)
		},
	}
	s := newTestServer(&mockStockService{}, billing)

	body := map[string]interface{}{
		"company": "Acme",
		"lines": []map[string]interface{}{
			{"itemName": "Soap", "quantity": 5},
			{"itemName": "Soap", "quantity": 5},
		},
	}
	w, resp := doRequest(t, s, http.MethodPost, "/api/bills/totals", body)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "line 2")
	assert.Len(t, got, 2, "the whole bill is priced in one call")
}

func TestBillTotals_AmountsPrintedToPaise(t *testing.T) {
	billing := &mockBillingService{
		priceFunc: func(ctx context.Context, company string, req service.LineRequest) (*service.PricedLine, error) {
			line, err := pricing.ComputeLine(pricing.LineInput{ItemName: req.ItemName, Quantity: req.Quantity, MRP: decimal.RequireFromString("33.33"), GSTRate: decimal.NewFromInt(18)})
			if err != nil {
				return nil, err
			}
			return &service.PricedLine{Line: line}, nil
		},
	}
	s := newTestServer(&mockStockService{}, billing)

	body := map[string]interface{}{
		"lines": []map[string]interface{}{{"itemName": "Soap", "quantity": 3}},
	}
	w, _ := doRequest(t, s, http.MethodPost, "/api/bills/totals", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rawTotal":"99.99"`)
	assert.Contains(t, w.Body.String(), `"unitExclusive":"28.25"`)
	assert.NotContains(t, w.Body.String(), "0000000")
}
