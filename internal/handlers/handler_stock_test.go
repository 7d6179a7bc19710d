package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/skpatro/tallystock/internal/apperrors"
	"github.com/skpatro/tallystock/internal/core/domain"
	portssvc "github.com/skpatro/tallystock/internal/core/ports/services"
	"github.com/skpatro/tallystock/internal/dto"
	"github.com/skpatro/tallystock/internal/handlers"
	"github.com/skpatro/tallystock/internal/platform/config"
	"github.com/skpatro/tallystock/internal/store"
)

// --- Mock DatasetSvc ---
type MockDatasetService struct {
	mock.Mock
}

func (m *MockDatasetService) Company() *domain.Company {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.Company)
}
func (m *MockDatasetService) Vouchers() []domain.Voucher {
	args := m.Called()
	return args.Get(0).([]domain.Voucher)
}
func (m *MockDatasetService) Voucher(key string) (domain.Voucher, error) {
	args := m.Called(key)
	return args.Get(0).(domain.Voucher), args.Error(1)
}
func (m *MockDatasetService) Ledgers() []domain.Ledger {
	args := m.Called()
	return args.Get(0).([]domain.Ledger)
}
func (m *MockDatasetService) Ledger(name string) (domain.Ledger, error) {
	args := m.Called(name)
	return args.Get(0).(domain.Ledger), args.Error(1)
}
func (m *MockDatasetService) StockItems() []domain.StockItem {
	args := m.Called()
	return args.Get(0).([]domain.StockItem)
}
func (m *MockDatasetService) StockItem(name string) (domain.StockItem, error) {
	args := m.Called(name)
	return args.Get(0).(domain.StockItem), args.Error(1)
}
func (m *MockDatasetService) Units() []domain.Unit {
	args := m.Called()
	return args.Get(0).([]domain.Unit)
}
func (m *MockDatasetService) SourceFiles() []string {
	args := m.Called()
	return args.Get(0).([]string)
}
func (m *MockDatasetService) Warnings() []domain.Warning {
	args := m.Called()
	return args.Get(0).([]domain.Warning)
}
func (m *MockDatasetService) Clear() {
	m.Called()
}

// --- Mock StockLedgerSvc ---
type MockStockLedgerService struct {
	mock.Mock
}

func (m *MockStockLedgerService) ItemPeriod(name string, start, end time.Time) (domain.StockPeriod, error) {
	args := m.Called(name, start, end)
	return args.Get(0).(domain.StockPeriod), args.Error(1)
}
func (m *MockStockLedgerService) ItemInventories() []domain.ItemInventory {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.ItemInventory)
}
func (m *MockStockLedgerService) MonthlyHistory(name string, months int) ([]domain.StockPeriod, error) {
	args := m.Called(name, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockPeriod), args.Error(1)
}
func (m *MockStockLedgerService) AnnualSummary(name string, fyYear int) ([]domain.StockPeriod, error) {
	args := m.Called(name, fyYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockPeriod), args.Error(1)
}
func (m *MockStockLedgerService) ValidatePeriods(itemName string, periods []domain.StockPeriod) []domain.Warning {
	args := m.Called(itemName, periods)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Warning)
}

// --- Mock ImportSvc ---
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ImportFile(ctx context.Context, fileName string, raw []byte, modTime time.Time) (domain.ImportLog, error) {
	args := m.Called(ctx, fileName, raw, modTime)
	return args.Get(0).(domain.ImportLog), args.Error(1)
}
func (m *MockImportService) ImportPaths(ctx context.Context, paths []string) []domain.ImportLog {
	args := m.Called(ctx, paths)
	return args.Get(0).([]domain.ImportLog)
}
func (m *MockImportService) RecentLogs(ctx context.Context, limit int) ([]domain.ImportLog, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImportLog), args.Error(1)
}

// --- Mock OrderSvc ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) OrderItems(monthsCover, lookback int, group string) ([]domain.OrderItem, error) {
	args := m.Called(monthsCover, lookback, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}
func (m *MockOrderService) ItemHistory(name string, months int) ([]domain.StockPeriod, error) {
	args := m.Called(name, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StockPeriod), args.Error(1)
}
func (m *MockOrderService) ApplyPackageFactors(entries []portssvc.PackageFactorEntry) ([]portssvc.PackageFactorResult, error) {
	args := m.Called(entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portssvc.PackageFactorResult), args.Error(1)
}

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	dataset *MockDatasetService
	ledger  *MockStockLedgerService
	imports *MockImportService
	orders  *MockOrderService
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(dto.RegisterCustomValidators())

	s.dataset = new(MockDatasetService)
	s.ledger = new(MockStockLedgerService)
	s.imports = new(MockImportService)
	s.orders = new(MockOrderService)

	cfg := &config.Config{
		RateLimit:  "1000-M",
		TallyInbox: s.T().TempDir(),
	}
	dataDir := s.T().TempDir()
	overrides := store.NewOverrideStore(filepath.Join(dataDir, "overrides.json"), slog.Default())
	rates := store.NewRateStore(filepath.Join(dataDir, "rates.json"), filepath.Join(dataDir, "rate_log.json"), slog.Default())

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, cfg, &portssvc.ServiceContainer{
		Import:      s.imports,
		Dataset:     s.dataset,
		StockLedger: s.ledger,
		Order:       s.orders,
	}, overrides, rates)
}

func (s *HandlerTestSuite) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerTestSuite) TestGetItemPeriod() {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	period := domain.StockPeriod{
		Start: start, End: end,
		Opening: 10, Inward: 25, Outward: 15, Closing: 20,
	}
	s.ledger.On("ItemPeriod", "WIDGET", start, end).Return(period, nil)
	s.ledger.On("ValidatePeriods", "WIDGET", []domain.StockPeriod{period}).Return(nil)

	w := s.get("/api/v1/items/WIDGET/inventory?from=20240401&to=20240630")

	s.Equal(http.StatusOK, w.Code)
	var body struct {
		Period domain.StockPeriod `json:"period"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(20.0, body.Period.Closing)
	s.ledger.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestListItemInventoriesUsesLedgerService() {
	inventories := []domain.ItemInventory{
		{Name: "Bolt 6MM", Period: domain.StockPeriod{Opening: 5, Inward: 10, Outward: 3, Closing: 12}},
		{Name: "Widget 10MM", Period: domain.StockPeriod{Opening: 1, Closing: 1}},
	}
	s.ledger.On("ItemInventories").Return(inventories)

	w := s.get("/api/v1/items/inventory")

	s.Equal(http.StatusOK, w.Code)
	var body []domain.ItemInventory
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Require().Len(body, 2)
	s.Equal("Bolt 6MM", body[0].Name)
	s.Equal(12.0, body[0].Period.Closing)
	s.ledger.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestGetItemPeriodRejectsBadDate() {
	w := s.get("/api/v1/items/WIDGET/inventory?from=2024-04-01&to=20240630")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetItemPeriodRejectsInvertedRange() {
	w := s.get("/api/v1/items/WIDGET/inventory?from=20240630&to=20240401")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetItemNotFound() {
	s.dataset.On("StockItem", "MISSING").Return(domain.StockItem{}, fmt.Errorf("stock item: %w", apperrors.ErrNotFound))

	w := s.get("/api/v1/items/MISSING")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestListVouchersFiltersByType() {
	vouchers := []domain.Voucher{
		{Type: domain.Sales, Number: "S-1", Date: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)},
		{Type: domain.Purchase, Number: "P-1", Date: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)},
	}
	s.dataset.On("Vouchers").Return(vouchers)

	w := s.get("/api/v1/vouchers?type=Sales")

	s.Equal(http.StatusOK, w.Code)
	var body struct {
		Total    int                          `json:"total"`
		Vouchers []dto.VoucherSummaryResponse `json:"vouchers"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(1, body.Total)
	s.Require().Len(body.Vouchers, 1)
	s.Equal("S-1", body.Vouchers[0].Number)
}

func (s *HandlerTestSuite) TestPutAndGetOverride() {
	payload := []byte(`{"pkgFactor": 24, "baseUnit": "PCS"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/overrides/WIDGET", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusOK, w.Code)
	var saved dto.OverrideResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &saved))
	s.Equal("WIDGET", saved.ItemName)
	s.Require().NotNil(saved.Override.PkgFactor)
	s.Equal(24.0, *saved.Override.PkgFactor)

	w = s.get("/api/v1/overrides/WIDGET")
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestPutOverrideRejectsNegativeFactor() {
	payload := []byte(`{"pkgFactor": -3}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/overrides/WIDGET", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestApplyPackageFactors() {
	entries := []portssvc.PackageFactorEntry{{ItemName: "widget 10mm", PkgFactor: 12}}
	results := []portssvc.PackageFactorResult{{Input: "widget 10mm", MatchedTo: "Widget 10MM", Confidence: "fuzzy", Score: 0.9, Applied: true}}
	s.orders.On("ApplyPackageFactors", entries).Return(results, nil)

	payload, err := json.Marshal(entries)
	s.Require().NoError(err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/order/pkg-factors", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	var body []portssvc.PackageFactorResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Require().Len(body, 1)
	s.True(body[0].Applied)
	s.orders.AssertExpectations(s.T())
}

func (s *HandlerTestSuite) TestHealth() {
	w := s.get("/health")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
