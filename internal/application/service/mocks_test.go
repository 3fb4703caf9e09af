package service

import (
	"context"
	"sync"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/event"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

type mockLogger struct{}

func (mockLogger) Info(string, ...interface{})  {}
func (mockLogger) Error(string, ...interface{}) {}

type mockGateway struct {
	fetchFunc func(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error)
}

func (m *mockGateway) FetchReport(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error) {
	return m.fetchFunc(ctx, kind, company)
}

type mockRunRepo struct {
	mu        sync.Mutex
	created   []*entity.SyncRun
	finished  []entity.SyncRun
	latest    *entity.SyncRun
	finishErr error
}

func (m *mockRunRepo) Create(ctx context.Context, run *entity.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = "run-1"
	run.Status = entity.SyncStatusRunning
	m.created = append(m.created, run)
	return nil
}

func (m *mockRunRepo) Finish(ctx context.Context, run *entity.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.finishErr != nil && run.Status == entity.SyncStatusCompleted {
		return m.finishErr
	}
	m.finished = append(m.finished, *run)
	return nil
}

func (m *mockRunRepo) GetByID(ctx context.Context, id string) (*entity.SyncRun, error) {
	return nil, nil
}

func (m *mockRunRepo) GetLatest(ctx context.Context, company string) (*entity.SyncRun, error) {
	return m.latest, nil
}

func (m *mockRunRepo) List(ctx context.Context, company string, limit, offset int) ([]*entity.SyncRun, error) {
	return m.created, nil
}

type mockStockRepo struct {
	items    map[string][]entity.StockItem
	warnings map[string][]entity.SyncWarning
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{
		items:    make(map[string][]entity.StockItem),
		warnings: make(map[string][]entity.SyncWarning),
	}
}

func (m *mockStockRepo) SaveItems(ctx context.Context, runID string, items []entity.StockItem) error {
	m.items[runID] = items
	return nil
}

func (m *mockStockRepo) GetItems(ctx context.Context, runID string) ([]entity.StockItem, error) {
	return m.items[runID], nil
}

func (m *mockStockRepo) SaveWarnings(ctx context.Context, runID string, warnings []entity.SyncWarning) error {
	m.warnings[runID] = warnings
	return nil
}

func (m *mockStockRepo) GetWarnings(ctx context.Context, runID string) ([]entity.SyncWarning, error) {
	return m.warnings[runID], nil
}

type mockTxManager struct{}

func (mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockCache struct {
	entries map[string]*entity.StockSnapshot
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*entity.StockSnapshot)}
}

func (m *mockCache) Get(company string) (*entity.StockSnapshot, bool) {
	s, ok := m.entries[company]
	return s, ok
}

func (m *mockCache) Set(company string, snapshot *entity.StockSnapshot) {
	m.entries[company] = snapshot
}

func (m *mockCache) Invalidate(company string) {
	delete(m.entries, company)
}

type mockPublisher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *mockPublisher) DispatchAsync(ctx context.Context, evt *event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
}

func (m *mockPublisher) types() []event.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]event.Type, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}

type mockStockService struct {
	latestFunc func(ctx context.Context, company string) (*entity.StockSnapshot, error)
}

func (m *mockStockService) Sync(ctx context.Context, company string) (*SyncResult, error) {
	return nil, nil
}

func (m *mockStockService) Latest(ctx context.Context, company string) (*entity.StockSnapshot, error) {
	return m.latestFunc(ctx, company)
}

func (m *mockStockService) History(ctx context.Context, company string, limit, offset int) ([]*entity.SyncRun, error) {
	return nil, nil
}

func (m *mockStockService) DefaultCompany() string {
	return "Acme"
}
