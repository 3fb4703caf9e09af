package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/entity"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/event"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
)

func godownTree() ledger.RawReportTree {
	return ledger.RawReportTree{
		Names: []string{"Soap", "Oil"},
		InfoBlocks: []ledger.InfoBlock{
			{IsHeader: true, Quantity: decimal.NewFromInt(7), Unit: "pcs"},
			{Quantity: decimal.NewFromInt(5)},
			{Quantity: decimal.NewFromInt(2)},
			{IsHeader: true, Quantity: decimal.NewFromInt(3), Unit: "pcs"},
			{Quantity: decimal.NewFromInt(3)},
		},
		GodownLabels: []string{"Main Location", "Back Store", "Main Location"},
	}
}

func priceTree() ledger.RawReportTree {
	return ledger.RawReportTree{
		Names: []string{"Soap"},
		InfoBlocks: []ledger.InfoBlock{
			{IsHeader: true, HSN: "3401", GSTPercent: decimal.NewFromInt(18), MRP: decimal.NewFromInt(50)},
		},
	}
}

type syncFixture struct {
	gateway   *mockGateway
	runs      *mockRunRepo
	stock     *mockStockRepo
	cache     *mockCache
	publisher *mockPublisher
	svc       StockSyncService
}

func newSyncFixture(fetch func(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error)) *syncFixture {
	f := &syncFixture{
		gateway:   &mockGateway{fetchFunc: fetch},
		runs:      &mockRunRepo{},
		stock:     newMockStockRepo(),
		cache:     newMockCache(),
		publisher: &mockPublisher{},
	}
	f.svc = NewStockSyncService(f.gateway, f.runs, f.stock, mockTxManager{}, f.cache, f.publisher, "Acme", mockLogger{})
	return f
}

func fetchOK(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error) {
	if kind == ledger.ReportGodownList {
		return godownTree(), nil
	}
	return priceTree(), nil
}

func TestStockSyncService_Sync(t *testing.T) {
	f := newSyncFixture(fetchOK)

	result, err := f.svc.Sync(context.Background(), "")
	require.NoError(t, err)

	snapshot := result.Snapshot
	assert.Equal(t, "Acme", snapshot.Run.CompanyName)
	assert.Equal(t, entity.SyncStatusCompleted, snapshot.Run.Status)
	require.Len(t, snapshot.Items, 2)

	soap := snapshot.Items[0]
	assert.Equal(t, "Soap", soap.Name)
	assert.True(t, soap.Priced)
	assert.Equal(t, "3401", soap.HSNCode)
	assert.True(t, soap.TotalQuantity.Equal(decimal.NewFromInt(7)))
	require.Len(t, soap.Godowns, 2)
	assert.Equal(t, "Back Store", soap.Godowns[1].GodownName)

	oil := snapshot.Items[1]
	assert.False(t, oil.Priced)
	assert.True(t, oil.MRP.IsZero())

	assert.Equal(t, snapshot.Items, f.stock.items["run-1"])
	cached, ok := f.cache.Get("Acme")
	require.True(t, ok)
	assert.Same(t, snapshot, cached)
	assert.Equal(t, []event.Type{event.TypeStockSynced}, f.publisher.types())
	assert.Equal(t, "run-1", f.publisher.events[0].GetPayloadString(event.KeyRunID))
}

func TestStockSyncService_SyncFetchFailure(t *testing.T) {
	netErr := &ledger.NetworkError{Endpoint: "http://tally", StatusCode: 503, Attempts: 2}
	f := newSyncFixture(func(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error) {
		if kind == ledger.ReportPriceList {
			return ledger.RawReportTree{}, netErr
		}
		return godownTree(), nil
	})

	result, err := f.svc.Sync(context.Background(), "Acme")

	assert.Nil(t, result)
	assert.True(t, ledger.IsNetworkError(err))
	assert.Empty(t, f.stock.items)
	_, cached := f.cache.Get("Acme")
	assert.False(t, cached)

	require.Len(t, f.runs.finished, 1)
	assert.Equal(t, entity.SyncStatusFailed, f.runs.finished[0].Status)
	assert.NotEmpty(t, f.runs.finished[0].ErrorMessage)
	assert.Equal(t, []event.Type{event.TypeStockSyncFailed}, f.publisher.types())
}

func TestStockSyncService_SyncCanceledStillClosesRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newSyncFixture(func(fctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error) {
		cancel()
		return ledger.RawReportTree{}, &ledger.NetworkError{Endpoint: "http://tally", Attempts: 1, Err: context.Canceled}
	})

	_, err := f.svc.Sync(ctx, "Acme")
	require.Error(t, err)

	require.Len(t, f.runs.finished, 1)
	assert.Equal(t, entity.SyncStatusFailed, f.runs.finished[0].Status)
	assert.Contains(t, f.runs.finished[0].ErrorMessage, "canceled")
	assert.Equal(t, []event.Type{event.TypeStockSyncFailed}, f.publisher.types())
}

func TestStockSyncService_FetchesReportsConcurrently(t *testing.T) {
	var entered sync.WaitGroup
	entered.Add(2)
	bothEntered := make(chan struct{})
	go func() {
		entered.Wait()
		close(bothEntered)
	}()

	f := newSyncFixture(func(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error) {
		entered.Done()
		select {
		case <-bothEntered:
		case <-time.After(2 * time.Second):
			return ledger.RawReportTree{}, errors.New("reports were fetched one after the other")
		}
		return fetchOK(ctx, kind, company)
	})

	result, err := f.svc.Sync(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Len(t, result.Snapshot.Items, 2)
}

func TestStockSyncService_FetchFailureCancelsOtherFetch(t *testing.T) {
	netErr := &ledger.NetworkError{Endpoint: "http://tally", StatusCode: 500, Attempts: 2}
	godownCanceled := make(chan bool, 1)

	f := newSyncFixture(func(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error) {
		if kind == ledger.ReportPriceList {
			return ledger.RawReportTree{}, netErr
		}
		select {
		case <-ctx.Done():
			godownCanceled <- true
			return ledger.RawReportTree{}, ctx.Err()
		case <-time.After(2 * time.Second):
			godownCanceled <- false
			return godownTree(), nil
		}
	})

	_, err := f.svc.Sync(context.Background(), "Acme")

	assert.ErrorIs(t, err, netErr)
	assert.True(t, <-godownCanceled)
	assert.Empty(t, f.stock.items)
}

func TestStockSyncService_SyncPersistFailure(t *testing.T) {
	f := newSyncFixture(fetchOK)
	f.runs.finishErr = errors.New("disk full")
	f.cache.Set("Acme", &entity.StockSnapshot{Run: entity.SyncRun{ID: "run-0"}})

	_, err := f.svc.Sync(context.Background(), "Acme")

	require.Error(t, err)
	_, cached := f.cache.Get("Acme")
	assert.False(t, cached)
	assert.Equal(t, []event.Type{event.TypeStockSyncFailed}, f.publisher.types())
}

func TestStockSyncService_DuplicateNamesBecomeWarnings(t *testing.T) {
	f := newSyncFixture(func(ctx context.Context, kind ledger.ReportKind, company string) (ledger.RawReportTree, error) {
		if kind == ledger.ReportGodownList {
			return godownTree(), nil
		}
		tree := priceTree()
		tree.Names = append(tree.Names, "Soap")
		tree.InfoBlocks = append(tree.InfoBlocks, ledger.InfoBlock{IsHeader: true, MRP: decimal.NewFromInt(99)})
		return tree, nil
	})

	result, err := f.svc.Sync(context.Background(), "Acme")
	require.NoError(t, err)

	assert.True(t, result.Snapshot.Items[0].MRP.Equal(decimal.NewFromInt(50)), "first price record wins")

	var found bool
	for _, w := range result.Snapshot.Warnings {
		if w.Source == entity.WarningSourceMerge && w.ItemName == "Soap" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStockSyncService_Latest(t *testing.T) {
	t.Run("no company configured", func(t *testing.T) {
		svc := NewStockSyncService(nil, nil, nil, nil, newMockCache(), nil, "", mockLogger{})
		_, err := svc.Latest(context.Background(), "  ")
		assert.ErrorIs(t, err, ledger.ErrEmptyCompany)
	})

	t.Run("never synced", func(t *testing.T) {
		f := newSyncFixture(fetchOK)
		_, err := f.svc.Latest(context.Background(), "Acme")
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})

	t.Run("loads from repository and caches", func(t *testing.T) {
		f := newSyncFixture(fetchOK)
		f.runs.latest = &entity.SyncRun{ID: "run-9", CompanyName: "Acme", Status: entity.SyncStatusCompleted}
		f.stock.items["run-9"] = []entity.StockItem{{Name: "Soap"}}

		snapshot, err := f.svc.Latest(context.Background(), "Acme")
		require.NoError(t, err)
		assert.Equal(t, "run-9", snapshot.Run.ID)
		assert.Len(t, snapshot.Items, 1)

		_, cached := f.cache.Get("Acme")
		assert.True(t, cached)
	})
}
