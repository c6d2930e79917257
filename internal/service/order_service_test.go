package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/piyusu/E-commerse-inventry/internal/datamodels/order"
	"github.com/piyusu/E-commerse-inventry/internal/repository/mysql"
)

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, mysql.NewOrderRepository(db))
}

func TestPlace_HappyPath(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Wireless Earbuds", "ELEC-001", 10000, 5)

	o, err := svc.Place(context.Background(), "alice", []LineRequest{{ProductID: a.ID, Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, int64(20000), o.TotalPaise)
	assert.NotEmpty(t, o.Ref)
	assert.Nil(t, o.FulfilledAt)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, int64(10000), o.Lines[0].PriceAtTimePaise)
	assert.Equal(t, int64(2), o.Lines[0].Quantity)

	assert.Equal(t, int64(3), fetchStock(t, db, a.ID))
}

func TestPlace_TotalAcrossLines(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Mug Set", "HOME-001", 649, 10)
	b := seedProduct(t, db, "Cast Iron Pan", "HOME-002", 2150, 10)

	o, err := svc.Place(context.Background(), "bob", []LineRequest{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3*649+2150), o.TotalPaise)
	assert.Equal(t, int64(7), fetchStock(t, db, a.ID))
	assert.Equal(t, int64(9), fetchStock(t, db, b.ID))
}

func TestPlace_ValidationFailures(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "T-Shirt", "APP-001", 499, 10)

	tests := []struct {
		name     string
		username string
		items    []LineRequest
	}{
		{name: "missing username", username: "", items: []LineRequest{{ProductID: a.ID, Quantity: 1}}},
		{name: "blank username", username: "   ", items: []LineRequest{{ProductID: a.ID, Quantity: 1}}},
		{name: "empty cart", username: "alice", items: nil},
		{name: "zero quantity", username: "alice", items: []LineRequest{{ProductID: a.ID, Quantity: 0}}},
		{name: "negative quantity", username: "alice", items: []LineRequest{{ProductID: a.ID, Quantity: -2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Place(context.Background(), tc.username, tc.items)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}

	assert.Equal(t, int64(0), countOrders(t, db))
	assert.Equal(t, int64(10), fetchStock(t, db, a.ID))
}

func TestPlace_UnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "T-Shirt", "APP-001", 499, 10)

	_, err := svc.Place(context.Background(), "alice", []LineRequest{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: 9999, Quantity: 1},
	})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	// the valid line must not leave any trace either
	assert.Equal(t, int64(0), countOrders(t, db))
	assert.Equal(t, int64(10), fetchStock(t, db, a.ID))
}

func TestPlace_InsufficientStock_NoPartialEffects(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "T-Shirt", "APP-001", 499, 10)
	b := seedProduct(t, db, "Shoes", "APP-002", 3299, 2)

	_, err := svc.Place(context.Background(), "alice", []LineRequest{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 5},
	})
	var cf *ConflictError
	require.ErrorAs(t, err, &cf)
	assert.Contains(t, cf.Error(), "Shoes")
	assert.Contains(t, cf.Error(), "2")

	assert.Equal(t, int64(0), countOrders(t, db))
	assert.Equal(t, int64(10), fetchStock(t, db, a.ID))
	assert.Equal(t, int64(2), fetchStock(t, db, b.ID))
}

func TestPlace_PriceSnapshotSurvivesPriceChange(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Speaker", "ELEC-002", 1000, 10)

	o, err := svc.Place(context.Background(), "alice", []LineRequest{{ProductID: a.ID, Quantity: 2}})
	require.NoError(t, err)

	require.NoError(t, db.Model(a).UpdateColumn("price_paise", 5000).Error)

	got, err := svc.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.TotalPaise)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(1000), got.Lines[0].PriceAtTimePaise)
}

func TestPlace_ConcurrentOversell(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Speaker", "ELEC-002", 1000, 5)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Place(context.Background(), "alice", []LineRequest{{ProductID: a.ID, Quantity: 3}})
		}(i)
	}
	wg.Wait()

	var okCount, conflictCount int
	for _, err := range errs {
		if err == nil {
			okCount++
			continue
		}
		var cf *ConflictError
		require.ErrorAs(t, err, &cf)
		conflictCount++
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, conflictCount)
	assert.Equal(t, int64(2), fetchStock(t, db, a.ID))
}

func TestUpdateStatus_CancelRestoresStock(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Mug Set", "HOME-001", 649, 10)
	b := seedProduct(t, db, "Pan", "HOME-002", 2150, 10)

	o, err := svc.Place(context.Background(), "alice", []LineRequest{
		{ProductID: a.ID, Quantity: 2},
		{ProductID: b.ID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Equal(t, int64(8), fetchStock(t, db, a.ID))
	require.Equal(t, int64(9), fetchStock(t, db, b.ID))

	cancelled, err := svc.UpdateStatus(context.Background(), o.ID, order.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, order.StatusCancelled, cancelled.Status)
	assert.Equal(t, int64(10), fetchStock(t, db, a.ID))
	assert.Equal(t, int64(10), fetchStock(t, db, b.ID))
}

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Mug Set", "HOME-001", 649, 10)

	o, err := svc.Place(context.Background(), "alice", []LineRequest{{ProductID: a.ID, Quantity: 2}})
	require.NoError(t, err)

	same, err := svc.UpdateStatus(context.Background(), o.ID, order.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, same.Status)
	assert.Equal(t, int64(8), fetchStock(t, db, a.ID))

	// cancelling twice must not restock twice
	_, err = svc.UpdateStatus(context.Background(), o.ID, order.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, int64(10), fetchStock(t, db, a.ID))

	again, err := svc.UpdateStatus(context.Background(), o.ID, order.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, again.Status)
	assert.Equal(t, int64(10), fetchStock(t, db, a.ID))
}

func TestUpdateStatus_TerminalStatesRejectTransitions(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Mug Set", "HOME-001", 649, 10)

	fulfilled, err := svc.Place(context.Background(), "alice", []LineRequest{{ProductID: a.ID, Quantity: 2}})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), fulfilled.ID, order.StatusFulfilled)
	require.NoError(t, err)

	var ve *ValidationError
	_, err = svc.UpdateStatus(context.Background(), fulfilled.ID, order.StatusCancelled)
	require.ErrorAs(t, err, &ve)
	// the rejected cancel must not restock
	assert.Equal(t, int64(8), fetchStock(t, db, a.ID))

	cancelled, err := svc.Place(context.Background(), "bob", []LineRequest{{ProductID: a.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), cancelled.ID, order.StatusCancelled)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), cancelled.ID, order.StatusFulfilled)
	require.ErrorAs(t, err, &ve)
}

func TestUpdateStatus_NotFoundAndInvalid(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)

	var nf *NotFoundError
	_, err := svc.UpdateStatus(context.Background(), 42, order.StatusFulfilled)
	require.ErrorAs(t, err, &nf)

	var ve *ValidationError
	_, err = svc.UpdateStatus(context.Background(), 42, order.Status("shipped"))
	require.ErrorAs(t, err, &ve)
}

func TestFulfill(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Mug Set", "HOME-001", 649, 10)

	o, err := svc.Place(context.Background(), "alice", []LineRequest{{ProductID: a.ID, Quantity: 1}})
	require.NoError(t, err)

	fulfilled, err := svc.Fulfill(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusFulfilled, fulfilled.Status)
	require.NotNil(t, fulfilled.FulfilledAt)
	// no stock effect, deduction already happened at creation
	assert.Equal(t, int64(9), fetchStock(t, db, a.ID))

	// unlike the status endpoint, fulfil rejects non-pending outright
	var ve *ValidationError
	_, err = svc.Fulfill(context.Background(), o.ID)
	require.ErrorAs(t, err, &ve)

	var nf *NotFoundError
	_, err = svc.Fulfill(context.Background(), 42)
	require.ErrorAs(t, err, &nf)
}

func TestOrderQueries(t *testing.T) {
	db := openTestDB(t)
	svc := newOrderService(db)
	a := seedProduct(t, db, "Mug Set", "HOME-001", 649, 100)

	first, err := svc.Place(context.Background(), "alice", []LineRequest{{ProductID: a.ID, Quantity: 1}})
	require.NoError(t, err)
	second, err := svc.Place(context.Background(), "bob", []LineRequest{{ProductID: a.ID, Quantity: 2}})
	require.NoError(t, err)

	recent, err := svc.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	// newest first
	assert.Equal(t, second.ID, recent[0].ID)
	assert.Equal(t, first.ID, recent[1].ID)
	require.Len(t, recent[0].Lines, 1)

	mine, err := svc.ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	got, err := svc.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Ref, got.Ref)
}
