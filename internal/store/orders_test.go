package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/klinefeld/tradedesk/internal/model"
)

func makeOrder(id string, status model.OrderStatus) model.Order {
	return model.Order{
		ID:        id,
		AccountID: "acct-1",
		Symbol:    "AAPL",
		Side:      model.SideBuy,
		Type:      model.OrderTypeLimit,
		Quantity:  decimal.NewFromInt(100),
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// checkPartitions verifies active ∪ history == all and active ∩ history == ∅.
func checkPartitions(t *testing.T, s *OrderStore) {
	t.Helper()

	active := s.Active()
	history := s.History()
	all := s.All()

	if len(active)+len(history) != len(all) {
		t.Fatalf("partition sizes: active=%d history=%d all=%d",
			len(active), len(history), len(all))
	}

	seen := make(map[string]string)
	for _, o := range active {
		seen[o.ID] = "active"
		if !o.IsOpen() {
			t.Errorf("order %s in active partition with status %s", o.ID, o.Status)
		}
	}
	for _, o := range history {
		if part, ok := seen[o.ID]; ok {
			t.Errorf("order %s present in both %s and history", o.ID, part)
		}
		seen[o.ID] = "history"
		if o.IsOpen() {
			t.Errorf("order %s in history partition with status %s", o.ID, o.Status)
		}
	}
	for _, o := range all {
		if _, ok := seen[o.ID]; !ok {
			t.Errorf("order %s in full set but in neither partition", o.ID)
		}
	}
}

func TestOrderStore_UpsertPartitions(t *testing.T) {
	s := NewOrderStore()

	s.Upsert(makeOrder("O1", model.OrderPending))
	s.Upsert(makeOrder("O2", model.OrderPartiallyFilled))
	s.Upsert(makeOrder("O3", model.OrderFilled))
	s.Upsert(makeOrder("O4", model.OrderCancelled))

	active, history := s.Counts()
	if active != 2 || history != 2 {
		t.Errorf("Counts() = (%d, %d), want (2, 2)", active, history)
	}
	checkPartitions(t, s)
}

func TestOrderStore_StatusTransitionMovesPartition(t *testing.T) {
	s := NewOrderStore()

	// Push delivers pending, then filled, for the same id.
	s.Upsert(makeOrder("O1", model.OrderPending))
	checkPartitions(t, s)

	s.Upsert(makeOrder("O1", model.OrderFilled))
	checkPartitions(t, s)

	if len(s.Active()) != 0 {
		t.Errorf("active partition should be empty, got %d", len(s.Active()))
	}
	history := s.History()
	if len(history) != 1 || history[0].ID != "O1" {
		t.Fatalf("history = %v, want exactly O1", history)
	}
	if len(s.All()) != 1 {
		t.Errorf("order duplicated: all=%d, want 1", len(s.All()))
	}
}

func TestOrderStore_ReplaceAllReclassifies(t *testing.T) {
	s := NewOrderStore()
	s.Upsert(makeOrder("stale", model.OrderPending))

	s.ReplaceAll([]model.Order{
		makeOrder("O1", model.OrderPending),
		makeOrder("O2", model.OrderFilled),
		makeOrder("O3", model.OrderRejected),
	})

	if _, ok := s.Get("stale"); ok {
		t.Error("ReplaceAll kept an order not present in the snapshot")
	}
	active, history := s.Counts()
	if active != 1 || history != 2 {
		t.Errorf("Counts() = (%d, %d), want (1, 2)", active, history)
	}
	checkPartitions(t, s)
}

func TestOrderStore_SelectedSurvivesUpsert(t *testing.T) {
	s := NewOrderStore()
	s.Upsert(makeOrder("O1", model.OrderPending))

	if !s.Select("O1") {
		t.Fatal("Select(O1) failed")
	}

	updated := makeOrder("O1", model.OrderPartiallyFilled)
	updated.FilledQuantity = decimal.NewFromInt(40)
	s.Upsert(updated)

	sel, ok := s.Selected()
	if !ok {
		t.Fatal("selection lost after upsert of the same id")
	}
	if sel.Status != model.OrderPartiallyFilled || !sel.FilledQuantity.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Selected() = %+v, want updated fields", sel)
	}
}

func TestOrderStore_RemoveClearsSelection(t *testing.T) {
	s := NewOrderStore()
	s.Upsert(makeOrder("O1", model.OrderPending))
	s.Select("O1")

	if !s.Remove("O1") {
		t.Fatal("Remove(O1) failed")
	}
	if _, ok := s.Selected(); ok {
		t.Error("selection should be cleared after removing the selected order")
	}
	if s.Remove("O1") {
		t.Error("Remove of absent id should return false")
	}
	checkPartitions(t, s)
}

func TestOrderStore_ReplaceAllDropsMissingSelection(t *testing.T) {
	s := NewOrderStore()
	s.Upsert(makeOrder("O1", model.OrderPending))
	s.Select("O1")

	s.ReplaceAll([]model.Order{makeOrder("O2", model.OrderPending)})

	if _, ok := s.Selected(); ok {
		t.Error("selection should not survive a snapshot without the selected id")
	}
}

func TestOrderStore_PartitionsUnderChurn(t *testing.T) {
	s := NewOrderStore()
	statuses := []model.OrderStatus{
		model.OrderPending,
		model.OrderPartiallyFilled,
		model.OrderFilled,
		model.OrderCancelled,
		model.OrderRejected,
		model.OrderExpired,
	}

	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("O%d", i%50)
		s.Upsert(makeOrder(id, statuses[i%len(statuses)]))
		if i%7 == 0 {
			s.Remove(id)
		}
	}
	checkPartitions(t, s)
}
