package ledger

import (
	"testing"
	"time"

	"mealmatch/catalog"
	"mealmatch/identity"
	"mealmatch/methods"
	"mealmatch/models"
	"mealmatch/store"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	kv       *store.MemStore
	svc      *Service
	cat      *catalog.Service
	payouts  *methods.PayoutRegistry
	customer string
	owner    string
	restID   string
	itemID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := store.NewMemStore()
	cat := catalog.NewService(kv, nil)
	payouts := methods.NewPayoutRegistry(kv)
	users := identity.NewService(kv)

	require.NoError(t, kv.Put(store.KeyUsers, []models.User{
		{ID: "cust-1", Name: "Aiko", Email: "aiko@example.com", Role: models.RoleCustomer},
		{ID: "owner-1", Name: "Kenji", Email: "kenji@example.com", Role: models.RoleOwner},
	}))

	r, err := cat.CreateRestaurant("owner-1", catalog.RestaurantInput{
		Name: "Sakura Sushi", Area: "Shibuya", Cuisine: "Japanese", PriceLevel: "¥¥",
	})
	require.NoError(t, err)
	item, err := cat.AddMenuItem("owner-1", r.ID, catalog.MenuItemInput{
		Name: "Salmon Set", Price: 1000, OldPrice: 1200,
	})
	require.NoError(t, err)

	return &fixture{
		kv:       kv,
		svc:      NewService(kv, cat, users, payouts),
		cat:      cat,
		payouts:  payouts,
		customer: "cust-1",
		owner:    "owner-1",
		restID:   r.ID,
		itemID:   item.ID,
	}
}

func TestCreateOrderCreditsOwner(t *testing.T) {
	f := newFixture(t)

	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
		Items: []models.OrderItem{
			{MenuItemID: f.itemID, Name: "Salmon Set", Quantity: 2, Price: 1000, OldPrice: 1200},
		},
		Address:          "1-2-3 Shibuya",
		EstimatedMinutes: 30,
	})
	require.NoError(t, err)

	require.EqualValues(t, 1, order.ID)
	require.Equal(t, models.StatusPending, order.Status)
	require.Equal(t, 2000.0, order.TotalAmount)
	require.Equal(t, 400.0, order.TotalSavings)
	require.Equal(t, map[string]float64{f.owner: 2000}, order.OwnerPayments)
	require.NotNil(t, order.DeliveryTime)
	require.Equal(t, order.CreatedAt.Add(30*time.Minute), *order.DeliveryTime)

	require.Equal(t, 2000.0, f.svc.Balance(f.owner))
	acct := f.svc.Account(f.owner)
	require.Len(t, acct.Transactions, 1)
	require.Equal(t, models.TxPaymentReceived, acct.Transactions[0].Type)
	require.Equal(t, 2000.0, acct.Transactions[0].Amount)
	require.EqualValues(t, 1, acct.Transactions[0].OrderID)
}

func TestCreateOrderPreconditions(t *testing.T) {
	f := newFixture(t)

	t.Run("no session", func(t *testing.T) {
		_, err := f.svc.CreateOrder("", CreateOrderInput{
			Items: []models.OrderItem{{Price: 100, Quantity: 1}},
		})
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.svc.CreateOrder("ghost", CreateOrderInput{
			Items: []models.OrderItem{{Price: 100, Quantity: 1}},
		})
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := f.svc.CreateOrder(f.customer, CreateOrderInput{})
		require.ErrorIs(t, err, ErrEmptyItems)
	})
}

func TestCreateOrderUnattributableItem(t *testing.T) {
	f := newFixture(t)

	// Second item matches no catalog entry and carries no restaurant id: it
	// counts toward the total but credits no owner.
	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
		Items: []models.OrderItem{
			{MenuItemID: f.itemID, Quantity: 1, Price: 1000},
			{MenuItemID: "unknown-item", Name: "Mystery Bento", Quantity: 1, Price: 500},
		},
		Address: "somewhere",
	})
	require.NoError(t, err)

	require.Equal(t, 1500.0, order.TotalAmount)
	require.Equal(t, map[string]float64{f.owner: 1000}, order.OwnerPayments)
	require.Equal(t, 1000.0, f.svc.Balance(f.owner))
}

func TestCreateOrderRestaurantIDFallback(t *testing.T) {
	f := newFixture(t)

	// The item id matches nothing, but the explicit restaurant id resolves.
	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
		Items: []models.OrderItem{
			{MenuItemID: "gone", RestaurantID: f.restID, Quantity: 3, Price: 700},
		},
		Address: "x",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]float64{f.owner: 2100}, order.OwnerPayments)
}

func TestCreateOrderOwnerlessRestaurant(t *testing.T) {
	f := newFixture(t)

	r, err := f.cat.CreateRestaurant("", catalog.RestaurantInput{Name: "Orphaned"})
	require.NoError(t, err)

	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
		Items: []models.OrderItem{
			{RestaurantID: r.ID, Quantity: 1, Price: 300},
		},
		Address: "x",
	})
	require.NoError(t, err)
	require.Equal(t, 300.0, order.TotalAmount)
	require.Empty(t, order.OwnerPayments)
}

func TestCreateOrderDefaultsAndOverrides(t *testing.T) {
	f := newFixture(t)

	t.Run("missing quantity counts as one", func(t *testing.T) {
		order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
			Items: []models.OrderItem{{MenuItemID: f.itemID, Price: 1000}},
		})
		require.NoError(t, err)
		require.Equal(t, 1000.0, order.TotalAmount)
		require.Equal(t, 1, order.Items[0].Quantity)
	})

	t.Run("explicit savings override wins", func(t *testing.T) {
		override := 123.0
		order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
			Items:        []models.OrderItem{{MenuItemID: f.itemID, Quantity: 2, Price: 1000, OldPrice: 1200}},
			TotalSavings: &override,
		})
		require.NoError(t, err)
		require.Equal(t, 123.0, order.TotalSavings)
	})
}

func TestOrderIDsAreMonotonicAndNeverReused(t *testing.T) {
	f := newFixture(t)

	items := []models.OrderItem{{MenuItemID: f.itemID, Quantity: 1, Price: 1000}}
	first, err := f.svc.CreateOrder(f.customer, CreateOrderInput{Items: items})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteOrder(f.customer, first.ID))

	second, err := f.svc.CreateOrder(f.customer, CreateOrderInput{Items: items})
	require.NoError(t, err)
	require.Equal(t, first.ID+1, second.ID)
}

func TestEditOrder(t *testing.T) {
	f := newFixture(t)
	items := []models.OrderItem{{MenuItemID: f.itemID, Quantity: 2, Price: 1000, OldPrice: 1200}}
	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{Items: items})
	require.NoError(t, err)

	t.Run("recomputes totals, keeps owner payments", func(t *testing.T) {
		edited, err := f.svc.EditOrder(f.customer, order.ID, []models.OrderItem{
			{MenuItemID: f.itemID, Quantity: 1, Price: 1000, OldPrice: 1200},
		})
		require.NoError(t, err)
		require.Equal(t, 1000.0, edited.TotalAmount)
		require.Equal(t, 200.0, edited.TotalSavings)
		// posted credits are deliberately untouched by edits
		require.Equal(t, map[string]float64{f.owner: 2000}, edited.OwnerPayments)
		require.Equal(t, 2000.0, f.svc.Balance(f.owner))
	})

	t.Run("empty item list rejected", func(t *testing.T) {
		_, err := f.svc.EditOrder(f.customer, order.ID, nil)
		require.ErrorIs(t, err, ErrEmptyItems)
	})

	t.Run("wrong user rejected", func(t *testing.T) {
		_, err := f.svc.EditOrder("someone-else", order.ID, items)
		require.ErrorIs(t, err, ErrNotOwned)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := f.svc.EditOrder(f.customer, 999, items)
		require.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("terminal order not editable", func(t *testing.T) {
		_, err := f.svc.UpdateStatus(order.ID, models.StatusConfirmed)
		require.NoError(t, err)
		_, err = f.svc.UpdateStatus(order.ID, models.StatusDelivered)
		require.NoError(t, err)
		_, err = f.svc.EditOrder(f.customer, order.ID, items)
		require.ErrorIs(t, err, ErrNotEditable)
	})
}

func TestUpdateStatusEnforcesStateMachine(t *testing.T) {
	f := newFixture(t)
	items := []models.OrderItem{{MenuItemID: f.itemID, Quantity: 1, Price: 1000}}
	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{Items: items})
	require.NoError(t, err)

	// pending → cancelled succeeds
	cancelled, err := f.svc.UpdateStatus(order.ID, models.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, cancelled.Status)

	// cancelled → confirmed is rejected and leaves status unchanged
	_, err = f.svc.UpdateStatus(order.ID, models.StatusConfirmed)
	require.ErrorIs(t, err, ErrInvalidTransition)
	got, ok := f.svc.Order(order.ID)
	require.True(t, ok)
	require.Equal(t, models.StatusCancelled, got.Status)
}

func TestCancelKeepsOwnerCredits(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
		Items: []models.OrderItem{{MenuItemID: f.itemID, Quantity: 2, Price: 1000}},
	})
	require.NoError(t, err)
	require.Equal(t, 2000.0, f.svc.Balance(f.owner))

	_, err = f.svc.CancelOrder(f.customer, order.ID)
	require.NoError(t, err)

	// cancellation is not a refund
	require.Equal(t, 2000.0, f.svc.Balance(f.owner))
	acct := f.svc.Account(f.owner)
	require.Len(t, acct.Transactions, 1)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
		Items: []models.OrderItem{{MenuItemID: f.itemID, Quantity: 1, Price: 1000}},
	})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.DeleteOrder("someone-else", order.ID), ErrNotOwned)
	require.NoError(t, f.svc.DeleteOrder(f.customer, order.ID))
	_, ok := f.svc.Order(order.ID)
	require.False(t, ok)
	require.ErrorIs(t, f.svc.DeleteOrder(f.customer, order.ID), ErrOrderNotFound)

	// deletion is not a refund either
	require.Equal(t, 1000.0, f.svc.Balance(f.owner))
}

func TestListUserOrdersNewestFirstStable(t *testing.T) {
	f := newFixture(t)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, f.kv.Put(store.KeyOrders, []models.Order{
		{ID: 1, UserID: "u", CreatedAt: base},
		{ID: 2, UserID: "u", CreatedAt: base.Add(time.Hour)},
		{ID: 3, UserID: "u", CreatedAt: base.Add(time.Hour)}, // tie with 2
		{ID: 4, UserID: "someone-else", CreatedAt: base.Add(2 * time.Hour)},
	}))

	got := f.svc.ListUserOrders("u")
	ids := make([]int64, len(got))
	for i, o := range got {
		ids[i] = o.ID
	}
	require.Equal(t, []int64{2, 3, 1}, ids)
}

func TestCreateOrderPersistenceFailure(t *testing.T) {
	f := newFixture(t)
	f.kv.FailWrites = true

	order, err := f.svc.CreateOrder(f.customer, CreateOrderInput{
		Items: []models.OrderItem{{MenuItemID: f.itemID, Quantity: 1, Price: 1000}},
	})
	require.ErrorIs(t, err, store.ErrWriteFailed)
	// the computed result is still available, but nothing was persisted
	require.NotNil(t, order)
	require.Equal(t, 1000.0, order.TotalAmount)

	f.kv.FailWrites = false
	require.Empty(t, f.svc.ListUserOrders(f.customer))
	require.Equal(t, 0.0, f.svc.Balance(f.owner))
}

func TestListOwnerOrders(t *testing.T) {
	f := newFixture(t)
	items := []models.OrderItem{{MenuItemID: f.itemID, Quantity: 1, Price: 1000}}
	first, err := f.svc.CreateOrder(f.customer, CreateOrderInput{Items: items})
	require.NoError(t, err)
	second, err := f.svc.CreateOrder(f.customer, CreateOrderInput{Items: items})
	require.NoError(t, err)

	got := f.svc.ListOwnerOrders(f.owner)
	require.Len(t, got, 2)
	require.ElementsMatch(t, []int64{first.ID, second.ID}, []int64{got[0].ID, got[1].ID})
	require.Empty(t, f.svc.ListOwnerOrders("stranger"))
}
