// Package ledger implements the order lifecycle and the owner account
// ledger: order creation with per-owner payment attribution, savings
// accounting, the status state machine, and balance/transaction bookkeeping
// with withdrawal processing.
package ledger

import (
	"math"
	"sort"
	"time"

	"mealmatch/models"
	"mealmatch/statemachine"
	"mealmatch/store"
	"mealmatch/telem"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Catalog resolves order items back to restaurants and owners.
type Catalog interface {
	MenuItemByID(id string) (models.MenuItem, bool)
	RestaurantByID(id string) (models.Restaurant, bool)
}

// Users answers whether a session's user id refers to a real account.
type Users interface {
	ByID(id string) (*models.User, bool)
}

// Payouts supplies the default payout method for withdrawal requests.
type Payouts interface {
	Default(ownerID string) (models.PayoutMethod, bool)
}

type Service struct {
	kv      store.Store
	catalog Catalog
	users   Users
	payouts Payouts
}

func NewService(kv store.Store, catalog Catalog, users Users, payouts Payouts) *Service {
	return &Service{kv: kv, catalog: catalog, users: users, payouts: payouts}
}

type CreateOrderInput struct {
	Items            []models.OrderItem
	Address          string
	EstimatedMinutes int
	// TotalSavings overrides the derived savings when non-nil.
	TotalSavings    *float64
	PaymentMethodID string
}

// CreateOrder places an order for the given user: it snapshots the items,
// computes totals and savings, attributes payment to each distinct
// restaurant owner found among the items, and credits those owners'
// accounts atomically with the order write.
//
// Items that resolve to no restaurant, or to a restaurant without an owner,
// still count toward the total but credit no one — tolerated uncredited
// revenue, not an error.
//
// On a persistence failure the computed order is returned together with the
// error; callers must treat the error as "not durable".
func (s *Service) CreateOrder(userID string, in CreateOrderInput) (*models.Order, error) {
	if userID == "" {
		return nil, ErrNoSession
	}
	if s.users != nil {
		if _, ok := s.users.ByID(userID); !ok {
			return nil, ErrNoSession
		}
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}

	items := make([]models.OrderItem, len(in.Items))
	copy(items, in.Items)
	payments := map[string]float64{}
	for i := range items {
		items[i].Quantity = quantityOf(items[i])
		line := items[i].Price * float64(items[i].Quantity)
		ownerID, restaurantID := s.resolveOwner(items[i])
		if restaurantID != "" {
			items[i].RestaurantID = restaurantID
		}
		if ownerID == "" {
			telem.UncreditedItems.Inc()
			logrus.WithFields(logrus.Fields{
				"menu_item_id": items[i].MenuItemID,
				"amount":       line,
			}).Warn("order item not attributable to any owner, revenue uncredited")
			continue
		}
		payments[ownerID] += line
	}

	totalAmount := lo.SumBy(items, func(it models.OrderItem) float64 {
		return it.Price * float64(it.Quantity)
	})
	totalSavings := lo.SumBy(items, EffectiveSavings)
	if in.TotalSavings != nil {
		totalSavings = *in.TotalSavings
	}

	now := time.Now().UTC()
	order := models.Order{
		UserID:          userID,
		Status:          models.StatusPending,
		CreatedAt:       now,
		Items:           items,
		Address:         in.Address,
		TotalSavings:    totalSavings,
		TotalAmount:     totalAmount,
		OwnerPayments:   payments,
		PaymentMethodID: in.PaymentMethodID,
	}
	if in.EstimatedMinutes > 0 {
		order.EstimatedMinutes = in.EstimatedMinutes
		t := now.Add(time.Duration(in.EstimatedMinutes) * time.Minute)
		order.DeliveryTime = &t
	}

	err := s.kv.Update(func(tx store.Store) error {
		var counter int64
		tx.Get(store.KeyOrderCounter, &counter)
		counter++
		order.ID = counter

		var orders []models.Order
		tx.Get(store.KeyOrders, &orders)
		orders = append(orders, order)

		accounts := map[string]models.OwnerAccount{}
		tx.Get(store.KeyOwnerAccounts, &accounts)
		for ownerID, amount := range payments {
			acct := accounts[ownerID]
			acct.Balance += amount
			acct.Transactions = append(acct.Transactions, models.Transaction{
				Type:    models.TxPaymentReceived,
				Amount:  amount,
				Date:    now,
				OrderID: order.ID,
			})
			accounts[ownerID] = acct
		}

		if err := tx.Put(store.KeyOrderCounter, counter); err != nil {
			return err
		}
		if err := tx.Put(store.KeyOrders, orders); err != nil {
			return err
		}
		return tx.Put(store.KeyOwnerAccounts, accounts)
	})
	if err != nil {
		return &order, err
	}

	telem.OrdersPlaced.Inc()
	for _, amount := range payments {
		telem.CreditsPosted.Inc()
		telem.CreditedAmount.Add(amount)
	}
	logrus.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"user_id":      userID,
		"total_amount": totalAmount,
		"owners":       len(payments),
	}).Info("order created")
	return &order, nil
}

// resolveOwner finds the owner to credit for an item: the menu-item catalog
// first, then the restaurant id carried on the item itself.
func (s *Service) resolveOwner(item models.OrderItem) (ownerID, restaurantID string) {
	restaurantID = item.RestaurantID
	if mi, ok := s.catalog.MenuItemByID(item.MenuItemID); ok {
		restaurantID = mi.RestaurantID
	}
	if restaurantID == "" {
		return "", ""
	}
	r, ok := s.catalog.RestaurantByID(restaurantID)
	if !ok || r.OwnerID == "" {
		return "", restaurantID
	}
	return r.OwnerID, restaurantID
}

// EditOrder replaces the item list of a pending or confirmed order and
// recomputes totals and savings. Emptying an order is rejected; cancel
// instead. Owner payments already posted are deliberately not recomputed.
func (s *Service) EditOrder(userID string, orderID int64, newItems []models.OrderItem) (*models.Order, error) {
	if len(newItems) == 0 {
		return nil, ErrEmptyItems
	}
	var edited models.Order
	err := s.kv.Update(func(tx store.Store) error {
		var orders []models.Order
		tx.Get(store.KeyOrders, &orders)
		for i := range orders {
			if orders[i].ID != orderID {
				continue
			}
			if orders[i].UserID != userID {
				return ErrNotOwned
			}
			if orders[i].Status != models.StatusPending && orders[i].Status != models.StatusConfirmed {
				return ErrNotEditable
			}
			items := make([]models.OrderItem, len(newItems))
			copy(items, newItems)
			for j := range items {
				items[j].Quantity = quantityOf(items[j])
			}
			orders[i].Items = items
			orders[i].TotalAmount = lo.SumBy(items, func(it models.OrderItem) float64 {
				return it.Price * float64(it.Quantity)
			})
			orders[i].TotalSavings = lo.SumBy(items, EffectiveSavings)
			edited = orders[i]
			return tx.Put(store.KeyOrders, orders)
		}
		return ErrOrderNotFound
	})
	if err != nil {
		return nil, err
	}
	return &edited, nil
}

// UpdateStatus applies a transition from the state machine table. Invalid
// transitions are rejected and leave the order unchanged; the rule is the
// same no matter which surface asks.
func (s *Service) UpdateStatus(orderID int64, to models.OrderStatus) (*models.Order, error) {
	var updated models.Order
	err := s.kv.Update(func(tx store.Store) error {
		var orders []models.Order
		tx.Get(store.KeyOrders, &orders)
		for i := range orders {
			if orders[i].ID != orderID {
				continue
			}
			if err := statemachine.CanTransition(orders[i].Status, to); err != nil {
				return err
			}
			orders[i].Status = to
			if to == models.StatusDelivered && orders[i].DeliveryTime == nil {
				t := time.Now().UTC()
				orders[i].DeliveryTime = &t
			}
			updated = orders[i]
			return tx.Put(store.KeyOrders, orders)
		}
		return ErrOrderNotFound
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"order_id": orderID, "status": to}).Info("order status updated")
	return &updated, nil
}

// CancelOrder flips the order to cancelled. Ledger history is preserved:
// cancellation is not a refund and never reverses owner credits.
func (s *Service) CancelOrder(userID string, orderID int64) (*models.Order, error) {
	o, ok := s.Order(orderID)
	if !ok {
		return nil, ErrOrderNotFound
	}
	if o.UserID != userID {
		return nil, ErrNotOwned
	}
	return s.UpdateStatus(orderID, models.StatusCancelled)
}

// DeleteOrder removes the order record entirely. Irreversible, distinct from
// cancellation, and like cancellation it does not touch owner credits.
func (s *Service) DeleteOrder(userID string, orderID int64) error {
	return s.kv.Update(func(tx store.Store) error {
		var orders []models.Order
		tx.Get(store.KeyOrders, &orders)
		for i := range orders {
			if orders[i].ID != orderID {
				continue
			}
			if orders[i].UserID != userID {
				return ErrNotOwned
			}
			orders = append(orders[:i], orders[i+1:]...)
			return tx.Put(store.KeyOrders, orders)
		}
		return ErrOrderNotFound
	})
}

// Order returns a single order by id.
func (s *Service) Order(orderID int64) (models.Order, bool) {
	var orders []models.Order
	s.kv.Get(store.KeyOrders, &orders)
	for _, o := range orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return models.Order{}, false
}

// ListUserOrders returns a user's orders newest first. The sort is stable so
// orders created at the same instant keep insertion order.
func (s *Service) ListUserOrders(userID string) []models.Order {
	var orders []models.Order
	s.kv.Get(store.KeyOrders, &orders)
	mine := lo.Filter(orders, func(o models.Order, _ int) bool {
		return o.UserID == userID
	})
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	return mine
}

// ListOwnerOrders returns every order that credited the given owner, newest
// first. The owner dashboard, history and tracking surfaces all read this
// same persisted state.
func (s *Service) ListOwnerOrders(ownerID string) []models.Order {
	var orders []models.Order
	s.kv.Get(store.KeyOrders, &orders)
	theirs := lo.Filter(orders, func(o models.Order, _ int) bool {
		_, ok := o.OwnerPayments[ownerID]
		return ok
	})
	sort.SliceStable(theirs, func(i, j int) bool {
		return theirs[i].CreatedAt.After(theirs[j].CreatedAt)
	})
	return theirs
}

// LifetimeSavings aggregates savings across a user's order history with the
// same formula used at creation time.
func (s *Service) LifetimeSavings(userID string) float64 {
	total := 0.0
	for _, o := range s.ListUserOrders(userID) {
		total += o.TotalSavings
	}
	if math.IsNaN(total) {
		return 0
	}
	return total
}
