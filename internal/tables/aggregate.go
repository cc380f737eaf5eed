package tables

import (
	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// TableTotal sums the totals of every order attached to the table. The
// stored table amounts are a display cache; this projection is the truth the
// terminal acts on.
func TableTotal(orders []models.Order) money.Money {
	total := money.Zero
	for _, order := range orders {
		total = total.Add(order.Total)
	}
	return total
}

// TableRemaining sums the unpaid balance across the table's orders. Never
// negative: overpay on one order does not offset another.
func TableRemaining(orders []models.Order) money.Money {
	remaining := money.Zero
	for _, order := range orders {
		remaining = remaining.Add(order.Remaining())
	}
	return remaining
}

// OrdersForClient filters a table's orders down to one guest.
func OrdersForClient(orders []models.Order, clientID uuid.UUID) []models.Order {
	var out []models.Order
	for _, order := range orders {
		if order.ClientID != nil && *order.ClientID == clientID {
			out = append(out, order)
		}
	}
	return out
}

// UnpaidOrders filters out fully paid orders.
func UnpaidOrders(orders []models.Order) []models.Order {
	var out []models.Order
	for _, order := range orders {
		if order.Remaining().IsPositive() {
			out = append(out, order)
		}
	}
	return out
}

// DeriveTableStatus computes the table status from its order projection.
// Payment progress wins over occupancy: a table with money on it is never
// reported FREE, and PAID requires an actual bill, so an occupied table with
// no orders stays OCCUPIED rather than jumping straight to PAID.
func DeriveTableStatus(total, remaining money.Money, hasClients, occupied bool) enums.TableStatus {
	switch {
	case total.IsPositive() && remaining.IsZero():
		return enums.TableStatusPaid
	case remaining.IsPositive() && remaining.LessThan(total):
		return enums.TableStatusPartiallyPaid
	case total.IsPositive() || hasClients || occupied:
		return enums.TableStatusOccupied
	default:
		return enums.TableStatusFree
	}
}

// DeriveClientStatus computes a guest's payment status from their orders.
func DeriveClientStatus(orders []models.Order) enums.ClientStatus {
	if len(orders) == 0 {
		return enums.ClientStatusNoOrders
	}
	if TableRemaining(orders).IsZero() {
		return enums.ClientStatusPaid
	}
	return enums.ClientStatusPending
}

// DeriveOrderStatus computes an order's status from its amounts.
func DeriveOrderStatus(total, cashReceived money.Money) enums.OrderStatus {
	switch {
	case money.Remaining(total, cashReceived).IsZero() && total.IsPositive():
		return enums.OrderStatusPaid
	case cashReceived.IsPositive():
		return enums.OrderStatusPartialPaid
	default:
		return enums.OrderStatusPending
	}
}
