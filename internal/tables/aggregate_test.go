package tables

import (
	"testing"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

func order(total, received string) models.Order {
	return models.Order{
		Total:        money.MustParse(total),
		CashReceived: money.MustParse(received),
	}
}

func TestTableRemainingNeverNegative(t *testing.T) {
	// One overpaid order must not offset another order's balance.
	orders := []models.Order{order("10.00", "15.00"), order("20.00", "0.00")}
	if got := TableRemaining(orders); got.String() != "20.00" {
		t.Fatalf("remaining = %s, want 20.00", got)
	}
}

func TestDeriveTableStatus(t *testing.T) {
	cases := []struct {
		name       string
		total      string
		remaining  string
		hasClients bool
		occupied   bool
		want       enums.TableStatus
	}{
		{"empty free table", "0.00", "0.00", false, false, enums.TableStatusFree},
		{"occupied with no orders stays occupied", "0.00", "0.00", false, true, enums.TableStatusOccupied},
		{"clients seated with no orders", "0.00", "0.00", true, false, enums.TableStatusOccupied},
		{"fresh bill", "50.00", "50.00", false, true, enums.TableStatusOccupied},
		{"partially paid", "50.00", "20.00", false, true, enums.TableStatusPartiallyPaid},
		{"fully settled", "50.00", "0.00", false, true, enums.TableStatusPaid},
		{"settled even if status cache says free", "50.00", "0.00", false, false, enums.TableStatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveTableStatus(money.MustParse(tc.total), money.MustParse(tc.remaining), tc.hasClients, tc.occupied)
			if got != tc.want {
				t.Fatalf("status = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDeriveClientStatus(t *testing.T) {
	if got := DeriveClientStatus(nil); got != enums.ClientStatusNoOrders {
		t.Fatalf("no orders status = %s, want NO_ORDERS", got)
	}
	if got := DeriveClientStatus([]models.Order{order("10.00", "4.00")}); got != enums.ClientStatusPending {
		t.Fatalf("pending status = %s, want PENDING", got)
	}
	if got := DeriveClientStatus([]models.Order{order("10.00", "10.00")}); got != enums.ClientStatusPaid {
		t.Fatalf("paid status = %s, want PAID", got)
	}
}

func TestDeriveOrderStatus(t *testing.T) {
	if got := DeriveOrderStatus(money.MustParse("10.00"), money.Zero); got != enums.OrderStatusPending {
		t.Fatalf("pending = %s", got)
	}
	if got := DeriveOrderStatus(money.MustParse("10.00"), money.MustParse("4.00")); got != enums.OrderStatusPartialPaid {
		t.Fatalf("partial = %s", got)
	}
	if got := DeriveOrderStatus(money.MustParse("10.00"), money.MustParse("10.00")); got != enums.OrderStatusPaid {
		t.Fatalf("paid = %s", got)
	}
}
