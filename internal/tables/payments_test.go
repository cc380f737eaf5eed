package tables

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

func TestApplyPaymentProportionalDistribution(t *testing.T) {
	gateway := newStubGateway()
	tableID := gateway.addTable(enums.TableStatusOccupied)
	first := gateway.addOrder(tableID, nil, "30.00", "0.00")
	second := gateway.addOrder(tableID, nil, "20.00", "0.00")

	svc := newTestTableService(t, gateway)
	result, err := svc.ApplyPayment(context.Background(), PaymentInput{
		Scope:   enums.PaymentScopeTable,
		TableID: tableID,
		Amount:  money.MustParse("25.00"),
		Method:  enums.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("ApplyPayment() error: %v", err)
	}

	applied := map[uuid.UUID]string{}
	sum := money.Zero
	for _, share := range result.Shares {
		applied[share.OrderID] = share.Applied.String()
		sum = sum.Add(share.Applied)
	}
	if applied[first] != "15.00" || applied[second] != "10.00" {
		t.Fatalf("shares = %v, want 15.00/10.00", applied)
	}
	if sum.String() != "25.00" {
		t.Fatalf("distributed %s, want exactly 25.00", sum)
	}
	if gateway.orders[first].CashReceived.String() != "15.00" {
		t.Fatalf("first order received = %s", gateway.orders[first].CashReceived)
	}
	if result.Detail.Status != enums.TableStatusPartiallyPaid {
		t.Fatalf("table status = %s, want PARTIALLY_PAID", result.Detail.Status)
	}
}

func TestApplyPaymentSettlesTable(t *testing.T) {
	gateway := newStubGateway()
	tableID := gateway.addTable(enums.TableStatusOccupied)
	orderID := gateway.addOrder(tableID, nil, "18.00", "8.00")

	svc := newTestTableService(t, gateway)
	result, err := svc.ApplyPayment(context.Background(), PaymentInput{
		Scope:   enums.PaymentScopeTable,
		TableID: tableID,
		Amount:  money.MustParse("10.00"),
		Method:  enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("ApplyPayment() error: %v", err)
	}
	if gateway.orders[orderID].Status != enums.OrderStatusPaid {
		t.Fatalf("order status = %s, want PAID", gateway.orders[orderID].Status)
	}
	if result.Detail.Status != enums.TableStatusPaid {
		t.Fatalf("table status = %s, want PAID", result.Detail.Status)
	}
	if gateway.tables[tableID].Status != enums.TableStatusPaid {
		t.Fatal("derived status must be pushed to the backend")
	}
}

func TestApplyPaymentRejectsOverpay(t *testing.T) {
	gateway := newStubGateway()
	tableID := gateway.addTable(enums.TableStatusOccupied)
	gateway.addOrder(tableID, nil, "10.00", "0.00")

	svc := newTestTableService(t, gateway)
	_, err := svc.ApplyPayment(context.Background(), PaymentInput{
		Scope:   enums.PaymentScopeTable,
		TableID: tableID,
		Amount:  money.MustParse("10.01"),
		Method:  enums.PaymentMethodCash,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyPaymentRejectsSettledTable(t *testing.T) {
	gateway := newStubGateway()
	tableID := gateway.addTable(enums.TableStatusPaid)
	gateway.addOrder(tableID, nil, "10.00", "10.00")

	svc := newTestTableService(t, gateway)
	_, err := svc.ApplyPayment(context.Background(), PaymentInput{
		Scope:   enums.PaymentScopeTable,
		TableID: tableID,
		Amount:  money.MustParse("1.00"),
		Method:  enums.PaymentMethodCash,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestApplyPaymentValidation(t *testing.T) {
	svc := newTestTableService(t, newStubGateway())
	ctx := context.Background()

	cases := []struct {
		name  string
		input PaymentInput
	}{
		{"zero amount", PaymentInput{Scope: enums.PaymentScopeTable, TableID: uuid.New(), Method: enums.PaymentMethodCash}},
		{"negative amount", PaymentInput{Scope: enums.PaymentScopeTable, TableID: uuid.New(), Amount: money.MustParse("-1.00"), Method: enums.PaymentMethodCash}},
		{"unknown method", PaymentInput{Scope: enums.PaymentScopeTable, TableID: uuid.New(), Amount: money.MustParse("1.00"), Method: "CHECK"}},
		{"unknown scope", PaymentInput{Scope: "ROOM", TableID: uuid.New(), Amount: money.MustParse("1.00"), Method: enums.PaymentMethodCash}},
		{"client scope without client", PaymentInput{Scope: enums.PaymentScopeClient, TableID: uuid.New(), Amount: money.MustParse("1.00"), Method: enums.PaymentMethodCash}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.ApplyPayment(ctx, tc.input); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApplyPaymentRollsBackOnPersistFailure(t *testing.T) {
	gateway := newStubGateway()
	tableID := gateway.addTable(enums.TableStatusOccupied)
	first := gateway.addOrder(tableID, nil, "30.00", "0.00")
	second := gateway.addOrder(tableID, nil, "20.00", "0.00")
	gateway.failUpdateOrder[second] = true

	svc := newTestTableService(t, gateway)
	_, err := svc.ApplyPayment(context.Background(), PaymentInput{
		Scope:   enums.PaymentScopeTable,
		TableID: tableID,
		Amount:  money.MustParse("25.00"),
		Method:  enums.PaymentMethodCard,
	})
	if err == nil {
		t.Fatal("expected persist failure to surface")
	}
	if !gateway.orders[first].CashReceived.IsZero() {
		t.Fatalf("first order must be restored, received = %s", gateway.orders[first].CashReceived)
	}
	if !gateway.orders[second].CashReceived.IsZero() {
		t.Fatalf("second order must be untouched, received = %s", gateway.orders[second].CashReceived)
	}
}

func TestClientPaymentMarksPaidOnFullSettle(t *testing.T) {
	gateway := newStubGateway()
	tableID := gateway.addTable(enums.TableStatusOccupied)
	svc := newTestTableService(t, gateway)
	ctx := context.Background()

	client, err := svc.AddClient(ctx, tableID, "Dana")
	if err != nil {
		t.Fatalf("AddClient(): %v", err)
	}
	gateway.addOrder(tableID, &client.ID, "12.00", "0.00")
	gateway.addOrder(tableID, nil, "40.00", "0.00")

	result, err := svc.ApplyPayment(ctx, PaymentInput{
		Scope:    enums.PaymentScopeClient,
		TableID:  tableID,
		ClientID: &client.ID,
		Amount:   money.MustParse("12.00"),
		Method:   enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("ApplyPayment() error: %v", err)
	}
	if len(result.Shares) != 1 || result.Shares[0].Applied.String() != "12.00" {
		t.Fatalf("client payment must only touch the client's orders: %+v", result.Shares)
	}
	if len(gateway.payments) != 1 {
		t.Fatalf("expected one recorded client payment, got %d", len(gateway.payments))
	}
	if len(gateway.marked) != 1 || gateway.marked[0] != client.ID {
		t.Fatal("full settle must mark the client paid")
	}
	// The shared table order is untouched, so the table stays short.
	if result.Detail.Remaining.String() != "40.00" {
		t.Fatalf("table remaining = %s, want 40.00", result.Detail.Remaining)
	}
	if result.Detail.Status != enums.TableStatusPartiallyPaid {
		t.Fatalf("table status = %s, want PARTIALLY_PAID", result.Detail.Status)
	}
}

func TestClientSettleSurvivesMarkPaidFailure(t *testing.T) {
	gateway := newStubGateway()
	tableID := gateway.addTable(enums.TableStatusOccupied)
	svc := newTestTableService(t, gateway)
	ctx := context.Background()

	client, err := svc.AddClient(ctx, tableID, "Dana")
	if err != nil {
		t.Fatalf("AddClient(): %v", err)
	}
	orderID := gateway.addOrder(tableID, &client.ID, "12.00", "0.00")
	gateway.failMarkPaid = true

	result, err := svc.ApplyPayment(ctx, PaymentInput{
		Scope:    enums.PaymentScopeClient,
		TableID:  tableID,
		ClientID: &client.ID,
		Amount:   money.MustParse("12.00"),
		Method:   enums.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("ApplyPayment() must not fail on a stale paid flag: %v", err)
	}
	// The recorded tender and the order shares stay; only the flag is stale.
	if len(gateway.payments) != 1 {
		t.Fatalf("expected the recorded tender to survive, got %d", len(gateway.payments))
	}
	if gateway.orders[orderID].CashReceived.String() != "12.00" {
		t.Fatalf("order shares must not be rolled back, received = %s", gateway.orders[orderID].CashReceived)
	}
	if gateway.orders[orderID].Status != enums.OrderStatusPaid {
		t.Fatalf("order status = %s, want PAID", gateway.orders[orderID].Status)
	}
	if result.Applied.String() != "12.00" {
		t.Fatalf("applied = %s, want 12.00", result.Applied)
	}
}

func TestClientPartialPaymentLeavesPending(t *testing.T) {
	gateway := newStubGateway()
	tableID := gateway.addTable(enums.TableStatusOccupied)
	svc := newTestTableService(t, gateway)
	ctx := context.Background()

	client, err := svc.AddClient(ctx, tableID, "Dana")
	if err != nil {
		t.Fatalf("AddClient(): %v", err)
	}
	gateway.addOrder(tableID, &client.ID, "12.00", "0.00")

	if _, err := svc.ApplyPayment(ctx, PaymentInput{
		Scope:    enums.PaymentScopeClient,
		TableID:  tableID,
		ClientID: &client.ID,
		Amount:   money.MustParse("5.00"),
		Method:   enums.PaymentMethodCash,
	}); err != nil {
		t.Fatalf("ApplyPayment() error: %v", err)
	}
	if len(gateway.marked) != 0 {
		t.Fatal("partial payment must not mark the client paid")
	}
}
