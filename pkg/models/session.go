package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mohamed-hwerthi/easy-pos/pkg/enums"
	"github.com/mohamed-hwerthi/easy-pos/pkg/money"
)

// CashierSession is one register shift, opened with a counted float and
// closed exactly once against a counted drawer.
type CashierSession struct {
	ID              uuid.UUID    `json:"id"`
	SessionNumber   string       `json:"sessionNumber"`
	CashierID       uuid.UUID    `json:"cashierId"`
	CashierName     string       `json:"cashierName"`
	StartTime       time.Time    `json:"startTime"`
	EndTime         *time.Time   `json:"endTime,omitempty"`
	OpeningBalance  money.Money  `json:"openingBalance"`
	ClosingBalance  *money.Money `json:"closingBalance,omitempty"`
	TotalSales      money.Money  `json:"totalSales"`
	TotalRefunds    money.Money  `json:"totalRefunds"`
	IsClosed        bool         `json:"isClosed"`
	OrderIDs        []uuid.UUID  `json:"orderIds,omitempty"`
	CashMovementIDs []uuid.UUID  `json:"cashMovementIds,omitempty"`
}

// CashMovement is a manual drawer adjustment within a session. Reason is
// mandatory for audit.
type CashMovement struct {
	ID               uuid.UUID              `json:"id"`
	Type             enums.CashMovementType `json:"type"`
	Amount           money.Money            `json:"amount"`
	Reason           string                 `json:"reason"`
	Timestamp        time.Time              `json:"timestamp"`
	CashierSessionID uuid.UUID              `json:"cashierSessionId"`
	CashierID        uuid.UUID              `json:"cashierId"`
}

// SessionTotals are the running per-method totals recomputed from the
// session's orders.
type SessionTotals struct {
	TotalSales   money.Money `json:"totalSales"`
	TotalCash    money.Money `json:"totalCash"`
	TotalCard    money.Money `json:"totalCard"`
	TotalOther   money.Money `json:"totalOther"`
	OrderCount   int         `json:"orderCount"`
	ExpectedCash money.Money `json:"expectedCash"`
}

// CloseResult reports the outcome of closing a session.
type CloseResult struct {
	Session  CashierSession `json:"session"`
	Expected money.Money    `json:"expected"`
	Counted  money.Money    `json:"counted"`
	Variance money.Money    `json:"variance"`
}

// Cashier identifies the authenticated register operator.
type Cashier struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}
