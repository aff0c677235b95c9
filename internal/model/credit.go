package model

import "time"

// DefaultInterviewCost is the credit price of one interview session
const DefaultInterviewCost = 25

// CreditBalance is returned by GET /api/credits/balance
type CreditBalance struct {
	Credits                 int `json:"credits"`
	FreeInterviewsUsed      int `json:"freeInterviewsUsed"`
	FreeInterviewsRemaining int `json:"freeInterviewsRemaining"`
}

// TransactionType classifies a credit ledger entry
type TransactionType string

const (
	TransactionPurchase           TransactionType = "PURCHASE"
	TransactionInterviewDeduction TransactionType = "INTERVIEW_DEDUCTION"
	TransactionRefund             TransactionType = "REFUND"
	TransactionBonus              TransactionType = "BONUS"
	TransactionAdminAdjustment    TransactionType = "ADMIN_ADJUSTMENT"
)

// CreditTransaction is one entry of GET /api/credits/history
type CreditTransaction struct {
	ID           int64           `json:"id"`
	CreditChange int             `json:"creditChange"`
	BalanceAfter int             `json:"balanceAfter"`
	Type         TransactionType `json:"type"`
	Description  string          `json:"description"`
	Timestamp    time.Time       `json:"timestamp"`
}
