// Package model defines the core data structures for the kassenbuch application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// fingerprintDescriptionLen bounds how much of the description takes part in a fingerprint.
const fingerprintDescriptionLen = 50

// Transaction represents a single booked transaction from a bank statement.
type Transaction struct {
	Date        time.Time
	ID          string
	Hash        string
	Recipient   string // Counterparty as printed on the statement
	Description string // Booking text / purpose
	Category    string // Empty until the user assigns one
	Account     string
	Amount      float64 // Negative for expenses, positive for income
}

// IsCategorized reports whether the transaction carries a user-assigned category.
func (t *Transaction) IsCategorized() bool {
	return t.Category != ""
}

// IsIncome reports whether the transaction credits the account.
func (t *Transaction) IsIncome() bool {
	return t.Amount > 0
}

// AbsAmount returns the unsigned amount.
func (t *Transaction) AbsAmount() float64 {
	if t.Amount < 0 {
		return -t.Amount
	}
	return t.Amount
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Recipient,
		t.Account)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Fingerprint identifies a suggestion request without a stable transaction ID.
// Two transactions with the same date, recipient, amount and description prefix
// share a fingerprint.
func (t *Transaction) Fingerprint() string {
	desc := []rune(t.Description)
	if len(desc) > fingerprintDescriptionLen {
		desc = desc[:fingerprintDescriptionLen]
	}
	return fmt.Sprintf("%s|%s|%.2f|%s",
		t.Date.Format("2006-01-02"),
		t.Recipient,
		t.Amount,
		string(desc))
}

// PairKey identifies a pair of transactions for memoized comparisons.
func PairKey(a, b Transaction) string {
	return fmt.Sprintf("%s:%.2f:%s|%s:%.2f:%s",
		a.Date.Format("2006-01-02"), a.Amount, a.Recipient,
		b.Date.Format("2006-01-02"), b.Amount, b.Recipient)
}
