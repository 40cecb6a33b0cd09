package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// TxnBuilder builds test transactions fluently.
type TxnBuilder struct {
	txn model.Transaction
}

// NewTxn starts a transaction dated 2024-01-01 on account "DE-TEST".
func NewTxn(id string) *TxnBuilder {
	return &TxnBuilder{txn: model.Transaction{
		ID:      id,
		Date:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Account: "DE-TEST",
	}}
}

// To sets the recipient.
func (b *TxnBuilder) To(recipient string) *TxnBuilder {
	b.txn.Recipient = recipient
	return b
}

// Described sets the description.
func (b *TxnBuilder) Described(description string) *TxnBuilder {
	b.txn.Description = description
	return b
}

// On sets the booking date.
func (b *TxnBuilder) On(year int, month time.Month, day int) *TxnBuilder {
	b.txn.Date = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return b
}

// Amount sets the signed amount.
func (b *TxnBuilder) Amount(amount float64) *TxnBuilder {
	b.txn.Amount = amount
	return b
}

// Category sets the category.
func (b *TxnBuilder) Category(category string) *TxnBuilder {
	b.txn.Category = category
	return b
}

// Build returns the transaction with its hash filled in.
func (b *TxnBuilder) Build() model.Transaction {
	txn := b.txn
	txn.Hash = txn.GenerateHash()
	return txn
}

// MonthlySeries returns n transactions one month apart starting at start,
// with IDs "<prefix>-1" through "<prefix>-n".
func MonthlySeries(prefix, recipient string, amount float64, category string, start time.Time, n int) []model.Transaction {
	txns := make([]model.Transaction, n)
	for i := range txns {
		date := start.AddDate(0, i, 0)
		txns[i] = NewTxn(fmt.Sprintf("%s-%d", prefix, i+1)).
			To(recipient).
			On(date.Year(), date.Month(), date.Day()).
			Amount(amount).
			Category(category).
			Build()
	}
	return txns
}
