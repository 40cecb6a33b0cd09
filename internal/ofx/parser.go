// Package ofx imports bank and credit card statements in OFX/QFX format.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/kassenbuch/internal/model"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	datePrefix    = regexp.MustCompile(`^\d{2}[./]\d{2}(?:[./]\d{2,4})?\s+`)
)

// Booking-type prefixes banks put in front of the counterparty.
var bookingPrefixes = []string{
	"KARTENZAHLUNG ",
	"SEPA-LASTSCHRIFT ",
	"LASTSCHRIFT ",
	"SEPA-UEBERWEISUNG ",
	"ÜBERWEISUNG ",
	"UEBERWEISUNG ",
	"DAUERAUFTRAG ",
	"GUTSCHRIFT ",
	"POS PURCHASE ",
	"DEBIT CARD PURCHASE ",
	"CHECK CARD ",
}

// genericNames carry no merchant information.
var genericNames = map[string]bool{
	"LASTSCHRIFT":     true,
	"KARTENZAHLUNG":   true,
	"ÜBERWEISUNG":     true,
	"UEBERWEISUNG":    true,
	"GUTSCHRIFT":      true,
	"DEBIT":           true,
	"CREDIT":          true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML exports sometimes drop the closing bracket of bare tags
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile parses an OFX/QFX file and returns its transactions, uncategorized.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		bankStmts++
		transactions = append(transactions, p.convertList(stmt.BankTranList, string(stmt.BankAcctFrom.AcctID))...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		ccStmts++
		transactions = append(transactions, p.convertList(stmt.BankTranList, string(stmt.CCAcctFrom.AcctID))...)
	}

	slog.InfoContext(ctx, "Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList, accountID string) []model.Transaction {
	if list == nil {
		return nil
	}
	transactions := make([]model.Transaction, 0, len(list.Transactions))
	for _, ofxTx := range list.Transactions {
		transactions = append(transactions, p.convertTransaction(ofxTx, accountID))
	}
	return transactions
}

// convertTransaction converts an OFX transaction to our model. Amounts keep
// their sign: debits are negative.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()
	recipient, description := p.splitText(ofxTx)

	tx := model.Transaction{
		Date:        ofxTx.DtPosted.Time,
		Recipient:   recipient,
		Description: description,
		Amount:      amount,
		Account:     accountID,
	}
	tx.Hash = tx.GenerateHash()

	tx.ID = string(ofxTx.FiTID)
	if tx.ID == "" {
		tx.ID = tx.Hash
	} else if accountID != "" {
		tx.ID = accountID + ":" + tx.ID
	}

	return tx
}

// splitText derives the counterparty and booking text. PAYEE wins over NAME;
// a generic NAME defers to MEMO.
func (p *Parser) splitText(tx ofxgo.Transaction) (recipient, description string) {
	name := strings.TrimSpace(string(tx.Name))
	memo := strings.TrimSpace(string(tx.Memo))

	switch {
	case tx.Payee != nil && tx.Payee.Name != "":
		recipient = string(tx.Payee.Name)
		description = joinNonEmpty(name, memo)
	case genericNames[strings.ToUpper(name)] && memo != "":
		recipient = memo
		description = name
	default:
		recipient = name
		description = memo
	}

	return cleanRecipient(recipient), description
}

func cleanRecipient(name string) string {
	name = strings.TrimSpace(name)
	upper := strings.ToUpper(name)
	for _, prefix := range bookingPrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = strings.TrimSpace(name[len(prefix):])
			break
		}
	}
	return strings.TrimSpace(datePrefix.ReplaceAllString(name, ""))
}

func joinNonEmpty(parts ...string) string {
	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}

// GetAccounts extracts the sorted unique account IDs from an OFX file.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	accountMap := make(map[string]bool)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			accountMap[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			accountMap[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(accountMap))
	for acct := range accountMap {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}
