// Package ofx parses OFX/QFX bank exports into expense transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Darshu236/smartexpense-server/internal/model"
)

// Parser implements OFX/QFX file parsing. Only outflows are imported;
// credits and refunds are not expenses and are skipped.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file and returns expense transactions.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var skippedCredits int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTx := range stmt.BankTranList.Transactions {
			txn, ok := p.convertTransaction(ofxTx, "bank")
			if !ok {
				skippedCredits++
				continue
			}
			transactions = append(transactions, txn)
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, ofxTx := range stmt.BankTranList.Transactions {
			txn, ok := p.convertTransaction(ofxTx, "card")
			if !ok {
				skippedCredits++
				continue
			}
			transactions = append(transactions, txn)
		}
	}

	slog.Info("Parsed OFX file",
		"transactions", len(transactions),
		"skipped_credits", skippedCredits)

	return transactions, nil
}

// convertTransaction converts an OFX transaction to an expense record.
// The second return is false for inflows, which are skipped.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, paymentMode string) (model.Transaction, bool) {
	// OFX uses negative amounts for debits.
	amount, _ := ofxTx.TrnAmt.Float64()
	if amount >= 0 {
		return model.Transaction{}, false
	}

	txn := model.Transaction{
		ID:          string(ofxTx.FiTID),
		Date:        ofxTx.DtPosted.Time.UTC(),
		Title:       p.extractTitle(ofxTx),
		Amount:      -amount,
		PaymentMode: paymentMode,
	}

	// OFX doesn't provide spending categories, but a few transaction
	// types imply one.
	switch fmt.Sprintf("%v", ofxTx.TrnType) {
	case "FEE":
		txn.Category = "Bank Fees"
	case "ATM":
		txn.Category = "Cash Withdrawal"
	}

	txn.Hash = txn.GenerateHash()
	return txn, true
}

// extractTitle tries to get a clean transaction title from OFX data.
func (p *Parser) extractTitle(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)

	// Use MEMO field if NAME is generic
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}

	name = strings.TrimSpace(name)

	// Remove common processor prefixes
	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Strip leading "MM/DD " date patterns
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic to be
// useful as a title.
func isGenericDescription(name string) bool {
	generic := []string{
		"DEBIT",
		"CREDIT",
		"PAYMENT",
		"WITHDRAWAL",
		"PURCHASE",
		"TRANSACTION",
	}

	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, g := range generic {
		if upper == g {
			return true
		}
	}
	return false
}
