package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultMerchantUPIID is the payee address used when none is configured.
const DefaultMerchantUPIID = "rekhadevi573710.rzp@icici"

// UPILink is the presentation payload returned for a payment.
type UPILink struct {
	UpiLink  string `json:"upiLink"`
	Amount   int    `json:"amount"`
	Operator string `json:"operator"`
}

// TransactionNote renders "<OPERATOR> Recharge - <Type> Plan - ₹<amount>".
func TransactionNote(operatorName, planType string, amount int) string {
	return fmt.Sprintf("%s Recharge - %s Plan - ₹%d", cases.Upper(language.Und).String(operatorName), planType, amount)
}

// BuildUPILink formats a UPI pay URI. Parameter order and the fixed payee
// name are part of the format expected by UPI apps.
func BuildUPILink(merchantUPIID string, amount int, note, transactionID string) string {
	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(merchantUPIID)
	b.WriteString("&pn=Mobile%20Recharge")
	b.WriteString("&am=")
	b.WriteString(FormatAmount(amount))
	b.WriteString("&cu=INR")
	b.WriteString("&tn=")
	b.WriteString(encodeURIComponent(note))
	b.WriteString("&tr=")
	b.WriteString(encodeURIComponent(transactionID))
	return b.String()
}

// FormatAmount renders whole rupees with the two decimals UPI apps expect.
func FormatAmount(rupees int) string {
	return decimal.NewFromInt(int64(rupees)).StringFixed(2)
}

// uriComponent restores the characters browsers leave unescaped in a URI
// component and encodes spaces as %20.
var uriComponent = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeURIComponent(s string) string {
	return uriComponent.Replace(url.QueryEscape(s))
}
