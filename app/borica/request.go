package borica

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// bgnPerEUR is the currency-board peg; a fixed published rate, not a live
// FX lookup.
const bgnPerEUR = 1.9558

var apiPathRe = regexp.MustCompile(`/api/payment/.*$`)

type PaymentInput struct {
	OrderID     string
	AmountBGN   float64
	Description string
	Backref     string
	Email       string
}

// PaymentForm is rendered by the caller as an auto-submitting POST to the
// gateway URL.
type PaymentForm struct {
	GatewayURL string            `json:"gatewayUrl"`
	Fields     map[string]string `json:"fields"`
}

// FormatAmount converts a BGN amount to EUR at the fixed rate, rounded
// half-up to exactly two decimal places.
func FormatAmount(amountBGN float64) string {
	amountEUR := amountBGN / bgnPerEUR
	rounded := math.Floor(amountEUR*100+0.5) / 100
	return strconv.FormatFloat(rounded, 'f', 2, 64)
}

// Timestamp is the gateway's YYYYMMDDHHmmss form, local time.
func Timestamp(now time.Time) string {
	return now.Format("20060102150405")
}

// Nonce returns 16 random bytes as a 32-char upper-hex string.
func Nonce() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf[:])), nil
}

// CreatePaymentRequest assembles and signs the TRTYPE 1 (sale) field set.
// The signature covers only the authorization MAC subset, not the whole
// form.
func (c *Client) CreatePaymentRequest(input *PaymentInput) (*PaymentForm, error) {
	if input.AmountBGN <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if len(input.OrderID) != 6 {
		return nil, fmt.Errorf("order id must be 6 digits, got %q", input.OrderID)
	}

	key, err := LoadSigningKey(c.cfg.PrivateKey, c.cfg.PrivateKeyPassword)
	if err != nil {
		return nil, err
	}

	nonce, err := Nonce()
	if err != nil {
		return nil, err
	}

	fields := map[string]string{
		"TERMINAL":             c.cfg.TerminalID,
		"TRTYPE":               "1",
		"AMOUNT":               FormatAmount(input.AmountBGN),
		"CURRENCY":             "EUR",
		"ORDER":                input.OrderID,
		"DESC":                 input.Description,
		"MERCHANT":             c.cfg.MerchantID,
		"MERCH_NAME":           c.cfg.MerchantName,
		"MERCH_URL":            apiPathRe.ReplaceAllString(input.Backref, ""),
		"EMAIL":                input.Email,
		"COUNTRY":              c.cfg.Country,
		"MERCH_GMT":            c.cfg.MerchantGMT,
		"TIMESTAMP":            Timestamp(time.Now()),
		"NONCE":                nonce,
		"BACKREF":              input.Backref,
		"AD_CUST_BOR_ORDER_ID": input.OrderID,
		"ADDENDUM":             "AD,TD",
		"LANG":                 c.cfg.Language,
	}

	pSign, err := SignMACMessage(key, MACMessage(fields, authFieldOrder))
	if err != nil {
		return nil, err
	}
	fields["P_SIGN"] = pSign

	return &PaymentForm{
		GatewayURL: c.cfg.GatewayURL,
		Fields:     fields,
	}, nil
}
