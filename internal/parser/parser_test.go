package parser

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvignesh/smsledger/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name             string
		sender           string
		body             string
		wantAmount       string
		wantDirection    domain.Direction
		wantCounterparty string
		wantChannel      string
		wantHint         string
	}{
		{
			name:             "debit with currency marker and masked account",
			sender:           "VM-HDFCBK",
			body:             "Rs. 1,234.50 debited from A/c XX1234 on 05-01-25. Avl Bal Rs. 10,000.00",
			wantAmount:       "1234.5",
			wantDirection:    domain.Expense,
			wantCounterparty: "Unknown",
			wantChannel:      "SMS",
			wantHint:         "1234",
		},
		{
			name:             "upi payment with corporate counterparty",
			sender:           "AX-SBIUPI",
			body:             "Rs. 500 paid to JOHN DOE PVT LTD via UPI Ref 123456789",
			wantAmount:       "500",
			wantDirection:    domain.Expense,
			wantCounterparty: "John Doe PVT LTD",
			wantChannel:      "UPI",
		},
		{
			name:             "credit from vpa",
			sender:           "ICICIB",
			body:             "INR 2500.00 credited to A/c XX9876 from VPA ramesh.kumar@okaxis via UPI. Ref 445566778899",
			wantAmount:       "2500",
			wantDirection:    domain.Income,
			wantCounterparty: "Ramesh Kumar",
			wantChannel:      "UPI",
			wantHint:         "9876",
		},
		{
			name:             "salary credit falls back to sender name",
			sender:           "HDFCBK",
			body:             "Your salary of Rs 75,000 has been credited to your account ending 4321",
			wantAmount:       "75000",
			wantDirection:    domain.Income,
			wantCounterparty: "HDFC Bank",
			wantChannel:      "SMS",
			wantHint:         "4321",
		},
		{
			name:             "card purchase at merchant",
			sender:           "AXISBK",
			body:             "Rs.899.00 spent at AMAZON. Card XX5544 used. Not you? Call 18001234567",
			wantAmount:       "899",
			wantDirection:    domain.Expense,
			wantCounterparty: "Amazon",
			wantChannel:      "Card",
			wantHint:         "5544",
		},
		{
			name:             "atm withdrawal keeps unknown counterparty",
			sender:           "99887766",
			body:             "Rs 2000 withdrawn from ATM card ending 7788",
			wantAmount:       "2000",
			wantDirection:    domain.Expense,
			wantCounterparty: "Unknown",
			wantChannel:      "ATM",
			wantHint:         "7788",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.sender, tt.body)
			require.NoError(t, err)

			want, err := decimal.NewFromString(tt.wantAmount)
			require.NoError(t, err)
			assert.True(t, got.Amount.Equal(want), "amount = %s, want %s", got.Amount, want)
			assert.Equal(t, tt.wantDirection, got.Direction)
			assert.Equal(t, tt.wantCounterparty, got.Counterparty)
			assert.Equal(t, tt.wantChannel, got.Channel)
			assert.Equal(t, tt.wantHint, got.AccountHint)
		})
	}
}

func TestParseUnparsable(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "no direction keyword",
			body:    "Your account statement for January is ready",
			wantErr: ErrNoDirection,
		},
		{
			name:    "no amount",
			body:    "Your account has been debited. Check the app for details.",
			wantErr: ErrNoAmount,
		},
		{
			name:    "amount above ceiling",
			body:    "Rs. 99,999,999 debited from your account",
			wantErr: ErrNoAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("HDFCBK", tt.body)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "err = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestExtractAmountGuards(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		ok   bool
	}{
		{name: "comma grouped", body: "Rs. 1,23,456 debited", want: "123456", ok: true},
		{name: "bare decimal accepted", body: "debited 1234.50 from account", want: "1234.5", ok: true},
		{name: "phone number rejected", body: "debited, call 9876543210", ok: false},
		{name: "contextual beats bare", body: "Payment of Rs 350 towards bill 20250105", want: "350", ok: true},
		{name: "small bare integer accepted", body: "debited 250 from wallet", want: "250", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractAmount(tt.body)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "amount = %s, want %s", got, want)
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "JOHN DOE PVT LTD", want: "John Doe PVT LTD"},
		{in: "swiggy", want: "Swiggy"},
		{in: "PhonePe", want: "PhonePe"}, // mixed case passes through
		{in: "ACME LLC", want: "Acme LLC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, titleCase(tt.in), "titleCase(%q)", tt.in)
	}
}
