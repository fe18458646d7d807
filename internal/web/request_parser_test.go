package web

import (
	"errors"
	"net/url"
	"testing"

	"fintrack/internal/core"
)

func TestParseMonthParams(t *testing.T) {
	tests := []struct {
		name      string
		query     url.Values
		wantYear  int
		wantMonth int
		defaults  bool
	}{
		{
			name:      "explicit values",
			query:     url.Values{"year": {"2025"}, "month": {"7"}},
			wantYear:  2025,
			wantMonth: 7,
		},
		{
			name:     "empty falls back to now",
			query:    url.Values{},
			defaults: true,
		},
		{
			name:     "month out of range corrected",
			query:    url.Values{"year": {"2025"}, "month": {"13"}},
			wantYear: 2025,
			defaults: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMonthParams(tt.query)
			if tt.defaults {
				if got.Month < 1 || got.Month > 12 {
					t.Errorf("Month = %d, out of range", got.Month)
				}
				return
			}
			if got.Year != tt.wantYear || got.Month != tt.wantMonth {
				t.Errorf("got %+v, want %d/%d", got, tt.wantYear, tt.wantMonth)
			}
		})
	}
}

func TestParseTransactionForm(t *testing.T) {
	base := func() url.Values {
		return url.Values{
			"date":           {"2026-03-15"},
			"amount":         {"1,250.50"},
			"type":           {"expense"},
			"category":       {"groceries"},
			"payment_method": {"upi"},
		}
	}

	t.Run("valid upi expense", func(t *testing.T) {
		tx, err := parseTransactionForm(base())
		if err != nil {
			t.Fatalf("parseTransactionForm: %v", err)
		}
		if tx.Amount != 1250.50 {
			t.Errorf("Amount = %v", tx.Amount)
		}
		if tx.Date.String() != "2026-03-15" {
			t.Errorf("Date = %s", tx.Date)
		}
		if tx.CreditCardID != nil {
			t.Errorf("CreditCardID set for non-card payment")
		}
	})

	t.Run("card payment requires card id", func(t *testing.T) {
		form := base()
		form.Set("payment_method", "card")
		if _, err := parseTransactionForm(form); !errors.Is(err, errMissingCard) {
			t.Fatalf("err = %v, want errMissingCard", err)
		}
	})

	t.Run("card payment with card id", func(t *testing.T) {
		form := base()
		form.Set("payment_method", "card")
		form.Set("credit_card_id", "3")
		tx, err := parseTransactionForm(form)
		if err != nil {
			t.Fatalf("parseTransactionForm: %v", err)
		}
		if tx.CreditCardID == nil || *tx.CreditCardID != 3 {
			t.Errorf("CreditCardID = %v", tx.CreditCardID)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		form := base()
		form.Set("amount", "-50")
		if _, err := parseTransactionForm(form); err == nil {
			t.Fatal("negative amount accepted")
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		form := base()
		form.Set("amount", "0")
		if _, err := parseTransactionForm(form); err == nil {
			t.Fatal("zero amount accepted")
		}
	})
}

func TestParseInvestmentForm(t *testing.T) {
	base := func() url.Values {
		return url.Values{
			"name":            {"index fund"},
			"investment_type": {"mutual_fund"},
			"purchase_date":   {"2026-01-10"},
			"initial_amount":  {"10000"},
			"current_value":   {"10500"},
		}
	}

	t.Run("non-recurring ignores recurring fields", func(t *testing.T) {
		form := base()
		form.Set("recurring_type", "monthly")
		form.Set("recurring_amount", "500")
		inv, err := parseInvestmentForm(form)
		if err != nil {
			t.Fatalf("parseInvestmentForm: %v", err)
		}
		if inv.RecurringType != nil || inv.RecurringAmount != nil {
			t.Errorf("recurring fields set on non-recurring investment: %+v", inv)
		}
	})

	t.Run("recurring picks up fields", func(t *testing.T) {
		form := base()
		form.Set("is_recurring", "on")
		form.Set("recurring_type", "monthly")
		form.Set("recurring_amount", "500")
		inv, err := parseInvestmentForm(form)
		if err != nil {
			t.Fatalf("parseInvestmentForm: %v", err)
		}
		if inv.RecurringType == nil || *inv.RecurringType != core.RecurMonthly {
			t.Errorf("RecurringType = %v", inv.RecurringType)
		}
		if inv.RecurringAmount == nil || *inv.RecurringAmount != 500 {
			t.Errorf("RecurringAmount = %v", inv.RecurringAmount)
		}
	})

	t.Run("recurring without fields rejected", func(t *testing.T) {
		form := base()
		form.Set("is_recurring", "on")
		if _, err := parseInvestmentForm(form); err == nil {
			t.Fatal("recurring investment without type/amount accepted")
		}
	})
}

func TestParsePaymentForm(t *testing.T) {
	form := url.Values{
		"credit_card_id": {"2"},
		"amount":         {"4,500"},
		"payment_date":   {"2026-02-05"},
	}
	p, err := parsePaymentForm(form)
	if err != nil {
		t.Fatalf("parsePaymentForm: %v", err)
	}
	if p.CreditCardID != 2 || p.Amount != 4500 {
		t.Errorf("payment = %+v", p)
	}

	form.Del("credit_card_id")
	if _, err := parsePaymentForm(form); err == nil {
		t.Fatal("payment without card accepted")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"keep\ttabs", "keep\ttabs"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
