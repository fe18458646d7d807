package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

var errMissingCard = errors.New("select a credit card for card payments")

// MonthParams holds a parsed year/month pair from query parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters, falling
// back to the current date. Out-of-range months are corrected.
func ParseMonthParams(query url.Values) MonthParams {
	now := time.Now()
	params := MonthParams{Year: now.Year(), Month: int(now.Month())}

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			params.Year = y
		}
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			params.Month = m
		}
	}
	if params.Month < 1 || params.Month > 12 {
		params.Month = int(now.Month())
	}
	return params
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func formDate(form url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(form.Get(key))
	if v == "" {
		return core.Today(), nil
	}
	return core.ParseDate(v)
}

func formID(form url.Values, key string) (int64, error) {
	v := strings.TrimSpace(form.Get(key))
	if v == "" {
		return 0, errors.New("missing " + key)
	}
	return strconv.ParseInt(v, 10, 64)
}

// parseTransactionForm builds a transaction from form values. The card
// requirement is enforced here, before any request leaves the process: a
// card payment without a selected card never reaches the API.
func parseTransactionForm(form url.Values) (core.Transaction, error) {
	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := formDate(form, "date")
	if err != nil {
		return core.Transaction{}, err
	}

	tx := core.Transaction{
		Date:          date,
		Amount:        amount,
		Type:          core.TransactionType(sanitizeInput(form.Get("type"))),
		Category:      sanitizeInput(form.Get("category")),
		Description:   sanitizeInput(form.Get("description")),
		PaymentMethod: core.PaymentMethod(sanitizeInput(form.Get("payment_method"))),
	}
	if tx.PaymentMethod == core.PayCard {
		id, err := formID(form, "credit_card_id")
		if err != nil {
			return core.Transaction{}, errMissingCard
		}
		tx.CreditCardID = &id
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func parseCardForm(form url.Values) (core.CreditCard, error) {
	limit, err := core.ParseAmount(form.Get("credit_limit"))
	if err != nil {
		return core.CreditCard{}, err
	}
	atoi := func(key string) int {
		n, _ := strconv.Atoi(strings.TrimSpace(form.Get(key)))
		return n
	}
	card := core.CreditCard{
		Name:              sanitizeInput(form.Get("name")),
		BankName:          sanitizeInput(form.Get("bank_name")),
		BillingCycleStart: atoi("billing_cycle_start"),
		BillingCycleEnd:   atoi("billing_cycle_end"),
		DueDate:           atoi("due_date"),
		CreditLimit:       limit,
	}
	if err := card.Validate(); err != nil {
		return core.CreditCard{}, err
	}
	return card, nil
}

// parseInvestmentForm reads the recurring fields only when the is_recurring
// box is checked; otherwise they are left nil regardless of what the form
// carried.
func parseInvestmentForm(form url.Values) (core.SavingsInvestment, error) {
	initial, err := core.ParseAmount(form.Get("initial_amount"))
	if err != nil {
		return core.SavingsInvestment{}, err
	}
	current, err := core.ParseAmount(form.Get("current_value"))
	if err != nil {
		return core.SavingsInvestment{}, err
	}
	date, err := formDate(form, "purchase_date")
	if err != nil {
		return core.SavingsInvestment{}, err
	}

	inv := core.SavingsInvestment{
		Name:           sanitizeInput(form.Get("name")),
		InvestmentType: core.InvestmentType(sanitizeInput(form.Get("investment_type"))),
		PurchaseDate:   date,
		InitialAmount:  initial,
		CurrentValue:   current,
		Description:    sanitizeInput(form.Get("description")),
		IsRecurring:    form.Get("is_recurring") == "on" || form.Get("is_recurring") == "true",
	}
	if inv.IsRecurring {
		rt := core.RecurringType(sanitizeInput(form.Get("recurring_type")))
		inv.RecurringType = &rt
		if amt, err := core.ParseAmount(form.Get("recurring_amount")); err == nil {
			inv.RecurringAmount = &amt
		}
	}
	inv.Normalize()
	if err := inv.Validate(); err != nil {
		return core.SavingsInvestment{}, err
	}
	return inv, nil
}

func parseSalaryForm(form url.Values) (core.Salary, error) {
	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return core.Salary{}, err
	}
	date, err := formDate(form, "start_date")
	if err != nil {
		return core.Salary{}, err
	}
	sal := core.Salary{
		Name:        sanitizeInput(form.Get("name")),
		Amount:      amount,
		StartDate:   date,
		IsActive:    form.Get("is_active") != "false",
		Description: sanitizeInput(form.Get("description")),
	}
	if err := sal.Validate(); err != nil {
		return core.Salary{}, err
	}
	return sal, nil
}

func parsePaymentForm(form url.Values) (core.CreditCardPayment, error) {
	amount, err := core.ParseAmount(form.Get("amount"))
	if err != nil {
		return core.CreditCardPayment{}, err
	}
	cardID, err := formID(form, "credit_card_id")
	if err != nil {
		return core.CreditCardPayment{}, err
	}
	date, err := formDate(form, "payment_date")
	if err != nil {
		return core.CreditCardPayment{}, err
	}
	p := core.CreditCardPayment{
		CreditCardID: cardID,
		Amount:       amount,
		PaymentDate:  date,
		Description:  sanitizeInput(form.Get("description")),
	}
	if err := p.Validate(); err != nil {
		return core.CreditCardPayment{}, err
	}
	return p, nil
}

// RequireMethod returns an error response when the method does not match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("invalid request format")
	}
	return nil
}
