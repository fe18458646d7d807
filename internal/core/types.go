package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	PayCash PaymentMethod = "cash"
	PayCard PaymentMethod = "card"
	PayUPI  PaymentMethod = "upi"
	PayBank PaymentMethod = "bank"
)

const (
	MutualFund    InvestmentType = "mutual_fund"
	LifeInsurance InvestmentType = "life_insurance"
	FixedDeposit  InvestmentType = "fixed_deposit"
	Stock         InvestmentType = "stock"
	Crypto        InvestmentType = "crypto"
	OtherAsset    InvestmentType = "other"
)

const (
	RecurMonthly RecurringType = "monthly"
	RecurYearly  RecurringType = "yearly"
)

type (
	TransactionType string
	PaymentMethod   string
	InvestmentType  string
	RecurringType   string

	// Transaction is a single income or expense entry. CreditCardID is set
	// exactly when the payment method is "card".
	Transaction struct {
		ID            int64           `json:"id"`
		Date          Date            `json:"date"`
		Amount        float64         `json:"amount"`
		Type          TransactionType `json:"type"`
		Category      string          `json:"category"`
		Description   string          `json:"description,omitempty"`
		PaymentMethod PaymentMethod   `json:"payment_method"`
		CreditCardID  *int64          `json:"credit_card_id,omitempty"`
		CreatedAt     time.Time       `json:"created_at,omitzero"`
	}

	// CreditCard describes a card and its billing cycle. Cycle bounds and the
	// due date are day-of-month integers.
	CreditCard struct {
		ID                int64     `json:"id"`
		Name              string    `json:"name"`
		BankName          string    `json:"bank_name"`
		BillingCycleStart int       `json:"billing_cycle_start"`
		BillingCycleEnd   int       `json:"billing_cycle_end"`
		DueDate           int       `json:"due_date"`
		CreditLimit       float64   `json:"credit_limit"`
		CreatedAt         time.Time `json:"created_at,omitzero"`
	}

	// SavingsInvestment is a savings or investment position. The recurring
	// fields are meaningful only while IsRecurring is true.
	SavingsInvestment struct {
		ID                int64          `json:"id"`
		Name              string         `json:"name"`
		InvestmentType    InvestmentType `json:"investment_type"`
		PurchaseDate      Date           `json:"purchase_date"`
		InitialAmount     float64        `json:"initial_amount"`
		CurrentValue      float64        `json:"current_value"`
		Description       string         `json:"description,omitempty"`
		IsRecurring       bool           `json:"is_recurring"`
		RecurringType     *RecurringType `json:"recurring_type"`
		RecurringAmount   *float64       `json:"recurring_amount"`
		LastRecurringDate *Date          `json:"last_recurring_date,omitempty"`
		CreatedAt         time.Time      `json:"created_at,omitzero"`
		UpdatedAt         time.Time      `json:"updated_at,omitzero"`
	}

	// Salary is a configuration record; the backend posts it as an income
	// transaction on the first of each month while it is active.
	Salary struct {
		ID            int64     `json:"id"`
		Name          string    `json:"name"`
		Amount        float64   `json:"amount"`
		StartDate     Date      `json:"start_date"`
		IsActive      bool      `json:"is_active"`
		LastAddedDate *Date     `json:"last_added_date,omitempty"`
		Description   string    `json:"description,omitempty"`
		CreatedAt     time.Time `json:"created_at,omitzero"`
	}

	// CreditCardPayment records a card-bill settlement.
	CreditCardPayment struct {
		ID           int64     `json:"id"`
		CreditCardID int64     `json:"credit_card_id"`
		Amount       float64   `json:"amount"`
		PaymentDate  Date      `json:"payment_date"`
		Description  string    `json:"description,omitempty"`
		CreatedAt    time.Time `json:"created_at,omitzero"`
	}

	// SavingsComparison is the server-computed liquidity aggregate.
	SavingsComparison struct {
		AccountBalance              float64 `json:"account_balance"`
		TotalInvested               float64 `json:"total_invested"`
		TotalCurrentInvestmentValue float64 `json:"total_current_investment_value"`
		InvestmentProfitLoss        float64 `json:"investment_profit_loss"`
		CashSavings                 float64 `json:"cash_savings"`
		Difference                  float64 `json:"difference"`
	}

	// CategoryAmount is one entry of a category breakdown. Ordering within a
	// summary is decided by the server and preserved as-is.
	CategoryAmount struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
	}

	// MonthlySummary aggregates a single month. Savings is income minus
	// expenses minus investment accruals.
	MonthlySummary struct {
		Month         string           `json:"month"` // YYYY-MM
		TotalIncome   float64          `json:"total_income"`
		TotalExpense  float64          `json:"total_expense"`
		Investments   float64          `json:"investments"`
		Savings       float64          `json:"savings"`
		TopCategories []CategoryAmount `json:"top_categories"`
	}

	// TrendPoint is one month of a spending trend or yearly breakdown.
	TrendPoint struct {
		Month       string  `json:"month"` // YYYY-MM
		Income      float64 `json:"income"`
		Expense     float64 `json:"expense"`
		Investments float64 `json:"investments"`
		Savings     float64 `json:"savings"`
	}

	YearlySummary struct {
		Year             int          `json:"year"`
		TotalIncome      float64      `json:"total_income"`
		TotalExpense     float64      `json:"total_expense"`
		Investments      float64      `json:"investments"`
		Savings          float64      `json:"savings"`
		MonthlyBreakdown []TrendPoint `json:"monthly_breakdown"`
	}

	Insight struct {
		Message  string          `json:"message"`
		Severity InsightSeverity `json:"severity"`
	}

	InsightSeverity string

	// Analytics pairs the current month's summary with its insights.
	Analytics struct {
		MonthlySummary MonthlySummary `json:"monthly_summary"`
		Insights       []Insight      `json:"insights"`
	}

	// CardUtilization is the server-computed spend within the current billing
	// cycle. UtilizationPercent is displayed as provided, never recomputed.
	CardUtilization struct {
		CardID             int64   `json:"card_id"`
		CardName           string  `json:"card_name"`
		CreditLimit        float64 `json:"credit_limit"`
		AmountSpent        float64 `json:"amount_spent"`
		UtilizationPercent float64 `json:"utilization_percent"`
		DaysToDue          int     `json:"days_to_due"`
	}
)

const (
	SeverityInfo    InsightSeverity = "info"
	SeverityWarning InsightSeverity = "warning"
	SeverityAlert   InsightSeverity = "alert"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid type")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyCategory   = errors.New("empty category")
	ErrInvalidDay      = errors.New("invalid day of month")
	ErrCardRequired    = errors.New("credit card is required for card payments")
	ErrCardNotAllowed  = errors.New("credit card is only valid for card payments")
	ErrRecurringFields = errors.New("recurring type and amount required for recurring investments")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayCash, PayCard, PayUPI, PayBank:
		return true
	default:
		return false
	}
}

func (it InvestmentType) Valid() bool {
	switch it {
	case MutualFund, LifeInsurance, FixedDeposit, Stock, Crypto, OtherAsset:
		return true
	default:
		return false
	}
}

func (rt RecurringType) Valid() bool {
	return rt == RecurMonthly || rt == RecurYearly
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if !t.PaymentMethod.Valid() {
		return errors.New("invalid payment method")
	}
	// credit_card_id is present iff the payment method is card.
	if t.PaymentMethod == PayCard && t.CreditCardID == nil {
		return ErrCardRequired
	}
	if t.PaymentMethod != PayCard && t.CreditCardID != nil {
		return ErrCardNotAllowed
	}
	return nil
}

func validDayOfMonth(d int) bool {
	return d >= 1 && d <= 31
}

func (c CreditCard) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.BankName) == "" {
		return errors.New("empty bank name")
	}
	if !validDayOfMonth(c.BillingCycleStart) || !validDayOfMonth(c.BillingCycleEnd) || !validDayOfMonth(c.DueDate) {
		return ErrInvalidDay
	}
	if c.CreditLimit <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s SavingsInvestment) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if !s.InvestmentType.Valid() {
		return ErrInvalidType
	}
	if err := s.PurchaseDate.Validate(); err != nil {
		return err
	}
	if s.InitialAmount < 0 || s.CurrentValue < 0 {
		return ErrInvalidAmount
	}
	if s.IsRecurring {
		if s.RecurringType == nil || !s.RecurringType.Valid() {
			return ErrRecurringFields
		}
		if s.RecurringAmount == nil || *s.RecurringAmount <= 0 {
			return ErrRecurringFields
		}
	}
	return nil
}

// Normalize clears the recurring fields when the position is not recurring,
// so updates send explicit nulls rather than stale values.
func (s *SavingsInvestment) Normalize() {
	if !s.IsRecurring {
		s.RecurringType = nil
		s.RecurringAmount = nil
	}
}

func (s Salary) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (p CreditCardPayment) Validate() error {
	if p.CreditCardID == 0 {
		return ErrCardRequired
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	return p.PaymentDate.Validate()
}
