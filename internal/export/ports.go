package export

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound ledger adapters.
type (
	LedgerAppender interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	LedgerRemover interface {
		Remove(ctx context.Context, tx core.Transaction) error
	}
)
