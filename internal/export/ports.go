package export

import (
	"context"

	"billbook/internal/core"
)

// Ports for outbound export adapters.
type (
	// BillWriter mirrors bills into an external sheet keyed by bill ID.
	BillWriter interface {
		// Append writes the bill to the next free row and returns a row reference.
		Append(ctx context.Context, b core.Bill) (rowRef string, err error)

		// UpdateRow rewrites the row holding the bill's ID. Falls back to
		// appending when the ID is not present yet.
		UpdateRow(ctx context.Context, b core.Bill) error

		// ClearRow blanks the row holding id. Unknown ids are a no-op.
		ClearRow(ctx context.Context, id string) error
	}
)
