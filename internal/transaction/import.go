package transaction

import (
	"context"
	"io"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/csvimport"
	transactionDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/transaction"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
)

// ImportCSV loads a transactions export for userID inside one database transaction.
// Rows whose Transaction ID is already stored, or repeated earlier in the file, are
// skipped. Rows with bad data are reported and left out; the rest are created.
func (s *Service) ImportCSV(ctx context.Context, userID string, r io.Reader, maxErrorDetails int) (*ImportResult, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	report := &csvimport.Report{}

	err = s.repo.RunInTx(ctx, func(repo RepositoryAPI) error {
		report = &csvimport.Report{}
		result.TransactionsCreated, result.TransactionsSkipped = 0, 0
		return importRows(ctx, repo, userID, rows, result, report)
	})
	if err != nil {
		s.logger.Error("transaction import failed", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to import transactions", err)
	}

	result.Errors = report.Len()
	result.ErrorDetails = report.Details(maxErrorDetails)
	result.ErrorSummary = report.Summary()
	if result.Failed() {
		result.Message = "No transactions were imported"
	} else {
		result.Message = "Transactions imported successfully"
	}

	s.logger.Info("transactions imported",
		"user_id", userID,
		"created", result.TransactionsCreated,
		"skipped", result.TransactionsSkipped,
		"errors", result.Errors)

	if result.TransactionsCreated > 0 {
		s.publish(ctx, events.NewTransactionsImportedEvent(userID, result.TransactionsCreated, result.TransactionsSkipped))
	}
	return result, nil
}

func importRows(ctx context.Context, repo RepositoryAPI, userID string, rows []Row, result *ImportResult, report *csvimport.Report) error {
	seen := make(map[string]struct{}, len(rows))

	for _, row := range rows {
		if row.ExternalID != "" {
			if _, dup := seen[row.ExternalID]; dup {
				result.TransactionsSkipped++
				continue
			}
			// the first occurrence claims the id even when the row turns out invalid
			seen[row.ExternalID] = struct{}{}
			exists, err := repo.ExternalIDExists(ctx, userID, row.ExternalID)
			if err != nil {
				return err
			}
			if exists {
				result.TransactionsSkipped++
				continue
			}
		}

		cat, err := repo.GetCategoryByName(ctx, userID, row.Category)
		if err != nil {
			return err
		}
		if cat == nil {
			report.Add(row.Line, KindMissingCategory, "Category '%s' not found", row.Category)
			continue
		}

		if row.Institution == "" || row.Account == "" {
			report.Add(row.Line, KindMissingValue, "Institution and Account are required")
			continue
		}

		date, err := ParseDate(row.Date)
		if err != nil {
			report.Add(row.Line, KindInvalidDate, "Invalid date format '%s'", row.Date)
			continue
		}

		amount, err := ParseAmount(row.Amount)
		if err != nil {
			report.Add(row.Line, KindInvalidAmount, "Invalid amount '%s'", row.Amount)
			continue
		}
		amount = amount.Round(2)

		inst, err := repo.GetOrCreateInstitution(ctx, userID, row.Institution)
		if err != nil {
			return err
		}
		acc, err := repo.GetOrCreateAccount(ctx, userID, inst.ID, row.Account)
		if err != nil {
			return err
		}

		dm := &transactionDatamodel.Transaction{
			UserID:            userID,
			AccountID:         acc.ID,
			CategoriesID:      cat.ID,
			Amount:            amount,
			TransactionType:   TypeFor(amount),
			ExternalDate:      &date,
			Description:       row.Description,
			OriginalStatement: row.Description,
		}
		if row.ExternalID != "" {
			ext := row.ExternalID
			dm.ExternalID = &ext
		}
		if err := repo.Create(ctx, dm); err != nil {
			return err
		}
		result.TransactionsCreated++
	}
	return nil
}
