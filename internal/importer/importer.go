package importer

import (
	"context"
	"log/slog"

	"github.com/senthilk/partybase/internal/datastore"
	"github.com/senthilk/partybase/internal/errors"
)

// Skip reasons reported in the import summary.
const (
	ReasonInvalidRow   = "invalid row"
	ReasonYearNotFound = "year not found"
)

// Summary is the aggregate outcome of one import batch. The observed source
// reported a bare success flag; the row accounting here is a deliberate
// improvement so callers can audit what happened.
type Summary struct {
	Imported       int            `json:"imported"`
	Skipped        int            `json:"skipped"`
	SkippedReasons map[string]int `json:"skippedReasons,omitempty"`
}

func (s *Summary) skip(reason string) {
	s.Skipped++
	if s.SkippedReasons == nil {
		s.SkippedReasons = make(map[string]int)
	}
	s.SkippedReasons[reason]++
}

// Store is the slice of the datastore the import pipeline needs: a
// reference-data transaction that commits iff the batch callback succeeds.
type Store interface {
	WithImportTx(ctx context.Context, fn func(tx datastore.ImportTx) error) error
}

// Importer reconciles a sequence of raw spreadsheet rows against the
// reference data store inside a single all-or-nothing transaction.
type Importer struct {
	ds     Store
	logger *slog.Logger
}

// New creates an Importer backed by the given datastore.
func New(ds Store, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{ds: ds, logger: logger}
}

// Run validates every raw row, then processes the validated sequence through
// reference resolution and the result upsert inside one transaction. The
// transaction commits once iff every row either completed or was a
// deliberate skip; any unexpected error rolls back the entire batch and is
// returned with an empty summary.
//
// Rows are processed sequentially: a booth created for an early row must be
// visible to later rows in the same file. Concurrent imports are not
// coordinated here; the database's unique indexes are the synchronization
// point.
func (im *Importer) Run(ctx context.Context, rows []RawRow) (Summary, error) {
	summary := Summary{}

	validated := make([]ImportRow, 0, len(rows))
	for _, raw := range rows {
		row, ok := ValidateRow(raw)
		if !ok {
			summary.skip(ReasonInvalidRow)
			continue
		}
		validated = append(validated, row)
	}

	err := im.ds.WithImportTx(ctx, func(tx datastore.ImportTx) error {
		for _, row := range validated {
			imported, err := im.applyRow(ctx, tx, row)
			if err != nil {
				return err
			}
			if imported {
				summary.Imported++
			} else {
				summary.skip(ReasonYearNotFound)
			}
		}
		return nil
	})
	if err != nil {
		im.logger.Error("import batch rolled back",
			"rows", len(rows),
			"error", err)
		return Summary{}, errors.New(err).
			Category(errors.CategoryImport).
			Component("importer").
			Context("rows", len(rows)).
			Build()
	}

	im.logger.Info("import batch committed",
		"rows", len(rows),
		"imported", summary.Imported,
		"skipped", summary.Skipped)
	return summary, nil
}

// applyRow resolves one validated row and upserts its result. It reports
// false without error when the row's year has no matching reference record,
// which is a deliberate skip: reference years must pre-exist and are never
// created here.
func (im *Importer) applyRow(ctx context.Context, tx datastore.ImportTx, row ImportRow) (bool, error) {
	year, err := tx.FindElectionYear(ctx, row.Year)
	if errors.Is(err, datastore.ErrYearNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	booth, err := tx.FindBooth(ctx, uint(row.ConstituencyID), row.BoothNo)
	if errors.Is(err, datastore.ErrBoothNotFound) {
		booth = &datastore.Booth{
			ConstituencyID: uint(row.ConstituencyID),
			BoothNo:        row.BoothNo,
			VillageName:    row.VillageName,
		}
		if err := tx.CreateBooth(ctx, booth); err != nil {
			return false, err
		}
	} else if err != nil {
		return false, err
	}

	result := &datastore.BoothResult{
		BoothID:           booth.ID,
		YearID:            year.ID,
		PollingPercentage: row.PollingPercentage,
		PartyPercentage:   row.PartyPercentage,
	}
	if err := tx.UpsertBoothResult(ctx, result); err != nil {
		return false, err
	}
	return true, nil
}
