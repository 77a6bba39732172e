// elections.go: election reference data and the import transaction capability
package datastore

import (
	"context"

	"github.com/senthilk/partybase/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateElectionYear inserts a new reference year. Years are unique; a
// duplicate surfaces as a conflict error.
func (ds *DataStore) CreateElectionYear(ctx context.Context, year *ElectionYear) error {
	if err := ds.DB.WithContext(ctx).Create(year).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Newf("election year %d already exists", year.Year).
				Category(errors.CategoryConflict).
				Component("datastore").
				Build()
		}
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// GetElectionYears retrieves all reference years, oldest first.
func (ds *DataStore) GetElectionYears(ctx context.Context) ([]ElectionYear, error) {
	var years []ElectionYear
	if err := ds.DB.WithContext(ctx).Order("year ASC").Find(&years).Error; err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return years, nil
}

// CreateConstituency inserts a new reference constituency.
func (ds *DataStore) CreateConstituency(ctx context.Context, constituency *Constituency) error {
	if err := ds.DB.WithContext(ctx).Create(constituency).Error; err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// GetConstituencies retrieves all constituencies ordered by number.
func (ds *DataStore) GetConstituencies(ctx context.Context) ([]Constituency, error) {
	var constituencies []Constituency
	if err := ds.DB.WithContext(ctx).Order("number ASC").Find(&constituencies).Error; err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return constituencies, nil
}

// GetConstituency retrieves a constituency by id.
func (ds *DataStore) GetConstituency(ctx context.Context, id uint) (*Constituency, error) {
	var constituency Constituency
	err := ds.DB.WithContext(ctx).First(&constituency, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConstituencyNotFound
	}
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return &constituency, nil
}

// GetConstituencyResults retrieves the flattened per-booth results for one
// constituency, optionally filtered to one year (year == 0 means all years).
func (ds *DataStore) GetConstituencyResults(ctx context.Context, constituencyID uint, year int) ([]ConstituencyResult, error) {
	var results []ConstituencyResult

	query := ds.DB.WithContext(ctx).Table("booth_results").
		Select("booths.id as booth_id, booths.booth_no, booths.village_name, election_years.year, booth_results.polling_percentage, booth_results.party_percentage").
		Joins("INNER JOIN booths ON booths.id = booth_results.booth_id").
		Joins("INNER JOIN election_years ON election_years.id = booth_results.year_id").
		Where("booths.constituency_id = ?", constituencyID)
	if year != 0 {
		query = query.Where("election_years.year = ?", year)
	}

	err := query.Order("election_years.year ASC, booths.booth_no ASC").Scan(&results).Error
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return results, nil
}

// importTx implements ImportTx against one open GORM transaction.
type importTx struct {
	tx *gorm.DB
}

// WithImportTx runs fn against the reference data inside a single
// transaction. The transaction commits iff fn returns nil and the commit
// itself succeeds; any error rolls back the whole batch. The underlying
// connection is released on either outcome.
func (ds *DataStore) WithImportTx(ctx context.Context, fn func(tx ImportTx) error) error {
	return ds.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&importTx{tx: tx})
	})
}

// FindElectionYear looks up a reference year by exact year match. Years are
// never created here: reference data must pre-exist.
func (t *importTx) FindElectionYear(ctx context.Context, year int) (*ElectionYear, error) {
	var electionYear ElectionYear
	err := t.tx.WithContext(ctx).Where("year = ?", year).First(&electionYear).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrYearNotFound
	}
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return &electionYear, nil
}

// FindBooth looks up a booth by its natural key within the transaction, so a
// booth created for an earlier row of the same batch is visible here.
func (t *importTx) FindBooth(ctx context.Context, constituencyID uint, boothNo int) (*Booth, error) {
	var booth Booth
	err := t.tx.WithContext(ctx).
		Where("constituency_id = ? AND booth_no = ?", constituencyID, boothNo).
		First(&booth).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBoothNotFound
	}
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return &booth, nil
}

// CreateBooth inserts a new booth. The unique index on
// (constituency_id, booth_no) is the synchronization point between
// concurrent imports; a violation aborts the batch.
func (t *importTx) CreateBooth(ctx context.Context, booth *Booth) error {
	if err := t.tx.WithContext(ctx).Create(booth).Error; err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// UpsertBoothResult inserts a result row or, when a row with the same
// (booth_id, year_id) exists, overwrites its two percentage columns. This is
// a single atomic statement, not a read-then-write.
func (t *importTx) UpsertBoothResult(ctx context.Context, result *BoothResult) error {
	err := t.tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "booth_id"}, {Name: "year_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"polling_percentage", "party_percentage",
			}),
		}).
		Create(result).Error
	if err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}
