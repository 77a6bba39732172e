// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/senthilk/partybase/internal/conf"
	"github.com/senthilk/partybase/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Sentinel errors for reference lookups.
var (
	ErrYearNotFound         = errors.NewStd("election year not found")
	ErrBoothNotFound        = errors.NewStd("booth not found")
	ErrMemberNotFound       = errors.NewStd("member not found")
	ErrEventNotFound        = errors.NewStd("event not found")
	ErrFundNotFound         = errors.NewStd("fund not found")
	ErrConstituencyNotFound = errors.NewStd("constituency not found")
)

// Interface abstracts the underlying database implementation and defines the
// interface for database operations.
type Interface interface {
	Open() error
	Close() error
	Ping(ctx context.Context) error

	// members
	GetAllMembers(ctx context.Context) ([]Member, error)
	GetMember(ctx context.Context, id string) (*Member, error)
	GetMemberByMobile(ctx context.Context, mobile string) (*Member, error)
	SaveMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, id string) error

	// teams
	GetPositions(ctx context.Context) ([]Team, error)

	// events
	GetAllEvents(ctx context.Context) ([]Event, error)
	GetEvent(ctx context.Context, id uint) (*Event, error)
	SaveEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id uint) error

	// funds
	GetAllFunds(ctx context.Context) ([]Fund, error)
	GetFund(ctx context.Context, id uint) (*Fund, error)
	SaveFund(ctx context.Context, fund *Fund) error
	UpdateFund(ctx context.Context, fund *Fund) error
	DeleteFund(ctx context.Context, id uint) error

	// election reference data
	CreateElectionYear(ctx context.Context, year *ElectionYear) error
	GetElectionYears(ctx context.Context) ([]ElectionYear, error)
	CreateConstituency(ctx context.Context, constituency *Constituency) error
	GetConstituencies(ctx context.Context) ([]Constituency, error)
	GetConstituency(ctx context.Context, id uint) (*Constituency, error)
	GetConstituencyResults(ctx context.Context, constituencyID uint, year int) ([]ConstituencyResult, error)

	// result import: fn runs against reference data inside one transaction
	// that commits iff fn returns nil.
	WithImportTx(ctx context.Context, fn func(tx ImportTx) error) error
}

// ImportTx is the reference-data capability the import pipeline uses within
// one ambient transaction: year and booth lookups, lazy booth creation, and
// the atomic result upsert.
type ImportTx interface {
	FindElectionYear(ctx context.Context, year int) (*ElectionYear, error)
	FindBooth(ctx context.Context, constituencyID uint, boothNo int) (*Booth, error)
	CreateBooth(ctx context.Context, booth *Booth) error
	UpsertBoothResult(ctx context.Context, result *BoothResult) error
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB *gorm.DB // GORM database instance
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// Ping verifies database connectivity with a trivial query.
func (ds *DataStore) Ping(ctx context.Context) error {
	var one int
	if err := ds.DB.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// performAutoMigration automates database migrations with error handling.
func performAutoMigration(db *gorm.DB, debug bool, dbType, connectionInfo string) error {
	if err := db.AutoMigrate(
		&Admin{}, &Member{}, &Team{}, &Event{}, &Fund{},
		&ElectionYear{}, &Constituency{}, &Booth{}, &BoothResult{},
	); err != nil {
		return errors.Newf("failed to auto-migrate %s database: %w", dbType, err).
			Category(errors.CategoryDatabase).
			Component("datastore").
			Build()
	}

	if debug {
		log.Printf("%s database connection initialized: %s", dbType, connectionInfo)
	}

	return nil
}

// createGormLogger configures and returns a new GORM logger instance.
func createGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 200 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)
}
