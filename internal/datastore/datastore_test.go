package datastore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/senthilk/partybase/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *DataStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&Admin{}, &Member{}, &Team{}, &Event{}, &Fund{},
		&ElectionYear{}, &Constituency{}, &Booth{}, &BoothResult{},
	)
	require.NoError(t, err)

	return &DataStore{DB: db}
}

func TestPing(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	assert.NoError(t, ds.Ping(context.Background()))
}

func TestCreateElectionYearDuplicate(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, ds.CreateElectionYear(ctx, &ElectionYear{Year: 2021}))

	err := ds.CreateElectionYear(ctx, &ElectionYear{Year: 2021})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConflict))

	years, err := ds.GetElectionYears(ctx)
	require.NoError(t, err)
	assert.Len(t, years, 1)
}

func TestGetElectionYearsOrdered(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	for _, y := range []int{2021, 2016, 2026} {
		require.NoError(t, ds.CreateElectionYear(ctx, &ElectionYear{Year: y}))
	}

	years, err := ds.GetElectionYears(ctx)
	require.NoError(t, err)
	require.Len(t, years, 3)
	assert.Equal(t, 2016, years[0].Year)
	assert.Equal(t, 2026, years[2].Year)
}

func TestConstituencies(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	c := &Constituency{Number: 164, Code: "TVR", Name: "Tiruvarur"}
	require.NoError(t, ds.CreateConstituency(ctx, c))
	require.NoError(t, ds.CreateConstituency(ctx, &Constituency{Number: 150, Code: "MNG", Name: "Mannargudi"}))

	all, err := ds.GetConstituencies(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Mannargudi", all[0].Name)

	got, err := ds.GetConstituency(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tiruvarur", got.Name)

	_, err = ds.GetConstituency(ctx, 9999)
	assert.ErrorIs(t, err, ErrConstituencyNotFound)
}

func TestGetConstituencyResults(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	y2016 := &ElectionYear{Year: 2016}
	y2021 := &ElectionYear{Year: 2021}
	require.NoError(t, ds.DB.Create(y2016).Error)
	require.NoError(t, ds.DB.Create(y2021).Error)

	c := &Constituency{Number: 164, Code: "TVR", Name: "Tiruvarur"}
	require.NoError(t, ds.DB.Create(c).Error)

	b1 := &Booth{ConstituencyID: c.ID, BoothNo: 2, VillageName: "A"}
	b2 := &Booth{ConstituencyID: c.ID, BoothNo: 1, VillageName: "B"}
	require.NoError(t, ds.DB.Create(b1).Error)
	require.NoError(t, ds.DB.Create(b2).Error)

	require.NoError(t, ds.DB.Create(&BoothResult{BoothID: b1.ID, YearID: y2021.ID, PollingPercentage: 72.5, PartyPercentage: 40.1}).Error)
	require.NoError(t, ds.DB.Create(&BoothResult{BoothID: b2.ID, YearID: y2021.ID, PollingPercentage: 68.0, PartyPercentage: 35.5}).Error)
	require.NoError(t, ds.DB.Create(&BoothResult{BoothID: b1.ID, YearID: y2016.ID, PollingPercentage: 70.0, PartyPercentage: 38.0}).Error)

	t.Run("all years ordered by year then booth", func(t *testing.T) {
		results, err := ds.GetConstituencyResults(ctx, c.ID, 0)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, 2016, results[0].Year)
		assert.Equal(t, 1, results[1].BoothNo)
		assert.Equal(t, 2, results[2].BoothNo)
	})

	t.Run("filtered to one year", func(t *testing.T) {
		results, err := ds.GetConstituencyResults(ctx, c.ID, 2016)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "A", results[0].VillageName)
		assert.InDelta(t, 70.0, results[0].PollingPercentage, 0.001)
	})

	t.Run("unknown constituency yields empty", func(t *testing.T) {
		results, err := ds.GetConstituencyResults(ctx, 9999, 0)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestImportTxCommitAndRollback(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, ds.DB.Create(&ElectionYear{Year: 2021}).Error)
	c := &Constituency{Number: 164, Code: "TVR", Name: "Tiruvarur"}
	require.NoError(t, ds.DB.Create(c).Error)

	t.Run("commit on nil", func(t *testing.T) {
		err := ds.WithImportTx(ctx, func(tx ImportTx) error {
			year, err := tx.FindElectionYear(ctx, 2021)
			require.NoError(t, err)

			_, err = tx.FindBooth(ctx, c.ID, 1)
			require.ErrorIs(t, err, ErrBoothNotFound)

			booth := &Booth{ConstituencyID: c.ID, BoothNo: 1, VillageName: "A"}
			require.NoError(t, tx.CreateBooth(ctx, booth))

			// Created booth is visible to later lookups in the same tx
			found, err := tx.FindBooth(ctx, c.ID, 1)
			require.NoError(t, err)
			require.Equal(t, booth.ID, found.ID)

			return tx.UpsertBoothResult(ctx, &BoothResult{
				BoothID: booth.ID, YearID: year.ID,
				PollingPercentage: 72.5, PartyPercentage: 40.1,
			})
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, ds.DB.Model(&BoothResult{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.NewStd("boom")
		err := ds.WithImportTx(ctx, func(tx ImportTx) error {
			require.NoError(t, tx.CreateBooth(ctx, &Booth{ConstituencyID: c.ID, BoothNo: 2}))
			return boom
		})
		require.ErrorIs(t, err, boom)

		var count int64
		require.NoError(t, ds.DB.Model(&Booth{}).Where("booth_no = ?", 2).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("year lookup misses are sentinels", func(t *testing.T) {
		err := ds.WithImportTx(ctx, func(tx ImportTx) error {
			_, err := tx.FindElectionYear(ctx, 1899)
			return err
		})
		assert.ErrorIs(t, err, ErrYearNotFound)
	})
}

func TestUpsertBoothResultOverwrites(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	year := &ElectionYear{Year: 2021}
	require.NoError(t, ds.DB.Create(year).Error)
	booth := &Booth{ConstituencyID: 1, BoothNo: 1}
	require.NoError(t, ds.DB.Create(booth).Error)

	upsert := func(polling, party float64) error {
		return ds.WithImportTx(ctx, func(tx ImportTx) error {
			return tx.UpsertBoothResult(ctx, &BoothResult{
				BoothID: booth.ID, YearID: year.ID,
				PollingPercentage: polling, PartyPercentage: party,
			})
		})
	}

	require.NoError(t, upsert(72.5, 40.1))
	require.NoError(t, upsert(75.0, 41.2))

	var count int64
	require.NoError(t, ds.DB.Model(&BoothResult{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var result BoothResult
	require.NoError(t, ds.DB.First(&result).Error)
	assert.InDelta(t, 75.0, result.PollingPercentage, 0.001)
	assert.InDelta(t, 41.2, result.PartyPercentage, 0.001)
}

func TestMemberLifecycle(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	member := &Member{
		ID:     uuid.New().String(),
		Mobile: "9876543210",
		Name:   "Kumar",
	}
	require.NoError(t, ds.SaveMember(ctx, member))

	got, err := ds.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kumar", got.Name)

	byMobile, err := ds.GetMemberByMobile(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, member.ID, byMobile.ID)

	got.Name = "Kumar S"
	require.NoError(t, ds.UpdateMember(ctx, got))
	updated, err := ds.GetMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kumar S", updated.Name)

	all, err := ds.GetAllMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, ds.DeleteMember(ctx, member.ID))
	_, err = ds.GetMember(ctx, member.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	assert.ErrorIs(t, ds.DeleteMember(ctx, member.ID), ErrMemberNotFound)
}

func TestGetMemberByMobileMiss(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)

	_, err := ds.GetMemberByMobile(context.Background(), "0000000000")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestGetPositionsDistinct(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	rows := []Team{
		{TCode: "T1", DCode: "D1", JCode: "J1", TName: "Town", DName: "District", JName: "Junction"},
		{TCode: "T1", DCode: "D1", JCode: "J1", TName: "Town", DName: "District", JName: "Junction"},
		{TCode: "T2", DCode: "D1", JCode: "J1", TName: "Other", DName: "District", JName: "Junction"},
	}
	for i := range rows {
		require.NoError(t, ds.DB.Create(&rows[i]).Error)
	}

	positions, err := ds.GetPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 2)
}

func TestEventLifecycle(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	event := &Event{Title: "Booth committee meeting", Type: "party", Date: "2026-09-15", Location: "Tiruvarur"}
	require.NoError(t, ds.SaveEvent(ctx, event))
	require.NotZero(t, event.ID)

	got, err := ds.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Booth committee meeting", got.Title)

	got.Location = "Mannargudi"
	require.NoError(t, ds.UpdateEvent(ctx, got))

	all, err := ds.GetAllEvents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Mannargudi", all[0].Location)

	require.NoError(t, ds.DeleteEvent(ctx, event.ID))
	assert.ErrorIs(t, ds.DeleteEvent(ctx, event.ID), ErrEventNotFound)
	_, err = ds.GetEvent(ctx, event.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestFundLifecycle(t *testing.T) {
	t.Parallel()
	ds := setupTestDB(t)
	ctx := context.Background()

	fund := &Fund{TaskName: "Road repair", FundName: "MLA fund", Year: "2026", BoothNo: 5, Status: "Active"}
	require.NoError(t, ds.SaveFund(ctx, fund))
	require.NotZero(t, fund.ID)

	got, err := ds.GetFund(ctx, fund.ID)
	require.NoError(t, err)
	assert.Equal(t, "Road repair", got.TaskName)

	got.Status = "Completed"
	require.NoError(t, ds.UpdateFund(ctx, got))

	all, err := ds.GetAllFunds(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Completed", all[0].Status)

	require.NoError(t, ds.DeleteFund(ctx, fund.ID))
	assert.ErrorIs(t, ds.DeleteFund(ctx, fund.ID), ErrFundNotFound)
}
