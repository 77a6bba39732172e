// funds.go: fund tracking queries
package datastore

import (
	"context"

	"github.com/senthilk/partybase/internal/errors"
	"gorm.io/gorm"
)

// GetAllFunds retrieves all funds.
func (ds *DataStore) GetAllFunds(ctx context.Context) ([]Fund, error) {
	var funds []Fund
	if err := ds.DB.WithContext(ctx).Order("created_at ASC").Find(&funds).Error; err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return funds, nil
}

// GetFund retrieves a fund by id.
func (ds *DataStore) GetFund(ctx context.Context, id uint) (*Fund, error) {
	var fund Fund
	err := ds.DB.WithContext(ctx).First(&fund, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFundNotFound
	}
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return &fund, nil
}

// SaveFund inserts a new fund record.
func (ds *DataStore) SaveFund(ctx context.Context, fund *Fund) error {
	if err := ds.DB.WithContext(ctx).Create(fund).Error; err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// UpdateFund updates all columns of an existing fund.
func (ds *DataStore) UpdateFund(ctx context.Context, fund *Fund) error {
	if err := ds.DB.WithContext(ctx).Save(fund).Error; err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// DeleteFund removes a fund by id.
func (ds *DataStore) DeleteFund(ctx context.Context, id uint) error {
	result := ds.DB.WithContext(ctx).Delete(&Fund{}, id)
	if result.Error != nil {
		return errors.New(result.Error).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	if result.RowsAffected == 0 {
		return ErrFundNotFound
	}
	return nil
}
