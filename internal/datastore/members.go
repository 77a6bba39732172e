// members.go: member registry queries
package datastore

import (
	"context"

	"github.com/senthilk/partybase/internal/errors"
	"gorm.io/gorm"
)

// GetAllMembers retrieves all members from the database.
func (ds *DataStore) GetAllMembers(ctx context.Context) ([]Member, error) {
	var members []Member
	if err := ds.DB.WithContext(ctx).Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return members, nil
}

// GetMember retrieves a member by its uuid.
func (ds *DataStore) GetMember(ctx context.Context, id string) (*Member, error) {
	var member Member
	err := ds.DB.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return &member, nil
}

// GetMemberByMobile retrieves a member by mobile number, used for the
// duplicate check on registration.
func (ds *DataStore) GetMemberByMobile(ctx context.Context, mobile string) (*Member, error) {
	var member Member
	err := ds.DB.WithContext(ctx).Where("mobile = ?", mobile).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return &member, nil
}

// SaveMember inserts a new member record.
func (ds *DataStore) SaveMember(ctx context.Context, member *Member) error {
	if err := ds.DB.WithContext(ctx).Create(member).Error; err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// UpdateMember updates all columns of an existing member.
func (ds *DataStore) UpdateMember(ctx context.Context, member *Member) error {
	result := ds.DB.WithContext(ctx).Save(member)
	if result.Error != nil {
		return errors.New(result.Error).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// DeleteMember removes a member by id.
func (ds *DataStore) DeleteMember(ctx context.Context, id string) error {
	result := ds.DB.WithContext(ctx).Where("id = ?", id).Delete(&Member{})
	if result.Error != nil {
		return errors.New(result.Error).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// GetPositions retrieves the distinct team code/name tuples.
func (ds *DataStore) GetPositions(ctx context.Context) ([]Team, error) {
	var teams []Team
	err := ds.DB.WithContext(ctx).
		Distinct("t_code", "d_code", "j_code", "t_name", "d_name", "j_name").
		Find(&teams).Error
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return teams, nil
}
