// events.go: event queries
package datastore

import (
	"context"

	"github.com/senthilk/partybase/internal/errors"
	"gorm.io/gorm"
)

// GetAllEvents retrieves all events, newest date first.
func (ds *DataStore) GetAllEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := ds.DB.WithContext(ctx).Order("date DESC, time DESC").Find(&events).Error; err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return events, nil
}

// GetEvent retrieves an event by id.
func (ds *DataStore) GetEvent(ctx context.Context, id uint) (*Event, error) {
	var event Event
	err := ds.DB.WithContext(ctx).First(&event, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return &event, nil
}

// SaveEvent inserts a new event record.
func (ds *DataStore) SaveEvent(ctx context.Context, event *Event) error {
	if err := ds.DB.WithContext(ctx).Create(event).Error; err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// UpdateEvent updates all columns of an existing event.
func (ds *DataStore) UpdateEvent(ctx context.Context, event *Event) error {
	if err := ds.DB.WithContext(ctx).Save(event).Error; err != nil {
		return errors.New(err).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	return nil
}

// DeleteEvent removes an event by id.
func (ds *DataStore) DeleteEvent(ctx context.Context, id uint) error {
	result := ds.DB.WithContext(ctx).Delete(&Event{}, id)
	if result.Error != nil {
		return errors.New(result.Error).Category(errors.CategoryDatabase).Component("datastore").Build()
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}
