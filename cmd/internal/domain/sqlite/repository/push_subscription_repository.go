package repository

import (
	"errors"
	"sharedcal/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultPushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *DefaultPushSubscriptionRepository {
	return &DefaultPushSubscriptionRepository{db: db}
}

func (p *DefaultPushSubscriptionRepository) FindByEndpoint(endpoint string) (*entity.PushSubscription, error) {
	var sub entity.PushSubscription
	err := p.db.Where("endpoint = ?", endpoint).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sub, err
}

func (p *DefaultPushSubscriptionRepository) FindActive() ([]*entity.PushSubscription, error) {
	var subs []*entity.PushSubscription
	err := p.db.Where("active = ?", true).Find(&subs).Error
	return subs, err
}

func (p *DefaultPushSubscriptionRepository) Save(sub *entity.PushSubscription) error {
	return p.db.Save(sub).Error
}

func (p *DefaultPushSubscriptionRepository) Deactivate(id int) error {
	return p.db.Model(&entity.PushSubscription{}).
		Where("id = ?", id).
		Update("active", false).Error
}
