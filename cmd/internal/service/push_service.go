package service

import (
	"sharedcal/cmd/internal/domain/entity"
	"sharedcal/cmd/internal/utils"
	"sharedcal/cmd/internal/utils/apierror"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type PushSubscriptionRepository interface {
	FindByEndpoint(endpoint string) (*entity.PushSubscription, error)
	Save(sub *entity.PushSubscription) error
}

// PushSubscribeRequest mirrors the subscription object produced by the
// browser's PushManager.
type PushSubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

type DefaultPushService struct {
	SubRepo  PushSubscriptionRepository
	Validate *validator.Validate
	Now      func() time.Time
}

func NewPushService(subRepo PushSubscriptionRepository, validate *validator.Validate) *DefaultPushService {
	return &DefaultPushService{SubRepo: subRepo, Validate: validate, Now: time.Now}
}

// Subscribe stores a browser subscription, reactivating a previously gone
// endpoint if it resubscribes.
func (p *DefaultPushService) Subscribe(req *PushSubscribeRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	sub, err := p.SubRepo.FindByEndpoint(req.Endpoint)
	if err != nil {
		log.Errorf("failed to look up push subscription: %v", err)
		return apierror.InternalServerError
	}
	if sub == nil {
		sub = &entity.PushSubscription{
			Endpoint:  req.Endpoint,
			CreatedAt: p.Now().UTC().UnixMilli(),
		}
	}
	sub.P256dh = req.Keys.P256dh
	sub.Auth = req.Keys.Auth
	sub.Active = true

	if err := p.SubRepo.Save(sub); err != nil {
		log.Errorf("failed to save push subscription: %v", err)
		return apierror.InternalServerError
	}
	return nil
}
