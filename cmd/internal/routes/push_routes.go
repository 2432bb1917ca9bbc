package routes

import (
	"net/http"
	"sharedcal/cmd/internal/service"
	"sharedcal/cmd/internal/utils"
	"sharedcal/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type PushService interface {
	Subscribe(req *service.PushSubscribeRequest) apierror.ErrorResponse
}

type DefaultPushRoute struct {
	PushService    PushService
	VapidPublicKey string
}

func NewPushDefault(pushService PushService, vapidPublicKey string) *DefaultPushRoute {
	return &DefaultPushRoute{PushService: pushService, VapidPublicKey: vapidPublicKey}
}

func (p *DefaultPushRoute) CreateSubscription(c echo.Context) error {
	var req service.PushSubscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if _, err := utils.ParseTokenDataCtx(c); err != nil {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	if apierr := p.PushService.Subscribe(&req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusCreated)
}

// GetVapidKey hands the service worker the public key it needs to subscribe.
func (p *DefaultPushRoute) GetVapidKey(c echo.Context) error {
	if p.VapidPublicKey == "" {
		return c.JSON(404, apierror.NewSimple(404, "Push notifications are not configured"))
	}
	return c.JSON(http.StatusOK, echo.Map{"vapid_public_key": p.VapidPublicKey})
}
