// Package webpush delivers fire-and-forget web push notifications to every
// active browser subscription.
package webpush

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sharedcal/cmd/internal/domain/entity"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/labstack/gommon/log"
)

type SubscriptionRepository interface {
	FindActive() ([]*entity.PushSubscription, error)
	Deactivate(id int) error
}

type Sender struct {
	SubRepo SubscriptionRepository

	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string
}

// NewSender reads the VAPID key pair and contact address from the
// environment.
func NewSender(subRepo SubscriptionRepository) (*Sender, error) {
	public := os.Getenv("VAPID_PUBLIC_KEY")
	private := os.Getenv("VAPID_PRIVATE_KEY")
	email := os.Getenv("VAPID_ADMIN_EMAIL")
	if public == "" || private == "" || email == "" {
		return nil, fmt.Errorf("VAPID_PUBLIC_KEY, VAPID_PRIVATE_KEY and VAPID_ADMIN_EMAIL must be set")
	}
	return &Sender{
		SubRepo:         subRepo,
		vapidPublicKey:  public,
		vapidPrivateKey: private,
		subscriber:      "mailto:" + email,
	}, nil
}

func (s *Sender) VapidPublicKey() string {
	return s.vapidPublicKey
}

// NotifyAll pushes the message to every active subscription. Delivery runs
// in the background; failures are logged and never reach the caller.
func (s *Sender) NotifyAll(title, body string, data map[string]string) {
	go s.notifyAll(title, body, data)
}

func (s *Sender) notifyAll(title, body string, data map[string]string) {
	subs, err := s.SubRepo.FindActive()
	if err != nil {
		log.Errorf("failed to fetch push subscriptions: %v", err)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"title": title,
		"body":  body,
		"data":  data,
	})
	if err != nil {
		log.Errorf("failed to marshal push payload: %v", err)
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      s.subscriber,
			VAPIDPublicKey:  s.vapidPublicKey,
			VAPIDPrivateKey: s.vapidPrivateKey,
			TTL:             60,
		})
		if err != nil {
			log.Warnf("push to subscription %d failed: %v", sub.ID, err)
			continue
		}
		resp.Body.Close()

		// The push service tells us the endpoint is gone; stop sending.
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			if err := s.SubRepo.Deactivate(sub.ID); err != nil {
				log.Warnf("failed to deactivate gone subscription %d: %v", sub.ID, err)
			}
		}
	}
}
