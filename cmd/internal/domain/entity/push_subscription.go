package entity

// PushSubscription holds a browser push subscription as handed to us by the
// service worker. Gone endpoints are deactivated instead of deleted.
type PushSubscription struct {
	ID        int    `gorm:"primaryKey"`
	Endpoint  string `gorm:"not null;uniqueIndex"`
	P256dh    string `gorm:"not null"`
	Auth      string `gorm:"not null"`
	Active    bool   `gorm:"not null"`
	CreatedAt int64  `gorm:"not null"`
}
