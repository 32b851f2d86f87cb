package models

import "time"

// Subscription records that User follows Author. Self-subscription is rejected.
type Subscription struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_subscription_pair;check:user_id <> author_id"`
	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuthorID  uint `gorm:"not null;uniqueIndex:idx_subscription_pair;index"`
	Author    User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
