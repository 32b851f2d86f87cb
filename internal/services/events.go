package services

import (
	"context"
	"log/slog"
	"time"
)

// EventPublisher delivers domain events; rabbitmq.Client implements it.
type EventPublisher interface {
	PublishJSON(ctx context.Context, v interface{}) error
}

const (
	EventRecipeCreated       = "recipe.created"
	EventRecipeUpdated       = "recipe.updated"
	EventRecipeDeleted       = "recipe.deleted"
	EventFavoriteAdded       = "favorite.added"
	EventFavoriteRemoved     = "favorite.removed"
	EventCartAdded           = "cart.added"
	EventCartRemoved         = "cart.removed"
	EventSubscriptionAdded   = "subscription.added"
	EventSubscriptionRemoved = "subscription.removed"
)

// Event is the JSON body published for every successful mutation.
type Event struct {
	Type     string    `json:"type"`
	UserID   uint      `json:"user_id"`
	RecipeID uint      `json:"recipe_id,omitempty"`
	AuthorID uint      `json:"author_id,omitempty"`
	At       time.Time `json:"at"`
}

// events publishes best effort: a nil publisher disables it and failures are only logged.
type events struct {
	pub EventPublisher
}

func (e events) publish(ctx context.Context, ev Event) {
	if e.pub == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := e.pub.PublishJSON(ctx, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "type", ev.Type, "error", err)
	}
}
