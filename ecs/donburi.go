package ecs

import (
	"github.com/glasswing/tactile"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// RoutedEventType is the Donburi event type for tactile routed events.
// Subscribe to this in your ECS systems to receive every event the
// router delivers, tagged with the receiving machine's id.
var RoutedEventType = events.NewEventType[tactile.RoutedEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Routed events are published to RoutedEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) tactile.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event tactile.RoutedEvent) {
	RoutedEventType.Publish(s.world, event)
}
