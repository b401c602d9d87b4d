// Package ecs provides ECS adapters for tactile's contact routing.
//
// The primary adapter is [NewDonburiStore], which bridges routed
// contact events (Added, Changed, Removed, Enter, Leave) into a
// [Donburi] world as typed events. Subscribe to [RoutedEventType] in
// your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	router.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
