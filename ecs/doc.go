// Package ecs provides ECS adapters for bubblestack's stack events.
//
// The primary adapter is [NewDonburiStore], which publishes every stack
// event (click, hover, state change, settle) into a [Donburi] world as a
// typed event. Subscribe to [StackEventType] in your ECS systems to receive
// them. [TrackBadges] keeps one entity per badge with running click and
// hover counts.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
