package ecs

import (
	"github.com/phanxgames/bubblestack"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// StackEventType is the Donburi event type for bubblestack events.
// Subscribe to this in your ECS systems to receive click, hover, state
// change and settle events.
var StackEventType = events.NewEventType[bubblestack.Event]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Stack events are published to StackEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) bubblestack.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event bubblestack.Event) {
	StackEventType.Publish(s.world, event)
}

// BadgeStats is the per-badge component maintained by TrackBadges.
type BadgeStats struct {
	ID      string
	URL     string
	Clicks  int
	Hovered bool
}

// BadgeStatsComponent is the component type holding BadgeStats.
var BadgeStatsComponent = donburi.NewComponentType[BadgeStats]()

// StackStatus is the singleton component tracking the controller state.
type StackStatus struct {
	State   bubblestack.State
	Settled bool
}

// StackStatusComponent is the component type holding StackStatus.
var StackStatusComponent = donburi.NewComponentType[StackStatus]()

var badgeQuery = donburi.NewQuery(filter.Contains(BadgeStatsComponent))

// TrackBadges creates one entity per badge plus a status entity, and
// subscribes to StackEventType so they follow the stack's events. Events
// apply when the world processes them.
func TrackBadges(world donburi.World, badges []bubblestack.Badge) {
	for _, b := range badges {
		e := world.Create(BadgeStatsComponent)
		BadgeStatsComponent.SetValue(world.Entry(e), BadgeStats{ID: b.ID, URL: b.URL})
	}
	world.Create(StackStatusComponent)
	StackEventType.Subscribe(world, applyEvent)
}

// Badge returns the tracked stats for id.
func Badge(world donburi.World, id string) (BadgeStats, bool) {
	var out BadgeStats
	found := false
	badgeQuery.Each(world, func(entry *donburi.Entry) {
		if st := BadgeStatsComponent.Get(entry); !found && st.ID == id {
			out = *st
			found = true
		}
	})
	return out, found
}

// Status returns the tracked stack status.
func Status(world donburi.World) (StackStatus, bool) {
	entry, ok := StackStatusComponent.First(world)
	if !ok {
		return StackStatus{}, false
	}
	return *StackStatusComponent.Get(entry), true
}

func applyEvent(world donburi.World, event bubblestack.Event) {
	switch event.Type {
	case bubblestack.EventStateChange, bubblestack.EventSettled:
		if entry, ok := StackStatusComponent.First(world); ok {
			st := StackStatusComponent.Get(entry)
			st.State = event.State
			if event.Type == bubblestack.EventSettled {
				st.Settled = true
			}
		}
		return
	}
	badgeQuery.Each(world, func(entry *donburi.Entry) {
		st := BadgeStatsComponent.Get(entry)
		if st.ID != event.BadgeID {
			return
		}
		switch event.Type {
		case bubblestack.EventClick:
			st.Clicks++
		case bubblestack.EventPointerEnter:
			st.Hovered = true
		case bubblestack.EventPointerLeave:
			st.Hovered = false
		}
	})
}
