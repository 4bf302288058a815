package metrics

import (
	"schedulecall/internal/events"
)

// SubscribeBookings counts terminal booking events by outcome.
func SubscribeBookings(bus *events.EventBus) {
	if bus == nil {
		return
	}
	bus.SubscribeAll(func(e *events.Event) error {
		p, err := e.Decode()
		if err != nil {
			return err
		}
		IncBooking(p.Outcome)
		return nil
	}, events.EventBookingRejected, events.EventBookingDispatched, events.EventBookingFailed)
}
