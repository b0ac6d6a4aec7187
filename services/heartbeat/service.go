package heartbeat

import (
	"context"
	"time"

	"powerdisplay/board"
	"powerdisplay/bus"
	"powerdisplay/services/hal"
)

var topicDisplayUpdate = bus.T("config", "board", "display_update_ms")

// Service blinks the PCB LED once per display update, so a stalled main loop
// shows as a steady LED. The interval follows config/board/display_update_ms.
type Service struct {
	LED hal.GPIOHandle

	// Ticks, when set, receives the LED level after each toggle.
	Ticks chan<- bool

	sub  *bus.Subscription
	done chan struct{}
}

// Done is closed once the loop has stopped and released its subscription.
func (s *Service) Done() <-chan struct{} { return s.done }

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub *bus.Subscription) {
	defer close(s.done)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(board.DisplayUpdate)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case <-tick.C:
			s.LED.Toggle()
			if s.Ticks != nil {
				select {
				case s.Ticks <- s.LED.Get():
				default:
				}
			}
		case msg, ok := <-cfgSub.Channel():
			if !ok {
				return
			}
			if ms, ok := msg.Payload.(uint16); ok && ms > 0 {
				tick.Reset(time.Duration(ms) * time.Millisecond)
			}
		}
	}
}

// Start configures the LED as an output and starts blinking.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	if err := s.LED.ConfigureOutput(false); err != nil {
		return err
	}
	s.done = make(chan struct{})
	s.sub = conn.Subscribe(topicDisplayUpdate)
	go s.serviceLoop(ctx, conn, s.sub)
	return nil
}
