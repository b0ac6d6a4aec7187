package config

import (
	"context"
	"sync"

	"powerdisplay/board"
	"powerdisplay/bus"
	"powerdisplay/errcode"
	"powerdisplay/services/hal"
	"powerdisplay/types"
)

const (
	serviceName    = "config"
	configPrefix   = "config"
	CtxRevisionKey = "revision" // context key used for the board revision
)

// Keys published under config/board/<key>.
const (
	KeyDisplay         = "display"
	KeyMode            = "mode"
	KeyDebug           = "debug"
	KeyPins            = "pins"
	KeyButtons         = "buttons"
	KeyDisplayUpdateMs = "display_update_ms"
	KeyMaxString       = "max_string"
)

var (
	TopicBoard  = bus.T(configPrefix, "board")
	TopicHAL    = bus.T(configPrefix, "hal")
	TopicGet    = bus.T(configPrefix, "get")
	TopicStatus = bus.T(configPrefix, "status")
)

// EmbeddedRevisionLookup allows overriding how revisions are resolved.
var EmbeddedRevisionLookup = func(rev string) (string, bool) {
	s, ok := embeddedRevisions[rev]
	return s, ok
}

// State is published retained on config/status.
type State struct {
	Level    string `json:"level"`           // "ready" or "error"
	Revision string `json:"revision"`        // "" for the compiled table
	Error    string `json:"error,omitempty"` // errcode.Code
}

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string

	base board.Table
	reg  *hal.PinRegistry

	mu    sync.Mutex
	table board.Table
	plan  types.HALConfig
	ready bool
}

// NewConfigService serves base, planning pins into reg. Pins claimed in reg
// beforehand (the debug console's serial lines) are respected by the plan.
func NewConfigService(base board.Table, reg *hal.PinRegistry) *ConfigService {
	if reg == nil {
		reg = hal.NewPinRegistry()
	}
	return &ConfigService{Name: serviceName, base: base, reg: reg}
}

// Snapshot returns the table and plan last published.
func (s *ConfigService) Snapshot() (board.Table, types.HALConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table, s.plan, s.ready
}

func (s *ConfigService) resolve(ctx context.Context) (string, board.Table, error) {
	rev, _ := ctx.Value(CtxRevisionKey).(string)
	if rev == "" {
		return "", s.base, board.Validate(s.base)
	}
	text, ok := EmbeddedRevisionLookup(rev)
	if !ok {
		return rev, s.base, errcode.New(errcode.UnknownRevision, "config.resolve", rev)
	}
	t, err := board.Override(s.base, text)
	return rev, t, err
}

// Publish resolves the table for the revision in ctx, plans it and publishes
// every part retained. The previous plan's pins are released first and are
// claimed back if the new plan fails. On failure only config/status is
// published.
func (s *ConfigService) Publish(ctx context.Context, conn *bus.Connection) error {
	rev, t, err := s.resolve(ctx)
	var plan types.HALConfig
	if err == nil {
		plan, err = s.replan(t)
	}
	if err != nil {
		conn.Publish(conn.NewMessage(TopicStatus, State{Level: "error", Revision: rev, Error: string(errcode.Of(err))}, true))
		return err
	}

	s.mu.Lock()
	s.table, s.plan, s.ready = t, plan, true
	s.mu.Unlock()

	for _, kv := range parts(t) {
		conn.Publish(conn.NewMessage(TopicBoard.Append(kv.key), kv.val, true))
	}
	conn.Publish(conn.NewMessage(TopicHAL, plan, true))
	conn.Publish(conn.NewMessage(TopicStatus, State{Level: "ready", Revision: rev}, true))
	return nil
}

func (s *ConfigService) replan(t board.Table) (types.HALConfig, error) {
	prevTable, prevPlan, ready := s.Snapshot()
	if ready {
		for _, d := range prevPlan.Devices {
			s.reg.ReleaseDevice(d.ID)
		}
	}
	plan, err := hal.Plan(t, s.reg)
	if err != nil && ready {
		if _, rerr := hal.Plan(prevTable, s.reg); rerr != nil {
			println("[config] previous plan not restored:", rerr.Error())
		}
	}
	return plan, err
}

type part struct {
	key string
	val any
}

func parts(t board.Table) []part {
	return []part{
		{KeyDisplay, t.Display},
		{KeyMode, t.Mode},
		{KeyDebug, t.Debug},
		{KeyPins, t.Pins},
		{KeyButtons, t.Buttons},
		{KeyDisplayUpdateMs, t.DisplayUpdateMs},
		{KeyMaxString, t.MaxString},
	}
}

// serve answers config/get. A nil payload gets the whole table, a string
// payload gets the part with that key.
func (s *ConfigService) serve(ctx context.Context, conn *bus.Connection, sub *bus.Subscription) {
	defer conn.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			conn.Reply(msg, s.answer(msg.Payload), false)
		}
	}
}

func (s *ConfigService) answer(req any) any {
	t, _, ready := s.Snapshot()
	if !ready {
		return types.ErrorReply{OK: false, Error: string(errcode.NotReady)}
	}
	switch k := req.(type) {
	case nil:
		return t
	case string:
		for _, kv := range parts(t) {
			if kv.key == k {
				return kv.val
			}
		}
	}
	return types.ErrorReply{OK: false, Error: string(errcode.InvalidParams)}
}

// Start serves config/get and then publishes the configuration; requests
// that arrive before the publish completes get not_ready. A publish error is
// returned (and reported on config/status) and serving stops before Start
// returns.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) error {
	sctx, cancel := context.WithCancel(ctx)
	sub := conn.Subscribe(TopicGet)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.serve(sctx, conn, sub)
	}()

	if err := s.Publish(ctx, conn); err != nil {
		cancel()
		<-done
		return err
	}
	context.AfterFunc(ctx, cancel)
	return nil
}
