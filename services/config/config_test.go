package config

import (
	"context"
	"testing"
	"time"

	"powerdisplay/board"
	"powerdisplay/bus"
	"powerdisplay/errcode"
	"powerdisplay/services/hal"
	"powerdisplay/types"
)

func withRevisions(t *testing.T, revs map[string]string) {
	t.Helper()
	old := EmbeddedRevisionLookup
	EmbeddedRevisionLookup = func(rev string) (string, bool) {
		s, ok := revs[rev]
		return s, ok
	}
	t.Cleanup(func() { EmbeddedRevisionLookup = old })
}

func collect(t *testing.T, sub *bus.Subscription, n int) map[string]any {
	t.Helper()
	got := map[string]any{}
	deadline := time.Now().Add(600 * time.Millisecond)
	for len(got) < n && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			key, ok := m.Topic.At(m.Topic.Len() - 1).(string)
			if !ok {
				t.Fatalf("topic %v: last token is not a string", m.Topic)
			}
			got[key] = m.Payload
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(got) != n {
		t.Fatalf("expected %d retained messages, got %d (%v)", n, len(got), got)
	}
	return got
}

func TestConfig_PublishDefaults_RetainedPerKey(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService(board.Defaults(), nil)

	if err := svc.Publish(context.Background(), conn); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	got := collect(t, conn.Subscribe(bus.T(configPrefix, "board", bus.Single)), 7)

	if v, ok := got[KeyDisplay].(board.DisplayType); !ok || v != board.Display {
		t.Fatalf("display = %#v, want %v", got[KeyDisplay], board.Display)
	}
	if v, ok := got[KeyMode].(board.DeviceMode); !ok || v != board.Mode {
		t.Fatalf("mode = %#v, want %v", got[KeyMode], board.Mode)
	}
	if v, ok := got[KeyPins].(board.Pins); !ok || v.LED != 9 || v.RXEA != 12 {
		t.Fatalf("pins = %#v", got[KeyPins])
	}
	if v, ok := got[KeyButtons].(board.ButtonTiming); !ok || v.HeldMs != 300 {
		t.Fatalf("buttons = %#v", got[KeyButtons])
	}
	if v, ok := got[KeyDisplayUpdateMs].(uint16); !ok || v != 500 {
		t.Fatalf("display_update_ms = %#v, want 500", got[KeyDisplayUpdateMs])
	}
	if v, ok := got[KeyMaxString].(int); !ok || v != 25 {
		t.Fatalf("max_string = %#v, want 25", got[KeyMaxString])
	}

	top := collect(t, conn.Subscribe(bus.T(configPrefix, bus.Single)), 2)
	if _, ok := top["hal"].(types.HALConfig); !ok {
		t.Fatalf("config/hal payload type %T", top["hal"])
	}
	if st, ok := top["status"].(State); !ok || st.Level != "ready" || st.Revision != "" {
		t.Fatalf("status = %#v", top["status"])
	}
}

func TestConfig_RevisionOverride(t *testing.T) {
	withRevisions(t, map[string]string{"rev-b": "LED=13 DISPLAYTYPE=1"})

	b := bus.NewBus(16)
	conn := b.NewConnection("test-rev")
	svc := NewConfigService(board.Defaults(), nil)

	ctx := context.WithValue(context.Background(), CtxRevisionKey, "rev-b")
	if err := svc.Publish(ctx, conn); err != nil {
		t.Fatalf("Publish error: %v", err)
	}

	tab, plan, ready := svc.Snapshot()
	if !ready || tab.Pins.LED != 13 || tab.Display != board.DisplayEA {
		t.Fatalf("snapshot = %+v ready=%v", tab, ready)
	}
	if _, ok := plan.Device(hal.DevEADisplay); !ok {
		t.Fatalf("plan lacks EA display: %+v", plan.Devices)
	}
}

func TestConfig_UnknownRevision(t *testing.T) {
	withRevisions(t, map[string]string{})

	b := bus.NewBus(4)
	conn := b.NewConnection("test-unknown")
	svc := NewConfigService(board.Defaults(), nil)

	ctx := context.WithValue(context.Background(), CtxRevisionKey, "rev-z")
	err := svc.Publish(ctx, conn)
	if errcode.Of(err) != errcode.UnknownRevision {
		t.Fatalf("err = %v, want unknown_revision", err)
	}

	st := collect(t, conn.Subscribe(TopicStatus), 1)["status"].(State)
	if st.Level != "error" || st.Error != string(errcode.UnknownRevision) || st.Revision != "rev-z" {
		t.Fatalf("status = %+v", st)
	}
	if _, _, ready := svc.Snapshot(); ready {
		t.Fatal("service must not be ready after a failed publish")
	}
}

func TestConfig_PinHeldByDebugConsole(t *testing.T) {
	withRevisions(t, map[string]string{"serial-led": "LED=1"})

	reg := hal.NewPinRegistry()
	if err := reg.ClaimPin("debug", board.SerialTX); err != nil {
		t.Fatalf("ClaimPin: %v", err)
	}
	base := board.Defaults()
	base.Debug = false
	b := bus.NewBus(4)
	conn := b.NewConnection("test-held")
	svc := NewConfigService(base, reg)

	ctx := context.WithValue(context.Background(), CtxRevisionKey, "serial-led")
	if err := svc.Publish(ctx, conn); errcode.Of(err) != errcode.PinInUse {
		t.Fatalf("err = %v, want pin_in_use", err)
	}
}

func TestConfig_ServeRequests(t *testing.T) {
	b := bus.NewBus(16)
	svcConn := b.NewConnection("config")
	cli := b.NewConnection("client")
	svc := NewConfigService(board.Defaults(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx, svcConn); err != nil {
		t.Fatalf("Start: %v", err)
	}

	rctx, rcancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer rcancel()

	reply, err := cli.RequestWait(rctx, cli.NewMessage(TopicGet, nil, false))
	if err != nil {
		t.Fatalf("RequestWait: %v", err)
	}
	if tab, ok := reply.Payload.(board.Table); !ok || tab != board.Defaults() {
		t.Fatalf("full reply = %#v", reply.Payload)
	}

	reply, err = cli.RequestWait(rctx, cli.NewMessage(TopicGet, KeyMaxString, false))
	if err != nil {
		t.Fatalf("RequestWait: %v", err)
	}
	if v, ok := reply.Payload.(int); !ok || v != board.MaxString {
		t.Fatalf("max_string reply = %#v", reply.Payload)
	}

	reply, err = cli.RequestWait(rctx, cli.NewMessage(TopicGet, "nope", false))
	if err != nil {
		t.Fatalf("RequestWait: %v", err)
	}
	if e, ok := reply.Payload.(types.ErrorReply); !ok || e.Error != string(errcode.InvalidParams) {
		t.Fatalf("unknown key reply = %#v", reply.Payload)
	}
}

func TestConfig_StartFailsWithoutServing(t *testing.T) {
	withRevisions(t, map[string]string{"bad": "DATA=9"})

	b := bus.NewBus(4)
	conn := b.NewConnection("test-start")
	svc := NewConfigService(board.Defaults(), nil)

	ctx := context.WithValue(context.Background(), CtxRevisionKey, "bad")
	if err := svc.Start(ctx, conn); errcode.Of(err) != errcode.PinInUse {
		t.Fatalf("Start err = %v, want pin_in_use", err)
	}

	rctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := conn.RequestWait(rctx, conn.NewMessage(TopicGet, nil, false)); errcode.Of(err) != errcode.Timeout {
		t.Fatalf("request after failed start = %v, want timeout", err)
	}
}

func TestConfig_AnswerBeforeReady(t *testing.T) {
	svc := NewConfigService(board.Defaults(), nil)
	if e, ok := svc.answer(nil).(types.ErrorReply); !ok || e.Error != string(errcode.NotReady) {
		t.Fatalf("answer before publish = %#v", svc.answer(nil))
	}
}

func TestConfig_EmbeddedBaseRevision(t *testing.T) {
	text, ok := EmbeddedRevisionLookup("base")
	if !ok {
		t.Fatal("base revision missing")
	}
	tab, err := board.Override(board.Defaults(), text)
	if err != nil {
		t.Fatalf("base revision does not apply: %v", err)
	}
	if tab != board.Defaults() {
		t.Fatalf("base revision changes the table: %+v", tab)
	}
}

func TestConfig_RepublishMovesPins(t *testing.T) {
	withRevisions(t, map[string]string{"swap": "LED=8 DATA=9"})

	reg := hal.NewPinRegistry()
	base := board.Defaults()
	base.Debug = false
	b := bus.NewBus(16)
	conn := b.NewConnection("test-republish")
	svc := NewConfigService(base, reg)

	if err := svc.Publish(context.Background(), conn); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	ctx := context.WithValue(context.Background(), CtxRevisionKey, "swap")
	if err := svc.Publish(ctx, conn); err != nil {
		t.Fatalf("Publish with moved pins: %v", err)
	}
	if owner, _ := reg.Owner(8); owner != hal.DevBlinkLED {
		t.Fatalf("pin 8 owner = %q, want %q", owner, hal.DevBlinkLED)
	}
	if owner, _ := reg.Owner(9); owner != hal.DevSureMatrix {
		t.Fatalf("pin 9 owner = %q, want %q", owner, hal.DevSureMatrix)
	}
}

func TestConfig_FailedRepublishKeepsPlan(t *testing.T) {
	withRevisions(t, map[string]string{"taken": "LED=13"})

	reg := hal.NewPinRegistry()
	base := board.Defaults()
	base.Debug = false
	b := bus.NewBus(16)
	conn := b.NewConnection("test-keep")
	svc := NewConfigService(base, reg)

	if err := svc.Publish(context.Background(), conn); err != nil {
		t.Fatalf("first Publish: %v", err)
	}
	if err := reg.ClaimPin("other", 13); err != nil {
		t.Fatalf("ClaimPin: %v", err)
	}
	ctx := context.WithValue(context.Background(), CtxRevisionKey, "taken")
	if err := svc.Publish(ctx, conn); errcode.Of(err) != errcode.PinInUse {
		t.Fatalf("err = %v, want pin_in_use", err)
	}

	if owner, _ := reg.Owner(board.LED); owner != hal.DevBlinkLED {
		t.Fatalf("LED owner = %q, want %q", owner, hal.DevBlinkLED)
	}
	if tab, _, ready := svc.Snapshot(); !ready || tab != base {
		t.Fatalf("snapshot after failed publish = %+v (ready=%v)", tab, ready)
	}
}

func TestConfig_RequestDuringStartupNotReady(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	old := EmbeddedRevisionLookup
	EmbeddedRevisionLookup = func(rev string) (string, bool) {
		close(entered)
		<-release
		return "", true
	}
	t.Cleanup(func() { EmbeddedRevisionLookup = old })

	b := bus.NewBus(16)
	svcConn := b.NewConnection("config")
	cli := b.NewConnection("client")
	svc := NewConfigService(board.Defaults(), nil)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), CtxRevisionKey, "slow"))
	defer cancel()
	started := make(chan error, 1)
	go func() { started <- svc.Start(ctx, svcConn) }()

	select {
	case <-entered:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("revision lookup never called")
	}

	rctx, rcancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer rcancel()
	reply, err := cli.RequestWait(rctx, cli.NewMessage(TopicGet, nil, false))
	if err != nil {
		t.Fatalf("RequestWait during startup: %v", err)
	}
	if e, ok := reply.Payload.(types.ErrorReply); !ok || e.Error != string(errcode.NotReady) {
		t.Fatalf("reply during startup = %#v, want not_ready", reply.Payload)
	}

	close(release)
	if err := <-started; err != nil {
		t.Fatalf("Start: %v", err)
	}
	reply, err = cli.RequestWait(rctx, cli.NewMessage(TopicGet, KeyMaxString, false))
	if err != nil {
		t.Fatalf("RequestWait after start: %v", err)
	}
	if v, ok := reply.Payload.(int); !ok || v != board.MaxString {
		t.Fatalf("max_string reply = %#v", reply.Payload)
	}
}
