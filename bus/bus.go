// Package bus is a small in-process pub/sub with retained messages, MQTT
// style wildcards and request/reply. It avoids reflect and fmt so it builds
// for AVR targets.
package bus

import (
	"context"
	"sync"

	"powerdisplay/errcode"
	"powerdisplay/x/strconvx"
)

// Wildcard tokens. "+" matches one level, "#" matches the rest (zero or more).
const (
	Single = "+"
	Multi  = "#"
)

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

// Topic is a sequence of comparable tokens (strings or integers).
type Topic []any

// T builds a topic. It panics on a token that cannot be used as a map key.
func T(tokens ...any) Topic {
	for _, tok := range tokens {
		switch tok.(type) {
		case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		default:
			panic("bus: unsupported topic token")
		}
	}
	return Topic(tokens)
}

func (t Topic) Len() int     { return len(t) }
func (t Topic) At(i int) any { return t[i] }

// Append returns a new topic with tokens added.
func (t Topic) Append(tokens ...any) Topic {
	out := make(Topic, 0, len(t)+len(tokens))
	out = append(out, t...)
	return append(out, T(tokens...)...)
}

func (t Topic) String() string {
	var s string
	for i, tok := range t {
		if i > 0 {
			s += "/"
		}
		switch v := tok.(type) {
		case string:
			s += v
		case int:
			s += strconvx.Itoa(v)
		default:
			s += "?"
		}
	}
	return s
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
	ReplyTo  Topic
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic  Topic
	ch     chan *Message
	conn   *Connection
	closed bool // guarded by Bus.mu
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// deliver never blocks; on a full queue the oldest message is dropped.
func (s *Subscription) deliver(m *Message) {
	if s.closed {
		return
	}
	select {
	case s.ch <- m:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- m:
	default:
	}
}

// -----------------------------------------------------------------------------
// Tries
// -----------------------------------------------------------------------------

// subNode indexes subscriptions by pattern, wildcards included.
type subNode struct {
	children map[any]*subNode
	subs     []*Subscription
}

// retNode indexes retained messages by concrete topic.
type retNode struct {
	children map[any]*retNode
	msg      *Message
}

func (n *subNode) collect(t Topic, i int, out []*Subscription) []*Subscription {
	if c := n.children[Multi]; c != nil {
		out = append(out, c.subs...)
	}
	if i == len(t) {
		return append(out, n.subs...)
	}
	if tok := t[i]; tok != Single && tok != Multi {
		if c := n.children[tok]; c != nil {
			out = c.collect(t, i+1, out)
		}
	}
	if c := n.children[Single]; c != nil {
		out = c.collect(t, i+1, out)
	}
	return out
}

func (n *retNode) each(fn func(*Message)) {
	if n.msg != nil {
		fn(n.msg)
	}
	for _, c := range n.children {
		c.each(fn)
	}
}

func (n *retNode) match(p Topic, i int, fn func(*Message)) {
	if i == len(p) {
		if n.msg != nil {
			fn(n.msg)
		}
		return
	}
	switch p[i] {
	case Multi:
		n.each(fn)
	case Single:
		for _, c := range n.children {
			c.match(p, i+1, fn)
		}
	default:
		if c := n.children[p[i]]; c != nil {
			c.match(p, i+1, fn)
		}
	}
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu       sync.Mutex
	subs     subNode
	retained retNode
	qLen     int
}

// NewBus creates a bus whose subscriptions buffer queueLen messages.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{qLen: queueLen}
}

// NewMessage builds a message; topic tokens are checked as by T.
func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: T(topic...), Payload: payload, Retained: retained}
}

// Publish delivers msg to every matching subscription. A retained message
// with a nil payload clears the retained value for its topic.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg.Retained {
		b.retain(msg)
	}
	for _, s := range b.subs.collect(msg.Topic, 0, nil) {
		s.deliver(msg)
	}
}

func (b *Bus) retain(msg *Message) {
	n := &b.retained
	for _, tok := range msg.Topic {
		c := n.children[tok]
		if c == nil {
			if msg.Payload == nil {
				return
			}
			if n.children == nil {
				n.children = make(map[any]*retNode)
			}
			c = &retNode{}
			n.children[tok] = c
		}
		n = c
	}
	if msg.Payload == nil {
		n.msg = nil
		return
	}
	n.msg = msg
}

func (b *Bus) subscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := &b.subs
	for _, tok := range sub.topic {
		c := n.children[tok]
		if c == nil {
			if n.children == nil {
				n.children = make(map[any]*subNode)
			}
			c = &subNode{}
			n.children[tok] = c
		}
		n = c
	}
	n.subs = append(n.subs, sub)

	b.retained.match(sub.topic, 0, sub.deliver)
}

func (b *Bus) unsubscribe(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub.closed {
		return false
	}
	sub.closed = true

	n := &b.subs
	path := make([]*subNode, 0, len(sub.topic))
	for _, tok := range sub.topic {
		c := n.children[tok]
		if c == nil {
			return true
		}
		path = append(path, n)
		n = c
	}
	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}
	// Prune empty branches bottom-up.
	for i := len(path) - 1; i >= 0; i-- {
		parent, tok := path[i], sub.topic[i]
		child := parent.children[tok]
		if len(child.subs) > 0 || len(child.children) > 0 {
			break
		}
		delete(parent.children, tok)
	}
	return true
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
	seq  uint32
}

// NewConnection creates a connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

func (c *Connection) Publish(msg *Message) { c.bus.Publish(msg) }

// Subscribe registers a subscription owned by this connection. Matching
// retained messages are queued immediately.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: T(topic...),
		ch:    make(chan *Message, c.bus.qLen),
		conn:  c,
	}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	c.bus.subscribe(sub)
	return sub
}

// Unsubscribe removes sub and closes its channel. Repeated calls are no-ops.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	if c.bus.unsubscribe(sub) {
		close(sub.ch)
	}
}

// Disconnect closes every subscription of this connection.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		if c.bus.unsubscribe(sub) {
			close(sub.ch)
		}
	}
}

// Request subscribes to a fresh reply topic, stamps it into msg.ReplyTo and
// publishes msg. The caller owns the returned subscription.
func (c *Connection) Request(msg *Message) *Subscription {
	c.mu.Lock()
	c.seq++
	n := int(c.seq)
	c.mu.Unlock()

	msg.ReplyTo = T("_reply", c.id, n)
	sub := c.Subscribe(msg.ReplyTo)
	c.Publish(msg)
	return sub
}

// RequestWait publishes msg and waits for the first reply or ctx expiry.
func (c *Connection) RequestWait(ctx context.Context, msg *Message) (*Message, error) {
	sub := c.Request(msg)
	defer c.Unsubscribe(sub)

	select {
	case reply, ok := <-sub.Channel():
		if !ok {
			return nil, errcode.Error
		}
		return reply, nil
	case <-ctx.Done():
		return nil, &errcode.E{C: errcode.Timeout, Op: "bus.request", Msg: msg.Topic.String(), Err: ctx.Err()}
	}
}

// Reply publishes payload to req.ReplyTo. It does nothing when req has no
// reply topic.
func (c *Connection) Reply(req *Message, payload any, retained bool) {
	if len(req.ReplyTo) == 0 {
		return
	}
	c.Publish(&Message{Topic: req.ReplyTo, Payload: payload, Retained: retained})
}
