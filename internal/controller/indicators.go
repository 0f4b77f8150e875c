// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
)

// =============================================================================
// OPERATIONS AND IN-FLIGHT INDICATORS
// =============================================================================

// Op names an orchestrated operation.
type Op int

const (
	OpBootstrap Op = iota
	OpSendText
	OpSendVoice
	OpTranslate
	OpFeedback
	OpClear
)

// String returns a short name for logs.
func (o Op) String() string {
	switch o {
	case OpBootstrap:
		return "bootstrap"
	case OpSendText:
		return "send_text"
	case OpSendVoice:
		return "send_voice"
	case OpTranslate:
		return "translate"
	case OpFeedback:
		return "feedback"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Label returns the text shown while the operation is pending.
func (o Op) Label() string {
	switch o {
	case OpBootstrap:
		return "Connecting to TatvaX..."
	case OpSendText:
		return "TatvaX is thinking..."
	case OpSendVoice:
		return "Listening..."
	case OpTranslate:
		return "Translating..."
	case OpFeedback:
		return "Submitting..."
	case OpClear:
		return "Clearing chat..."
	default:
		return "Working..."
	}
}

// Indicator is a visible "request pending" marker. Every started call has
// exactly one, removed by its Finish step on every path.
type Indicator struct {
	ID        string
	Op        Op
	Label     string
	StartedAt time.Time
}

func (c *Controller) begin(op Op) Indicator {
	if op != OpBootstrap {
		c.session.RecordActivity()
	}
	ind := Indicator{
		ID:        ulid.Make().String(),
		Op:        op,
		Label:     op.Label(),
		StartedAt: c.now(),
	}
	c.inflight[ind.ID] = ind
	return ind
}

func (c *Controller) end(id string) {
	delete(c.inflight, id)
}

// Indicators returns the pending indicators, oldest first.
func (c *Controller) Indicators() []Indicator {
	out := make([]Indicator, 0, len(c.inflight))
	for _, ind := range c.inflight {
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Pending reports whether an operation of kind op is in flight.
func (c *Controller) Pending(op Op) bool {
	for _, ind := range c.inflight {
		if ind.Op == op {
			return true
		}
	}
	return false
}

// Busy reports whether any operation is in flight.
func (c *Controller) Busy() bool {
	return len(c.inflight) > 0
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// NoticeKind is the tone of a notification.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notification is a transient message for the user.
type Notification struct {
	Text string
	Kind NoticeKind
	At   time.Time
}

func (c *Controller) notify(kind NoticeKind, text string) {
	c.notices = append(c.notices, Notification{Text: text, Kind: kind, At: c.now()})
}

// Notify queues a notification raised by an adapter.
func (c *Controller) Notify(kind NoticeKind, text string) {
	c.notify(kind, text)
}

// Notifications drains and returns the queued notifications.
func (c *Controller) Notifications() []Notification {
	out := c.notices
	c.notices = nil
	return out
}
