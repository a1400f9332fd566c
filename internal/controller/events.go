package controller

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Event names a user gesture that views can bind to.
type Event string

const (
	EventSetCase                       Event = "setCase"
	EventShowCaseItems                 Event = "showCaseItems"
	EventUpdateCaseItems               Event = "updateCaseItems"
	EventAddVehicleToCase              Event = "addVehicleToCase"
	EventDeleteVehicleFromCase         Event = "deleteVehicleFromCase"
	EventDeleteObjectionTemplate       Event = "deleteObjectionTemplate"
	EventDeleteResponseTemplate        Event = "deleteResponseTemplate"
	EventDeleteDiscoveryRequest        Event = "deleteDiscoveryRequest"
	EventDeleteDiscoveryDocument       Event = "deleteDiscoveryDocument"
	EventSetDiscoveryDocumentCleanedUp Event = "setDiscoveryDocumentCleanedUp"
)

// Target attribute names.
const (
	AttrID            = "data-id"
	AttrCauseNumber   = "data-cause-number"
	AttrDescription   = "data-description"
	AttrDB            = "data-db"
	AttrED            = "data-ed"
	AttrRec           = "data-rec"
	AttrOp            = "data-op"
	AttrCategory      = "data-category"
	AttrRequestNumber = "data-request-number"
	AttrValue         = "data-value"
)

// Target is the element an event fired on, reduced to its attributes.
type Target map[string]string

func (t Target) Attr(name string) string {
	if t == nil {
		return ""
	}
	return t[name]
}

type Handler func(ctx context.Context, t Target) error

func (c *Controller) buildHandlers() map[Event]Handler {
	return map[Event]Handler{
		EventSetCase: c.SetCase,
		EventShowCaseItems: func(ctx context.Context, _ Target) error {
			return c.ShowCaseItems(ctx)
		},
		EventUpdateCaseItems:       c.UpdateCaseItems,
		EventAddVehicleToCase:      c.AddVehicleToCase,
		EventDeleteVehicleFromCase: c.DeleteVehicleFromCase,
		EventDeleteObjectionTemplate: func(ctx context.Context, t Target) error {
			return c.DeleteObjectionTemplate(ctx, t.Attr(AttrID))
		},
		EventDeleteResponseTemplate: func(ctx context.Context, t Target) error {
			return c.DeleteResponseTemplate(ctx, t.Attr(AttrID))
		},
		EventDeleteDiscoveryRequest: func(ctx context.Context, t Target) error {
			n, err := strconv.Atoi(strings.TrimSpace(t.Attr(AttrRequestNumber)))
			if err != nil {
				return fmt.Errorf("%s: %w", AttrRequestNumber, err)
			}
			return c.DeleteDiscoveryRequest(ctx, t.Attr(AttrID), n)
		},
		EventDeleteDiscoveryDocument: func(ctx context.Context, t Target) error {
			return c.DeleteDiscoveryDocument(ctx, t.Attr(AttrID))
		},
		EventSetDiscoveryDocumentCleanedUp: func(ctx context.Context, t Target) error {
			v, err := strconv.ParseBool(strings.TrimSpace(t.Attr(AttrValue)))
			if err != nil {
				return fmt.Errorf("%s: %w", AttrValue, err)
			}
			return c.SetDiscoveryDocumentCleanedUp(ctx, t.Attr(AttrID), v)
		},
	}
}

// Handler returns the handler bound to ev.
func (c *Controller) Handler(ev Event) (Handler, bool) {
	h, ok := c.handlers[ev]
	return h, ok
}

// Events lists every bindable event, sorted.
func (c *Controller) Events() []Event {
	out := make([]Event, 0, len(c.handlers))
	for ev := range c.handlers {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Controller) Dispatch(ctx context.Context, ev Event, t Target) error {
	h, ok := c.handlers[ev]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev)
	}
	return h(ctx, t)
}
