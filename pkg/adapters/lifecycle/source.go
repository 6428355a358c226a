package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/stromabio/stroma/pkg/core"
)

type contentSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits content change events.
// It bridges the typed event channel to the generic lifecycle Event
// interface so a host application can supervise content reloads next to
// its other event sources.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &contentSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *contentSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *contentSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
