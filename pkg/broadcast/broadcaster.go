// Package broadcast delivers one message to every destination, one after another.
package broadcast

import (
	"context"
	"log/slog"

	"github.com/dskvich/tgcast/pkg/domain"
	"github.com/dskvich/tgcast/pkg/logger"
)

type Sender interface {
	Send(ctx context.Context, dest domain.Destination, text string) error
}

type Reporter interface {
	Sending(i, total int, dest domain.Destination)
	Delivered(dest domain.Destination, err error)
}

type Broadcaster struct {
	sender   Sender
	reporter Reporter
}

func New(sender Sender, reporter Reporter) *Broadcaster {
	return &Broadcaster{
		sender:   sender,
		reporter: reporter,
	}
}

// Run sends text to each destination in order. A failed delivery is recorded and the loop
// moves on to the next destination.
func (b *Broadcaster) Run(ctx context.Context, destinations []domain.Destination, text string) domain.Summary {
	var summary domain.Summary

	for i, dest := range destinations {
		b.reporter.Sending(i+1, len(destinations), dest)

		err := b.sender.Send(ctx, dest, text)
		if err != nil {
			slog.DebugContext(logger.ContextWithDestination(ctx, dest.String()), "delivery failed", logger.Err(err))
		}

		b.reporter.Delivered(dest, err)
		summary.Record(dest, err)
	}

	return summary
}
