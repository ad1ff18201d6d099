package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/doable/dashboard/internal/core/domain"
	"github.com/doable/dashboard/internal/core/ports"
)

// publishChange broadcasts a row change. Failures are logged; the mutation
// that caused them has already been committed.
func publishChange(ctx context.Context, feed ports.ChangeFeed, log zerolog.Logger, table domain.Table, kind domain.ChangeKind, id string) {
	if feed == nil {
		return
	}
	ev := domain.ChangeEvent{Table: table, Kind: kind, RecordID: id, At: time.Now().UTC()}
	if err := feed.PublishChange(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("table", string(table)).
			Str("kind", string(kind)).
			Str("record_id", id).
			Msg("change event not published")
	}
}

func publishAuth(ctx context.Context, bus ports.AuthEventBus, log zerolog.Logger, ev domain.AuthEvent) {
	if bus == nil {
		return
	}
	ev.At = time.Now().UTC()
	if err := bus.PublishAuth(ctx, ev); err != nil {
		log.Warn().Err(err).Str("kind", string(ev.Kind)).Str("identity_id", ev.IdentityID).Msg("auth event not published")
	}
}
