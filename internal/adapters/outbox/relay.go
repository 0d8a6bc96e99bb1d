package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/config"
	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

const (
	// PostgreSQL NOTIFY/LISTEN configuration
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute
	outboxChannelName            = "outbox_channel"

	// Event processing timeouts
	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	// Health check configuration
	healthCheckStaleThreshold = 5 * time.Minute

	// Batch processing limits
	maxEventsPerBatch = 100
)

// errInvalidPayload marks an event that can never be published.
var errInvalidPayload = errors.New("invalid event payload")

// Relay listens for PostgreSQL NOTIFY signals on the outbox_channel
// and publishes user events to RabbitMQ.
type Relay struct {
	db            *sql.DB
	publisher     ports.UserEventPublisher
	listener      *pq.Listener
	dbURL         string
	dbCB          *gobreaker.CircuitBreaker
	logger        *zap.Logger
	lastProcessed atomic.Int64
	isHealthy     atomic.Bool
}

// NewRelay creates a new outbox relay that listens for PostgreSQL notifications.
func NewRelay(db *sql.DB, dbURL string, publisher ports.UserEventPublisher, logger *zap.Logger) *Relay {
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker("Relay-PostgreSQL", logger),
		logger:    logger,
	}
	r.markProcessed()
	r.isHealthy.Store(true)
	return r
}

// IsHealthy returns true if the relay process is alive and responding.
// Liveness only: an open circuit is degraded but recoverable.
func (r *Relay) IsHealthy() bool {
	return r.isHealthy.Load()
}

// IsReady returns true if the relay can process events (for readiness probes).
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}

	// Not stuck
	last := time.Unix(0, r.lastProcessed.Load())
	if time.Since(last) > healthCheckStaleThreshold {
		return false
	}

	return r.IsHealthy()
}

func (r *Relay) markProcessed() {
	r.lastProcessed.Store(time.Now().UnixNano())
}

// Start begins listening for outbox notifications and processing events.
// This is a blocking call that runs until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Warn("outbox listener error", zap.Error(err))
		}
	}

	r.listener = pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer r.listener.Close()

	if err := r.listener.Listen(outboxChannelName); err != nil {
		return err
	}

	r.logger.Info("outbox relay listening", zap.String("channel", outboxChannelName))

	// Catch up on anything written while the relay was down
	if err := r.processUnprocessedEvents(ctx); err != nil {
		r.logger.Error("failed to process startup backlog", zap.Error(err))
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay shutting down")
			return ctx.Err()

		case notification := <-r.listener.Notify:
			if notification == nil {
				r.logger.Warn("listener reconnecting, notifications may have been missed")
				r.isHealthy.Store(false)
				continue
			}

			if err := r.processEventByID(ctx, notification.Extra); err != nil {
				r.logger.Error("failed to process event",
					zap.String("event_id", notification.Extra),
					zap.Error(err),
				)
			} else {
				r.markProcessed()
				r.isHealthy.Store(true)
			}

		case <-ticker.C:
			// Keep the connection alive and pick up missed events
			go r.listener.Ping()

			if err := r.processUnprocessedEvents(ctx); err != nil {
				r.logger.Error("periodic processing failed", zap.Error(err))
			} else {
				r.markProcessed()
			}
		}
	}
}

// publish decodes payload by event type and hands it to the publisher.
// Unknown event types are acknowledged without publishing.
func (r *Relay) publish(ctx context.Context, eventType string, payload []byte) error {
	switch eventType {
	case ports.EventUserRegistered:
		var evt ports.UserRegisteredEvent
		if err := json.Unmarshal(payload, &evt); err != nil || evt.UserID == "" {
			return errInvalidPayload
		}
		return r.publisher.PublishUserRegistered(ctx, evt)
	default:
		r.logger.Warn("skipping unknown event type", zap.String("event_type", eventType))
		return nil
	}
}

// processEventByID processes a single event by its ID.
func (r *Relay) processEventByID(ctx context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		var id, eventType string
		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, eventID).Scan(&id, &eventType, &payload)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if err := r.publish(ctx, eventType, payload); err != nil {
			if !errors.Is(err, errInvalidPayload) {
				return nil, err
			}
			// Mark bad data as processed so it is not retried forever
			r.logger.Error("dropping event with invalid payload", zap.String("event_id", id))
		}

		if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, id); err != nil {
			return nil, err
		}

		return nil, tx.Commit()
	})
	return err
}

// processUnprocessedEvents processes all unprocessed events (catch-up/recovery).
func (r *Relay) processUnprocessedEvents(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, event_type, payload
			FROM outbox_events
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		type record struct {
			ID        string
			EventType string
			Payload   []byte
		}

		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.EventType, &rec.Payload); err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			if err := r.publish(ctx, rec.EventType, rec.Payload); err != nil {
				if !errors.Is(err, errInvalidPayload) {
					r.logger.Warn("failed to publish event, will retry",
						zap.String("event_id", rec.ID),
						zap.Error(err),
					)
					continue
				}
				r.logger.Error("dropping event with invalid payload", zap.String("event_id", rec.ID))
			}

			if _, err := tx.ExecContext(ctx, `UPDATE outbox_events SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
				return nil, err
			}

			r.logger.Debug("processed event", zap.String("event_id", rec.ID))
		}

		return nil, tx.Commit()
	})
	return err
}
