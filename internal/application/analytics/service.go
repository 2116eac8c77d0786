package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopfront/gateway/internal/infrastructure/persistence"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
)

// maxSeenIDs bounds the in-memory dedupe set. The spool's unique
// index is the real guarantee; this set just avoids needless writes
// for beacons the browser retries within a session.
const maxSeenIDs = 10000

// Event is a tracking beacon accepted from the storefront
type Event struct {
	EventID    string            `json:"event_id"`
	Name       string            `json:"name" binding:"required"`
	SessionID  string            `json:"session_id,omitempty"`
	VisitorID  string            `json:"visitor_id,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Service batches tracking events into the durable spool and drains
// the spool to the platform in the background. Accepting a beacon
// never waits on the platform.
type Service struct {
	repo          *persistence.SpoolRepository
	client        *upstream.Client
	batchSize     int
	flushInterval time.Duration
	maxRetries    int
	retention     time.Duration
	logger        *zap.Logger

	mu     sync.Mutex
	buffer []persistence.SpooledEvent
	seen   map[string]struct{}
}

// NewService creates the analytics service
func NewService(repo *persistence.SpoolRepository, client *upstream.Client, batchSize int, flushInterval time.Duration, maxRetries int, retention time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if flushInterval <= 0 {
		flushInterval = 10 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	return &Service{
		repo:          repo,
		client:        client,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		maxRetries:    maxRetries,
		retention:     retention,
		logger:        logger,
		seen:          make(map[string]struct{}),
	}
}

// Track accepts one event. Events without an ID get one assigned;
// events already seen in this process are dropped. The buffer spills
// to the spool once it reaches the batch size.
func (s *Service) Track(ctx context.Context, event Event) error {
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	properties := ""
	if len(event.Properties) > 0 {
		encoded, err := json.Marshal(event.Properties)
		if err != nil {
			return err
		}
		properties = string(encoded)
	}

	s.mu.Lock()
	if _, dup := s.seen[event.EventID]; dup {
		s.mu.Unlock()
		return nil
	}
	if len(s.seen) >= maxSeenIDs {
		s.seen = make(map[string]struct{})
	}
	s.seen[event.EventID] = struct{}{}

	s.buffer = append(s.buffer, persistence.SpooledEvent{
		EventID:    event.EventID,
		Name:       event.Name,
		SessionID:  event.SessionID,
		VisitorID:  event.VisitorID,
		Properties: properties,
		OccurredAt: event.OccurredAt,
		Status:     persistence.SpoolStatusPending,
	})
	full := len(s.buffer) >= s.batchSize
	s.mu.Unlock()

	if full {
		return s.FlushBuffer(ctx)
	}
	return nil
}

// FlushBuffer writes buffered events to the spool
func (s *Service) FlushBuffer(ctx context.Context) error {
	s.mu.Lock()
	batch := s.buffer
	s.buffer = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := s.repo.Enqueue(ctx, batch); err != nil {
		if persistence.IsDuplicateKeyError(err) {
			// The rows already exist from an earlier attempt; re-buffering
			// the batch would retry it forever
			s.logger.Debug("analytics: batch already spooled", zap.Int("events", len(batch)))
			return nil
		}
		// Put the batch back so the next flush retries it
		s.mu.Lock()
		s.buffer = append(batch, s.buffer...)
		s.mu.Unlock()
		return err
	}
	return nil
}

// Drain delivers one batch of spooled events to the platform and
// reports how many were sent
func (s *Service) Drain(ctx context.Context) (int, error) {
	pending, err := s.repo.FetchPending(ctx, s.batchSize)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	events := make([]upstream.AnalyticsEvent, 0, len(pending))
	ids := make([]uint, 0, len(pending))
	for _, row := range pending {
		var properties map[string]string
		if row.Properties != "" {
			_ = json.Unmarshal([]byte(row.Properties), &properties)
		}
		events = append(events, upstream.AnalyticsEvent{
			EventID:    row.EventID,
			Name:       row.Name,
			SessionID:  row.SessionID,
			VisitorID:  row.VisitorID,
			Properties: properties,
			OccurredAt: row.OccurredAt,
		})
		ids = append(ids, row.ID)
	}

	if err := s.client.SendAnalyticsEvents(ctx, events); err != nil {
		if markErr := s.repo.MarkFailed(ctx, ids, err.Error(), s.maxRetries); markErr != nil {
			s.logger.Error("failed to record delivery failure", zap.Error(markErr))
		}
		return 0, err
	}

	if err := s.repo.MarkSent(ctx, ids); err != nil {
		return 0, err
	}
	return len(events), nil
}

// Run flushes and drains on the configured interval until the context
// is cancelled, then performs a final flush
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	purgeTicker := time.NewTicker(time.Hour)
	defer purgeTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.FlushBuffer(flushCtx); err != nil {
				s.logger.Error("final analytics flush failed", zap.Error(err))
			}
			cancel()
			return

		case <-ticker.C:
			if err := s.FlushBuffer(ctx); err != nil {
				s.logger.Error("analytics flush failed", zap.Error(err))
				continue
			}
			for {
				sent, err := s.Drain(ctx)
				if err != nil {
					s.logger.Warn("analytics delivery failed", zap.Error(err))
					break
				}
				if sent < s.batchSize {
					break
				}
			}

		case <-purgeTicker.C:
			if s.retention > 0 {
				if deleted, err := s.repo.PurgeOlderThan(ctx, s.retention); err != nil {
					s.logger.Warn("analytics purge failed", zap.Error(err))
				} else if deleted > 0 {
					s.logger.Debug("purged delivered analytics events", zap.Int64("deleted", deleted))
				}
			}
		}
	}
}
