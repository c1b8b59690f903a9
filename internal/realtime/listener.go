package realtime

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Channel is the NOTIFY channel the database triggers publish to. The
// payload of each notification is the name of the table that changed.
const Channel = "taskboard_changes"

// ChangeFeed delivers table-level change notifications from the database so
// every process converges on the same state. The cache consumes the feed and
// refreshes the affected collection.
type ChangeFeed interface {
	Changes() <-chan string
	Close() error
}

// PostgresFeed implements ChangeFeed over LISTEN/NOTIFY via lib/pq
type PostgresFeed struct {
	listener *pq.Listener
	changes  chan string
	done     chan struct{}
	logger   *zap.Logger
}

// NewPostgresFeed opens a dedicated listening connection. The listener
// reconnects on its own; after a reconnect an empty notification is emitted
// so consumers refresh everything they may have missed.
func NewPostgresFeed(dsn string, logger *zap.Logger) (*PostgresFeed, error) {
	feed := &PostgresFeed{
		changes: make(chan string, 64),
		done:    make(chan struct{}),
		logger:  logger,
	}

	feed.listener = pq.NewListener(dsn, 10*time.Second, time.Minute, func(event pq.ListenerEventType, err error) {
		switch event {
		case pq.ListenerEventDisconnected:
			logger.Warn("change feed disconnected", zap.Error(err))
		case pq.ListenerEventReconnected:
			logger.Info("change feed reconnected")
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Warn("change feed reconnect attempt failed", zap.Error(err))
		}
	})

	if err := feed.listener.Listen(Channel); err != nil {
		feed.listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", Channel, err)
	}

	go feed.run()
	return feed, nil
}

func (f *PostgresFeed) run() {
	defer close(f.changes)
	for {
		select {
		case <-f.done:
			return
		case notification := <-f.listener.Notify:
			// a nil notification means the connection was re-established;
			// signal a full refresh with an empty table name
			payload := ""
			if notification != nil {
				payload = notification.Extra
			}
			select {
			case f.changes <- payload:
			case <-f.done:
				return
			}
		case <-time.After(90 * time.Second):
			if err := f.listener.Ping(); err != nil {
				f.logger.Warn("change feed ping failed", zap.Error(err))
			}
		}
	}
}

func (f *PostgresFeed) Changes() <-chan string {
	return f.changes
}

func (f *PostgresFeed) Close() error {
	close(f.done)
	return f.listener.Close()
}
