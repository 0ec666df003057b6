package listpager

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Observer receives the outcome of every List call. Implementations must be
// safe for concurrent use.
type Observer interface {
	ObserveList(mode Mode, items int, elapsed time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveList(Mode, int, time.Duration, error) {}

// Lister serves paginated reads of T under a fixed set of capabilities.
// Configure it with the With* methods before sharing it between goroutines.
type Lister[T any] struct {
	caps     QueryCapabilities
	getters  Getters[T]
	logger   *zap.Logger
	observer Observer
}

// NewLister validates caps and returns a Lister for T.
func NewLister[T any](caps QueryCapabilities) (*Lister[T], error) {
	if err := caps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query capabilities: %w", err)
	}

	return &Lister[T]{
		caps:     caps,
		logger:   zap.NewNop(),
		observer: nopObserver{},
	}, nil
}

// MustNewLister is NewLister that panics on invalid capabilities. Intended
// for package-level declarations.
func MustNewLister[T any](caps QueryCapabilities) *Lister[T] {
	l, err := NewLister[T](caps)
	if err != nil {
		panic(err)
	}

	return l
}

// WithGetters sets the extractors used to read cursor values from rows.
func (l *Lister[T]) WithGetters(getters Getters[T]) *Lister[T] {
	l.getters = getters

	return l
}

// WithLogger sets the logger. A nil logger disables logging.
func (l *Lister[T]) WithLogger(logger *zap.Logger) *Lister[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	l.logger = logger

	return l
}

// WithObserver sets the hook notified after every List call.
func (l *Lister[T]) WithObserver(observer Observer) *Lister[T] {
	if observer == nil {
		observer = nopObserver{}
	}
	l.observer = observer

	return l
}

// Capabilities returns the declaration the Lister validates requests against.
func (l *Lister[T]) Capabilities() QueryCapabilities {
	return l.caps
}

// List parses query, selects the pagination mode and reads one page of T
// from db. Links are built against baseURL; an empty baseURL yields no links.
//
// Every client error is returned before db is queried.
func (l *Lister[T]) List(ctx context.Context, db *gorm.DB, query url.Values, baseURL string) (*PaginatedResponse[T], error) {
	start := time.Now()

	req, err := ParseRequest(query, l.caps)
	if err != nil {
		l.observer.ObserveList("", 0, time.Since(start), err)
		return nil, err
	}

	resp, err := l.Paginate(ctx, db, req, baseURL)
	l.observer.ObserveList(req.Mode(), resp.Len(), time.Since(start), err)

	return resp, err
}

// Paginate dispatches an already parsed request to its engine.
func (l *Lister[T]) Paginate(ctx context.Context, db *gorm.DB, req *PaginationRequest, baseURL string) (*PaginatedResponse[T], error) {
	logger := l.logger.With(
		zap.String("mode", string(req.Mode())),
		zap.String("sort", req.Sort),
		zap.String("order", string(req.Order)),
		zap.Int("limit", req.Limit),
	)
	logger.Debug("listing")

	var (
		resp *PaginatedResponse[T]
		err  error
	)
	switch req.Mode() {
	case ModeKeyset:
		resp, err = l.Keyset(ctx, db, req, baseURL)
	case ModeOffset:
		resp, err = l.Offset(ctx, db, req, baseURL)
	default:
		return nil, fmt.Errorf("unknown pagination mode '%s'", req.Mode())
	}

	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		logger.Error("list query failed", zap.String("op", storageErr.Op), zap.Error(storageErr.Err))
	}

	return resp, err
}
