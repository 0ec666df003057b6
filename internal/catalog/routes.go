package catalog

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Alp4ka/listpager"
	"github.com/Alp4ka/listpager/httpapi"
	"github.com/Alp4ka/listpager/internal/metrics"
)

// Options configure the catalog routes.
type Options struct {
	BaseURL string
	Limits  Limits
	Logger  *zap.Logger
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Listers are the list services of the catalog entities.
type Listers struct {
	Categories   *listpager.Lister[Category]
	ErrorCodes   *listpager.Lister[ErrorCode]
	Translations *listpager.Lister[Translation]
}

// NewListers builds the catalog list services.
func NewListers(opts Options) (*Listers, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	categories, err := newLister[Category]("categories", opts.Limits.apply(categoryCapabilities), opts, logger)
	if err != nil {
		return nil, err
	}

	errorCodes, err := newLister[ErrorCode]("error_codes", opts.Limits.apply(errorCodeCapabilities), opts, logger)
	if err != nil {
		return nil, err
	}
	errorCodes.WithGetters(errorCodeGetters)

	translations, err := newLister[Translation]("translations", opts.Limits.apply(translationCapabilities), opts, logger)
	if err != nil {
		return nil, err
	}

	return &Listers{Categories: categories, ErrorCodes: errorCodes, Translations: translations}, nil
}

func newLister[T any](entity string, caps listpager.QueryCapabilities, opts Options, logger *zap.Logger) (*listpager.Lister[T], error) {
	l, err := listpager.NewLister[T](caps)
	if err != nil {
		return nil, fmt.Errorf("cannot build %s lister: %w", entity, err)
	}

	l.WithLogger(logger.With(zap.String("entity", entity)))
	if opts.Metrics != nil {
		l.WithObserver(opts.Metrics.Observer(entity))
	}

	return l, nil
}

// Register mounts the catalog list endpoints on r.
func Register(r gin.IRoutes, db *gorm.DB, opts Options) error {
	listers, err := NewListers(opts)
	if err != nil {
		return err
	}

	hopts := httpapi.Options{BaseURL: opts.BaseURL, Logger: opts.Logger}
	r.GET("/categories", httpapi.ListHandler(listers.Categories, db, hopts))
	r.GET("/error-codes", httpapi.ListHandler(listers.ErrorCodes, db, hopts))
	r.GET("/translations", httpapi.ListHandler(listers.Translations, db, hopts))

	return nil
}
