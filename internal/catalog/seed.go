package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

var _seedEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

var _seedCategories = []struct {
	name        string
	description string
	prefix      string
	status      int
}{
	{"authentication", "Login, tokens and sessions", "AUTH", 401},
	{"authorization", "Permissions and access policies", "PERM", 403},
	{"validation", "Malformed or out-of-range input", "VAL", 400},
	{"billing", "Payments, invoices and plans", "BILL", 402},
	{"storage", "Database and file storage failures", "STOR", 500},
}

var _seedLocales = []string{"en", "es", "de"}

var _severities = []string{"low", "medium", "high"}

// Migrate creates or updates the catalog tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}

	return nil
}

// Seed migrates the schema and inserts demo data into an empty catalog:
// perCategory error codes for each category, each translated into every
// seed locale. Rows are created one minute apart, newest first.
func Seed(ctx context.Context, db *gorm.DB, perCategory int) error {
	if err := Migrate(ctx, db); err != nil {
		return err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tick := 0
		stamp := func() time.Time {
			tick++
			return _seedEpoch.Add(-time.Duration(tick) * time.Minute)
		}

		for _, sc := range _seedCategories {
			category := Category{Name: sc.name, Description: sc.description, CreatedAt: stamp()}
			if err := tx.Create(&category).Error; err != nil {
				return fmt.Errorf("failed to seed category '%s': %w", sc.name, err)
			}

			codes := lo.Times(perCategory, func(i int) ErrorCode {
				return ErrorCode{
					Code:       fmt.Sprintf("%s-%03d", sc.prefix, i+1),
					Message:    fmt.Sprintf("%s error %d", sc.name, i+1),
					Severity:   _severities[i%len(_severities)],
					HTTPStatus: sc.status,
					CategoryID: category.ID,
					CreatedAt:  stamp(),
				}
			})
			if len(codes) == 0 {
				continue
			}
			if err := tx.Create(&codes).Error; err != nil {
				return fmt.Errorf("failed to seed error codes of '%s': %w", sc.name, err)
			}

			translations := lo.FlatMap(codes, func(code ErrorCode, _ int) []Translation {
				return lo.Map(_seedLocales, func(locale string, _ int) Translation {
					return Translation{
						ErrorCodeID: code.ID,
						Locale:      locale,
						Message:     fmt.Sprintf("[%s] %s", locale, code.Message),
						CreatedAt:   stamp(),
					}
				})
			})
			if err := tx.Create(&translations).Error; err != nil {
				return fmt.Errorf("failed to seed translations of '%s': %w", sc.name, err)
			}
		}

		return nil
	})
}
