package listpager

import (
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

var _sqlMockFnList = []func() (string, *gorm.DB, sqlmock.Sqlmock, error){
	newGORMMySQLMock,
	newGORMPostgresMock,
}

// Placeholder and identifier quoting differ between the mocked dialects.
const (
	_ph = "(?:\\?|\\$\\d+)"
	_q  = "[`\"]"
)

// newGORMSQLite opens a private in-memory database. A single connection keeps
// every statement on the same database.
func newGORMSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

type tItem struct {
	ID         uint `gorm:"primaryKey"`
	Code       string
	Score      int
	CategoryID uint
	Category   *tCategory
	CreatedAt  time.Time
}

type tCategory struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

var _itemCaps = QueryCapabilities{
	AllowedFields:    []string{"id", "code", "score", "createdAt", "categoryId"},
	SearchableFields: []string{"code"},
	AllowedRelations: []string{"category"},
	Columns: ColumnMapping{
		"createdAt":  "created_at",
		"categoryId": "category_id",
	},
	Relations: map[string]string{"category": "Category"},
}

var _itemColumns = []string{"id", "code", "score", "category_id", "created_at"}

var _epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// seedItems inserts n items. Item i (1-based) gets code "item-%02d", score
// scoreOf(i) and a createdAt that decreases with i.
func seedItems(t *testing.T, db *gorm.DB, n int, scoreOf func(i int) int) {
	t.Helper()

	require.NoError(t, db.AutoMigrate(&tCategory{}, &tItem{}))
	require.NoError(t, db.Create(&tCategory{ID: 1, Name: "general"}).Error)

	items := make([]tItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, tItem{
			ID:         uint(i),
			Code:       fmt.Sprintf("item-%02d", i),
			Score:      scoreOf(i),
			CategoryID: 1,
			CreatedAt:  _epoch.Add(-time.Duration(i) * time.Hour),
		})
	}
	if len(items) > 0 {
		require.NoError(t, db.Create(&items).Error)
	}
}

func itemIDs(items []tItem) []uint {
	ret := make([]uint, 0, len(items))
	for _, item := range items {
		ret = append(ret, item.ID)
	}

	return ret
}

// linkQuery returns the query parameters of a generated link.
func linkQuery(t *testing.T, link string) url.Values {
	t.Helper()

	u, err := url.Parse(link)
	require.NoError(t, err)

	return u.Query()
}
