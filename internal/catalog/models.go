// Package catalog is the error-code catalog served by errcatalog: categories,
// error codes and their translations.
package catalog

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	ErrorCodes []ErrorCode `json:"errorCodes,omitempty"`
}

type ErrorCode struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Code       string    `gorm:"uniqueIndex;not null" json:"code"`
	Message    string    `gorm:"not null" json:"message"`
	Severity   string    `gorm:"not null;index" json:"severity"`
	HTTPStatus int       `gorm:"not null" json:"httpStatus"`
	CategoryID uint      `gorm:"not null;index" json:"categoryId"`
	CreatedAt  time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Category     *Category     `json:"category,omitempty"`
	Translations []Translation `json:"translations,omitempty"`
}

type Translation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ErrorCodeID uint      `gorm:"not null;uniqueIndex:idx_translation_locale" json:"errorCodeId"`
	Locale      string    `gorm:"not null;uniqueIndex:idx_translation_locale" json:"locale"`
	Message     string    `gorm:"not null" json:"message"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	ErrorCode *ErrorCode `json:"errorCode,omitempty"`
}

// Models lists every catalog model, in migration order.
func Models() []any {
	return []any{&Category{}, &ErrorCode{}, &Translation{}}
}
