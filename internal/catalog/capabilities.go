package catalog

import "github.com/Alp4ka/listpager"

// Limits overrides the page size bounds of every catalog endpoint.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

func (l Limits) apply(caps listpager.QueryCapabilities) listpager.QueryCapabilities {
	caps.DefaultLimit = l.DefaultLimit
	caps.MaxLimit = l.MaxLimit

	return caps
}

var categoryCapabilities = listpager.QueryCapabilities{
	AllowedFields:    []string{"id", "name", "description", "createdAt", "updatedAt"},
	SearchableFields: []string{"name", "description"},
	AllowedRelations: []string{"errorCodes"},
	Columns: listpager.ColumnMapping{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	Relations: map[string]string{"errorCodes": "ErrorCodes"},
}

var errorCodeCapabilities = listpager.QueryCapabilities{
	AllowedFields: []string{
		"id", "code", "message", "severity", "httpStatus", "categoryId", "createdAt", "updatedAt",
	},
	SearchableFields: []string{"code", "message"},
	AllowedRelations: []string{"category", "translations"},
	Columns: listpager.ColumnMapping{
		"httpStatus": "http_status",
		"categoryId": "category_id",
		"createdAt":  "created_at",
		"updatedAt":  "updated_at",
	},
	Relations: map[string]string{
		"category":     "Category",
		"translations": "Translations",
	},
	DefaultSort: "code",
}

var translationCapabilities = listpager.QueryCapabilities{
	AllowedFields:    []string{"id", "errorCodeId", "locale", "message", "createdAt", "updatedAt"},
	SearchableFields: []string{"message"},
	AllowedRelations: []string{"errorCode"},
	Columns: listpager.ColumnMapping{
		"errorCodeId": "error_code_id",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
	},
	Relations:   map[string]string{"errorCode": "ErrorCode"},
	DefaultMode: listpager.ModeKeyset,
}

var errorCodeGetters = listpager.Getters[ErrorCode]{
	"id":         func(e ErrorCode) any { return e.ID },
	"code":       func(e ErrorCode) any { return e.Code },
	"message":    func(e ErrorCode) any { return e.Message },
	"severity":   func(e ErrorCode) any { return e.Severity },
	"httpStatus": func(e ErrorCode) any { return e.HTTPStatus },
	"categoryId": func(e ErrorCode) any { return e.CategoryID },
	"createdAt":  func(e ErrorCode) any { return e.CreatedAt },
	"updatedAt":  func(e ErrorCode) any { return e.UpdatedAt },
}
