package listpager

import (
	"net/url"
	"strconv"
	"strings"
)

// BuildLink appends params to baseURL as a query string. It returns "" when
// baseURL is empty, i.e. the caller has no reachable endpoint to link to.
// Parameters with only empty values are omitted; a query already present in
// baseURL is merged, with params taking precedence.
func BuildLink(baseURL string, params url.Values) string {
	if baseURL == "" {
		return ""
	}

	base, rawQuery, _ := strings.Cut(baseURL, "?")
	merged, err := url.ParseQuery(rawQuery)
	if err != nil {
		merged = url.Values{}
	}

	for key, values := range params {
		kept := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				kept = append(kept, v)
			}
		}

		if len(kept) == 0 {
			merged.Del(key)
			continue
		}
		merged[key] = kept
	}

	if len(merged) == 0 {
		return base
	}

	return base + "?" + merged.Encode()
}

// pageLink re-issues query with page substituted.
func pageLink(baseURL string, query url.Values, page int) string {
	params := cloneValues(query)
	params.Set(ParamPage, strconv.Itoa(page))

	return BuildLink(baseURL, params)
}

// cursorLink re-issues query positioned at cursor. Offset and legacy
// position parameters are dropped so the link is unambiguous. A nil cursor
// yields no link.
func cursorLink(baseURL string, query url.Values, cursor *KeysetCursor, nav Navigation) string {
	if cursor.IsEmpty() {
		return ""
	}

	params := cloneValues(query)
	params.Del(ParamPage)
	params.Del(ParamStartID)
	params.Del(ParamStartValue)
	params.Set(ParamCursor, cursor.String())
	params.Set(ParamDirection, string(nav))

	return BuildLink(baseURL, params)
}
