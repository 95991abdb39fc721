package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/shopkeeper-dev/storefront-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string][]string{key: {"The " + key + " must be a number."}})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string][]string{key: {"The " + key + " is out of range."}})
	}
	return value, nil
}
