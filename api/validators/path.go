package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/angelmondragon/restaurant-backend/pkg/errors"
)

// ParsePathIndex reads a non-negative integer URL parameter such as a cart line position.
func ParsePathIndex(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, pkgerrors.Invalid(key, "path parameter must be a non-negative integer")
	}
	return value, nil
}
