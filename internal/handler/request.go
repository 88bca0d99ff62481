package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/server/authctx"
)

// flexInt accepts a JSON number or a numeric string, which is what HTML form
// front ends tend to send.
type flexInt int64

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		*n = flexInt(v)
		return nil
	}
	// 3.0 and 1e3 are whole numbers; 2.7 and anything past int64 are not.
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("invalid integer %q", s)
	}
	*n = flexInt(int64(f))
	return nil
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

func parseID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

// clientFilter reads the optional ?cliente_id= query parameter.
func clientFilter(r *http.Request) (*int64, error) {
	raw := r.URL.Query().Get("cliente_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func identity(r *http.Request) domain.Identity {
	if who := authctx.FromContext(r.Context()); who != nil {
		return *who
	}
	return domain.Identity{}
}
