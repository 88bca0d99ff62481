package service

import (
	"context"
	"time"

	"github.com/lsandon/fertiviltro-app/internal/domain"
	"github.com/lsandon/fertiviltro-app/internal/repository"
)

type ownedRecord interface {
	repository.Record
	owned
}

// findVisible returns the row with the given id when the scope allows it.
// Rows outside the scope are reported as missing.
func findVisible[T ownedRecord](rows []T, id int64, scope Scope, notFound string) (T, error) {
	var zero T
	i := repository.IndexByID(rows, id)
	if i < 0 || !scope.Allows(rows[i].OwnerID()) {
		return zero, domain.Errorf(domain.ErrNotFound, "%s", notFound)
	}
	return rows[i], nil
}

// requireClient fails with NotFound when id names no stored client. A zero id
// means the field was not supplied and passes.
func requireClient(ctx context.Context, clients repository.ClientRepository, id int64) error {
	if id == 0 {
		return nil
	}
	stored, err := clients.All(ctx)
	if err != nil {
		return err
	}
	if repository.IndexByID(stored, id) < 0 {
		return domain.Errorf(domain.ErrNotFound, "%s", msgClientNotFound)
	}
	return nil
}

// Shallow merge: an empty or zero update keeps the stored value.

func mergeString(stored, update string) string {
	if update == "" {
		return stored
	}
	return update
}

func mergeInt(stored, update int64) int64 {
	if update == 0 {
		return stored
	}
	return update
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}

// dateOnly formats t as YYYY-MM-DD.
func dateOnly(t time.Time) string {
	return t.Format(time.DateOnly)
}

// withoutOwner drops every row owned by clientID.
func withoutOwner[T owned](rows []T, clientID int64) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r.OwnerID() != clientID {
			out = append(out, r)
		}
	}
	return out
}
