package tenancy

import (
	"context"
	"database/sql"
	"sync"
	"time"
	"younv/database"
	"younv/records"

	"github.com/pkg/errors"
)

// DIRECTORY_CACHE_TTL bounds how long a removed user keeps the clinic scope.
const DIRECTORY_CACHE_TTL = time.Minute

// ErrNoClinic is returned when a user is not associated with any active clinic.
var ErrNoClinic = errors.New("user has no active clinic")

// Directory resolves the clinic a signed-in user works for.
type Directory interface {
	ClinicFor(ctx context.Context, userID string) (string, error)
}

// MySQLDirectory reads the legacy usuarios_clinicas table.
type MySQLDirectory struct {
	db *sql.DB
}

func NewMySQLDirectory(db *sql.DB) *MySQLDirectory {
	return &MySQLDirectory{db: db}
}

const clinicForUserQuery = `SELECT clinica_id FROM usuarios_clinicas WHERE user_id = ? AND ativo = 1 ORDER BY id LIMIT 1`

func (d *MySQLDirectory) ClinicFor(ctx context.Context, userID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, database.MYSQL_TIMEOUT)
	defer cancel()

	var clinicID string
	err := d.db.QueryRowContext(ctx, clinicForUserQuery, userID).Scan(&clinicID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoClinic
	}
	if err != nil {
		return "", errors.Wrapf(err, "[MySQL] clinic for user %s", userID)
	}
	return clinicID, nil
}

// RecordDirectory reads the usuarios_clinicas collection through an
// unscoped record store.
type RecordDirectory struct {
	store records.Store
}

func NewRecordDirectory(store records.Store) *RecordDirectory {
	return &RecordDirectory{store: store}
}

func (d *RecordDirectory) ClinicFor(ctx context.Context, userID string) (string, error) {
	recs, err := d.store.GetWhere(ctx, database.COLLECTION_USUARIOS_CLINICAS, "user_id", userID)
	if err != nil {
		return "", errors.Wrapf(err, "clinic for user %s", userID)
	}
	for _, rec := range recs {
		if active, ok := rec["ativo"].(bool); ok && !active {
			continue
		}
		if clinicID := rec.String(TENANT_FIELD); clinicID != "" {
			return clinicID, nil
		}
	}
	return "", ErrNoClinic
}

// CachedDirectory asks next once per user and remembers the answer for
// ttl, so a user removed from a clinic loses access once the entry expires.
// Failures are not remembered.
type CachedDirectory struct {
	next Directory
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	clinics map[string]cachedClinic
}

type cachedClinic struct {
	id      string
	expires time.Time
}

func NewCachedDirectory(next Directory, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		clinics: map[string]cachedClinic{},
	}
}

func (d *CachedDirectory) ClinicFor(ctx context.Context, userID string) (string, error) {
	d.mu.Lock()
	cached, ok := d.clinics[userID]
	d.mu.Unlock()
	if ok && d.now().Before(cached.expires) {
		return cached.id, nil
	}

	clinicID, err := d.next.ClinicFor(ctx, userID)
	if err != nil {
		d.Forget(userID)
		return "", err
	}

	d.mu.Lock()
	d.clinics[userID] = cachedClinic{id: clinicID, expires: d.now().Add(d.ttl)}
	d.mu.Unlock()
	return clinicID, nil
}

// Forget drops the remembered clinic of userID.
func (d *CachedDirectory) Forget(userID string) {
	d.mu.Lock()
	delete(d.clinics, userID)
	d.mu.Unlock()
}
