package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

// AuditRepository reads the audit log. The log is written elsewhere and
// assumed durable; this repository never inserts or mutates entries.
type AuditRepository interface {
	Logs(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditLogEntry, int64, error)
	TotalSince(ctx context.Context, cutoff time.Time) (int64, error)
	CountByAction(ctx context.Context, cutoff time.Time) (map[string]int64, error)
	CountByUser(ctx context.Context, cutoff time.Time, limit int) (map[string]int64, error)
	CountByStatus(ctx context.Context, cutoff time.Time) (map[string]int64, error)
	RecentActivity(ctx context.Context, cutoff time.Time, limit int) ([]entity.AuditLogEntry, error)
	Actions(ctx context.Context) ([]string, error)
	ResourceTypes(ctx context.Context) ([]string, error)
	Timeline(ctx context.Context, cutoff time.Time, interval string) ([]entity.TimelineBucket, error)
}

type auditRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewAuditRepository creates a pgx-backed audit repository.
func NewAuditRepository(pool *pgxpool.Pool, log *slog.Logger) AuditRepository {
	if log == nil {
		log = slog.Default()
	}
	return &auditRepo{pool: pool, log: log}
}

const auditColumns = `
	al.id,
	al.timestamp,
	al.user_id,
	u.email AS username,
	al.action,
	al.resource_type,
	al.resource_id,
	al.details,
	al.ip_address,
	al.user_agent,
	al.status
FROM audit_logs al
LEFT JOIN users u ON al.user_id = u.id
`

func auditWhere(filter entity.AuditFilter) *whereBuilder {
	b := &whereBuilder{}
	if filter.UserID != nil {
		b.andBind("al.user_id =", *filter.UserID)
	}
	if filter.Action != nil {
		b.andBind("al.action =", *filter.Action)
	}
	if filter.ResourceType != nil {
		b.andBind("al.resource_type =", *filter.ResourceType)
	}
	if filter.ResourceID != nil {
		b.andBind("al.resource_id =", *filter.ResourceID)
	}
	if filter.Status != nil {
		b.andBind("al.status =", *filter.Status)
	}
	if filter.DateFrom != nil {
		b.andBind("al.timestamp >=", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		b.andBind("al.timestamp <=", *filter.DateTo)
	}
	return b
}

func (r *auditRepo) scanEntries(rows pgx.Rows) ([]entity.AuditLogEntry, error) {
	var logs []entity.AuditLogEntry
	for rows.Next() {
		var (
			e            entity.AuditLogEntry
			username     *string
			resourceType *string
			status       *string
		)
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.UserID, &username, &e.Action,
			&resourceType, &e.ResourceID, &e.Details,
			&e.IPAddress, &e.UserAgent, &status,
		); err != nil {
			return nil, common.WrapError(err, "scan audit row")
		}
		e.Username = "Unknown"
		if username != nil {
			e.Username = *username
		}
		e.ResourceType = "unknown"
		if resourceType != nil {
			e.ResourceType = *resourceType
		}
		e.Status = "unknown"
		if status != nil {
			e.Status = *status
		}
		if e.Details == nil {
			e.Details = map[string]any{}
		}
		logs = append(logs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "read audit rows")
	}
	return logs, nil
}

func (r *auditRepo) Logs(ctx context.Context, filter entity.AuditFilter) ([]entity.AuditLogEntry, int64, error) {
	b := auditWhere(filter)
	sel := "SELECT " + auditColumns + b.where()
	countSQL := "SELECT COUNT(*) FROM audit_logs al LEFT JOIN users u ON al.user_id = u.id " + b.where()

	limit := b.bind(filter.Limit)
	offset := b.bind(filter.Offset)
	sql := sel + " ORDER BY al.timestamp DESC LIMIT " + limit + " OFFSET " + offset

	rows, err := r.pool.Query(ctx, sql, b.args...)
	if err != nil {
		r.log.Error("audit log query failed", "error", err)
		return nil, 0, common.WrapError(err, "query audit logs")
	}
	defer rows.Close()

	logs, err := r.scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	countArgs := b.args[:len(b.args)-2]
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, common.WrapError(err, "count audit logs")
	}
	return logs, total, nil
}

func (r *auditRepo) TotalSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM audit_logs WHERE timestamp >= $1`, cutoff,
	).Scan(&total)
	if err != nil {
		return 0, common.WrapError(err, "count audit events")
	}
	return total, nil
}

func (r *auditRepo) countBy(ctx context.Context, sql string, args ...any) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.WrapError(err, "query audit aggregation")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			key   *string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, common.WrapError(err, "scan aggregation row")
		}
		name := "Unknown"
		if key != nil {
			name = *key
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "read aggregation rows")
	}
	return counts, nil
}

func (r *auditRepo) CountByAction(ctx context.Context, cutoff time.Time) (map[string]int64, error) {
	return r.countBy(ctx, `
SELECT action, COUNT(*) AS count
FROM audit_logs
WHERE timestamp >= $1
GROUP BY action
ORDER BY count DESC`, cutoff)
}

func (r *auditRepo) CountByUser(ctx context.Context, cutoff time.Time, limit int) (map[string]int64, error) {
	return r.countBy(ctx, `
SELECT u.email, COUNT(*) AS count
FROM audit_logs al
LEFT JOIN users u ON al.user_id = u.id
WHERE al.timestamp >= $1
GROUP BY u.email
ORDER BY count DESC
LIMIT $2`, cutoff, limit)
}

func (r *auditRepo) CountByStatus(ctx context.Context, cutoff time.Time) (map[string]int64, error) {
	return r.countBy(ctx, `
SELECT status, COUNT(*) AS count
FROM audit_logs
WHERE timestamp >= $1
GROUP BY status`, cutoff)
}

func (r *auditRepo) RecentActivity(ctx context.Context, cutoff time.Time, limit int) ([]entity.AuditLogEntry, error) {
	sql := "SELECT " + auditColumns + `
WHERE al.timestamp >= $1
ORDER BY al.timestamp DESC
LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, cutoff, limit)
	if err != nil {
		return nil, common.WrapError(err, "query recent activity")
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *auditRepo) Actions(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT action FROM audit_logs ORDER BY action`)
	if err != nil {
		return nil, common.WrapError(err, "query audit actions")
	}
	defer rows.Close()

	actions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, common.WrapError(err, "collect audit actions")
	}
	return actions, nil
}

func (r *auditRepo) ResourceTypes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT resource_type
FROM audit_logs
WHERE resource_type IS NOT NULL
ORDER BY resource_type`)
	if err != nil {
		return nil, common.WrapError(err, "query resource types")
	}
	defer rows.Close()

	types, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, common.WrapError(err, "collect resource types")
	}
	return types, nil
}

func (r *auditRepo) Timeline(ctx context.Context, cutoff time.Time, interval string) ([]entity.TimelineBucket, error) {
	rows, err := r.pool.Query(ctx, `
SELECT
	DATE_TRUNC($1, timestamp) AS time_bucket,
	COUNT(*) AS event_count,
	COUNT(DISTINCT user_id) AS unique_users
FROM audit_logs
WHERE timestamp >= $2
GROUP BY time_bucket
ORDER BY time_bucket DESC`, interval, cutoff)
	if err != nil {
		r.log.Error("timeline query failed", "error", err)
		return nil, common.WrapError(err, "query audit timeline")
	}
	defer rows.Close()

	var buckets []entity.TimelineBucket
	for rows.Next() {
		var b entity.TimelineBucket
		if err := rows.Scan(&b.Timestamp, &b.EventCount, &b.UniqueUsers); err != nil {
			return nil, common.WrapError(err, "scan timeline row")
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "read timeline rows")
	}
	return buckets, nil
}
