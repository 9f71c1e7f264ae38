package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

// DocumentRepository reads the documents/cases projection. All queries are
// read-only; nothing in this service mutates documents.
type DocumentRepository interface {
	// ListForExport resolves the document set for an export job, ordered by
	// upload date descending.
	ListForExport(ctx context.Context, filter entity.ExportFilter) ([]entity.ExportDocument, error)
	// Search runs the filtered free-text query and returns one page of results
	// plus the unpaged total.
	Search(ctx context.Context, q entity.SearchQuery) ([]entity.SearchResult, int64, error)
	// Suggest returns distinct filenames matching a prefix.
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
	// Stats summarizes the corpus.
	Stats(ctx context.Context) (entity.CorpusStats, error)
}

type documentRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewDocumentRepository creates a pgx-backed document repository.
func NewDocumentRepository(pool *pgxpool.Pool, log *slog.Logger) DocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &documentRepo{pool: pool, log: log}
}

const exportColumns = `
	d.id,
	d.filename,
	d.case_id,
	c.name AS case_name,
	c.number AS case_number,
	d.file_type,
	d.file_size,
	d.upload_date,
	d.uploaded_by,
	d.metadata,
	d.tags,
	d.hash
FROM documents d
LEFT JOIN cases c ON d.case_id = c.id
`

func exportWhere(filter entity.ExportFilter) *whereBuilder {
	b := &whereBuilder{}
	if filter.CaseID != nil {
		b.andBind("d.case_id =", *filter.CaseID)
	}
	if len(filter.DocumentIDs) > 0 {
		b.and("d.id = ANY(" + b.bind(filter.DocumentIDs) + ")")
	}
	if filter.DateFrom != nil {
		b.andBind("d.upload_date >=", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		b.andBind("d.upload_date <=", *filter.DateTo)
	}
	return b
}

func (r *documentRepo) ListForExport(ctx context.Context, filter entity.ExportFilter) ([]entity.ExportDocument, error) {
	b := exportWhere(filter)
	sql := "SELECT " + exportColumns + b.where() + " ORDER BY d.upload_date DESC"

	rows, err := r.pool.Query(ctx, sql, b.args...)
	if err != nil {
		r.log.Error("export query failed", "error", err)
		return nil, common.WrapError(err, "query documents")
	}
	defer rows.Close()

	var docs []entity.ExportDocument
	for rows.Next() {
		var d entity.ExportDocument
		if err := rows.Scan(
			&d.ID, &d.Filename, &d.CaseID, &d.CaseName, &d.CaseNumber,
			&d.FileType, &d.FileSize, &d.UploadDate, &d.UploadedBy,
			&d.Metadata, &d.Tags, &d.Hash,
		); err != nil {
			return nil, common.WrapError(err, "scan document row")
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "read document rows")
	}
	return docs, nil
}

func searchWhere(q entity.SearchQuery, pattern string) *whereBuilder {
	b := &whereBuilder{}
	term := b.bind(pattern)
	if q.CaseID != nil {
		b.andBind("d.case_id =", *q.CaseID)
	}
	if q.DocumentType != nil {
		b.andBind("d.file_type ILIKE", "%"+*q.DocumentType+"%")
	}
	if q.Custodian != nil {
		b.andBind("d.metadata->>'custodian' ILIKE", "%"+*q.Custodian+"%")
	}
	if q.DateFrom != nil {
		b.andBind("d.upload_date >=", *q.DateFrom)
	}
	if q.DateTo != nil {
		b.andBind("d.upload_date <=", *q.DateTo)
	}
	if len(q.Tags) > 0 {
		b.andBind("d.tags &&", q.Tags)
	}
	// the free-text term always constrains the result set
	b.and("(d.filename ILIKE " + term + " OR d.metadata::text ILIKE " + term + ")")
	return b
}

func (r *documentRepo) Search(ctx context.Context, q entity.SearchQuery) ([]entity.SearchResult, int64, error) {
	pattern := "%" + q.Query + "%"
	b := searchWhere(q, pattern)

	// relevance tiers: exact filename match beats metadata match beats default
	sel := `
SELECT
	d.id,
	d.filename,
	d.case_id,
	c.name AS case_name,
	d.file_type,
	d.upload_date,
	d.metadata->>'custodian' AS custodian,
	d.tags,
	CASE
		WHEN d.filename ILIKE $1 THEN 1.0
		WHEN d.metadata::text ILIKE $1 THEN 0.8
		ELSE 0.5
	END AS relevance_score,
	SUBSTRING(d.filename FROM 1 FOR 100) AS snippet
FROM documents d
LEFT JOIN cases c ON d.case_id = c.id
` + b.where()

	countSQL := `
SELECT COUNT(*)
FROM documents d
LEFT JOIN cases c ON d.case_id = c.id
` + b.where()

	limit := b.bind(q.Limit)
	offset := b.bind(q.Offset)
	sql := sel + " ORDER BY relevance_score DESC, d.upload_date DESC LIMIT " + limit + " OFFSET " + offset

	rows, err := r.pool.Query(ctx, sql, b.args...)
	if err != nil {
		r.log.Error("search query failed", "error", err)
		return nil, 0, common.WrapError(err, "search documents")
	}
	defer rows.Close()

	var results []entity.SearchResult
	for rows.Next() {
		var (
			res      entity.SearchResult
			caseID   *int64
			caseName *string
			fileType *string
		)
		if err := rows.Scan(
			&res.ID, &res.Filename, &caseID, &caseName, &fileType,
			&res.UploadDate, &res.Custodian, &res.Tags,
			&res.RelevanceScore, &res.Snippet,
		); err != nil {
			return nil, 0, common.WrapError(err, "scan search row")
		}
		if caseID != nil {
			res.CaseID = *caseID
		}
		res.CaseName = "Unknown"
		if caseName != nil {
			res.CaseName = *caseName
		}
		res.FileType = "Unknown"
		if fileType != nil {
			res.FileType = *fileType
		}
		if res.Tags == nil {
			res.Tags = []string{}
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, common.WrapError(err, "read search rows")
	}

	// total without pagination; limit/offset args trail the shared predicates
	var total int64
	countArgs := b.args[:len(b.args)-2]
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, common.WrapError(err, "count search results")
	}
	return results, total, nil
}

func (r *documentRepo) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	sql := `
SELECT DISTINCT filename
FROM documents
WHERE filename ILIKE $1
ORDER BY filename
LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, prefix+"%", limit)
	if err != nil {
		return nil, common.WrapError(err, "query suggestions")
	}
	defer rows.Close()

	suggestions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, common.WrapError(err, "collect suggestions")
	}
	return suggestions, nil
}

func (r *documentRepo) Stats(ctx context.Context) (entity.CorpusStats, error) {
	sql := `
SELECT
	COUNT(*) AS total_documents,
	COUNT(DISTINCT case_id) AS total_cases,
	COUNT(DISTINCT file_type) AS file_types,
	COALESCE(SUM(file_size), 0) AS total_size
FROM documents`

	var stats entity.CorpusStats
	if err := r.pool.QueryRow(ctx, sql).Scan(
		&stats.TotalDocuments, &stats.TotalCases, &stats.FileTypes, &stats.TotalSizeBytes,
	); err != nil {
		r.log.Error("stats query failed", "error", err)
		return entity.CorpusStats{}, common.WrapError(err, "query corpus stats")
	}
	return stats, nil
}
