package server

import (
	"context"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/ediscovery-service/internal/async"
	"github.com/joseph-ayodele/ediscovery-service/internal/audit"
	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
	"github.com/joseph-ayodele/ediscovery-service/internal/export"
	"github.com/joseph-ayodele/ediscovery-service/internal/search"
)

// fakeDocRepo serves a fixed document set and applies the export filter the
// way the SQL layer would: conjunctive predicates, upload date descending.
type fakeDocRepo struct {
	docs    []entity.ExportDocument
	results []entity.SearchResult
	total   int64
}

func caseDoc(id, caseID int64, filename string, uploaded time.Time) entity.ExportDocument {
	name := "Case " + filename
	return entity.ExportDocument{
		ID:         id,
		Filename:   filename,
		CaseID:     &caseID,
		CaseName:   &name,
		UploadDate: &uploaded,
	}
}

func (f *fakeDocRepo) ListForExport(_ context.Context, filter entity.ExportFilter) ([]entity.ExportDocument, error) {
	var out []entity.ExportDocument
	for _, d := range f.docs {
		if filter.CaseID != nil && (d.CaseID == nil || *d.CaseID != *filter.CaseID) {
			continue
		}
		if len(filter.DocumentIDs) > 0 {
			found := false
			for _, id := range filter.DocumentIDs {
				if d.ID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.DateFrom != nil && (d.UploadDate == nil || d.UploadDate.Before(*filter.DateFrom)) {
			continue
		}
		if filter.DateTo != nil && (d.UploadDate == nil || d.UploadDate.After(*filter.DateTo)) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadDate.After(*out[j].UploadDate)
	})
	return out, nil
}

func (f *fakeDocRepo) Search(context.Context, entity.SearchQuery) ([]entity.SearchResult, int64, error) {
	return f.results, f.total, nil
}

func (f *fakeDocRepo) Suggest(context.Context, string, int) ([]string, error) {
	return []string{"contract.pdf", "contract_v2.pdf"}, nil
}

func (f *fakeDocRepo) Stats(context.Context) (entity.CorpusStats, error) {
	return entity.CorpusStats{TotalDocuments: int64(len(f.docs))}, nil
}

type fakeAuditRepo struct {
	logs  []entity.AuditLogEntry
	total int64
}

func (f *fakeAuditRepo) Logs(context.Context, entity.AuditFilter) ([]entity.AuditLogEntry, int64, error) {
	return f.logs, f.total, nil
}

func (f *fakeAuditRepo) TotalSince(context.Context, time.Time) (int64, error) {
	return f.total, nil
}

func (f *fakeAuditRepo) CountByAction(context.Context, time.Time) (map[string]int64, error) {
	return map[string]int64{"login": 2}, nil
}

func (f *fakeAuditRepo) CountByUser(context.Context, time.Time, int) (map[string]int64, error) {
	return map[string]int64{"a@example.com": 2}, nil
}

func (f *fakeAuditRepo) CountByStatus(context.Context, time.Time) (map[string]int64, error) {
	return map[string]int64{"success": 2}, nil
}

func (f *fakeAuditRepo) RecentActivity(context.Context, time.Time, int) ([]entity.AuditLogEntry, error) {
	return f.logs, nil
}

func (f *fakeAuditRepo) Actions(context.Context) ([]string, error) {
	return []string{"download", "login", "upload"}, nil
}

func (f *fakeAuditRepo) ResourceTypes(context.Context) ([]string, error) {
	return []string{"case", "document"}, nil
}

func (f *fakeAuditRepo) Timeline(context.Context, time.Time, string) ([]entity.TimelineBucket, error) {
	return []entity.TimelineBucket{{Timestamp: time.Now().UTC(), EventCount: 2, UniqueUsers: 1}}, nil
}

// dropQueue accepts jobs without ever running them, pinning jobs in pending.
type dropQueue struct{}

func (dropQueue) Enqueue(context.Context, async.Job) error { return nil }
func (dropQueue) Shutdown(context.Context)                 {}

type testStack struct {
	router *gin.Engine
	store  export.JobStore
	queue  async.Queue
}

// newTestStack wires the real export pipeline (store, writer, processor,
// worker queue) over fake repositories.
func newTestStack(exportDir string, docs *fakeDocRepo, auditRepo *fakeAuditRepo, queue async.Queue) testStack {
	gin.SetMode(gin.TestMode)

	store := export.NewMemoryJobStore()
	writer := export.NewWriter(exportDir)
	if queue == nil {
		processor := export.NewProcessor(store, docs, writer, nil)
		queue = async.NewExportQueue(processor, nil, async.WithWorkers(2))
	}

	router := NewRouter(common.ServerConfig{
		CORSOrigins: []string{"http://localhost:3000"},
	}, Handlers{
		Export: NewExportHandler(export.NewService(store, queue, writer, nil), nil),
		Search: NewSearchHandler(search.NewService(docs, nil), nil),
		Audit:  NewAuditHandler(audit.NewService(auditRepo, nil), nil),
		System: NewSystemHandler(),
	}, nil)

	return testStack{router: router, store: store, queue: queue}
}
