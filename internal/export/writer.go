package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

// Writer materializes a resolved document set into an export file. Files are
// written to a temp path and renamed into place, so the download path never
// holds a partial file.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at the export directory.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// FilePath returns the final on-disk path for a job's output file.
func (w *Writer) FilePath(jobID string, format entity.ExportFormat) string {
	return filepath.Join(w.dir, jobID+"."+format.Extension())
}

// Write serializes docs to {job_id}.{format} under the export directory and
// returns the final path. The context deadline is honored between rows and
// before the final rename, so a timed-out job never materializes a file.
func (w *Writer) Write(ctx context.Context, jobID string, format entity.ExportFormat, docs []entity.ExportDocument, includeMetadata bool) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", common.WrapError(err, "create export directory")
	}

	final := w.FilePath(jobID, format)
	tmp := final + ".tmp"

	var err error
	switch format {
	case entity.FormatCSV:
		err = writeCSV(ctx, tmp, docs, includeMetadata)
	case entity.FormatJSON:
		err = writeJSON(ctx, tmp, docs, includeMetadata)
	case entity.FormatXLSX:
		err = writeXLSX(ctx, tmp, docs, includeMetadata)
	default:
		return "", common.NewAppError("EXPORT_FORMAT", string(format), common.ErrUnsupportedFormat)
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", err
	}

	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", common.WrapError(err, "finalize export file")
	}
	return final, nil
}

// exportHeaders returns the column header set shared by CSV and XLSX.
func exportHeaders(includeMetadata bool) []string {
	headers := []string{
		"ID", "Filename", "Case ID", "Case Name", "Case Number",
		"File Type", "File Size (bytes)", "Upload Date", "Uploaded By",
	}
	if includeMetadata {
		headers = append(headers, "Metadata", "Tags", "Hash")
	}
	return headers
}

// exportCells renders one document as strings in header order.
func exportCells(d entity.ExportDocument, includeMetadata bool) []string {
	cells := []string{
		strconv.FormatInt(d.ID, 10),
		d.Filename,
		formatInt(d.CaseID),
		deref(d.CaseName),
		deref(d.CaseNumber),
		deref(d.FileType),
		formatInt(d.FileSize),
		formatTime(d.UploadDate),
		deref(d.UploadedBy),
	}
	if includeMetadata {
		cells = append(cells,
			marshalOrEmpty(d.Metadata, len(d.Metadata) > 0),
			marshalOrEmpty(d.Tags, len(d.Tags) > 0),
			deref(d.Hash),
		)
	}
	return cells
}

// exportValues renders one document for XLSX, keeping native types for the
// numeric and date columns so spreadsheet sorting and formulas work.
func exportValues(d entity.ExportDocument, includeMetadata bool) []any {
	values := []any{
		d.ID,
		d.Filename,
		derefAny(d.CaseID),
		deref(d.CaseName),
		deref(d.CaseNumber),
		deref(d.FileType),
		derefAny(d.FileSize),
		timeAny(d.UploadDate),
		deref(d.UploadedBy),
	}
	if includeMetadata {
		values = append(values,
			marshalOrEmpty(d.Metadata, len(d.Metadata) > 0),
			marshalOrEmpty(d.Tags, len(d.Tags) > 0),
			deref(d.Hash),
		)
	}
	return values
}

func writeCSV(ctx context.Context, path string, docs []entity.ExportDocument, includeMetadata bool) error {
	f, err := os.Create(path)
	if err != nil {
		return common.WrapError(err, "create csv file")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(exportHeaders(includeMetadata)); err != nil {
		return common.WrapError(err, "write csv header")
	}
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(exportCells(d, includeMetadata)); err != nil {
			return common.WrapError(err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return common.WrapError(err, "flush csv")
	}
	return f.Close()
}

func writeJSON(ctx context.Context, path string, docs []entity.ExportDocument, includeMetadata bool) error {
	type envelope struct {
		ExportDate   string           `json:"export_date"`
		TotalRecords int              `json:"total_records"`
		Documents    []map[string]any `json:"documents"`
	}

	documents := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc := map[string]any{
			"id":          d.ID,
			"filename":    d.Filename,
			"case_id":     d.CaseID,
			"case_name":   d.CaseName,
			"case_number": d.CaseNumber,
			"file_type":   d.FileType,
			"file_size":   d.FileSize,
			"upload_date": nil,
			"uploaded_by": d.UploadedBy,
		}
		if d.UploadDate != nil {
			doc["upload_date"] = d.UploadDate.UTC().Format(time.RFC3339)
		}
		if includeMetadata {
			doc["metadata"] = d.Metadata
			doc["tags"] = d.Tags
			doc["hash"] = d.Hash
		}
		documents = append(documents, doc)
	}

	f, err := os.Create(path)
	if err != nil {
		return common.WrapError(err, "create json file")
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope{
		ExportDate:   time.Now().UTC().Format(time.RFC3339),
		TotalRecords: len(documents),
		Documents:    documents,
	}); err != nil {
		return common.WrapError(err, "encode json export")
	}
	return f.Close()
}

func writeXLSX(ctx context.Context, path string, docs []entity.ExportDocument, includeMetadata bool) error {
	f := excelize.NewFile()
	const sheet = "Documents"
	if _, err := f.NewSheet(sheet); err != nil {
		return common.WrapError(err, "create xlsx sheet")
	}
	if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	for i, h := range exportHeaders(includeMetadata) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for rowIdx, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		for colIdx, v := range exportValues(d, includeMetadata) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "B", "B", 40) // filename
	_ = f.SetColWidth(sheet, "D", "E", 24) // case name/number
	_ = f.SetColWidth(sheet, "H", "H", 22) // upload date
	if includeMetadata {
		_ = f.SetColWidth(sheet, "J", "K", 40) // metadata, tags
		_ = f.SetColWidth(sheet, "L", "L", 48) // hash
	}

	if err := f.SaveAs(path); err != nil {
		return common.WrapError(err, "xlsx write")
	}
	return f.Close()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func derefAny(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func timeAny(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func marshalOrEmpty(v any, present bool) string {
	if !present {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
