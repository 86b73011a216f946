package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/procuredocs/pomatch/constants"
	"github.com/procuredocs/pomatch/internal/extract"
	"github.com/procuredocs/pomatch/internal/match"
	"github.com/procuredocs/pomatch/internal/pipeline/matchpair"
	"github.com/procuredocs/pomatch/internal/repository"
)

func newTestService(t *testing.T) (*Service, *repository.MatchRunRepository) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "runs.db")
	db, err := repository.Open(context.Background(), repository.Config{DSN: dsn}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := repository.NewMatchRunRepository(db, dsn, slog.Default())
	return NewService(repo, slog.Default()), repo
}

func storeRun(t *testing.T, repo *repository.MatchRunRepository) *matchpair.RunResult {
	t.Helper()
	po := extract.FieldMap{
		constants.FieldPONumber: "PO-9001",
		constants.FieldVendor:   "Sharma Industries Pvt Ltd",
		constants.FieldAmount:   "45000.00",
		constants.FieldQuantity: "150",
	}
	inv := extract.FieldMap{
		constants.FieldPONumber:      "po-9001",
		constants.FieldInvoiceNumber: "INV-555",
		constants.FieldVendor:        "SHARMA INDUSTRIES PVT. LTD.",
		constants.FieldAmount:        "45000.00",
		constants.FieldQuantity:      "150",
	}
	verdict, cmp := match.Match(po, inv, match.Options{})
	run := &matchpair.RunResult{
		ID:         uuid.New(),
		PO:         matchpair.DocumentResult{Path: "/uploads/po_9001.pdf", DocType: constants.PurchaseOrder, Fields: po},
		Invoice:    matchpair.DocumentResult{Path: "/uploads/inv_555.pdf", DocType: constants.Invoice, Fields: inv},
		Verdict:    verdict,
		Comparison: cmp,
		Status:     constants.RunStatusMatched,
		StartedAt:  time.Now(),
		Duration:   time.Second,
	}
	require.NoError(t, repo.SaveRun(context.Background(), run))
	return run
}

func TestExportCSV(t *testing.T) {
	svc, repo := newTestService(t)
	storeRun(t, repo)

	b, err := svc.ExportCSV(context.Background(), 0)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	head := records[0]
	assert.Equal(t, []string{"PO File", "Invoice File", "Match"}, head[:3])
	assert.Len(t, head, 3+2*len(constants.FieldOrder))

	row := records[1]
	assert.Equal(t, "po_9001.pdf", row[0])
	assert.Equal(t, "inv_555.pdf", row[1])
	assert.Equal(t, "true", row[2])

	byCol := map[string]string{}
	for i, h := range head {
		byCol[h] = row[i]
	}
	assert.Equal(t, "PO-9001", byCol["PO_"+constants.FieldPONumber])
	assert.Equal(t, "po-9001", byCol["INV_"+constants.FieldPONumber])
	assert.Equal(t, "INV-555", byCol["INV_"+constants.FieldInvoiceNumber])
	// missing fields in the document's vocabulary export as the placeholder;
	// invoice_number is not part of the purchase order vocabulary at all
	assert.Equal(t, constants.MissingFieldPlaceholder, byCol["PO_"+constants.FieldDate])
	assert.Empty(t, byCol["PO_"+constants.FieldInvoiceNumber])
}

func TestExportCSV_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	b, err := svc.ExportCSV(context.Background(), 0)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1) // header only
}

func TestExportXLSX(t *testing.T) {
	svc, repo := newTestService(t)
	run := storeRun(t, repo)

	b, err := svc.ExportXLSX(context.Background(), 0)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Matches", "A1")
	require.NoError(t, err)
	assert.Equal(t, "PO File", v)
	v, err = f.GetCellValue("Matches", "A2")
	require.NoError(t, err)
	assert.Equal(t, "po_9001.pdf", v)

	v, err = f.GetCellValue("Scores", "A2")
	require.NoError(t, err)
	assert.Equal(t, run.ID.String(), v)
	v, err = f.GetCellValue("Scores", "B2")
	require.NoError(t, err)
	assert.Equal(t, string(constants.RunStatusMatched), v)
}
