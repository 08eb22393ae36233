package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ledger-cloud/internal/docs"
	ledger "ledger-cloud/internal/ledger/domain"
	"ledger-cloud/internal/observability/metrics"
	"ledger-cloud/internal/vat"
)

// Fixed slots of the archive container.
const (
	ExpensesLedgerName = "vydaje.csv"
	InvoicesLedgerName = "faktury.csv"
	InvoiceDocsDir     = "faktury"
	ReceiptDocsDir     = "uctenky"
	ManifestName       = "manifest.txt"
)

// Archive is the transient artifact of a single pipeline run. It lives in an
// isolated scratch directory and must be cleaned up on every exit path.
type Archive struct {
	Period      ledger.Period
	Path        string
	MemberFiles []string
	CreatedAt   time.Time

	scratchDir string
}

// Cleanup removes the scratch directory including the archive file itself.
// Safe to call more than once.
func (a *Archive) Cleanup() error {
	if a == nil || a.scratchDir == "" {
		return nil
	}
	return os.RemoveAll(a.scratchDir)
}

// Builder assembles the reporting-period archive: both ledgers, invoice and
// receipt documents, and a manifest, packaged into one zip container.
type Builder struct {
	store       docs.BlobStore
	renderer    *docs.Renderer
	scratchRoot string
	logger      *log.Logger
	now         func() time.Time
}

// NewBuilder constructs a Builder. scratchRoot defaults to the system temp
// directory.
func NewBuilder(store docs.BlobStore, renderer *docs.Renderer, scratchRoot string, logger *log.Logger) (*Builder, error) {
	if store == nil {
		return nil, errors.New("archive builder: nil document store")
	}
	if scratchRoot == "" {
		scratchRoot = os.TempDir()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{
		store:       store,
		renderer:    renderer,
		scratchRoot: scratchRoot,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Build assembles the archive for a period. On failure the error propagates
// and the scratch directory is removed before returning; on success the
// caller owns cleanup via Archive.Cleanup.
func (b *Builder) Build(ctx context.Context, period ledger.Period, invoices []ledger.Invoice, expenses []ledger.Expense, summary *vat.Summary) (archive *Archive, err error) {
	started := b.now()
	defer func() {
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.ObserveArchiveBuild(result, b.now().Sub(started))
	}()

	if err := os.MkdirAll(b.scratchRoot, 0o755); err != nil {
		return nil, fmt.Errorf("archive builder: scratch root: %w", err)
	}
	scratch, err := os.MkdirTemp(b.scratchRoot, "report-")
	if err != nil {
		return nil, fmt.Errorf("archive builder: scratch dir: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.RemoveAll(scratch)
		}
	}()

	type member struct {
		diskPath string
		name     string
	}
	var members []member

	expensesPath := filepath.Join(scratch, ExpensesLedgerName)
	if err = writeLedgerFile(expensesPath, func(w io.Writer) error {
		return writeExpensesLedger(w, expenses)
	}); err != nil {
		return nil, fmt.Errorf("archive builder: expenses ledger: %w", err)
	}
	members = append(members, member{expensesPath, ExpensesLedgerName})

	invoicesPath := filepath.Join(scratch, InvoicesLedgerName)
	if err = writeLedgerFile(invoicesPath, func(w io.Writer) error {
		return writeInvoicesLedger(w, invoices)
	}); err != nil {
		return nil, fmt.Errorf("archive builder: invoices ledger: %w", err)
	}
	members = append(members, member{invoicesPath, InvoicesLedgerName})

	invoiceDocs := filepath.Join(scratch, InvoiceDocsDir)
	receiptDocs := filepath.Join(scratch, ReceiptDocsDir)
	for _, dir := range []string{invoiceDocs, receiptDocs} {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("archive builder: scratch subdir: %w", err)
		}
	}

	for _, inv := range invoices {
		data, ok := b.invoiceDocument(ctx, inv)
		if !ok {
			continue
		}
		name := sanitizeFileName(inv.Number) + ".pdf"
		diskPath := filepath.Join(invoiceDocs, name)
		if err = os.WriteFile(diskPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("archive builder: write invoice document: %w", err)
		}
		members = append(members, member{diskPath, InvoiceDocsDir + "/" + name})
	}

	for _, exp := range expenses {
		if exp.ReceiptPath == "" {
			continue
		}
		data, fetchErr := b.store.Fetch(ctx, exp.ReceiptPath)
		if fetchErr != nil {
			if errors.Is(fetchErr, docs.ErrNotFound) {
				continue
			}
			err = fmt.Errorf("archive builder: fetch receipt %s: %w", exp.ReceiptPath, fetchErr)
			return nil, err
		}
		name := sanitizeFileName(exp.ID) + filepath.Ext(exp.ReceiptPath)
		diskPath := filepath.Join(receiptDocs, name)
		if err = os.WriteFile(diskPath, data, 0o644); err != nil {
			return nil, fmt.Errorf("archive builder: write receipt: %w", err)
		}
		members = append(members, member{diskPath, ReceiptDocsDir + "/" + name})
	}

	createdAt := b.now()
	manifestPath := filepath.Join(scratch, ManifestName)
	memberNames := make([]string, 0, len(members)+1)
	for _, m := range members {
		memberNames = append(memberNames, m.name)
	}
	manifest := buildManifest(period, createdAt, len(invoices), len(expenses), summary, memberNames)
	if err = os.WriteFile(manifestPath, []byte(manifest), 0o644); err != nil {
		return nil, fmt.Errorf("archive builder: manifest: %w", err)
	}
	members = append(members, member{manifestPath, ManifestName})
	memberNames = append(memberNames, ManifestName)

	zipName := fmt.Sprintf("report-%s-%s.zip", period.Start.Format("20060102"), period.End.Format("20060102"))
	zipPath := filepath.Join(scratch, zipName)
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return nil, fmt.Errorf("archive builder: create archive: %w", err)
	}
	zipWriter := zip.NewWriter(zipFile)
	for _, m := range members {
		if err = addZipMember(zipWriter, m.diskPath, m.name); err != nil {
			_ = zipWriter.Close()
			_ = zipFile.Close()
			return nil, fmt.Errorf("archive builder: pack %s: %w", m.name, err)
		}
	}
	if err = zipWriter.Close(); err != nil {
		_ = zipFile.Close()
		return nil, fmt.Errorf("archive builder: finish archive: %w", err)
	}
	if err = zipFile.Close(); err != nil {
		return nil, fmt.Errorf("archive builder: close archive: %w", err)
	}

	return &Archive{
		Period:      period,
		Path:        zipPath,
		MemberFiles: memberNames,
		CreatedAt:   createdAt,
		scratchDir:  scratch,
	}, nil
}

// invoiceDocument returns the invoice's rendered PDF: fetched from the
// document store, rendered on the fly when missing and a renderer is
// configured, skipped silently otherwise.
func (b *Builder) invoiceDocument(ctx context.Context, inv ledger.Invoice) ([]byte, bool) {
	if inv.DocumentPath != "" {
		data, err := b.store.Fetch(ctx, inv.DocumentPath)
		if err == nil {
			return data, true
		}
		if !errors.Is(err, docs.ErrNotFound) {
			b.logger.Printf("archive builder: fetch invoice document %s: %v", inv.DocumentPath, err)
			return nil, false
		}
	}
	if b.renderer == nil {
		return nil, false
	}
	data, err := b.renderer.RenderInvoice(inv)
	if err != nil {
		b.logger.Printf("archive builder: render invoice %s: %v", inv.Number, err)
		return nil, false
	}
	return data, true
}

func buildManifest(period ledger.Period, createdAt time.Time, invoiceCount, expenseCount int, summary *vat.Summary, memberNames []string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Podklady pro účetní\n")
	fmt.Fprintf(&buf, "Období: %s\n", period.Label())
	fmt.Fprintf(&buf, "Vytvořeno: %s\n", createdAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "Faktur: %d\n", invoiceCount)
	fmt.Fprintf(&buf, "Výdajů: %d\n", expenseCount)
	if summary != nil {
		fmt.Fprintf(&buf, "DPH na výstupu: %s\n", formatAmount(summary.OutputVATTotal))
		fmt.Fprintf(&buf, "DPH na vstupu: %s\n", formatAmount(summary.InputVATTotal))
		fmt.Fprintf(&buf, "DPH celkem: %s (%s)\n", formatAmount(summary.NetVATTotal), summary.Status)
	}
	fmt.Fprintf(&buf, "\nObsah:\n")
	for _, name := range memberNames {
		fmt.Fprintf(&buf, "  %s\n", name)
	}
	return buf.String()
}

func writeLedgerFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func addZipMember(zw *zip.Writer, diskPath, name string) error {
	file, err := os.Open(diskPath)
	if err != nil {
		return err
	}
	defer file.Close()
	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, file)
	return err
}

func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_", ":", "-")
	cleaned := replacer.Replace(name)
	if cleaned == "" {
		return "dokument"
	}
	return cleaned
}
