// =============================================================================
// Order Consolidator - Converter Module
// =============================================================================
//
// This module contains the core processing logic. It orchestrates both
// pipelines for a single table or file.
//
// CONSOLIDATION PIPELINE (order export -> one row per recipient):
//   1. Check the order export has every required column
//   2. Map each row to a line item
//   3. Group line items by recipient, then by order
//   4. Render the detail and comment summaries
//   5. Encode the order manifest
//   6. Emit one output row per recipient
//
// INVOICE PIPELINE (consolidated sheet with tracking numbers -> line items):
//   1. Check the manifest column and locate the tracking-number column
//   2. Decode every manifest (the first bad one aborts the run)
//   3. Emit one numbered row per line item
//
// FILE PROCESSING:
//   ConsolidateFile and ExpandInvoiceFile read the input, write a new
//   workbook under the output directory and optionally archive the input.
//
// CONCURRENCY:
//   A Converter holds no per-run state. Several files may be processed
//   concurrently with the same Converter.
//
// =============================================================================

package converter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/donghyeon/takkobebe/internal/config"
	"github.com/donghyeon/takkobebe/internal/grouping"
	"github.com/donghyeon/takkobebe/internal/invoice"
	"github.com/donghyeon/takkobebe/internal/manifest"
	"github.com/donghyeon/takkobebe/internal/sheet"
	"github.com/donghyeon/takkobebe/internal/summary"
	"github.com/donghyeon/takkobebe/internal/types"
	"github.com/donghyeon/takkobebe/internal/validation"
	"github.com/donghyeon/takkobebe/pkg/utils"
)

// Output kinds, also used as the {kind} placeholder of generated names.
const (
	KindCombined = "combined"
	KindInvoice  = "invoice"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated workbook.
	// This is empty if processing failed.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	// This is nil if processing was successful.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsProcessed is the number of non-blank input rows.
	RowsProcessed int

	// RecipientsCreated is the number of consolidated rows written.
	RecipientsCreated int

	// OrdersCreated is the number of distinct orders across all recipients.
	OrdersCreated int

	// LineItemsCreated is the number of line items referenced by the
	// manifests (consolidation) or written as rows (invoice).
	LineItemsCreated int

	// InvalidQuantities counts quantity cells that were blank or not a
	// number.
	InvalidQuantities int

	// AmbiguousZipCodes counts recipients whose rows disagreed on a zip
	// code column.
	AmbiguousZipCodes int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the consolidation and invoice pipelines.
type Converter struct {
	cfg    *config.Config
	files  *utils.FileManager
	logger *zap.Logger
}

// New creates a new Converter. files may be nil when only the table-level
// methods are used.
func New(cfg *config.Config, files *utils.FileManager, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		cfg:    cfg,
		files:  files,
		logger: logger,
	}
}

// =============================================================================
// CONSOLIDATION
// =============================================================================

// Consolidate turns an order export into one row per recipient. A missing
// column is reported as a *validation.SchemaError before any row is read.
func (c *Converter) Consolidate(t *sheet.Table) (*sheet.Output, ProcessingStats, error) {
	var stats ProcessingStats

	if err := validation.ValidateOrderSheet(t.Headers); err != nil {
		return nil, stats, err
	}

	items := make([]types.LineItem, len(t.Rows))
	for i, row := range t.Rows {
		items[i] = c.lineItem(t, row)
		if !items[i].Quantity.Valid {
			stats.InvalidQuantities++
		}
	}
	stats.RowsProcessed = len(items)

	recipients := grouping.GroupRecipients(items)

	out := &sheet.Output{
		SheetName: c.cfg.OrderSheetName,
		Headers:   types.ConsolidatedColumns,
		Rows:      make([][]any, 0, len(recipients)),
	}

	for _, r := range recipients {
		row, err := c.consolidateRecipient(r)
		if err != nil {
			return nil, stats, err
		}
		if r.ZipCode.IsAmbiguous() || r.OldZipCode.IsAmbiguous() {
			stats.AmbiguousZipCodes++
		}
		stats.OrdersCreated += len(r.Orders)
		stats.LineItemsCreated += len(r.Items)
		out.Rows = append(out.Rows, row.Cells())
	}
	stats.RecipientsCreated = len(out.Rows)

	return out, stats, nil
}

// consolidateRecipient builds the output row of one recipient.
func (c *Converter) consolidateRecipient(r types.Recipient) (types.ConsolidatedRow, error) {
	encoded, err := manifest.Encode(manifest.FromOrders(r.Orders))
	if err != nil {
		return types.ConsolidatedRow{}, fmt.Errorf("failed to encode manifest for %s: %w", r.Identity.Name, err)
	}

	if r.ZipCode.IsAmbiguous() || r.OldZipCode.IsAmbiguous() {
		c.logger.Warn("recipient rows disagree on zip code",
			zap.String("recipient", r.Identity.Name),
			zap.Strings("zip_codes", r.ZipCode.Values()),
			zap.Strings("old_zip_codes", r.OldZipCode.Values()),
		)
	}

	s := summary.Summarize(r)
	return types.ConsolidatedRow{
		Identity:       r.Identity,
		ZipCode:        r.ZipCode,
		OldZipCode:     r.OldZipCode,
		Manifest:       encoded,
		DetailSummary:  s.Details,
		CommentSummary: s.Comments,
	}, nil
}

// lineItem maps one export row. Identity fields are taken verbatim.
func (c *Converter) lineItem(t *sheet.Table, row sheet.Row) types.LineItem {
	get := func(col string) string { return t.Value(row, col) }

	return types.LineItem{
		OrderID:     get(types.ColOrderID),
		GoodOrderID: get(types.ColGoodOrderID),
		GoodName:    get(types.ColGoodName),
		Option:      get(types.ColOption),
		Quantity:    c.parseQuantity(get(types.ColQuantity), row.Number),
		Comment:     get(types.ColComment),
		Recipient: types.Identity{
			Name:    get(types.ColRecipientName),
			Phone:   get(types.ColRecipientPhone),
			Address: get(types.ColAddress),
		},
		ZipCode:    get(types.ColZipCode),
		OldZipCode: get(types.ColOldZipCode),
		SourceRow:  row.Number,
	}
}

// parseQuantity reads a quantity cell. Blank cells yield an invalid value
// silently; anything else that is not a number is logged.
func (c *Converter) parseQuantity(cell string, rowNumber int) decimal.NullDecimal {
	cell = strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	if cell == "" {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(cell)
	if err != nil {
		c.logger.Warn("unreadable quantity",
			zap.Int("row", rowNumber),
			zap.String("value", cell),
		)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// =============================================================================
// INVOICE EXPANSION
// =============================================================================

// ExpandInvoice turns a consolidated sheet with tracking numbers into one
// row per line item. Schema problems are reported as a
// *validation.SchemaError and undecodable manifests as a
// *manifest.DecodeError; in both cases no output is produced.
func (c *Converter) ExpandInvoice(t *sheet.Table) (*sheet.Output, ProcessingStats, error) {
	var stats ProcessingStats

	trackingCol, err := validation.ValidateInvoiceSheet(t.Headers, c.cfg.TrackingColumnAliases)
	if err != nil {
		return nil, stats, err
	}
	c.logger.Debug("tracking number column", zap.String("column", trackingCol))

	rows := make([]types.InvoiceRow, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = types.InvoiceRow{
			Manifest:       t.Value(row, types.ColManifest),
			TrackingNumber: t.Value(row, trackingCol),
			SourceRow:      row.Number,
		}
	}
	stats.RowsProcessed = len(rows)

	expanded, err := invoice.Expand(rows)
	if err != nil {
		return nil, stats, err
	}

	out := &sheet.Output{
		SheetName: c.cfg.InvoiceSheetName,
		Headers:   types.ExpandedInvoiceColumns,
		Rows:      make([][]any, len(expanded)),
	}
	for i, r := range expanded {
		out.Rows[i] = r.Cells()
	}
	stats.LineItemsCreated = len(expanded)

	return out, stats, nil
}

// =============================================================================
// FILE PROCESSING
// =============================================================================

// ConsolidateFile runs the consolidation pipeline on the file at path.
func (c *Converter) ConsolidateFile(path string) Result {
	return c.processFile(path, KindCombined, c.Consolidate)
}

// ExpandInvoiceFile runs the invoice pipeline on the file at path.
func (c *Converter) ExpandInvoiceFile(path string) Result {
	return c.processFile(path, KindInvoice, c.ExpandInvoice)
}

type pipeline func(*sheet.Table) (*sheet.Output, ProcessingStats, error)

// processFile executes the read, process, write and archive steps for one
// file. The input is only archived once the output has been written.
func (c *Converter) processFile(path, kind string, run pipeline) Result {
	startTime := time.Now()
	result := Result{FilePath: path}
	log := c.logger.With(zap.String("file", path), zap.String("kind", kind))

	log.Info("processing file")

	// =========================================================================
	// STEP 1: READ INPUT
	// =========================================================================

	table, err := sheet.ReadFile(path)
	if err != nil {
		result.Error = fmt.Errorf("failed to read input: %w", err)
		return result
	}

	// =========================================================================
	// STEP 2: RUN PIPELINE
	// =========================================================================

	out, stats, err := run(table)
	result.Stats = stats
	if err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 3: WRITE OUTPUT
	// =========================================================================

	if c.files == nil {
		result.Error = fmt.Errorf("no output directory configured")
		return result
	}

	outputPath := c.files.OutputPath(c.cfg.OutputNameFormat, kind, path)
	if err := sheet.Save(outputPath, out); err != nil {
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}
	result.OutputFile = outputPath

	// =========================================================================
	// STEP 4: ARCHIVE INPUT
	// =========================================================================

	if _, err := c.files.ArchiveInputFile(path); err != nil {
		// Log the error but don't fail the processing.
		log.Warn("failed to archive input", zap.Error(err))
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	log.Info("wrote output",
		zap.String("output", outputPath),
		zap.Int("rows", result.Stats.RowsProcessed),
		zap.Int("line_items", result.Stats.LineItemsCreated),
		zap.Duration("elapsed", result.Stats.ProcessingTime),
	)

	return result
}
