// =============================================================================
// Order Tally - Import Pipeline
// =============================================================================
//
// This module orchestrates one import of an orders export, from the raw table
// to the AggregatedData handed to the report layer.
//
// IMPORT PIPELINE:
//   1. Load the source file into a Table (CSV or XLSX)
//   2. Apply transformation rules to each record
//   3. Feed every record to the line item parser and the order extractor
//   4. Aggregate the line items into the size pivots
//
// CONCURRENCY:
//   An import is synchronous and builds every value from scratch. Results
//   returned by earlier imports are never touched again, so they stay safe to
//   read while a new import runs.
//
// =============================================================================

package converter

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/ginjaninja78/order-tally/internal/aggregate"
	"github.com/ginjaninja78/order-tally/internal/config"
	"github.com/ginjaninja78/order-tally/internal/extract"
	"github.com/ginjaninja78/order-tally/internal/logging"
	"github.com/ginjaninja78/order-tally/internal/shipping"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one import.
type Result struct {
	// SourceFile is the path of the imported file (empty for in-memory tables).
	SourceFile string

	// Data is the aggregate handed to the report layer.
	Data *types.AggregatedData

	// Items holds every parsed line item, counted or not, in row order.
	Items []types.LineItem

	// Stats contains import statistics.
	Stats Stats
}

// Stats contains statistics about an import.
type Stats struct {
	// Rows is the number of data rows read.
	Rows int

	// Items is the number of rows that produced a line item.
	Items int

	// Dropped is the number of rows that produced no line item (bad quantity
	// or empty name).
	Dropped int

	// Uncounted is the number of line items excluded from the pivots because
	// their size is not canonical.
	Uncounted int

	// Orders is the number of unique orders.
	Orders int

	// Duration is the time taken by the import.
	Duration time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs imports with a fixed configuration.
type Converter struct {
	cfg         *config.Config
	transformer *Transformer
	logger      logging.Logger
}

// New creates a new Converter.
//
// PARAMETERS:
//   - cfg: The application configuration.
//   - logger: The logger to use. nil discards log output.
//
// RETURNS:
//   - A new Converter.
//   - An error if the transformation rules cannot be compiled.
func New(cfg *config.Config, logger logging.Logger) (*Converter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}

	transformer, err := NewTransformer(cfg.TransformationRules)
	if err != nil {
		return nil, eris.Wrap(err, "failed to build transformer")
	}

	return &Converter{
		cfg:         cfg,
		transformer: transformer,
		logger:      logging.With(logger, "converter"),
	}, nil
}

// =============================================================================
// IMPORT FUNCTIONS
// =============================================================================

// ImportFile loads and imports an orders file.
//
// A file that cannot be read at all fails the whole import; no partial
// result is returned.
func (c *Converter) ImportFile(path string) (*Result, error) {
	c.logger.Info("Importing orders file: %s", path)

	table, err := LoadTable(path, c.cfg)
	if err != nil {
		return nil, eris.Wrap(err, "failed to load orders file")
	}

	return c.Import(table)
}

// Import runs the pipeline over an already loaded table.
//
// PROCESSING STEPS:
//   1. Transform each record
//   2. Parse a line item (rows that are not item rows are dropped)
//   3. Offer the row to the order extractor (first dated row per name wins)
//   4. Aggregate
func (c *Converter) Import(table *types.Table) (*Result, error) {
	if table == nil {
		return nil, eris.New("no table to import")
	}

	startTime := time.Now()
	cols := c.cfg.Columns

	for _, name := range cols.Required() {
		if !table.HasColumn(name) {
			c.logger.Warn("Column %q is missing; dependent fields will be empty", name)
		}
	}

	result := &Result{SourceFile: table.SourceFile}
	orders := extract.NewOrderExtractor()
	items := make([]types.LineItem, 0, len(table.Rows))

	for i, raw := range table.Rows {
		record := raw
		if !c.transformer.Empty() {
			var err error
			record, err = c.transformer.TransformRecord(raw)
			if err != nil {
				return nil, eris.Wrapf(err, "row %d", i+1)
			}
		}

		if item, ok := extract.ParseLineItem(i, record.Get(cols.LineItemName), record.Get(cols.Quantity)); ok {
			items = append(items, item)
		} else {
			result.Stats.Dropped++
			c.logger.Debug("Row %d dropped: no line item", i+1)
		}

		orders.Add(
			record.Get(cols.OrderName),
			record.Get(cols.CreatedAt),
			record.Get(cols.Total),
			record.Get(cols.Subtotal),
		)
	}

	result.Items = items
	result.Data = aggregate.Build(items, orders.Orders())

	result.Stats.Rows = len(table.Rows)
	result.Stats.Items = len(items)
	result.Stats.Uncounted = len(aggregate.Uncounted(items))
	result.Stats.Orders = orders.Len()
	result.Stats.Duration = time.Since(startTime)

	c.logger.Info("Imported %d rows: %d items (%d uncounted), %d dropped, %d orders, %d units",
		result.Stats.Rows, result.Stats.Items, result.Stats.Uncounted,
		result.Stats.Dropped, result.Stats.Orders, result.Data.GrandTotal)

	return result, nil
}

// ShippingLookup loads a shipping export and builds the per-order cost lookup.
// Unresolvable columns are logged and yield an empty lookup.
func (c *Converter) ShippingLookup(path string) (shipping.Lookup, shipping.Resolution, error) {
	c.logger.Info("Loading shipping file: %s", path)

	table, err := LoadShippingTable(path, c.cfg)
	if err != nil {
		return nil, shipping.Resolution{}, eris.Wrap(err, "failed to load shipping file")
	}

	lookup, res := shipping.BuildLookup(table)
	if !res.Resolved() {
		c.logger.Warn("Shipping columns not resolved (key=%q, value=%q); shipping costs default to 0",
			res.KeyColumn, res.ValueColumn)
	} else {
		c.logger.Debug("Shipping columns: key=%q value=%q, %d orders", res.KeyColumn, res.ValueColumn, len(lookup))
	}

	return lookup, res, nil
}
