// =============================================================================
// Order Tally - Validation Engine
// =============================================================================
//
// This module inspects an orders or shipping table before import and reports
// what the importer will do with it. It never changes the import outcome: the
// importer degrades bad rows on its own. Validation only makes that visible.
//
// SEVERITY:
//   - "error":   the file is structurally unusable (a required column is
//                missing, so every dependent value would be empty)
//   - "warning": rows that will be dropped, items that will not be counted,
//                orders without a header row, unresolved shipping columns
//
// Row-level findings are summarized per rule with a count and the first few
// row numbers, so a 10k-row export does not produce 10k messages.
//
// =============================================================================

package validation

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-tally/internal/config"
	"github.com/ginjaninja78/order-tally/internal/extract"
	"github.com/ginjaninja78/order-tally/internal/money"
	"github.com/ginjaninja78/order-tally/internal/shipping"
	"github.com/ginjaninja78/order-tally/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// maxExampleRows caps the row numbers listed per finding.
const maxExampleRows = 5

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the column the finding is about.
	Field string

	// Rule names the check that produced the finding.
	Rule string

	// Message is a human-readable description.
	Message string

	// Count is the number of rows affected (0 for column-level findings).
	Count int

	// Rows holds the first affected row numbers (1-based data rows).
	Rows []int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Field, e.Message)
	if e.Count > 0 {
		msg += fmt.Sprintf(" (%d row(s)", e.Count)
		if len(e.Rows) > 0 {
			nums := make([]string, len(e.Rows))
			for i, r := range e.Rows {
				nums[i] = strconv.Itoa(r)
			}
			msg += ", e.g. rows " + strings.Join(nums, ", ")
		}
		msg += ")"
	}
	return msg
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// SourceFile is the validated file.
	SourceFile string

	// IsValid is true if there are no errors (warnings are allowed).
	IsValid bool

	// Errors contains all findings, errors and warnings alike.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	// RowsValidated is the number of data rows inspected.
	RowsValidated int
}

func newResult(table *types.Table) *ValidationResult {
	return &ValidationResult{
		SourceFile:    table.SourceFile,
		IsValid:       true,
		RowsValidated: len(table.Rows),
	}
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// rowFinding accumulates row numbers for one rule.
type rowFinding struct {
	count int
	rows  []int
}

func (f *rowFinding) hit(row int) {
	f.count++
	if len(f.rows) < maxExampleRows {
		f.rows = append(f.rows, row)
	}
}

func (r *ValidationResult) addRows(f *rowFinding, field, rule, message string) {
	if f.count == 0 {
		return
	}
	r.add(&ValidationError{
		Severity: SeverityWarning,
		Field:    field,
		Rule:     rule,
		Message:  message,
		Count:    f.count,
		Rows:     f.rows,
	})
}

// =============================================================================
// ORDERS FILE
// =============================================================================

// ValidateOrders checks an orders table against the configured columns.
//
// CHECKS:
//   - required_column: every configured column is declared (error)
//   - item_dropped: rows whose quantity/name yield no line item
//   - size_uncounted: items whose size is not canonical
//   - order_without_header: order names that never have a dated row
//   - unparsable_amount: header rows whose Total/Subtotal is not a number
//   - unparsable_date: header rows whose date matches no known layout
func ValidateOrders(table *types.Table, cols config.ColumnSettings) *ValidationResult {
	result := newResult(table)

	missing := false
	for _, name := range cols.Required() {
		if !table.HasColumn(name) {
			missing = true
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    name,
				Rule:     "required_column",
				Message:  "required column is missing",
			})
		}
	}
	if missing {
		return result
	}

	var dropped, uncounted, badAmount, badDate rowFinding
	dated := make(map[string]bool)
	var names []string

	for i, row := range table.Rows {
		rowNum := i + 1

		if item, ok := extract.ParseLineItem(i, row.Get(cols.LineItemName), row.Get(cols.Quantity)); !ok {
			dropped.hit(rowNum)
		} else if !types.IsCanonicalSize(item.Size) {
			uncounted.hit(rowNum)
		}

		name := row.Get(cols.OrderName)
		if name == "" {
			continue
		}
		if _, seen := dated[name]; !seen {
			dated[name] = false
			names = append(names, name)
		}

		createdAt := row.Get(cols.CreatedAt)
		if createdAt == "" || dated[name] {
			continue
		}
		dated[name] = true

		if extract.ParseOrderDate(createdAt).IsZero() {
			badDate.hit(rowNum)
		}
		if !isAmount(row.Get(cols.Total)) || !isAmount(row.Get(cols.Subtotal)) {
			badAmount.hit(rowNum)
		}
	}

	result.addRows(&dropped, cols.Quantity, "item_dropped",
		"rows without a positive integer quantity or a line item name are not counted as items")
	result.addRows(&uncounted, cols.LineItemName, "size_uncounted",
		"line items without a recognized size are excluded from the size pivots")
	result.addRows(&badAmount, cols.Total, "unparsable_amount",
		"order totals that are not numbers are treated as 0")
	result.addRows(&badDate, cols.CreatedAt, "unparsable_date",
		"order dates in an unknown layout are kept as text only")

	var headerless rowFinding
	for _, name := range names {
		if !dated[name] {
			headerless.count++
		}
	}
	result.addRows(&headerless, cols.OrderName, "order_without_header",
		"order names with no dated row produce no order")

	return result
}

// isAmount reports whether s parses as a plain decimal.
func isAmount(s string) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil
}

// =============================================================================
// SHIPPING FILE
// =============================================================================

// ValidateShipping checks that the shipping columns can be inferred. Every
// finding is a warning: an unresolved file just means zero shipping costs.
func ValidateShipping(table *types.Table) *ValidationResult {
	result := newResult(table)

	res := shipping.ResolveColumns(table.Headers)
	if res.KeyColumn == "" {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Field:    strings.Join(table.Headers, ", "),
			Rule:     "shipping_key_column",
			Message:  "no order name/id column found; shipping costs will be 0",
		})
	}
	if res.ValueColumn == "" {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Field:    strings.Join(table.Headers, ", "),
			Rule:     "shipping_value_column",
			Message:  "no shipping charge/cost column found; shipping costs will be 0",
		})
	}
	if !res.Resolved() {
		return result
	}

	var skipped rowFinding
	for i, row := range table.Rows {
		if row.Get(res.KeyColumn) == "" {
			skipped.hit(i + 1)
			continue
		}
		if _, ok := money.ParseLoose(row.Get(res.ValueColumn)); !ok {
			skipped.hit(i + 1)
		}
	}
	result.addRows(&skipped, res.ValueColumn, "shipping_row_skipped",
		"rows without an order key or a numeric cost are ignored")

	return result
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation findings for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes validation findings to a log file, with a header
// naming the source file and the time of the run.
func WriteErrorLog(result *ValidationResult, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return eris.Wrapf(err, "failed to create error log %s", filePath)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Validation log: %s\n", result.SourceFile)
	fmt.Fprintf(writer, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(writer, "Rows: %d, errors: %d, warnings: %d\n\n",
		result.RowsValidated, result.ErrorCount, result.WarningCount)
	writer.WriteString(FormatErrors(result.Errors))

	if err := writer.Flush(); err != nil {
		return eris.Wrapf(err, "failed to write error log %s", filePath)
	}
	return nil
}
