package converter

import (
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/order-tally/internal/config"
	"github.com/ginjaninja78/order-tally/internal/csvparser"
	"github.com/ginjaninja78/order-tally/internal/types"
	"github.com/ginjaninja78/order-tally/internal/xlsxparser"
)

// LoadTable reads a source file into a Table. The reader is chosen by
// extension only: .xlsx and .xlsm go to the workbook reader, everything else
// is read as CSV.
func LoadTable(path string, cfg *config.Config) (*types.Table, error) {
	if IsWorkbook(path) {
		return xlsxparser.Parse(path, cfg.XLSXSheet)
	}
	return csvparser.Parse(path, cfg.CSVSettings)
}

// LoadShippingTable reads a shipping export using the shipping_* settings,
// never the orders-file ones.
func LoadShippingTable(path string, cfg *config.Config) (*types.Table, error) {
	if IsWorkbook(path) {
		return xlsxparser.Parse(path, cfg.ShippingXLSXSheet)
	}
	return csvparser.Parse(path, cfg.ShippingCSVSettings)
}

// IsWorkbook reports whether path names an Excel workbook.
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
