package storage

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"

	"github.com/xuri/excelize/v2"
)

// ExcelStockParser reads the first sheet of a workbook with the columns
// item_no, starting_stock and an optional notes column. A header row is
// detected by a non-numeric first cell and skipped.
type ExcelStockParser struct{}

func (ExcelStockParser) Parse(r io.Reader) ([]service.StockRow, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.Invalid("cannot read workbook: %v", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.Invalid("workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	out := make([]service.StockRow, 0, len(rows))
	for i, row := range rows {
		line := i + 1
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, domain.Invalid("row %d: item_no %q is not a number", line, row[0])
		}
		if len(row) < 2 {
			return nil, domain.Invalid("row %d: starting_stock is missing", line)
		}
		starting, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, domain.Invalid("row %d: starting_stock %q is not a number", line, row[1])
		}
		stockRow := service.StockRow{Line: line, ItemCode: code, StartingStock: starting}
		if len(row) > 2 {
			stockRow.Notes = strings.TrimSpace(row[2])
		}
		out = append(out, stockRow)
	}
	return out, nil
}
