package reports

import (
	"fmt"
	"time"

	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/xuri/excelize/v2"
)

const (
	InvoiceSheet   = "Invoices"
	WorkOrderSheet = "Work Orders"
)

// ExcelExporter is one row of an exported sheet.
type ExcelExporter interface {
	GetCellValues() []interface{}
}

type InvoiceRegisterRow struct {
	InvoiceNumber string
	CustomerName  string
	Status        string
	IssueDate     time.Time
	DueDate       time.Time
	Subtotal      float64
	VatAmount     float64
	Total         float64
}

func (r InvoiceRegisterRow) GetCellValues() []interface{} {
	return []interface{}{
		r.InvoiceNumber,
		r.CustomerName,
		r.Status,
		r.IssueDate.Format(time.DateOnly),
		r.DueDate.Format(time.DateOnly),
		r.Subtotal,
		r.VatAmount,
		r.Total,
	}
}

var invoiceRegisterHeaders = []string{"Invoice", "Customer", "Status", "Issue Date", "Due Date", "Subtotal", "VAT", "Total"}

type WorkOrderQueueRow struct {
	Assignee  string
	SortIndex int
	Title     string
	Status    string
	Customer  string
	Invoice   string
}

func (r WorkOrderQueueRow) GetCellValues() []interface{} {
	return []interface{}{r.Assignee, r.SortIndex, r.Title, r.Status, r.Customer, r.Invoice}
}

var workOrderQueueHeaders = []string{"Assignee", "#", "Title", "Status", "Customer", "Invoice"}

func nameOr(lookup func(string) (string, bool), id *string) string {
	if id == nil {
		return ""
	}
	if name, ok := lookup(*id); ok {
		return name
	}
	return *id
}

// InvoiceRegisterRows lists invoices in number order with customer names resolved.
func InvoiceRegisterRows(s models.DocumentSet, directory models.Directory) []InvoiceRegisterRow {
	invoices := s.Invoices()
	rows := make([]InvoiceRegisterRow, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, InvoiceRegisterRow{
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  nameOr(directory.CustomerName, inv.CustomerId),
			Status:        string(inv.Status),
			IssueDate:     inv.IssueDate,
			DueDate:       inv.DueDate,
			Subtotal:      inv.Subtotal.InexactFloat64(),
			VatAmount:     inv.VatAmount.InexactFloat64(),
			Total:         inv.Total.InexactFloat64(),
		})
	}
	return rows
}

// WorkOrderQueueRows lists open work orders per assignee in queue order.
func WorkOrderQueueRows(s models.DocumentSet, directory models.Directory) []WorkOrderQueueRow {
	var rows []WorkOrderQueueRow
	for _, w := range s.WorkOrders() {
		if !w.IsOpen() {
			continue
		}
		row := WorkOrderQueueRow{
			Assignee: nameOr(directory.EmployeeName, &w.AssignedTo),
			Title:    w.Title,
			Status:   string(w.Status),
			Customer: nameOr(directory.CustomerName, w.CustomerId),
		}
		if w.SortIndex != nil {
			row.SortIndex = *w.SortIndex
		}
		if w.InvoiceId != nil {
			if inv, ok := s.Invoice(*w.InvoiceId); ok {
				row.Invoice = inv.InvoiceNumber
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// ExportDocumentRegister builds a workbook with the invoice register and the
// open work order queues.
func ExportDocumentRegister(s models.DocumentSet, directory models.Directory) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", InvoiceSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(WorkOrderSheet); err != nil {
		return nil, err
	}

	invoiceRows := InvoiceRegisterRows(s, directory)
	data := make([]ExcelExporter, 0, len(invoiceRows))
	for _, r := range invoiceRows {
		data = append(data, r)
	}
	if err := writeSheet(f, InvoiceSheet, invoiceRegisterHeaders, data); err != nil {
		return nil, err
	}

	// totals row
	if len(invoiceRows) > 0 {
		last := len(invoiceRows) + 1
		row := last + 1
		if err := f.SetCellValue(InvoiceSheet, fmt.Sprintf("A%d", row), "Total"); err != nil {
			return nil, err
		}
		for _, col := range []string{"F", "G", "H"} {
			if err := f.SetCellFormula(InvoiceSheet, fmt.Sprintf("%s%d", col, row), fmt.Sprintf("SUM(%s2:%s%d)", col, col, last)); err != nil {
				return nil, err
			}
		}
	}

	queueRows := WorkOrderQueueRows(s, directory)
	data = make([]ExcelExporter, 0, len(queueRows))
	for _, r := range queueRows {
		data = append(data, r)
	}
	if err := writeSheet(f, WorkOrderSheet, workOrderQueueHeaders, data); err != nil {
		return nil, err
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headings []string, data []ExcelExporter) error {
	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return err
	}
	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, boldStyle); err != nil {
			return err
		}
	}

	for rowIdx, d := range data {
		for colIdx, value := range d.GetCellValues() {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}
