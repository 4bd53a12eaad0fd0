package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ReportExporter defines the interface for exporting reports in different formats
type ReportExporter interface {
	Export(reportType, format string, data ReportData) ([]byte, string, string, error)
}

type reportExporter struct {
	now func() time.Time
}

func NewReportExporter() ReportExporter {
	return &reportExporter{now: time.Now}
}

// table is the format-independent shape every report is rendered from.
type table struct {
	title   string
	sheet   string
	base    string
	headers []string
	widths  []float64
	rows    [][]string
}

func (e *reportExporter) Export(reportType, format string, data ReportData) ([]byte, string, string, error) {
	var t table
	switch reportType {
	case ReportTypeEvents:
		t = eventsTable(data.Events)
	case ReportTypeAttendees:
		t = attendeesTable(data.Attendees)
	default:
		return nil, "", "", fmt.Errorf("%w: %s", ErrUnsupportedReport, reportType)
	}

	timestamp := e.now().Format("20060102_150405")
	switch format {
	case FormatCSV:
		out, err := t.csv()
		return out, fmt.Sprintf("%s_%s.csv", t.base, timestamp), mimeCSV, err
	case FormatExcel:
		out, err := t.excel()
		return out, fmt.Sprintf("%s_%s.xlsx", t.base, timestamp), mimeExcel, err
	case FormatPDF:
		out, err := t.pdf()
		return out, fmt.Sprintf("%s_%s.pdf", t.base, timestamp), mimePDF, err
	default:
		return nil, "", "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func eventsTable(rows []EventReportRow) table {
	t := table{
		title:   "Event Attendance Report",
		sheet:   "Events",
		base:    "events_report",
		headers: []string{"ID", "Title", "Category", "Date", "Time", "Location", "Attendees", "Capacity", "% Full", "Status"},
		widths:  []float64{12, 60, 22, 24, 14, 50, 22, 20, 16, 26},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			r.ID,
			r.Title,
			r.Category,
			r.Date,
			r.Time,
			r.Location,
			strconv.Itoa(r.Attendees),
			strconv.Itoa(r.Capacity),
			strconv.Itoa(r.PercentFull),
			r.Status,
		})
	}
	return t
}

func attendeesTable(rows []AttendeeReportRow) table {
	t := table{
		title:   "Event Attendees Report",
		sheet:   "Attendees",
		base:    "attendees_report",
		headers: []string{"Event ID", "Event", "User ID", "Name", "Email"},
		widths:  []float64{20, 60, 70, 50, 67},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{r.EventID, r.EventTitle, r.UserID, r.Name, r.Email})
	}
	return t
}

func (t table) csv() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(t.headers); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(t.rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t table) excel() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(t.sheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	for i, h := range t.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(t.sheet, cell, h); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(t.sheet, cell, cell, bold); err != nil {
			return nil, err
		}
	}

	for r, row := range t.rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			// numeric columns stay numeric in the sheet
			if n, convErr := strconv.Atoi(value); convErr == nil && c > 0 {
				err = f.SetCellValue(t.sheet, cell, n)
			} else {
				err = f.SetCellValue(t.sheet, cell, value)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t table) pdf() ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, t.title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, row := range t.rows {
		for i, value := range row {
			pdf.CellFormat(t.widths[i], 6, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
