package utils

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type ResultSheetData struct {
	SchoolName     string
	SchoolAddress  string
	SchoolMotto    string
	Term           string
	Session        string
	NextTermBegins string
	Student        SheetStudent
	Scores         []SheetScore
	TotalScore     int
	Average        int
	Attendance     SheetAttendance
	Psychomotor    map[string]int
	Affective      map[string]int
	TeacherRemark  string
	GeneratedAt    time.Time
	QRCodePNG      []byte // verification QR, optional
}

type SheetStudent struct {
	FullName        string
	AdmissionNumber string
	ClassLevel      string
	Gender          string
}

type SheetScore struct {
	Subject  string
	CA1      int
	CA2      int
	Exam     int
	Total    int
	Grade    string
	Position string
	Remark   string
}

type SheetAttendance struct {
	DaysOpen    int
	DaysPresent int
	DaysAbsent  int
}

// GenerateResultSheetPDF renders the printable terminal report: header block,
// watermark, score grid, attendance and skill side tables, remarks and a
// verification QR code.
func GenerateResultSheetPDF(data ResultSheetData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	drawWatermark(pdf, data.SchoolName)

	// ── Header block ─────────────────────────────────
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(69, 26, 3)
	pdf.CellFormat(0, 8, data.SchoolName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, data.SchoolAddress, "", 1, "C", false, 0, "")
	if data.SchoolMotto != "" {
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 4, fmt.Sprintf("Motto: %s", data.SchoolMotto), "", 1, "C", false, 0, "")
	}

	pdf.SetDrawColor(69, 26, 3)
	pdf.SetLineWidth(0.8)
	pdf.Line(15, pdf.GetY()+3, 195, pdf.GetY()+3)
	pdf.Ln(7)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("TERMINAL REPORT SHEET - %s, %s SESSION", data.Term, data.Session), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Student details ──────────────────────────────
	pdf.SetFont("Arial", "", 10)
	details := [][]string{
		{"Name of Student", data.Student.FullName},
		{"Admission Number", data.Student.AdmissionNumber},
		{"Class", data.Student.ClassLevel},
		{"Gender", data.Student.Gender},
	}
	for _, row := range details {
		pdf.CellFormat(45, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(5, 6, ":", "", 0, "C", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(120, 6, row[1], "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
	}
	pdf.Ln(3)

	// ── Score grid ───────────────────────────────────
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(69, 26, 3)
	pdf.SetTextColor(255, 255, 255)

	headers := []string{"Subject", "1st CA", "2nd CA", "Exam", "Total", "Grade", "Position", "Remark"}
	widths := []float64{50, 16, 16, 16, 16, 14, 18, 34}

	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for i, s := range data.Scores {
		fill := i%2 == 0
		if fill {
			pdf.SetFillColor(250, 245, 235)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(widths[0], 6, truncate(s.Subject, 32), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", s.CA1), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", s.CA2), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%d", s.Exam), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%d", s.Total), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[5], 6, s.Grade, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[6], 6, s.Position, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[7], 6, truncate(s.Remark, 22), "1", 0, "L", fill, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(0, 7, fmt.Sprintf("Total Score: %d        Average: %d", data.TotalScore, data.Average), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	// ── Side tables: attendance + skills ─────────────
	topY := pdf.GetY()
	drawSideTable(pdf, 15, topY, "ATTENDANCE", [][2]string{
		{"Days School Open", fmt.Sprintf("%d", data.Attendance.DaysOpen)},
		{"Days Present", fmt.Sprintf("%d", data.Attendance.DaysPresent)},
		{"Days Absent", fmt.Sprintf("%d", data.Attendance.DaysAbsent)},
	})
	drawSideTable(pdf, 78, topY, "PSYCHOMOTOR SKILLS", ratingRows(data.Psychomotor))
	drawSideTable(pdf, 141, topY, "AFFECTIVE TRAITS", ratingRows(data.Affective))

	pdf.SetY(maxTableBottom(topY, len(data.Psychomotor), len(data.Affective)))
	pdf.Ln(4)

	// ── Remarks and resumption ───────────────────────
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(45, 6, "Class Teacher's Remark:", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	remark := data.TeacherRemark
	if remark == "" {
		remark = "-"
	}
	pdf.MultiCell(0, 6, remark, "", "L", false)

	if data.NextTermBegins != "" {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(45, 6, "Next Term Begins:", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, data.NextTermBegins, "", 1, "L", false, 0, "")
	}

	// ── Verification QR ──────────────────────────────
	if len(data.QRCodePNG) > 0 {
		y := pdf.GetY() + 4
		pdf.SetFont("Arial", "", 7)
		pdf.SetXY(15, y)
		pdf.CellFormat(40, 4, "Scan to verify this result:", "", 1, "L", false, 0, "")
		qrReader := bytes.NewReader(data.QRCodePNG)
		pdf.RegisterImageOptionsReader("verify-qr", gofpdf.ImageOptions{ImageType: "PNG"}, qrReader)
		pdf.ImageOptions("verify-qr", 15, y+5, 25, 25, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	// ── Footer ───────────────────────────────────────
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 7)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5,
		fmt.Sprintf("Issued digitally on %s | Any alteration voids this document", data.GeneratedAt.Format("02/01/2006 15:04")),
		"", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// drawWatermark prints the school name diagonally behind the page content.
func drawWatermark(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 46)
	pdf.SetTextColor(242, 236, 228)
	pdf.TransformBegin()
	pdf.TransformRotate(45, 105, 160)
	pdf.Text(25, 165, text)
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

func drawSideTable(pdf *gofpdf.Fpdf, x, y float64, title string, rows [][2]string) {
	const width = 60.0
	pdf.SetXY(x, y)
	pdf.SetFont("Arial", "B", 7)
	pdf.SetFillColor(69, 26, 3)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(width, 5, title, "1", 2, "C", true, 0, "")

	pdf.SetFont("Arial", "", 7)
	pdf.SetTextColor(0, 0, 0)
	if len(rows) == 0 {
		pdf.SetX(x)
		pdf.CellFormat(width, 5, "-", "1", 2, "C", false, 0, "")
		return
	}
	for _, row := range rows {
		pdf.SetX(x)
		pdf.CellFormat(width-12, 5, truncate(row[0], 28), "1", 0, "L", false, 0, "")
		pdf.CellFormat(12, 5, row[1], "1", 2, "C", false, 0, "")
	}
}

func ratingRows(m map[string]int) [][2]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][2]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, [2]string{k, fmt.Sprintf("%d", m[k])})
	}
	return rows
}

func maxTableBottom(topY float64, psychomotorRows, affectiveRows int) float64 {
	rows := 3 // attendance has three rows
	if psychomotorRows > rows {
		rows = psychomotorRows
	}
	if affectiveRows > rows {
		rows = affectiveRows
	}
	if rows == 0 {
		rows = 1
	}
	return topY + 5 + float64(rows)*5
}

type PaymentHistoryRow struct {
	Date       time.Time
	Student    string
	Purpose    string
	Amount     float64
	Method     string
	RecordedBy string
}

// GeneratePaymentHistoryPDF renders the bursar's transaction export.
func GeneratePaymentHistoryPDF(schoolName string, rows []PaymentHistoryRow, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s - Payment History", schoolName), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated: %s", generatedAt.Format("02 Jan 2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(74, 20, 140)
	pdf.SetTextColor(255, 255, 255)
	headers := []string{"Date", "Student", "Purpose", "Amount", "Method", "Recorded By"}
	widths := []float64{22, 48, 34, 24, 20, 34}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for i, row := range rows {
		fill := i%2 == 0
		if fill {
			pdf.SetFillColor(245, 240, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(widths[0], 6, row.Date.Format("02/01/2006"), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[1], 6, truncate(row.Student, 30), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 6, truncate(row.Purpose, 22), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("N%.2f", row.Amount), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(widths[4], 6, row.Method, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[5], 6, truncate(row.RecordedBy, 22), "1", 0, "L", fill, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
