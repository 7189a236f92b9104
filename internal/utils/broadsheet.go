package utils

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

type BroadsheetRow struct {
	AdmissionNumber string
	StudentName     string
	// Scores maps subject -> total score for that student.
	Scores map[string]int
}

// GenerateBroadsheetXLSX lays out one class's approved results: a row per
// student, a column per subject, totals at the end.
func GenerateBroadsheetXLSX(classLevel, term, session string, rows []BroadsheetRow) ([]byte, error) {
	subjectSet := map[string]bool{}
	for _, row := range rows {
		for subject := range row.Scores {
			subjectSet[subject] = true
		}
	}
	subjects := make([]string, 0, len(subjectSet))
	for s := range subjectSet {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	f := excelize.NewFile()
	const sheet = "Broadsheet"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s Broadsheet - %s, %s", classLevel, term, session))

	headers := append([]string{"Admission No", "Student"}, subjects...)
	headers = append(headers, "Total", "Average")
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for r, row := range rows {
		rowIdx := r + 4
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIdx), row.AdmissionNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIdx), row.StudentName)

		total := 0
		for c, subject := range subjects {
			cell, err := excelize.CoordinatesToCellName(c+3, rowIdx)
			if err != nil {
				return nil, err
			}
			if score, ok := row.Scores[subject]; ok {
				f.SetCellValue(sheet, cell, score)
				total += score
			} else {
				f.SetCellValue(sheet, cell, "-")
			}
		}

		totalCell, _ := excelize.CoordinatesToCellName(len(subjects)+3, rowIdx)
		f.SetCellValue(sheet, totalCell, total)

		avgCell, _ := excelize.CoordinatesToCellName(len(subjects)+4, rowIdx)
		f.SetCellValue(sheet, avgCell, RoundAverage(total, len(row.Scores)))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write broadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
