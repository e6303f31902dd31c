package export

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"skillscan/internal/types"

	"github.com/xuri/excelize/v2"
)

const (
	CandidatesSheet = "Candidates"
	MatrixSheet     = "Skill Matrix"
	SummarySheet    = "Summary"
	ResultsSheet    = "Quiz Results"
)

// Workbook builds an Excel report of parsed résumés and quiz results
type Workbook struct {
	f      *excelize.File
	sheets int
	header int
	label  int
	good   int
	bad    int
}

// NewWorkbook creates an empty workbook with the shared cell styles
func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()
	w := &Workbook{f: f}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&w.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    border,
		}},
		{&w.label, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&w.good, &excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
			Border: border,
		}},
		{&w.bad, &excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
			Border: border,
		}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to create cell style: %w", err)
		}
		*s.dst = id
	}

	return w, nil
}

// addSheet renames the default sheet for the first call and appends a new
// sheet afterwards
func (w *Workbook) addSheet(name string) error {
	defer func() { w.sheets++ }()
	if w.sheets == 0 {
		return w.f.SetSheetName("Sheet1", name)
	}
	_, err := w.f.NewSheet(name)
	return err
}

func (w *Workbook) writeRow(sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(sheet, cell, &values)
}

func (w *Workbook) styleRow(sheet string, row, cols, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(max(cols, 1), row)
	if err != nil {
		return err
	}
	return w.f.SetCellStyle(sheet, first, last, style)
}

func (w *Workbook) writeHeader(sheet string, headers ...any) error {
	if err := w.writeRow(sheet, 1, headers...); err != nil {
		return err
	}
	if err := w.styleRow(sheet, 1, len(headers), w.header); err != nil {
		return err
	}
	return w.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// AddProfiles adds the candidate list, the candidate by skill matrix and a
// summary of skill frequencies
func (w *Workbook) AddProfiles(profiles []types.Profile) error {
	if err := w.addCandidatesSheet(profiles); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}
	if err := w.addMatrixSheet(profiles); err != nil {
		return fmt.Errorf("failed to create skill matrix sheet: %w", err)
	}
	if err := w.addSummarySheet(profiles); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	return nil
}

func (w *Workbook) addCandidatesSheet(profiles []types.Profile) error {
	sheet := CandidatesSheet
	if err := w.addSheet(sheet); err != nil {
		return err
	}
	_ = w.f.SetColWidth(sheet, "A", "A", 30)
	_ = w.f.SetColWidth(sheet, "B", "B", 25)
	_ = w.f.SetColWidth(sheet, "C", "C", 10)
	_ = w.f.SetColWidth(sheet, "D", "D", 80)

	if err := w.writeHeader(sheet, "File", "Name", "Skills", "Matched Skills"); err != nil {
		return err
	}

	for i, p := range profiles {
		row := i + 2
		if err := w.writeRow(sheet, row, filepath.Base(p.File), p.Name, len(p.Skills), strings.Join(p.Skills, ", ")); err != nil {
			return err
		}
	}

	if len(profiles) > 0 {
		return w.f.AutoFilter(sheet, fmt.Sprintf("A1:D%d", len(profiles)+1), nil)
	}
	return nil
}

// skillColumns returns every skill matched in any profile, in first-seen
// order, so columns follow vocabulary order
func skillColumns(profiles []types.Profile) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range profiles {
		for _, s := range p.Skills {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func (w *Workbook) addMatrixSheet(profiles []types.Profile) error {
	sheet := MatrixSheet
	if err := w.addSheet(sheet); err != nil {
		return err
	}

	columns := skillColumns(profiles)
	header := make([]any, 0, len(columns)+1)
	header = append(header, "Name")
	for _, s := range columns {
		header = append(header, s)
	}
	if err := w.writeHeader(sheet, header...); err != nil {
		return err
	}
	_ = w.f.SetColWidth(sheet, "A", "A", 25)

	for i, p := range profiles {
		row := i + 2
		has := make(map[string]bool, len(p.Skills))
		for _, s := range p.Skills {
			has[s] = true
		}

		values := make([]any, 0, len(columns)+1)
		values = append(values, p.Name)
		for _, s := range columns {
			if has[s] {
				values = append(values, "✓")
			} else {
				values = append(values, "")
			}
		}
		if err := w.writeRow(sheet, row, values...); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) addSummarySheet(profiles []types.Profile) error {
	sheet := SummarySheet
	if err := w.addSheet(sheet); err != nil {
		return err
	}
	_ = w.f.SetColWidth(sheet, "A", "A", 25)
	_ = w.f.SetColWidth(sheet, "B", "B", 20)

	rows := [][]any{
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Resumes parsed:", len(profiles)},
	}
	for i, r := range rows {
		if err := w.writeRow(sheet, i+1, r...); err != nil {
			return err
		}
		_ = w.styleRow(sheet, i+1, 1, w.label)
	}

	counts := make(map[string]int)
	for _, p := range profiles {
		for _, s := range p.Skills {
			counts[s]++
		}
	}
	columns := skillColumns(profiles)
	sort.SliceStable(columns, func(i, j int) bool {
		return counts[columns[i]] > counts[columns[j]]
	})

	start := len(rows) + 2
	if err := w.writeRow(sheet, start, "Skill", "Candidates"); err != nil {
		return err
	}
	if err := w.styleRow(sheet, start, 2, w.header); err != nil {
		return err
	}
	for i, s := range columns {
		if err := w.writeRow(sheet, start+1+i, s, counts[s]); err != nil {
			return err
		}
	}
	return nil
}

// AddScore adds a sheet with the graded answers of a quiz. Correct answers
// are green, missed ones red.
func (w *Workbook) AddScore(quiz types.Quiz, score types.ScoreOutput) error {
	sheet := ResultsSheet
	if err := w.addSheet(sheet); err != nil {
		return fmt.Errorf("failed to create results sheet: %w", err)
	}
	_ = w.f.SetColWidth(sheet, "A", "A", 15)
	_ = w.f.SetColWidth(sheet, "B", "B", 60)
	_ = w.f.SetColWidth(sheet, "C", "D", 30)

	if err := w.writeHeader(sheet, "Skill", "Question", "Your Answer", "Correct Answer", "Correct"); err != nil {
		return err
	}

	for i, r := range score.Results {
		row := i + 2
		skill := ""
		if i < len(quiz.Questions) {
			skill = quiz.Questions[i].Skill
		}
		if err := w.writeRow(sheet, row, skill, r.Question, r.YourAnswer, r.CorrectAnswer, r.IsCorrect); err != nil {
			return err
		}
		style := w.bad
		if r.IsCorrect {
			style = w.good
		}
		if err := w.styleRow(sheet, row, 5, style); err != nil {
			return err
		}
	}

	footer := len(score.Results) + 3
	if err := w.writeRow(sheet, footer, "Candidate", quiz.Name); err != nil {
		return err
	}
	if err := w.writeRow(sheet, footer+1, "Score", fmt.Sprintf("%d/%d", score.Score, score.Total)); err != nil {
		return err
	}
	_ = w.styleRow(sheet, footer, 1, w.label)
	_ = w.styleRow(sheet, footer+1, 1, w.label)
	return nil
}

// Write streams the workbook as xlsx
func (w *Workbook) Write(out io.Writer) error {
	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("failed to write Excel workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to path, adding the .xlsx extension when
// missing, and returns the final path
func (w *Workbook) Save(path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	if err := w.f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save Excel file %s: %w", path, err)
	}
	return path, nil
}

// Close releases the workbook
func (w *Workbook) Close() error {
	return w.f.Close()
}

// ExportProfiles writes a profiles report to path and returns the final path
func ExportProfiles(profiles []types.Profile, path string) (string, error) {
	w, err := NewWorkbook()
	if err != nil {
		return "", err
	}
	defer func() { _ = w.Close() }()

	if err := w.AddProfiles(profiles); err != nil {
		return "", err
	}
	return w.Save(path)
}
