package models

// Semester identifies one sheet inside a section workbook.
type Semester string

const (
	SemesterOne Semester = "S1"
	SemesterTwo Semester = "S2"
	SemesterAve Semester = "Ave"
)

// IsValid reports whether the semester tag names a known sheet.
func (s Semester) IsValid() bool {
	return s == SemesterOne || s == SemesterTwo || s == SemesterAve
}

// Column layout of a section workbook (0-based, mirroring the sheet files).
// S1/S2 sheets carry 18 columns with the name at column 3; the aggregate Ave
// sheet drops the conduct column, shifting the tail left.
const (
	colRoll = 1
)

// ExpectedCols is the minimum column count for a structurally valid sheet.
func (s Semester) ExpectedCols() int {
	if s == SemesterAve {
		return 17
	}
	return 18
}

// NameCol is the column holding the student name.
func (s Semester) NameCol() int {
	if s == SemesterAve {
		return 2
	}
	return 3
}

// ConductCol is the conduct column, or -1 when the sheet has none.
func (s Semester) ConductCol() int {
	if s == SemesterAve {
		return -1
	}
	return 14
}

// SumCol is the mark-total column.
func (s Semester) SumCol() int {
	if s == SemesterAve {
		return 13
	}
	return 15
}

// AverageCol is the average column.
func (s Semester) AverageCol() int {
	if s == SemesterAve {
		return 14
	}
	return 16
}

// RankCol is the rank column.
func (s Semester) RankCol() int {
	if s == SemesterAve {
		return 15
	}
	return 17
}

// RemarkCol is the remark column, present only on the aggregate sheet.
func (s Semester) RemarkCol() int {
	if s == SemesterAve {
		return 16
	}
	return -1
}

// RollCol is the roll-number column, identical across sheet kinds.
func (s Semester) RollCol() int {
	return colRoll
}

// Sections is the full vocabulary of grade/section codes. Grades 1-2 run
// three sections, grades 3-6 run two.
var Sections = []string{
	"1A", "1B", "1C",
	"2A", "2B", "2C",
	"3A", "3B",
	"4A", "4B",
	"5A", "5B",
	"6A", "6B",
}

var sectionSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Sections))
	for _, s := range Sections {
		set[s] = struct{}{}
	}
	return set
}()

// IsValidSection reports whether code is a known grade/section.
func IsValidSection(code string) bool {
	_, ok := sectionSet[code]
	return ok
}

// SubjectNames lists the graded subjects in sheet column order, starting at
// NameCol()+3.
var SubjectNames = []string{
	"Amharic", "English", "Arabic", "Maths", "E.S", "Moral Edu", "Art", "HPE",
}

// ResultCard is one student's parsed row, ready for rendering.
type ResultCard struct {
	Semester Semester
	Section  string
	Roll     string
	Name     string
	Sex      string
	Age      string
	Subjects []string // parallel to SubjectNames
	Conduct  string
	Sum      string
	Average  string
	Rank     string
	Remark   string
}

// TopEntry is one leaderboard line.
type TopEntry struct {
	Rank    int
	Roll    string
	Name    string
	Average float64
}
