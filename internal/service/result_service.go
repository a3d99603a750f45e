package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

// blankCell is rendered for any missing or empty sheet value.
const blankCell = "N/A"

type sheetSource interface {
	Grid(section string, sem models.Semester) ([][]string, error)
}

type gridCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ResultService reads student rows and leaderboards out of the section
// workbooks, with an optional cache in front of sheet reads.
type ResultService struct {
	sheets   sheetSource
	cache    gridCache
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewResultService constructs a ResultService instance.
func NewResultService(sheets sheetSource, cache gridCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{sheets: sheets, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

// StudentResult returns the parsed row for one roll number, or
// STUDENT_NOT_FOUND when no row in the data band carries it.
func (s *ResultService) StudentResult(ctx context.Context, section string, sem models.Semester, roll string) (*models.ResultCard, error) {
	if !models.IsValidSection(section) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade/section code")
	}
	if !sem.IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown semester tag")
	}

	grid, err := s.grid(ctx, section, sem)
	if err != nil {
		return nil, err
	}

	want := strings.TrimSpace(roll)
	for _, row := range grid {
		if strings.TrimSpace(row[sem.RollCol()]) != want {
			continue
		}
		return buildCard(section, sem, row), nil
	}

	return nil, appErrors.Clone(appErrors.ErrNoStudent,
		fmt.Sprintf("student %s not found in %s - %s", roll, section, sem))
}

// TopThree returns up to three leaderboard entries for the section/semester,
// ordered by descending average with ties kept in original row order.
func (s *ResultService) TopThree(ctx context.Context, section string, sem models.Semester) ([]models.TopEntry, error) {
	if !models.IsValidSection(section) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade/section code")
	}
	if !sem.IsValid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown semester tag")
	}

	grid, err := s.grid(ctx, section, sem)
	if err != nil {
		return nil, err
	}

	entries := make([]models.TopEntry, 0, len(grid))
	for _, row := range grid {
		rollCell := strings.TrimSpace(row[sem.RollCol()])
		avgCell := strings.TrimSpace(row[sem.AverageCol()])
		if rollCell == "" || avgCell == "" {
			continue
		}
		avg, err := strconv.ParseFloat(avgCell, 64)
		if err != nil {
			continue
		}
		entries = append(entries, models.TopEntry{
			Roll:    rollCell,
			Name:    cellOr(row, sem.NameCol()),
			Average: avg,
		})
	}

	// Insertion order is row order, so equal averages keep their original
	// relative position under a stable sort.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Average > entries[j].Average
	})
	if len(entries) > 3 {
		entries = entries[:3]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// GradeSheet collects the student's rows across all semester sheets for
// export, skipping sheets that are absent or lack the row.
func (s *ResultService) GradeSheet(ctx context.Context, section, roll string) ([]*models.ResultCard, error) {
	cards := make([]*models.ResultCard, 0, 3)
	for _, sem := range []models.Semester{models.SemesterOne, models.SemesterTwo, models.SemesterAve} {
		card, err := s.StudentResult(ctx, section, sem, roll)
		if err != nil {
			if e := appErrors.FromError(err); e.Code == appErrors.ErrValidation.Code || e.Code == appErrors.ErrInternal.Code {
				return nil, err
			}
			s.logger.Sugar().Debugw("sheet skipped for export", "section", section, "sheet", sem, "error", err)
			continue
		}
		cards = append(cards, card)
	}
	if len(cards) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoStudent,
			fmt.Sprintf("no results for student %s in %s", roll, section))
	}
	return cards, nil
}

func (s *ResultService) grid(ctx context.Context, section string, sem models.Semester) ([][]string, error) {
	key := fmt.Sprintf("grid:%s:%s", section, sem)

	if s.cache != nil {
		var cached [][]string
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		} else if !appErrors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Sugar().Warnw("grid cache read failed", "key", key, "error", err)
		}
	}

	start := time.Now()
	grid, err := s.sheets.Grid(section, sem)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSheetRead(time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, grid, s.cacheTTL); err != nil {
			s.logger.Sugar().Warnw("grid cache write failed", "key", key, "error", err)
		}
	}
	return grid, nil
}

func buildCard(section string, sem models.Semester, row []string) *models.ResultCard {
	nameCol := sem.NameCol()

	subjects := make([]string, len(models.SubjectNames))
	for i := range models.SubjectNames {
		subjects[i] = cellOr(row, nameCol+3+i)
	}

	card := &models.ResultCard{
		Semester: sem,
		Section:  section,
		Roll:     cellOr(row, sem.RollCol()),
		Name:     cellOr(row, nameCol),
		Sex:      cellOr(row, nameCol+1),
		Age:      cellOr(row, nameCol+2),
		Subjects: subjects,
		Conduct:  blankCell,
		Sum:      cellOr(row, sem.SumCol()),
		Average:  cellOr(row, sem.AverageCol()),
		Rank:     cellOr(row, sem.RankCol()),
		Remark:   blankCell,
	}
	if col := sem.ConductCol(); col >= 0 {
		card.Conduct = cellOr(row, col)
	}
	if col := sem.RemarkCol(); col >= 0 {
		card.Remark = cellOr(row, col)
	}
	return card
}

func cellOr(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return blankCell
	}
	v := strings.TrimSpace(row[col])
	if v == "" {
		return blankCell
	}
	return v
}
