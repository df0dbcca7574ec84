// Package sheets is the spreadsheet source: it periodically yields vacancy
// and survey-question rows maintained by recruiters in Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// VacancyRow mirrors the recruiting sheet columns A..J.
type VacancyRow struct {
	Title        string
	Description  string
	Emoji        string
	Category     string
	Link         string
	Level        string
	Salary       string
	Requirements string
	Benefits     string
	TagsRaw      string
}

// SurveyRow mirrors the survey-questions sheet columns A..E.
type SurveyRow struct {
	Position int
	Category string
	Field    string
	Question string
	Options  string
}

type Source interface {
	FetchVacancyRows(ctx context.Context) ([]VacancyRow, error)
	FetchSurveyRows(ctx context.Context) ([]SurveyRow, error)
}

const valuesBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// GoogleSource reads sheet values through the public values endpoint with an
// API key. Sheets must be readable by the key's project.
type GoogleSource struct {
	client           *resty.Client
	apiKey           string
	vacanciesSheetID string
	surveySheetID    string
}

func NewGoogleSource(apiKey, vacanciesSheetID, surveySheetID string) *GoogleSource {
	client := resty.New().
		SetBaseURL(valuesBaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)

	return &GoogleSource{
		client:           client,
		apiKey:           apiKey,
		vacanciesSheetID: vacanciesSheetID,
		surveySheetID:    surveySheetID,
	}
}

func (s *GoogleSource) FetchVacancyRows(ctx context.Context) ([]VacancyRow, error) {
	if s.vacanciesSheetID == "" {
		return nil, fmt.Errorf("vacancies sheet not configured")
	}

	values, err := s.fetchValues(ctx, s.vacanciesSheetID, "A:K")
	if err != nil {
		return nil, err
	}

	rows := make([]VacancyRow, 0, len(values))
	for i, raw := range values {
		if i == 0 {
			continue // header
		}
		row, ok := ParseVacancyRow(raw)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *GoogleSource) FetchSurveyRows(ctx context.Context) ([]SurveyRow, error) {
	if s.surveySheetID == "" {
		return nil, fmt.Errorf("survey sheet not configured")
	}

	values, err := s.fetchValues(ctx, s.surveySheetID, "A:E")
	if err != nil {
		return nil, err
	}

	rows := make([]SurveyRow, 0, len(values))
	for i, raw := range values {
		if i == 0 {
			continue
		}
		row, ok := ParseSurveyRow(raw, i)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *GoogleSource) fetchValues(ctx context.Context, sheetID, cellRange string) ([][]string, error) {
	var out valuesResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetResult(&out).
		Get(fmt.Sprintf("/%s/values/%s", sheetID, cellRange))
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %s: %w", sheetID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch sheet %s: status %d", sheetID, resp.StatusCode())
	}
	return out.Values, nil
}

// ParseVacancyRow maps one raw sheet row to a VacancyRow. Rows without a
// title are dropped.
func ParseVacancyRow(raw []string) (VacancyRow, bool) {
	col := func(i int) string {
		if i < len(raw) {
			return strings.TrimSpace(raw[i])
		}
		return ""
	}

	row := VacancyRow{
		Title:        col(0),
		Description:  col(1),
		Emoji:        col(2),
		Category:     col(3),
		Link:         col(4),
		Level:        col(5),
		Salary:       col(6),
		Requirements: col(7),
		Benefits:     col(8),
		TagsRaw:      col(9),
	}
	if row.Title == "" {
		return VacancyRow{}, false
	}
	if row.Category == "" {
		row.Category = "Общее"
	}
	return row, true
}

// ParseSurveyRow maps one raw survey sheet row; position falls back to the
// row index when column A is not a number.
func ParseSurveyRow(raw []string, index int) (SurveyRow, bool) {
	col := func(i int) string {
		if i < len(raw) {
			return strings.TrimSpace(raw[i])
		}
		return ""
	}

	row := SurveyRow{
		Category: col(1),
		Field:    col(2),
		Question: col(3),
		Options:  col(4),
	}
	if row.Question == "" || row.Field == "" {
		return SurveyRow{}, false
	}

	if n, err := strconv.Atoi(col(0)); err == nil {
		row.Position = n
	} else {
		row.Position = index
	}
	return row, true
}
