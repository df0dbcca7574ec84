package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"hirepulse/internal/sheets"
)

func TestSyncRows_CreateThenUpdateAndDeactivate(t *testing.T) {
	vacancies := newFakeVacancyRepo()
	vacancyTags := newFakeVacancyTagRepo()
	u := NewVacancySync(nil, vacancies, vacancyTags, newFakeTagRepo(), nil)

	first := []sheets.VacancyRow{
		{Title: "Frontend Dev", Category: "IT", TagsRaw: "React, Senior"},
		{Title: "Backend Dev", Category: "IT", TagsRaw: "Go, Senior"},
	}
	res, err := u.SyncRows(context.Background(), first)
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if res.Synced != 2 || res.Updated != 0 || res.Deactivated != 0 {
		t.Fatalf("unexpected first sync result: %+v", res)
	}

	// Second pass: one row survives with new tags, the other is gone.
	second := []sheets.VacancyRow{
		{Title: "Frontend Dev", Category: "IT", TagsRaw: "Vue, Middle"},
	}
	res, err = u.SyncRows(context.Background(), second)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if res.Synced != 0 || res.Updated != 1 || res.Deactivated != 1 {
		t.Fatalf("unexpected second sync result: %+v", res)
	}

	var activeCount int
	for _, v := range vacancies.rows {
		if !v.IsActive {
			continue
		}
		activeCount++
		got := vacancyTags.byVacancy[v.ID]
		if !reflect.DeepEqual(got, []string{"Vue", "Middle"}) {
			t.Fatalf("expected tag set replaced on resync, got %v", got)
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly 1 active vacancy, got %d", activeCount)
	}
}

func TestSyncRows_ResultChanged(t *testing.T) {
	if (SyncResult{}).Changed() {
		t.Fatal("empty result must not report changes")
	}
	if !(SyncResult{Updated: 1}).Changed() {
		t.Fatal("updated rows must report changes")
	}
}

func TestSyncRows_WorkTypeDetection(t *testing.T) {
	vacancies := newFakeVacancyRepo()
	u := NewVacancySync(nil, vacancies, newFakeVacancyTagRepo(), newFakeTagRepo(), nil)

	rows := []sheets.VacancyRow{
		{Title: "Dev", Category: "IT", Description: "Удалённая работа. Город: Казань"},
	}
	if _, err := u.SyncRows(context.Background(), rows); err != nil {
		t.Fatalf("sync: %v", err)
	}

	for _, v := range vacancies.rows {
		if v.WorkType != "Удалёнка" {
			t.Fatalf("expected work type detected from description, got %q", v.WorkType)
		}
		if v.Location != "Казань" {
			t.Fatalf("expected location detected from description, got %q", v.Location)
		}
	}
}

func TestSyncAll_SourceError(t *testing.T) {
	src := &fakeSheetSource{err: errors.New("sheet unreachable")}
	u := NewVacancySync(src, newFakeVacancyRepo(), newFakeVacancyTagRepo(), newFakeTagRepo(), nil)

	if _, err := u.SyncAll(context.Background()); err == nil {
		t.Fatal("expected source error to propagate")
	}
}
