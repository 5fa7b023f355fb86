package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"aigateway/internal/domain"
)

type stubHistory struct {
	domain.HistoryRepository
	records  []domain.HistoryRecord
	countErr error
}

func (s stubHistory) List(context.Context, int, int) ([]domain.HistoryRecord, error) {
	return s.records, nil
}

func (s stubHistory) Count(context.Context) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.records)), nil
}

func TestPrintHistory(t *testing.T) {
	repo := stubHistory{records: []domain.HistoryRecord{
		{ID: 2, Kind: domain.HistoryImage, Prompt: "a red cat", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
	}}
	var out bytes.Buffer
	if err := printHistory(context.Background(), &out, repo, 20, 0, false); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	if !strings.Contains(out.String(), "a red cat") || !strings.HasSuffix(out.String(), "1 of 1 records\n") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestPrintHistoryReportsCountFailure(t *testing.T) {
	boom := errors.New("database is locked")
	repo := stubHistory{records: []domain.HistoryRecord{{ID: 1, Kind: domain.HistoryChat}}, countErr: boom}
	var out bytes.Buffer
	err := printHistory(context.Background(), &out, repo, 20, 0, false)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if strings.Contains(out.String(), "records") {
		t.Fatalf("summary printed despite failure: %q", out.String())
	}
}
