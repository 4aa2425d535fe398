package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestValidateTerm(t *testing.T) {
	tests := []struct {
		name    string
		term    *CanonicalTerm
		wantErr error
	}{
		{
			name:    "valid term",
			term:    &CanonicalTerm{Text: "Return on Equity", Label: "ROE"},
			wantErr: nil,
		},
		{
			name:    "valid term without label",
			term:    &CanonicalTerm{Text: "股本回报率"},
			wantErr: nil,
		},
		{
			name:    "valid term with ID 0 and no vector",
			term:    &CanonicalTerm{Id: 0, Text: "Net Profit", Vector: nil},
			wantErr: nil,
		},
		{
			name:    "nil term",
			term:    nil,
			wantErr: ErrInvalidTerm,
		},
		{
			name:    "empty text",
			term:    &CanonicalTerm{Text: ""},
			wantErr: ErrEmptyTermText,
		},
		{
			name:    "whitespace text",
			term:    &CanonicalTerm{Text: " \t\n"},
			wantErr: ErrEmptyTermText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTerm(tt.term)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateTerm() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateTerm() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidTerm) {
				t.Errorf("ValidateTerm() error = %v, should wrap ErrInvalidTerm", err)
			}
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		threshold float64
		valid     bool
	}{
		{0, true},
		{0.65, true},
		{1, true},
		{-0.01, false},
		{1.01, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		err := ValidateThreshold(tt.threshold)
		if tt.valid && err != nil {
			t.Errorf("ValidateThreshold(%v) unexpected error = %v", tt.threshold, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("ValidateThreshold(%v) error = %v, want ErrInvalidThreshold", tt.threshold, err)
		}
	}
}

func TestValidateHistoryRecord(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		record  *HistoryRecord
		wantErr error
	}{
		{
			name:    "valid record",
			record:  &HistoryRecord{Query: "ROE", Type: "search", ResultsCount: 1, Timestamp: validTime},
			wantErr: nil,
		},
		{
			name:    "valid record with empty query",
			record:  &HistoryRecord{Type: "text_standardize", Timestamp: validTime},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidHistoryRecord,
		},
		{
			name:    "empty type",
			record:  &HistoryRecord{Query: "ROE", Timestamp: validTime},
			wantErr: ErrEmptyHistoryType,
		},
		{
			name:    "future timestamp",
			record:  &HistoryRecord{Query: "ROE", Type: "search", Timestamp: futureTime},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHistoryRecord(tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateHistoryRecord() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateHistoryRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidTimestamp(t *testing.T) {
	if !IsValidTimestamp(time.Now().Add(-time.Minute)) {
		t.Error("past timestamp should be valid")
	}
	if !IsValidTimestamp(time.Time{}) {
		t.Error("zero timestamp should be valid")
	}
	if IsValidTimestamp(time.Now().Add(time.Hour)) {
		t.Error("future timestamp should be invalid")
	}
}
