package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolishDate(t *testing.T) {
	today := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
	}{
		{"dzisiaj", "2024-03-15"},
		{"Opublikowana: dziś", "2024-03-15"},
		{"wczoraj", "2024-03-14"},
		{"5 dni temu", "2024-03-10"},
		{"opublikowano 12dni temu", "2024-03-03"},
		{"2024-02-28", "2024-02-28"},
		{"01.03.2024", "2024-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePolishDate(tt.in, today)
			require.True(t, ok)
			assert.Equal(t, tt.want, FormatDate(got))
		})
	}
}

func TestParsePolishDate_Unparseable(t *testing.T) {
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"", "   ", "last week", "2024/03/01"} {
		_, ok := ParsePolishDate(in, today)
		assert.False(t, ok, "input %q", in)
	}
}

func TestDetectSeniority(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"HR Director", "director"},
		{"Dyrektor Personalny", "director"},
		{"CHRO", "director"},
		{"VP of People", "director"},
		{"Senior HR Business Partner", "senior"},
		{"Starszy specjalista ds. kadr", "senior"},
		{"Junior Recruiter", "junior"},
		{"Praktykant HR", "junior"},
		{"HR Manager", "mid"},
		{"Head of People", "mid"},
		{"Specjalista ds. kadr i płac", ""},
		{"", ""},
		// first matching group wins
		{"Senior Director of People", "director"},
		{"Junior Team Lead", "junior"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSeniority(tt.title))
		})
	}
}
