package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeStandaloneWins(t *testing.T) {
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tests := []LabTest{
		{ID: snowflake.ID(1), PatientID: 7, Name: "CBC", Source: SourceAnalyzer, TakenAt: day},
		{ID: snowflake.ID(2), PatientID: 7, Name: "CBC", Source: SourceStandalone, TakenAt: day.Add(2 * time.Hour)},
		{ID: snowflake.ID(3), PatientID: 7, Name: "CBC", Source: SourceVisit, TakenAt: day.Add(time.Hour)},
	}

	merged := Merge(tests)
	require.Len(t, merged, 1)
	assert.Equal(t, SourceStandalone, merged[0].Source)
	assert.Equal(t, snowflake.ID(2), merged[0].ID)
}

func TestMergeDistinctDaysKept(t *testing.T) {
	day := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	tests := []LabTest{
		{ID: snowflake.ID(1), PatientID: 7, Name: "Glucose", Source: SourceAnalyzer, TakenAt: day},
		{ID: snowflake.ID(2), PatientID: 7, Name: "Glucose", Source: SourceAnalyzer, TakenAt: day.Add(time.Hour)},
	}

	// One hour apart but across midnight, so both survive.
	merged := Merge(tests)
	assert.Len(t, merged, 2)
}

func TestMergeDistinctNamesAndPatientsKept(t *testing.T) {
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tests := []LabTest{
		{ID: snowflake.ID(1), PatientID: 7, Name: "CBC", Source: SourceVisit, TakenAt: day},
		{ID: snowflake.ID(2), PatientID: 7, Name: "Glucose", Source: SourceVisit, TakenAt: day},
		{ID: snowflake.ID(3), PatientID: 8, Name: "CBC", Source: SourceVisit, TakenAt: day},
	}

	merged := Merge(tests)
	assert.Len(t, merged, 3)
}

func TestMergeOrdersNewestFirst(t *testing.T) {
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	tests := []LabTest{
		{ID: snowflake.ID(1), PatientID: 7, Name: "CBC", Source: SourceVisit, TakenAt: day},
		{ID: snowflake.ID(2), PatientID: 7, Name: "Urinalysis", Source: SourceVisit, TakenAt: day.AddDate(0, 0, 1)},
	}

	merged := Merge(tests)
	require.Len(t, merged, 2)
	assert.Equal(t, "Urinalysis", merged[0].Name)
}
