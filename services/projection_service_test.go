package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/viniciusalmeida93/ant-camp/models"
)

func TestHeatDisplayName(t *testing.T) {
	custom := "Elite Final"
	require.Equal(t, "Elite Final", heatDisplayName(&models.Heat{HeatNumber: 3, CustomName: &custom}))
	require.Equal(t, "Heat 3", heatDisplayName(&models.Heat{HeatNumber: 3}))

	empty := ""
	require.Equal(t, "Heat 3", heatDisplayName(&models.Heat{HeatNumber: 3, CustomName: &empty}))
}

func TestSortProjections(t *testing.T) {
	nine := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	ten := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	projections := []models.HeatProjection{
		{HeatID: 1, HeatNumber: 4},
		{HeatID: 2, HeatNumber: 2, ScheduledTime: &ten},
		{HeatID: 3, HeatNumber: 1, ScheduledTime: &nine},
		{HeatID: 4, HeatNumber: 3, ScheduledTime: &ten},
	}

	sortProjections(projections)

	// Scheduled heats first by time then number, unscheduled last.
	require.Equal(t, 3, projections[0].HeatID)
	require.Equal(t, 2, projections[1].HeatID)
	require.Equal(t, 4, projections[2].HeatID)
	require.Equal(t, 1, projections[3].HeatID)
}
