package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staffing-service/internal/domain"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

func TestCreateShiftPublishesOpen(t *testing.T) {
	env := newTestEnv()
	svc := NewShiftService(env.shifts)
	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)

	shift, err := svc.CreateShift(context.Background(), organizer.ID, ShiftCreateInput{
		Title:      "  Hotel spa cover  ",
		StartTime:  env.now.Add(24 * time.Hour),
		EndTime:    env.now.Add(30 * time.Hour),
		Location:   "Hotel Aurora",
		HourlyRate: 70,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ShiftStatusOpen, shift.Status)
	assert.Equal(t, "Hotel spa cover", shift.Title)
	assert.NotEmpty(t, shift.ID)
}

func TestCreateShiftValidation(t *testing.T) {
	env := newTestEnv()
	svc := NewShiftService(env.shifts)
	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)

	cases := []struct {
		name  string
		input ShiftCreateInput
	}{
		{"blank title", ShiftCreateInput{
			Title:     "   ",
			StartTime: env.now, EndTime: env.now.Add(time.Hour), HourlyRate: 50,
		}},
		{"end before start", ShiftCreateInput{
			Title:     "Backwards",
			StartTime: env.now.Add(2 * time.Hour), EndTime: env.now.Add(time.Hour), HourlyRate: 50,
		}},
		{"zero rate", ShiftCreateInput{
			Title:     "Unpaid",
			StartTime: env.now, EndTime: env.now.Add(time.Hour), HourlyRate: 0,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateShift(context.Background(), organizer.ID, tc.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestListOpenShiftsFiltersStatus(t *testing.T) {
	env := newTestEnv()
	svc := NewShiftService(env.shifts)
	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)

	env.seedShift(t, organizer.ID, domain.ShiftStatusOpen, env.now.Add(24*time.Hour))
	env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(48*time.Hour))
	env.seedShift(t, organizer.ID, domain.ShiftStatusCancelled, env.now.Add(72*time.Hour))

	open, err := svc.ListOpenShifts(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, domain.ShiftStatusOpen, open[0].Status)
}

func TestListOrganizerShiftsScopedToOwner(t *testing.T) {
	env := newTestEnv()
	svc := NewShiftService(env.shifts)
	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	other := env.seedUser(t, "omar", domain.RoleOrganizer)

	env.seedShift(t, organizer.ID, domain.ShiftStatusOpen, env.now.Add(24*time.Hour))
	env.seedShift(t, organizer.ID, domain.ShiftStatusFilled, env.now.Add(48*time.Hour))
	env.seedShift(t, other.ID, domain.ShiftStatusOpen, env.now.Add(24*time.Hour))

	mine, err := svc.ListOrganizerShifts(context.Background(), organizer.ID, 20, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestGetShiftNotFound(t *testing.T) {
	env := newTestEnv()
	svc := NewShiftService(env.shifts)

	_, err := svc.GetShift(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
