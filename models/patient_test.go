package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientArchiveRestore(t *testing.T) {
	now := time.Now()
	patient := &Patient{ID: "PT-000001", Status: PatientActive}

	require.NoError(t, patient.Archive(now))
	assert.Equal(t, PatientArchived, patient.Status)
	require.NotNil(t, patient.ArchivedAt)
	assert.Equal(t, now, *patient.ArchivedAt)

	require.NoError(t, patient.Restore())
	assert.Equal(t, PatientActive, patient.Status)
	assert.Nil(t, patient.ArchivedAt)
}

func TestPatientArchiveRequiresActive(t *testing.T) {
	now := time.Now()

	archived := &Patient{Status: PatientArchived}
	assert.ErrorIs(t, archived.Archive(now), ErrPatientNotActive)

	purged := &Patient{Status: PatientPurged}
	assert.ErrorIs(t, purged.Archive(now), ErrPatientNotActive)
}

func TestPatientRestoreRequiresArchived(t *testing.T) {
	active := &Patient{Status: PatientActive}
	assert.ErrorIs(t, active.Restore(), ErrPatientNotArchived)
}

func TestPatientCanPurge(t *testing.T) {
	active := &Patient{Status: PatientActive}
	assert.ErrorIs(t, active.CanPurge(), ErrPatientNotArchived)

	archived := &Patient{Status: PatientArchived}
	assert.NoError(t, archived.CanPurge())
}

func TestPatientFullName(t *testing.T) {
	patient := &Patient{FirstName: "Maria", LastName: "Santos"}
	assert.Equal(t, "Maria Santos", patient.FullName())
}

func TestValidAppointmentStatus(t *testing.T) {
	for _, s := range []string{AppointmentScheduled, AppointmentConfirmed, AppointmentCompleted, AppointmentCancelled} {
		assert.True(t, ValidAppointmentStatus(s), s)
	}
	assert.False(t, ValidAppointmentStatus("PENDING"))
	assert.False(t, ValidAppointmentStatus(""))
}
