package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

func newPatientRepo(t *testing.T, photoColumnType string) *patientRepository {
	t.Helper()
	r, ok := NewPatientRepository(nil, WithPhotoColumnType(photoColumnType)).(*patientRepository)
	require.True(t, ok)
	return r
}

func TestPatientRowBindsPhotoByColumnType(t *testing.T) {
	photo := "\x89PNG"
	p := &model.Patient{PatientID: "001", Name: "Asha", Photo: &photo}

	row := newPatientRepo(t, "bytea").row(p, repository.WithPhotoField)
	assert.Equal(t, []byte(photo), row["photo"])

	row = newPatientRepo(t, "text").row(p, repository.WithPhotoField)
	assert.Equal(t, photo, row["photo"])
}

func TestPatientRowOmitsPhoto(t *testing.T) {
	photo := "img"
	p := &model.Patient{PatientID: "001", Name: "Asha", Age: 30, Photo: &photo}

	row := newPatientRepo(t, "bytea").row(p, repository.WithoutPhotoField)
	assert.NotContains(t, row, "photo")
	assert.Equal(t, 30, row["age"])
	assert.Equal(t, "Asha", row["name"])
}

func TestPatientRowNullPhoto(t *testing.T) {
	row := newPatientRepo(t, "bytea").row(&model.Patient{}, repository.WithPhotoField)
	v, ok := row["photo"]
	assert.True(t, ok)
	assert.Nil(t, v)
}
