package services

import (
	"net/http"
	"testing"

	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/db/dbtest"
	"github.com/barefootnomad/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccommodationService(t *testing.T) {
	g := dbtest.New(t)
	svc := NewAccommodationService(db.NewAccommodationRepo(g))

	locations, apiErr := svc.ListLocations()
	require.Nil(t, apiErr)
	require.Len(t, locations, 3)
	assert.Equal(t, "Kigali", locations[0].Name)

	accommodations, apiErr := svc.ListAccommodations()
	require.Nil(t, apiErr)
	require.Len(t, accommodations, 5)
	assert.Equal(t, "Kigali Marriott Hotel", accommodations[0].AccommodationName)
	assert.Equal(t, "Kigali", accommodations[0].Location.Name)

	four, apiErr := svc.GetAccommodation("4")
	require.Nil(t, apiErr)
	assert.Equal(t, "Four Seasons Hotel", four.AccommodationName)
	assert.Equal(t, uint(2), four.LocationID)

	_, apiErr = svc.GetAccommodation("99")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, apiErr = svc.GetAccommodation("x")
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestCreateAccommodation(t *testing.T) {
	g := dbtest.New(t)
	svc := NewAccommodationService(db.NewAccommodationRepo(g))
	admin := models.Caller{ID: 1, Role: models.RoleTravelAdmin}

	_, apiErr := svc.CreateAccommodation(models.Caller{ID: 2, Role: models.RoleManager},
		&models.CreateAccommodationRequest{AccommodationName: "Nope Inn", LocationID: 1})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	created, apiErr := svc.CreateAccommodation(admin, &models.CreateAccommodationRequest{AccommodationName: "Lagos Continental", LocationID: 3})
	require.Nil(t, apiErr)
	assert.Equal(t, "Lagos", created.Location.Name)

	_, apiErr = svc.CreateAccommodation(admin, &models.CreateAccommodationRequest{AccommodationName: "Lagos Continental", LocationID: 3})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, apiErr = svc.CreateAccommodation(admin, &models.CreateAccommodationRequest{AccommodationName: "Nowhere", LocationID: 42})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}
