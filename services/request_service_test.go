package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/barefootnomad/api/db"
	"github.com/barefootnomad/api/db/dbtest"
	"github.com/barefootnomad/api/events"
	"github.com/barefootnomad/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestService(t *testing.T) (RequestService, *db.GormDB, *recordingBus) {
	t.Helper()
	g := dbtest.New(t)
	bus := &recordingBus{}
	return NewRequestService(db.NewRequestRepo(g), db.NewAccommodationRepo(g), bus), g, bus
}

func TestCreateRequest(t *testing.T) {
	svc, g, _ := newRequestService(t)
	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)

	travel := time.Now().Add(72 * time.Hour).UTC().Truncate(time.Second)
	back := travel.Add(96 * time.Hour)
	hotel := uint(1)

	request, apiErr := svc.CreateRequest(owner.ID, &models.CreateTravelRequest{
		Origin:          "Kigali",
		Destination:     "Nairobi",
		TravelDate:      travel,
		ReturnDate:      &back,
		Reason:          "summit",
		AccommodationID: &hotel,
	})
	require.Nil(t, apiErr)
	assert.Equal(t, models.RequestPending, request.Status)
	assert.Equal(t, owner.ID, request.UserID)

	mine, apiErr := svc.ListMyRequests(owner.ID)
	require.Nil(t, apiErr)
	require.Len(t, mine, 1)
	assert.Equal(t, request.ID, mine[0].ID)
}

func TestCreateRequestValidation(t *testing.T) {
	svc, g, _ := newRequestService(t)
	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)

	travel := time.Now().Add(72 * time.Hour)
	before := travel.Add(-time.Hour)
	_, apiErr := svc.CreateRequest(owner.ID, &models.CreateTravelRequest{
		Origin: "Kigali", Destination: "Lagos", TravelDate: travel, ReturnDate: &before,
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	missing := uint(999)
	_, apiErr = svc.CreateRequest(owner.ID, &models.CreateTravelRequest{
		Origin: "Kigali", Destination: "Lagos", TravelDate: travel, AccommodationID: &missing,
	})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestGetRequestAccess(t *testing.T) {
	svc, g, _ := newRequestService(t)
	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)
	stranger := dbtest.CreateUser(t, g, "stranger@example.com", models.RoleRequester)
	admin := dbtest.CreateUser(t, g, "admin@example.com", models.RoleTravelAdmin)
	request := dbtest.CreateRequest(t, g, owner.ID)
	rid := idString(request.ID)

	_, apiErr := svc.GetRequest(rid, callerOf(owner))
	assert.Nil(t, apiErr)
	_, apiErr = svc.GetRequest(rid, callerOf(admin))
	assert.Nil(t, apiErr)

	_, apiErr = svc.GetRequest(rid, callerOf(stranger))
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, apiErr = svc.GetRequest("abc", callerOf(owner))
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestDecideRequest(t *testing.T) {
	svc, g, bus := newRequestService(t)
	owner := dbtest.CreateUser(t, g, "owner@example.com", models.RoleRequester)
	manager := dbtest.CreateUser(t, g, "manager@example.com", models.RoleManager)
	request := dbtest.CreateRequest(t, g, owner.ID)
	rid := idString(request.ID)
	ctx := context.Background()

	_, apiErr := svc.DecideRequest(ctx, rid, callerOf(owner), models.RequestApproved)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	pending, apiErr := svc.ListPendingRequests(callerOf(manager))
	require.Nil(t, apiErr)
	assert.Len(t, pending, 1)

	decided, apiErr := svc.DecideRequest(ctx, rid, callerOf(manager), models.RequestApproved)
	require.Nil(t, apiErr)
	assert.Equal(t, models.RequestApproved, decided.Status)
	require.NotNil(t, decided.ManagerID)
	assert.Equal(t, manager.ID, *decided.ManagerID)

	published := bus.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventRequestStatusChanged, published[0].Name)

	_, apiErr = svc.DecideRequest(ctx, rid, callerOf(manager), models.RequestRejected)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	_, apiErr = svc.DecideRequest(ctx, idString(request.ID+10), callerOf(manager), models.RequestRejected)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, apiErr = svc.ListPendingRequests(callerOf(owner))
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}
