package store

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func app(id, petID string, st models.ApplicationStatus) models.Application {
	return models.Application{
		ID:        id,
		Pet:       models.Ref{ID: petID, Name: "Rex"},
		Applicant: models.Ref{ID: "u1", Name: "Alice"},
		Status:    st,
	}
}

func TestApply_Unauthenticated_RedirectsWithoutRequest(t *testing.T) {
	api := &fakeAPI{}
	nav := &navRecorder{}
	s := NewAdoptionStore(api, authFlag(false), nav, nil)

	_, err := s.Apply(context.Background(), "p1")
	require.ErrorIs(t, err, common.ErrLoginRequired)

	assert.Equal(t, []string{"Please login to apply for adoption"}, nav.got())
	assert.Equal(t, 0, api.total())
	assert.Equal(t, StatusIdle, s.Snapshot().Status)
}

func TestApply_Success(t *testing.T) {
	api := &fakeAPI{apply: func(_ context.Context, petID string) (*models.Application, error) {
		a := app("a1", petID, models.StatusPending)
		return &a, nil
	}}
	s := NewAdoptionStore(api, authFlag(true), nil, nil)

	got, err := s.Apply(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.Pet.ID)

	st := s.Snapshot()
	require.Len(t, st.Mine, 1)
	assert.Equal(t, models.StatusPending, st.Mine[0].Status)
	assert.Equal(t, MsgApplicationSubmitted, st.SuccessMessage)

	s.ClearSuccessMessage()
	assert.Empty(t, s.Snapshot().SuccessMessage)
}

func TestApply_Duplicate_ShowsServerMessage(t *testing.T) {
	calls := 0
	api := &fakeAPI{apply: func(_ context.Context, petID string) (*models.Application, error) {
		calls++
		if calls > 1 {
			return nil, &client.APIError{StatusCode: 400, Message: "You have already applied for this pet"}
		}
		a := app("a1", petID, models.StatusPending)
		return &a, nil
	}}
	s := NewAdoptionStore(api, authFlag(true), nil, nil)
	ctx := context.Background()

	_, err := s.Apply(ctx, "p1")
	require.NoError(t, err)
	_, err = s.Apply(ctx, "p1")
	require.Error(t, err)

	st := s.Snapshot()
	assert.Len(t, st.Mine, 1)
	assert.Equal(t, StatusRejected, st.Status)
	assert.Equal(t, "You have already applied for this pet", st.Error)
	assert.Empty(t, st.SuccessMessage)
}

func TestFetchMineAndAll_AreSeparateViews(t *testing.T) {
	mine := true
	api := &fakeAPI{listApps: func(context.Context) ([]models.Application, error) {
		if mine {
			return []models.Application{app("a1", "p1", models.StatusPending)}, nil
		}
		return []models.Application{
			app("a1", "p1", models.StatusPending),
			app("a2", "p2", models.StatusRejected),
		}, nil
	}}
	s := NewAdoptionStore(api, authFlag(true), nil, nil)
	ctx := context.Background()

	_, err := s.FetchMine(ctx)
	require.NoError(t, err)
	mine = false
	_, err = s.FetchAll(ctx)
	require.NoError(t, err)

	st := s.Snapshot()
	assert.Len(t, st.Mine, 1)
	assert.Len(t, st.All, 2)
}

func TestUpdateStatus_UpdatesBothViews(t *testing.T) {
	api := &fakeAPI{
		listApps: func(context.Context) ([]models.Application, error) {
			return []models.Application{app("a1", "p1", models.StatusPending), app("a2", "p2", models.StatusPending)}, nil
		},
		updateStatus: func(_ context.Context, id string, st models.ApplicationStatus) (*models.Application, error) {
			a := app(id, "p1", st)
			return &a, nil
		},
	}
	s := NewAdoptionStore(api, authFlag(true), nil, nil)
	ctx := context.Background()
	_, err := s.FetchMine(ctx)
	require.NoError(t, err)
	_, err = s.FetchAll(ctx)
	require.NoError(t, err)

	_, err = s.UpdateStatus(ctx, "a1", models.StatusApproved)
	require.NoError(t, err)

	st := s.Snapshot()
	assert.Equal(t, models.StatusApproved, st.Mine[0].Status)
	assert.Equal(t, models.StatusApproved, st.All[0].Status)
	assert.Equal(t, models.StatusPending, st.All[1].Status)
	assert.Equal(t, MsgStatusUpdated, st.SuccessMessage)
}

func TestUpdateStatus_RefusedLocally(t *testing.T) {
	api := &fakeAPI{
		listApps: func(context.Context) ([]models.Application, error) {
			return []models.Application{app("a1", "p1", models.StatusApproved)}, nil
		},
	}
	s := NewAdoptionStore(api, authFlag(true), nil, nil)
	ctx := context.Background()
	_, err := s.FetchAll(ctx)
	require.NoError(t, err)

	_, err = s.UpdateStatus(ctx, "a1", models.StatusRejected)
	require.ErrorIs(t, err, common.ErrInvalidTransition)

	_, err = s.UpdateStatus(ctx, "a9", models.StatusPending)
	require.ErrorIs(t, err, common.ErrInvalidTransition)

	assert.Equal(t, 0, api.count("UpdateApplicationStatus"))
	assert.Equal(t, models.StatusApproved, s.Snapshot().All[0].Status)
}

func TestUpdateStatus_ServerRefusal(t *testing.T) {
	api := &fakeAPI{updateStatus: func(context.Context, string, models.ApplicationStatus) (*models.Application, error) {
		return nil, &client.APIError{StatusCode: 400, Message: "Application has already been processed"}
	}}
	s := NewAdoptionStore(api, authFlag(true), nil, nil)

	_, err := s.UpdateStatus(context.Background(), "a1", models.StatusApproved)
	require.Error(t, err)
	assert.Equal(t, "Application has already been processed", s.Snapshot().Error)

	s.ClearError()
	assert.Empty(t, s.Snapshot().Error)
}
