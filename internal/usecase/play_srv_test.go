package usecase

import (
	"context"
	"testing"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/dto/request"
	"theatre-booking/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func mark(v float64) *float64 { return &v }

func TestAverageMark(t *testing.T) {
	assert.Nil(t, AverageMark(nil))
	assert.Equal(t, 3.75, *AverageMark([]float64{4.5, 3.0}))
	assert.Equal(t, 3.33, *AverageMark([]float64{3, 3, 4}))
	assert.Equal(t, 4.67, *AverageMark([]float64{5, 5, 4}))
}

func TestEvaluatePlay_ReplacesMarkAndAverages(t *testing.T) {
	store := newMemStore()
	publisher := &recordingPublisher{}
	svc := NewPlayService(store.repository(), publisher, "/media/", zap.NewNop())
	ctx := context.Background()

	play := store.addPlay("The Seagull")
	alice := store.addUser("alice@example.com", entity.RoleCustomer)
	bob := store.addUser("bob@example.com", entity.RoleCustomer)

	resp, err := svc.EvaluatePlay(ctx, alice.ID, play.ID, &request.EvaluatePlayRequest{Mark: mark(2)})
	require.NoError(t, err)
	require.NotNil(t, resp.AverageRating)
	assert.Equal(t, 2.0, *resp.AverageRating)

	// second mark from the same user replaces the first
	_, err = svc.EvaluatePlay(ctx, alice.ID, play.ID, &request.EvaluatePlayRequest{Mark: mark(4.5)})
	require.NoError(t, err)

	resp, err = svc.EvaluatePlay(ctx, bob.ID, play.ID, &request.EvaluatePlayRequest{Mark: mark(3)})
	require.NoError(t, err)
	assert.Equal(t, 3.75, *resp.AverageRating)

	stored, err := svc.GetPlay(ctx, play.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.75, *stored.AverageRating)

	published := publisher.published()
	require.Len(t, published, 3)
	rated, ok := published[2].(*events.PlayRated)
	require.True(t, ok)
	assert.Equal(t, 3.75, *rated.AverageRating)
}

func TestEvaluatePlay_RejectsBadMarks(t *testing.T) {
	store := newMemStore()
	svc := NewPlayService(store.repository(), nil, "/media/", zap.NewNop())
	play := store.addPlay("Faust")
	user := store.addUser("u@example.com", entity.RoleCustomer)

	for _, m := range []*float64{nil, mark(0.5), mark(5.01), mark(3.333)} {
		_, err := svc.EvaluatePlay(context.Background(), user.ID, play.ID, &request.EvaluatePlayRequest{Mark: m})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "mark")
	}

	p, err := svc.GetPlay(context.Background(), play.ID)
	require.NoError(t, err)
	assert.Nil(t, p.AverageRating)
}

func TestEvaluatePlay_UnknownPlay(t *testing.T) {
	store := newMemStore()
	svc := NewPlayService(store.repository(), nil, "/media/", zap.NewNop())
	user := store.addUser("u@example.com", entity.RoleCustomer)

	_, err := svc.EvaluatePlay(context.Background(), user.ID, uuid.New(), &request.EvaluatePlayRequest{Mark: mark(4)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreatePlay_WithRelationsAndFilter(t *testing.T) {
	store := newMemStore()
	svc := NewPlayService(store.repository(), nil, "/media/", zap.NewNop())
	ctx := context.Background()

	drama := store.addGenre("Drama")
	comedy := store.addGenre("Comedy")
	actor := store.addActor("Judi", "Dench")

	created, err := svc.CreatePlay(ctx, &request.PlayRequest{
		Title:  "Macbeth",
		Genres: []string{drama.ID.String(), comedy.ID.String(), drama.ID.String()},
		Actors: []string{actor.ID.String()},
	})
	require.NoError(t, err)
	assert.Len(t, created.Genres, 2)
	require.Len(t, created.Actors, 1)
	assert.Equal(t, "Judi Dench", created.Actors[0].FullName)

	_, err = svc.CreatePlay(ctx, &request.PlayRequest{Title: "Twelfth Night", Genres: []string{comedy.ID.String()}})
	require.NoError(t, err)

	list, err := svc.ListPlays(ctx, &request.PlayFilterRequest{GenreIDs: []uuid.UUID{drama.ID, comedy.ID}})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Macbeth", list.Data[0].Title)
	assert.ElementsMatch(t, []string{"Drama", "Comedy"}, list.Data[0].Genres)
	assert.Equal(t, []string{"Judi Dench"}, list.Data[0].Actors)

	list, err = svc.ListPlays(ctx, &request.PlayFilterRequest{GenreIDs: []uuid.UUID{comedy.ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)
}

func TestCreatePlay_Rejections(t *testing.T) {
	store := newMemStore()
	svc := NewPlayService(store.repository(), nil, "/media/", zap.NewNop())
	ctx := context.Background()
	store.addPlay("Macbeth")

	_, err := svc.CreatePlay(ctx, &request.PlayRequest{Title: "Macbeth"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")

	_, err = svc.CreatePlay(ctx, &request.PlayRequest{Title: "Othello", Genres: []string{uuid.NewString()}})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["genres"], "object does not exist")

	_, err = svc.CreatePlay(ctx, &request.PlayRequest{Title: ""})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
}

func TestEvaluatePlay_AcceptsRangeBounds(t *testing.T) {
	store := newMemStore()
	svc := NewPlayService(store.repository(), nil, "/media/", zap.NewNop())
	play := store.addPlay("Woyzeck")

	for _, m := range []float64{1, 5, 2.75} {
		user := store.addUser(uuid.NewString()+"@example.com", entity.RoleCustomer)
		_, err := svc.EvaluatePlay(context.Background(), user.ID, play.ID, &request.EvaluatePlayRequest{Mark: mark(m)})
		require.NoError(t, err)
	}

	p, err := svc.GetPlay(context.Background(), play.ID)
	require.NoError(t, err)
	require.NotNil(t, p.AverageRating)
	assert.InDelta(t, 2.92, *p.AverageRating, 1e-9)
}
