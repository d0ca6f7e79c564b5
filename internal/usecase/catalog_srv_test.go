package usecase

import (
	"context"
	"strings"
	"testing"

	"theatre-booking/internal/dto/request"
	"theatre-booking/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogFixture(t *testing.T) (*memStore, CatalogService) {
	t.Helper()
	store := newMemStore()
	images := storage.NewLocalStorage(t.TempDir(), zap.NewNop())
	return store, NewCatalogService(store.repository(), images, "/media/", zap.NewNop())
}

func TestTheatreHall_CapacityAndUniqueName(t *testing.T) {
	_, svc := newCatalogFixture(t)
	ctx := context.Background()

	hall, err := svc.CreateTheatreHall(ctx, &request.TheatreHallRequest{Name: "Main", Rows: 12, SeatsInRow: 20})
	require.NoError(t, err)
	assert.Equal(t, 240, hall.Capacity)

	_, err = svc.CreateTheatreHall(ctx, &request.TheatreHallRequest{Name: "Main", Rows: 1, SeatsInRow: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = svc.CreateTheatreHall(ctx, &request.TheatreHallRequest{Name: "Empty", Rows: 0, SeatsInRow: 5})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "rows")
}

func TestGenres_FilterByName(t *testing.T) {
	store, svc := newCatalogFixture(t)
	ctx := context.Background()
	store.addGenre("Drama")
	store.addGenre("Melodrama")
	store.addGenre("Comedy")

	list, err := svc.ListGenres(ctx, &request.NameFilterRequest{Name: "DRAMA"})
	require.NoError(t, err)

	require.Len(t, list.Data, 2)
	assert.Equal(t, "Drama", list.Data[0].Name)
	assert.Equal(t, "Melodrama", list.Data[1].Name)
}

func TestGenres_DeleteMissing(t *testing.T) {
	_, svc := newCatalogFixture(t)
	assert.ErrorIs(t, svc.DeleteGenre(context.Background(), uuid.New()), ErrNotFound)
}

func TestActors_FullNameAndImage(t *testing.T) {
	_, svc := newCatalogFixture(t)
	ctx := context.Background()

	actor, err := svc.CreateActor(ctx, &request.ActorRequest{FirstName: "Ian", LastName: "McKellen"})
	require.NoError(t, err)
	assert.Equal(t, "Ian McKellen", actor.FullName)
	assert.Nil(t, actor.Image)

	list, err := svc.ListActors(ctx, &request.NameFilterRequest{Name: "ian mck"})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)

	id := uuid.MustParse(actor.ID)
	updated, err := svc.UploadActorImage(ctx, id, "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.NotNil(t, updated.Image)
	assert.True(t, strings.HasPrefix(*updated.Image, "/media/actors/ian-mckellen-"))

	_, err = svc.UploadActorImage(ctx, id, "text/plain", strings.NewReader("nope"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "image")

	_, err = svc.UploadActorImage(ctx, uuid.New(), "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrNotFound)
}
