package usecase

import (
	"context"
	"testing"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserService_ProfileListDelete(t *testing.T) {
	store := newMemStore()
	svc := NewUserService(store.repository(), zap.NewNop())
	ctx := context.Background()

	admin := store.addUser("admin@example.com", entity.RoleAdmin)
	viewer := store.addUser("viewer@example.com", entity.RoleCustomer)

	profile, err := svc.GetProfile(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsStaff)

	list, err := svc.GetAllUsers(ctx, &request.PaginatedRequest{Page: 1, PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)
	assert.Len(t, list.Data, 1)

	require.NoError(t, svc.DeleteUser(ctx, viewer.ID))

	_, err = svc.GetProfile(ctx, viewer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, viewer.ID), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, uuid.New()), ErrNotFound)
}
