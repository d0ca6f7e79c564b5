package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/dto/request"
	"theatre-booking/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	store       *memStore
	publisher   *recordingPublisher
	reservation ReservationService
	performance PerformanceService
	user        *entity.User
	other       *entity.User
	show        *entity.Performance
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	store := newMemStore()
	publisher := &recordingPublisher{}
	repo := store.repository()

	hall := store.addHall("Main Stage", 10, 10)
	play := store.addPlay("Hamlet")

	return &bookingFixture{
		store:       store,
		publisher:   publisher,
		reservation: NewReservationService(repo, publisher, zap.NewNop()),
		performance: NewPerformanceService(repo, zap.NewNop()),
		user:        store.addUser("viewer@example.com", entity.RoleCustomer),
		other:       store.addUser("other@example.com", entity.RoleCustomer),
		show:        store.addPerformance(play, hall, time.Date(2026, 11, 2, 19, 0, 0, 0, time.UTC)),
	}
}

func (f *bookingFixture) book(t *testing.T, user *entity.User, seats ...[2]int) (string, error) {
	t.Helper()

	req := &request.CreateReservationRequest{}
	for _, s := range seats {
		req.Tickets = append(req.Tickets, request.TicketRequest{Row: s[0], Seat: s[1], Performance: f.show.ID.String()})
	}

	resp, err := f.reservation.CreateReservation(context.Background(), user.ID, req)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (f *bookingFixture) available(t *testing.T) int {
	t.Helper()
	detail, err := f.performance.GetPerformance(context.Background(), f.show.ID)
	require.NoError(t, err)
	return detail.AvailableTickets
}

func TestValidateSeat(t *testing.T) {
	hall := &entity.TheatreHall{Rows: 10, SeatsInRow: 12}

	tests := []struct {
		name   string
		row    int
		seat   int
		fields map[string]string
	}{
		{name: "first seat", row: 1, seat: 1},
		{name: "last seat", row: 10, seat: 12},
		{name: "row zero", row: 0, seat: 1, fields: map[string]string{"row": "must be between 1 and 10"}},
		{name: "row too high", row: 11, seat: 1, fields: map[string]string{"row": "must be between 1 and 10"}},
		{name: "seat too high", row: 1, seat: 13, fields: map[string]string{"seat": "must be between 1 and 12"}},
		{name: "both negative", row: -1, seat: -1, fields: map[string]string{
			"row":  "must be between 1 and 10",
			"seat": "must be between 1 and 12",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeat(hall, tt.row, tt.seat)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateReservation_AvailabilityLifecycle(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	assert.Equal(t, 100, f.available(t))

	id, err := f.book(t, f.user, [2]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 99, f.available(t))

	detail, err := f.performance.GetPerformance(ctx, f.show.ID)
	require.NoError(t, err)
	require.Len(t, detail.TakenPlaces, 1)
	assert.Equal(t, 1, detail.TakenPlaces[0].Row)
	assert.Equal(t, 2, detail.TakenPlaces[0].Seat)

	cancelled, err := f.reservation.CancelReservation(ctx, f.user.ID, uuid.MustParse(id))
	require.NoError(t, err)
	assert.False(t, cancelled.Status)
	assert.Equal(t, 100, f.available(t))

	// cancellation keeps the ticket rows
	assert.Equal(t, 1, f.store.ticketCount())
	require.Len(t, cancelled.Tickets, 1)
}

func TestCreateReservation_RebookAfterCancel(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, err := f.book(t, f.user, [2]int{3, 4})
	require.NoError(t, err)

	_, err = f.book(t, f.other, [2]int{3, 4})
	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "tickets[0]", conflict.Field)
	assert.ErrorIs(t, err, ErrSeatAlreadyBooked)

	_, err = f.reservation.CancelReservation(ctx, f.user.ID, uuid.MustParse(first))
	require.NoError(t, err)

	_, err = f.book(t, f.other, [2]int{3, 4})
	require.NoError(t, err)
	assert.Equal(t, 99, f.available(t))
}

func TestCreateReservation_AllOrNothing(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.book(t, f.user, [2]int{5, 5})
	require.NoError(t, err)

	_, err = f.book(t, f.other, [2]int{1, 1}, [2]int{5, 5})
	require.ErrorIs(t, err, ErrSeatAlreadyBooked)

	_, err = f.book(t, f.other, [2]int{1, 1}, [2]int{11, 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be between 1 and 10", verr.Fields["tickets[1].row"])

	assert.Equal(t, 1, f.store.ticketCount())
	assert.Equal(t, 99, f.available(t))
}

func TestCreateReservation_DuplicateSeatInRequest(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.book(t, f.user, [2]int{2, 2}, [2]int{2, 2})

	var conflict *SeatConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "tickets[1]", conflict.Field)
	assert.Zero(t, f.store.ticketCount())
}

func TestCreateReservation_UnknownPerformance(t *testing.T) {
	f := newBookingFixture(t)

	req := &request.CreateReservationRequest{Tickets: []request.TicketRequest{
		{Row: 1, Seat: 1, Performance: uuid.NewString()},
	}}
	_, err := f.reservation.CreateReservation(context.Background(), f.user.ID, req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["tickets[0].performance"], "object does not exist")
}

func TestCreateReservation_EmptyTickets(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.reservation.CreateReservation(context.Background(), f.user.ID, &request.CreateReservationRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "tickets")
}

func TestCreateReservation_PublishesEvent(t *testing.T) {
	f := newBookingFixture(t)

	id, err := f.book(t, f.user, [2]int{7, 1}, [2]int{7, 2})
	require.NoError(t, err)

	published := f.publisher.published()
	require.Len(t, published, 1)

	created, ok := published[0].(*events.ReservationCreated)
	require.True(t, ok)
	assert.Equal(t, id, created.ReservationID)
	assert.Len(t, created.Tickets, 2)
}

func TestCreateReservation_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newBookingFixture(t)
	f.publisher.err = assert.AnError

	_, err := f.book(t, f.user, [2]int{1, 1})
	assert.NoError(t, err)
}

func TestCancelReservation_Ownership(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	id, err := f.book(t, f.user, [2]int{1, 1})
	require.NoError(t, err)

	_, err = f.reservation.CancelReservation(ctx, f.other.ID, uuid.MustParse(id))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.reservation.CancelReservation(ctx, f.user.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.reservation.GetReservation(ctx, f.other.ID, uuid.MustParse(id))
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 99, f.available(t))
}

func TestCancelReservation_Twice(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	id, err := f.book(t, f.user, [2]int{1, 1})
	require.NoError(t, err)

	_, err = f.reservation.CancelReservation(ctx, f.user.ID, uuid.MustParse(id))
	require.NoError(t, err)

	resp, err := f.reservation.CancelReservation(ctx, f.user.ID, uuid.MustParse(id))
	require.NoError(t, err)
	assert.False(t, resp.Status)

	// one created and one cancelled event, the second cancel is a no-op
	assert.Len(t, f.publisher.published(), 2)
}

func TestListReservations_ScopedToUser(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.book(t, f.user, [2]int{1, 1})
	require.NoError(t, err)
	_, err = f.book(t, f.user, [2]int{1, 2}, [2]int{1, 3})
	require.NoError(t, err)
	_, err = f.book(t, f.other, [2]int{2, 1})
	require.NoError(t, err)

	list, err := f.reservation.ListReservations(ctx, f.user.ID, &request.PaginatedRequest{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), list.Pagination.Total)
	require.Len(t, list.Data, 2)
	for _, reservation := range list.Data {
		require.NotEmpty(t, reservation.Tickets)
		assert.Equal(t, "Hamlet", reservation.Tickets[0].Performance.PlayTitle)
		assert.Equal(t, "Main Stage", reservation.Tickets[0].Performance.TheatreHallName)
	}
}

func TestCreateReservation_ConcurrentSameSeat(t *testing.T) {
	f := newBookingFixture(t)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user := f.store.addUser(uuid.NewString()+"@example.com", entity.RoleCustomer)
			if _, err := f.book(t, user, [2]int{4, 4}); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, 99, f.available(t))
}
