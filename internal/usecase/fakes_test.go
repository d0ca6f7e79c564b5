package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"theatre-booking/internal/data/entity"
	"theatre-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore backs every fake repository with maps guarded by one mutex.
type memStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*entity.User
	sessions     map[string]*entity.Session
	genres       map[uuid.UUID]*entity.Genre
	actors       map[uuid.UUID]*entity.Actor
	plays        map[uuid.UUID]*entity.Play
	playGenres   map[uuid.UUID][]uuid.UUID
	playActors   map[uuid.UUID][]uuid.UUID
	halls        map[uuid.UUID]*entity.TheatreHall
	performances map[uuid.UUID]*entity.Performance
	reservations map[uuid.UUID]*entity.Reservation
	tickets      []*entity.Ticket
	ratings      map[[2]uuid.UUID]*entity.Rating
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[uuid.UUID]*entity.User),
		sessions:     make(map[string]*entity.Session),
		genres:       make(map[uuid.UUID]*entity.Genre),
		actors:       make(map[uuid.UUID]*entity.Actor),
		plays:        make(map[uuid.UUID]*entity.Play),
		playGenres:   make(map[uuid.UUID][]uuid.UUID),
		playActors:   make(map[uuid.UUID][]uuid.UUID),
		halls:        make(map[uuid.UUID]*entity.TheatreHall),
		performances: make(map[uuid.UUID]*entity.Performance),
		reservations: make(map[uuid.UUID]*entity.Reservation),
		ratings:      make(map[[2]uuid.UUID]*entity.Rating),
	}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:        &fakeUserRepo{m},
		Session:     &fakeSessionRepo{m},
		Genre:       &fakeGenreRepo{m},
		Actor:       &fakeActorRepo{m},
		Play:        &fakePlayRepo{m},
		TheatreHall: &fakeHallRepo{m},
		Performance: &fakePerformanceRepo{m},
		Reservation: &fakeReservationRepo{m},
		Ticket:      &fakeTicketRepo{m},
		Rating:      &fakeRatingRepo{m},
	}
}

// ==================== seeding helpers ====================

func (m *memStore) addUser(email string, role entity.UserRole) *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := &entity.User{Base: entity.Base{ID: uuid.New(), CreatedAt: time.Now()}, Email: email, Role: role, IsActive: true}
	m.users[user.ID] = user
	return user
}

func (m *memStore) addHall(name string, rows, seats int) *entity.TheatreHall {
	m.mu.Lock()
	defer m.mu.Unlock()
	hall := &entity.TheatreHall{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Name: name, Rows: rows, SeatsInRow: seats}
	m.halls[hall.ID] = hall
	return hall
}

func (m *memStore) addPlay(title string) *entity.Play {
	m.mu.Lock()
	defer m.mu.Unlock()
	play := &entity.Play{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Title: title}
	m.plays[play.ID] = play
	return play
}

func (m *memStore) addGenre(name string) *entity.Genre {
	m.mu.Lock()
	defer m.mu.Unlock()
	genre := &entity.Genre{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Name: name}
	m.genres[genre.ID] = genre
	return genre
}

func (m *memStore) addActor(first, last string) *entity.Actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	actor := &entity.Actor{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, FirstName: first, LastName: last}
	m.actors[actor.ID] = actor
	return actor
}

func (m *memStore) addPerformance(play *entity.Play, hall *entity.TheatreHall, at time.Time) *entity.Performance {
	m.mu.Lock()
	defer m.mu.Unlock()
	performance := &entity.Performance{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, PlayID: play.ID, TheatreHallID: hall.ID, ShowTime: at}
	m.performances[performance.ID] = performance
	return performance
}

func (m *memStore) ticketCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickets)
}

// activeCount must be called with the lock held.
func (m *memStore) activeCount(performanceID uuid.UUID) int {
	n := 0
	for _, t := range m.tickets {
		if t.PerformanceID == performanceID && t.Active {
			n++
		}
	}
	return n
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ==================== users and sessions ====================

type fakeUserRepo struct{ m *memStore }

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, u := range f.m.users {
		if u.Email == user.Email && u.DeletedAt == nil {
			return repository.ErrDuplicate
		}
	}
	copied := *user
	f.m.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if u, ok := f.m.users[id]; ok && u.DeletedAt == nil {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, u := range f.m.users {
		if u.Email == strings.ToLower(email) && u.DeletedAt == nil {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var users []*entity.User
	for _, u := range f.m.users {
		if u.DeletedAt == nil {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return page(users, limit, offset), nil
}

func (f *fakeUserRepo) CountAll(ctx context.Context) (int64, error) {
	users, _ := f.FindAll(ctx, 0, 0)
	return int64(len(users)), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *user
	f.m.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	u, ok := f.m.users[id]
	if !ok || u.DeletedAt != nil {
		return fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	now := time.Now()
	u.DeletedAt = &now
	u.IsActive = false
	return nil
}

type fakeSessionRepo struct{ m *memStore }

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	copied := *session
	f.m.sessions[session.TokenHash] = &copied
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, tokenHash string) (*entity.Session, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	s, ok := f.m.sessions[tokenHash]
	if !ok || !s.IsValid(time.Now()) {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, tokenHash string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	s, ok := f.m.sessions[tokenHash]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (f *fakeSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	now := time.Now()
	for _, s := range f.m.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeSessionRepo) CleanExpiredSessions(ctx context.Context) (int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var n int64
	for hash, s := range f.m.sessions {
		if !s.IsValid(time.Now()) {
			delete(f.m.sessions, hash)
			n++
		}
	}
	return n, nil
}

// ==================== catalog ====================

type fakeGenreRepo struct{ m *memStore }

func (f *fakeGenreRepo) Create(ctx context.Context, genre *entity.Genre) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, g := range f.m.genres {
		if g.Name == genre.Name {
			return repository.ErrDuplicate
		}
	}
	copied := *genre
	f.m.genres[genre.ID] = &copied
	return nil
}

func (f *fakeGenreRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if g, ok := f.m.genres[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeGenreRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Genre, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.Genre
	for _, id := range ids {
		if g, ok := f.m.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGenreRepo) FindAll(ctx context.Context, name string, limit, offset int) ([]*entity.Genre, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.Genre
	for _, g := range f.m.genres {
		if strings.Contains(strings.ToLower(g.Name), strings.ToLower(name)) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (f *fakeGenreRepo) CountAll(ctx context.Context, name string) (int64, error) {
	out, _ := f.FindAll(ctx, name, 0, 0)
	return int64(len(out)), nil
}

func (f *fakeGenreRepo) FindByPlayIDs(ctx context.Context, playIDs []uuid.UUID) (map[uuid.UUID][]*entity.Genre, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make(map[uuid.UUID][]*entity.Genre)
	for _, playID := range playIDs {
		for _, id := range f.m.playGenres[playID] {
			out[playID] = append(out[playID], f.m.genres[id])
		}
	}
	return out, nil
}

func (f *fakeGenreRepo) Update(ctx context.Context, genre *entity.Genre) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, g := range f.m.genres {
		if g.Name == genre.Name && g.ID != genre.ID {
			return repository.ErrDuplicate
		}
	}
	if _, ok := f.m.genres[genre.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *genre
	f.m.genres[genre.ID] = &copied
	return nil
}

func (f *fakeGenreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.genres[id]; !ok {
		return fmt.Errorf("genre %s: %w", id, repository.ErrNotFound)
	}
	delete(f.m.genres, id)
	return nil
}

type fakeActorRepo struct{ m *memStore }

func (f *fakeActorRepo) Create(ctx context.Context, actor *entity.Actor) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	copied := *actor
	f.m.actors[actor.ID] = &copied
	return nil
}

func (f *fakeActorRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Actor, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if a, ok := f.m.actors[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeActorRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Actor, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.Actor
	for _, id := range ids {
		if a, ok := f.m.actors[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActorRepo) FindAll(ctx context.Context, fullName string, limit, offset int) ([]*entity.Actor, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.Actor
	for _, a := range f.m.actors {
		if strings.Contains(strings.ToLower(a.FullName()), strings.ToLower(fullName)) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return page(out, limit, offset), nil
}

func (f *fakeActorRepo) CountAll(ctx context.Context, fullName string) (int64, error) {
	out, _ := f.FindAll(ctx, fullName, 0, 0)
	return int64(len(out)), nil
}

func (f *fakeActorRepo) FindByPlayIDs(ctx context.Context, playIDs []uuid.UUID) (map[uuid.UUID][]*entity.Actor, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make(map[uuid.UUID][]*entity.Actor)
	for _, playID := range playIDs {
		for _, id := range f.m.playActors[playID] {
			out[playID] = append(out[playID], f.m.actors[id])
		}
	}
	return out, nil
}

func (f *fakeActorRepo) Update(ctx context.Context, actor *entity.Actor) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.actors[actor.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *actor
	f.m.actors[actor.ID] = &copied
	return nil
}

func (f *fakeActorRepo) UpdateImage(ctx context.Context, id uuid.UUID, imagePath string) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	a, ok := f.m.actors[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.ImagePath = &imagePath
	return nil
}

func (f *fakeActorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.actors[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.m.actors, id)
	return nil
}

type fakePlayRepo struct{ m *memStore }

func (f *fakePlayRepo) Create(ctx context.Context, play *entity.Play) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, p := range f.m.plays {
		if p.Title == play.Title {
			return repository.ErrDuplicate
		}
	}
	copied := *play
	f.m.plays[play.ID] = &copied
	return nil
}

func (f *fakePlayRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Play, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if p, ok := f.m.plays[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func containsAll(have, want []uuid.UUID) bool {
	set := make(map[uuid.UUID]bool, len(have))
	for _, id := range have {
		set[id] = true
	}
	for _, id := range want {
		if !set[id] {
			return false
		}
	}
	return true
}

func (f *fakePlayRepo) FindAll(ctx context.Context, filter entity.PlayFilter) ([]*entity.Play, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.Play
	for _, p := range f.m.plays {
		if containsAll(f.m.playGenres[p.ID], filter.GenreIDs) && containsAll(f.m.playActors[p.ID], filter.ActorIDs) {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return page(out, filter.Limit, filter.Offset), nil
}

func (f *fakePlayRepo) CountAll(ctx context.Context, filter entity.PlayFilter) (int64, error) {
	filter.Limit, filter.Offset = 0, 0
	out, _ := f.FindAll(ctx, filter)
	return int64(len(out)), nil
}

func (f *fakePlayRepo) Update(ctx context.Context, play *entity.Play) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, p := range f.m.plays {
		if p.Title == play.Title && p.ID != play.ID {
			return repository.ErrDuplicate
		}
	}
	if _, ok := f.m.plays[play.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *play
	f.m.plays[play.ID] = &copied
	return nil
}

func (f *fakePlayRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.plays[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.m.plays, id)
	return nil
}

func (f *fakePlayRepo) SetGenres(ctx context.Context, playID uuid.UUID, genreIDs []uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.playGenres[playID] = append([]uuid.UUID(nil), genreIDs...)
	return nil
}

func (f *fakePlayRepo) SetActors(ctx context.Context, playID uuid.UUID, actorIDs []uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.playActors[playID] = append([]uuid.UUID(nil), actorIDs...)
	return nil
}

func (f *fakePlayRepo) UpdateAverageRating(ctx context.Context, playID uuid.UUID, average *float64) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	p, ok := f.m.plays[playID]
	if !ok {
		return repository.ErrNotFound
	}
	p.AverageRating = average
	return nil
}

type fakeHallRepo struct{ m *memStore }

func (f *fakeHallRepo) Create(ctx context.Context, hall *entity.TheatreHall) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, h := range f.m.halls {
		if h.Name == hall.Name {
			return repository.ErrDuplicate
		}
	}
	copied := *hall
	f.m.halls[hall.ID] = &copied
	return nil
}

func (f *fakeHallRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.TheatreHall, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if h, ok := f.m.halls[id]; ok {
		copied := *h
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeHallRepo) FindAll(ctx context.Context, name string, limit, offset int) ([]*entity.TheatreHall, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.TheatreHall
	for _, h := range f.m.halls {
		if strings.Contains(strings.ToLower(h.Name), strings.ToLower(name)) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (f *fakeHallRepo) CountAll(ctx context.Context, name string) (int64, error) {
	out, _ := f.FindAll(ctx, name, 0, 0)
	return int64(len(out)), nil
}

func (f *fakeHallRepo) Update(ctx context.Context, hall *entity.TheatreHall) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.halls[hall.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *hall
	f.m.halls[hall.ID] = &copied
	return nil
}

func (f *fakeHallRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.halls[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.m.halls, id)
	return nil
}

// ==================== scheduling and booking ====================

type fakePerformanceRepo struct{ m *memStore }

func (f *fakePerformanceRepo) Create(ctx context.Context, performance *entity.Performance) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.plays[performance.PlayID]; !ok {
		return repository.ErrMissingReference
	}
	if _, ok := f.m.halls[performance.TheatreHallID]; !ok {
		return repository.ErrMissingReference
	}
	copied := *performance
	f.m.performances[performance.ID] = &copied
	return nil
}

func (f *fakePerformanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Performance, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if p, ok := f.m.performances[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

// detail must be called with the lock held.
func (f *fakePerformanceRepo) detail(p *entity.Performance) *entity.PerformanceDetail {
	return &entity.PerformanceDetail{
		Performance: *p,
		PlayTitle:   f.m.plays[p.PlayID].Title,
		Hall:        *f.m.halls[p.TheatreHallID],
		ActiveCount: f.m.activeCount(p.ID),
	}
}

func (f *fakePerformanceRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.PerformanceDetail, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	p, ok := f.m.performances[id]
	if !ok {
		return nil, nil
	}
	return f.detail(p), nil
}

func (f *fakePerformanceRepo) FindAll(ctx context.Context, filter entity.PerformanceFilter) ([]*entity.PerformanceDetail, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.PerformanceDetail
	for _, p := range f.m.performances {
		if filter.Date != nil {
			start := filter.Date.UTC()
			if p.ShowTime.Before(start) || !p.ShowTime.Before(start.AddDate(0, 0, 1)) {
				continue
			}
		}
		if filter.PlayID != nil && p.PlayID != *filter.PlayID {
			continue
		}
		out = append(out, f.detail(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShowTime.Before(out[j].ShowTime) })
	return page(out, filter.Limit, filter.Offset), nil
}

func (f *fakePerformanceRepo) CountAll(ctx context.Context, filter entity.PerformanceFilter) (int64, error) {
	filter.Limit, filter.Offset = 0, 0
	out, _ := f.FindAll(ctx, filter)
	return int64(len(out)), nil
}

func (f *fakePerformanceRepo) Update(ctx context.Context, performance *entity.Performance) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.performances[performance.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *performance
	f.m.performances[performance.ID] = &copied
	return nil
}

func (f *fakePerformanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if _, ok := f.m.performances[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.m.performances, id)
	return nil
}

type fakeReservationRepo struct{ m *memStore }

func (f *fakeReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	copied := *reservation
	f.m.reservations[reservation.ID] = &copied
	return nil
}

func (f *fakeReservationRepo) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entity.Reservation, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	r, ok := f.m.reservations[id]
	if !ok || r.UserID != userID {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReservationRepo) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range f.m.reservations {
		if r.UserID == userID {
			copied := *r
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (f *fakeReservationRepo) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	out, _ := f.FindByUserID(ctx, userID, 0, 0)
	return int64(len(out)), nil
}

func (f *fakeReservationRepo) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status bool) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	r, ok := f.m.reservations[id]
	if !ok || r.UserID != userID {
		return repository.ErrNotFound
	}
	r.Status = status
	return nil
}

type fakeTicketRepo struct{ m *memStore }

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, t := range f.m.tickets {
		if t.Active && t.PerformanceID == ticket.PerformanceID && t.Row == ticket.Row && t.Seat == ticket.Seat {
			return repository.ErrSeatTaken
		}
	}
	copied := *ticket
	f.m.tickets = append(f.m.tickets, &copied)
	return nil
}

func (f *fakeTicketRepo) ExistsActive(ctx context.Context, performanceID uuid.UUID, row, seat int) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	for _, t := range f.m.tickets {
		if t.Active && t.PerformanceID == performanceID && t.Row == row && t.Seat == seat {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTicketRepo) FindTakenSeats(ctx context.Context, performanceID uuid.UUID) ([]entity.Seat, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var out []entity.Seat
	for _, t := range f.m.tickets {
		if t.Active && t.PerformanceID == performanceID {
			out = append(out, entity.Seat{Row: t.Row, Seat: t.Seat})
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) FindByReservationIDs(ctx context.Context, reservationIDs []uuid.UUID) (map[uuid.UUID][]*entity.TicketView, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	out := make(map[uuid.UUID][]*entity.TicketView)
	for _, id := range reservationIDs {
		for _, t := range f.m.tickets {
			if t.ReservationID == nil || *t.ReservationID != id {
				continue
			}
			p := f.m.performances[t.PerformanceID]
			out[id] = append(out[id], &entity.TicketView{
				Ticket:          *t,
				ShowTime:        p.ShowTime,
				PlayID:          p.PlayID,
				PlayTitle:       f.m.plays[p.PlayID].Title,
				TheatreHallID:   p.TheatreHallID,
				TheatreHallName: f.m.halls[p.TheatreHallID].Name,
			})
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) SetActiveByReservation(ctx context.Context, reservationID uuid.UUID, active bool) (int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var n int64
	for _, t := range f.m.tickets {
		if t.ReservationID != nil && *t.ReservationID == reservationID && t.Active != active {
			t.Active = active
			n++
		}
	}
	return n, nil
}

type fakeRatingRepo struct{ m *memStore }

func (f *fakeRatingRepo) Upsert(ctx context.Context, rating *entity.Rating) error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	key := [2]uuid.UUID{rating.PlayID, rating.UserID}
	if existing, ok := f.m.ratings[key]; ok {
		existing.Mark = rating.Mark
		rating.ID = existing.ID
		return nil
	}
	copied := *rating
	f.m.ratings[key] = &copied
	return nil
}

func (f *fakeRatingRepo) FindByPlayAndUser(ctx context.Context, playID, userID uuid.UUID) (*entity.Rating, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if r, ok := f.m.ratings[[2]uuid.UUID{playID, userID}]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeRatingRepo) ListMarksByPlay(ctx context.Context, playID uuid.UUID) ([]float64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var marks []float64
	for key, r := range f.m.ratings {
		if key[0] == playID {
			marks = append(marks, r.Mark)
		}
	}
	return marks, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.events...)
}
