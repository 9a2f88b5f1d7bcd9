package service

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/sakif/pet-adoption/internal/apperror"
	"github.com/sakif/pet-adoption/internal/model"
	"github.com/sakif/pet-adoption/internal/repository"
)

// =========================================================================
// FAKE STORE
// =========================================================================
//
// fakeStore is an in-memory implementation of every repository interface
// the services use. It mimics the SQL store closely enough for business
// rules to be tested: ids start at 1, emails are unique, missing rows come
// back as apperror.ErrNotFound.
//
// Set one of the *Err fields to simulate a database failure.

type fakeStore struct {
	users     map[int64]*model.User
	pets      map[int64]*model.Pet
	favorites map[int64]*model.Favorite
	adoptions map[int64]*model.Adoption
	nextID    int64

	// lastFilter records what the service passed to ListPets.
	lastFilter repository.PetFilter

	createErr error
	getErr    error
	listErr   error
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]*model.User),
		pets:      make(map[int64]*model.Pet),
		favorites: make(map[int64]*model.Favorite),
		adoptions: make(map[int64]*model.Adoption),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

var _ repository.UserRepository = (*fakeStore)(nil)
var _ repository.PetRepository = (*fakeStore)(nil)
var _ repository.FavoriteRepository = (*fakeStore)(nil)
var _ repository.AdoptionRepository = (*fakeStore)(nil)

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperror.Conflict("user", "email already exists")
		}
	}
	u.ID = f.id()
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	out := *u
	return &out, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, &apperror.AppError{Err: apperror.ErrNotFound, Message: "user not found", Field: "email"}
}

func (f *fakeStore) CreatePet(_ context.Context, p *model.Pet) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = f.id()
	stored := *p
	f.pets[p.ID] = &stored
	return nil
}

func (f *fakeStore) GetPetByID(_ context.Context, id int64) (*model.Pet, error) {
	p, ok := f.pets[id]
	if !ok {
		return nil, apperror.NotFound("pet", id)
	}
	out := *p
	return &out, nil
}

func (f *fakeStore) ListPets(_ context.Context, filter repository.PetFilter) ([]model.Pet, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Pet{}
	for _, p := range f.pets {
		if filter.OwnerID != nil && !owns(p.OwnerID, *filter.OwnerID) {
			continue
		}
		if !strings.HasPrefix(p.Name, filter.NamePrefix) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	if filter.Offset >= len(out) {
		return []model.Pet{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdatePet(_ context.Context, p *model.Pet) error {
	if _, ok := f.pets[p.ID]; !ok {
		return apperror.NotFound("pet", p.ID)
	}
	stored := *p
	f.pets[p.ID] = &stored
	return nil
}

func (f *fakeStore) DeletePet(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.pets[id]; !ok {
		return apperror.NotFound("pet", id)
	}
	delete(f.pets, id)
	return nil
}

func (f *fakeStore) CreateFavorite(_ context.Context, fav *model.Favorite) error {
	if f.createErr != nil {
		return f.createErr
	}
	fav.ID = f.id()
	stored := *fav
	f.favorites[fav.ID] = &stored
	return nil
}

func (f *fakeStore) GetFavoriteByID(_ context.Context, id int64) (*model.Favorite, error) {
	fav, ok := f.favorites[id]
	if !ok {
		return nil, apperror.NotFound("favorite", id)
	}
	out := *fav
	return &out, nil
}

func (f *fakeStore) ListFavoritesByUser(_ context.Context, userID int64) ([]model.Favorite, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Favorite{}
	for _, fav := range f.favorites {
		if owns(fav.UserID, userID) {
			out = append(out, *fav)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) DeleteFavorite(_ context.Context, id int64) error {
	if _, ok := f.favorites[id]; !ok {
		return apperror.NotFound("favorite", id)
	}
	delete(f.favorites, id)
	return nil
}

func (f *fakeStore) CreateAdoption(_ context.Context, a *model.Adoption) error {
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = f.id()
	stored := *a
	f.adoptions[a.ID] = &stored
	return nil
}

func (f *fakeStore) GetAdoptionByID(_ context.Context, id int64) (*model.Adoption, error) {
	a, ok := f.adoptions[id]
	if !ok {
		return nil, apperror.NotFound("adoption", id)
	}
	out := *a
	return &out, nil
}

func (f *fakeStore) ListAdoptionsByUser(_ context.Context, userID int64) ([]model.Adoption, error) {
	return f.adoptionsWhere(func(a *model.Adoption) bool { return owns(a.UserID, userID) })
}

func (f *fakeStore) ListAdoptionsByPet(_ context.Context, petID int64) ([]model.Adoption, error) {
	return f.adoptionsWhere(func(a *model.Adoption) bool { return owns(a.PetID, petID) })
}

func (f *fakeStore) adoptionsWhere(match func(*model.Adoption) bool) ([]model.Adoption, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Adoption{}
	for _, a := range f.adoptions {
		if match(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =========================================================================
// HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// seedPet stores a pet directly, bypassing validation.
func seedPet(t *testing.T, store *fakeStore, name string, owner *int64) *model.Pet {
	t.Helper()
	p := &model.Pet{Name: name, OwnerID: owner}
	if err := store.CreatePet(context.Background(), p); err != nil {
		t.Fatalf("seeding pet: %v", err)
	}
	return p
}
