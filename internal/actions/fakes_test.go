package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"imaginify/internal/apperror"
	"imaginify/internal/domain/billing"
	"imaginify/internal/domain/media"
	"imaginify/internal/domain/users"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*users.User
}

func newFakeUsers(seed ...users.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*users.User{}}
	for i := range seed {
		u := seed[i]
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *users.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.ClerkID == u.ClerkID {
			return apperror.Conflict("user", u.ClerkID)
		}
	}
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", len(f.byID)+1)
	}
	stored := *u
	f.byID[u.ID] = &stored
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	out := *u
	return &out, nil
}

func (f *fakeUsers) FindByClerkID(_ context.Context, clerkID string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ClerkID == clerkID {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", clerkID)
}

func (f *fakeUsers) UpdateByClerkID(ctx context.Context, clerkID string, upd users.Update) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ClerkID == clerkID {
			u.FirstName, u.LastName, u.Username, u.Photo = upd.FirstName, upd.LastName, upd.Username, upd.Photo
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("user", clerkID)
}

func (f *fakeUsers) AddCredits(_ context.Context, id string, delta int) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	u.CreditBalance += delta
	out := *u
	return &out, nil
}

type fakeImages struct {
	created []media.Image
	err     error
}

func (f *fakeImages) Create(_ context.Context, img *media.Image) error {
	if f.err != nil {
		return f.err
	}
	if img.ID == "" {
		img.ID = fmt.Sprintf("img-%d", len(f.created)+1)
	}
	f.created = append(f.created, *img)
	return nil
}

func (f *fakeImages) FindByID(_ context.Context, id string) (*media.Image, error) {
	for _, img := range f.created {
		if img.ID == id {
			out := img
			return &out, nil
		}
	}
	return nil, apperror.NotFound("image", id)
}

func (f *fakeImages) List(_ context.Context, q media.ListQuery) ([]media.Image, int64, error) {
	var matched []media.Image
	for _, img := range f.created {
		if q.AuthorID != "" && img.AuthorID != q.AuthorID {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(img.Title), strings.ToLower(q.Search)) {
			continue
		}
		matched = append(matched, img)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	start := q.Offset()
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// fakeTransactions keeps the insert and the credit atomic: when crediting
// fails with anything but NotFound, nothing is stored.
type fakeTransactions struct {
	created   []billing.Transaction
	users     *fakeUsers
	creditErr error
}

func (f *fakeTransactions) CreateAndCredit(ctx context.Context, t *billing.Transaction) (bool, error) {
	for _, existing := range f.created {
		if existing.StripeID == t.StripeID {
			return false, apperror.Conflict("transaction", t.StripeID)
		}
	}
	credited := false
	if t.BuyerID != "" && t.Credits != 0 {
		if f.creditErr != nil {
			return false, f.creditErr
		}
		if f.users != nil {
			_, err := f.users.AddCredits(ctx, t.BuyerID, t.Credits)
			switch {
			case errors.Is(err, apperror.ErrNotFound):
			case err != nil:
				return false, err
			default:
				credited = true
			}
		}
	}
	if t.ID == "" {
		t.ID = fmt.Sprintf("tx-%d", len(f.created)+1)
	}
	f.created = append(f.created, *t)
	return credited, nil
}

func (f *fakeTransactions) ListByBuyer(_ context.Context, buyerID string) ([]billing.Transaction, error) {
	var out []billing.Transaction
	for _, t := range f.created {
		if t.BuyerID == buyerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTransactions) List(context.Context) ([]billing.Transaction, error) {
	return f.created, nil
}

type recordingRevalidator struct{ paths []string }

func (r *recordingRevalidator) Revalidate(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return nil
}

type recordingPublisher struct{ keys []string }

func (r *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	r.keys = append(r.keys, key)
	return nil
}
