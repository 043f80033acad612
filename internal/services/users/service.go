// Package users fronts Storage with a cache and handles first contact,
// renames and persisting transaction results.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fastprodman/mcmmocredits/internal/future"
	"github.com/fastprodman/mcmmocredits/internal/transaction"
	"github.com/fastprodman/mcmmocredits/internal/user"
)

var ErrUserNotFound = errors.New("user not found")

// Store is the subset of storage.Store the service needs.
type Store interface {
	AddUser(ctx context.Context, u user.User) *future.Future[bool]
	GetUser(ctx context.Context, id uuid.UUID) *future.Future[*user.User]
	GetUserByName(ctx context.Context, username string) *future.Future[*user.User]
	RangeOfUsers(ctx context.Context, limit, offset int) *future.Future[[]user.User]
	AllUsers(ctx context.Context) *future.Future[[]user.User]
	SetUsername(ctx context.Context, id uuid.UUID, username string) *future.Future[bool]
	SetCredits(ctx context.Context, id uuid.UUID, credits int) *future.Future[bool]
	ApplyTransaction(ctx context.Context, users []user.User) *future.Future[bool]
}

type Service struct {
	store Store
	cache *cache

	mu     sync.RWMutex
	online map[uuid.UUID]struct{}
}

func New(store Store) *Service {
	return &Service{
		store:  store,
		cache:  newCache(),
		online: make(map[uuid.UUID]struct{}),
	}
}

// Join handles a player connecting: the record is created on first contact
// and renamed when the player's name changed since last time. The player
// counts as online until Leave.
func (s *Service) Join(ctx context.Context, id uuid.UUID, username string) *future.Future[user.User] {
	s.mu.Lock()
	s.online[id] = struct{}{}
	s.mu.Unlock()

	return future.Chain(s.store.GetUser(ctx, id), func(existing *user.User) *future.Future[user.User] {
		if existing == nil {
			return s.create(ctx, user.New(id, username))
		}

		s.cache.put(*existing)
		if existing.Username == username {
			return future.Resolved(*existing)
		}

		return future.Map(s.SetUsername(ctx, id, username), func(renamed bool) (user.User, error) {
			if !renamed {
				return user.User{}, fmt.Errorf("rename user %s: %w", id, ErrUserNotFound)
			}
			return existing.WithUsername(username), nil
		})
	})
}

func (s *Service) create(ctx context.Context, u user.User) *future.Future[user.User] {
	return future.Chain(s.store.AddUser(ctx, u), func(added bool) *future.Future[user.User] {
		if added {
			slog.Info("user created", "user", u.ID, "username", u.Username)
			s.cache.put(u)

			return future.Resolved(u)
		}

		// Lost a race with another first contact; use whatever won.
		return future.Map(s.store.GetUser(ctx, u.ID), func(got *user.User) (user.User, error) {
			if got == nil {
				return user.User{}, fmt.Errorf("create user %s: %w", u.ID, ErrUserNotFound)
			}
			s.cache.put(*got)

			return *got, nil
		})
	})
}

// Leave marks a player offline and drops them from the cache.
func (s *Service) Leave(id uuid.UUID) {
	s.mu.Lock()
	delete(s.online, id)
	s.mu.Unlock()

	s.cache.remove(id)
}

// Forget drops a cached record so the next lookup reads storage.
func (s *Service) Forget(id uuid.UUID) {
	s.cache.remove(id)
}

func (s *Service) IsOnline(id uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.online[id]
	return ok
}

// GetUser resolves to nil when no such user exists.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) *future.Future[*user.User] {
	if u, ok := s.cache.byUUID(id); ok {
		return future.Resolved(&u)
	}

	return s.remember(s.store.GetUser(ctx, id))
}

func (s *Service) GetUserByName(ctx context.Context, username string) *future.Future[*user.User] {
	if u, ok := s.cache.byUsername(username); ok {
		return future.Resolved(&u)
	}

	return s.remember(s.store.GetUserByName(ctx, username))
}

func (s *Service) remember(f *future.Future[*user.User]) *future.Future[*user.User] {
	return future.Map(f, func(u *user.User) (*user.User, error) {
		if u != nil {
			s.cache.put(*u)
		}
		return u, nil
	})
}

func (s *Service) RangeOfUsers(ctx context.Context, limit, offset int) *future.Future[[]user.User] {
	return s.store.RangeOfUsers(ctx, limit, offset)
}

func (s *Service) AllUsers(ctx context.Context) *future.Future[[]user.User] {
	return s.store.AllUsers(ctx)
}

// OnlineUsers resolves the records of every player currently joined.
func (s *Service) OnlineUsers(ctx context.Context) *future.Future[[]user.User] {
	s.mu.RLock()
	lookups := make([]*future.Future[*user.User], 0, len(s.online))
	for id := range s.online {
		lookups = append(lookups, s.GetUser(ctx, id))
	}
	s.mu.RUnlock()

	return future.Map(future.All(lookups...), func(found []*user.User) ([]user.User, error) {
		out := make([]user.User, 0, len(found))
		for _, u := range found {
			if u != nil {
				out = append(out, *u)
			}
		}
		return out, nil
	})
}

// Credits resolves to 0 for unknown users.
func (s *Service) Credits(ctx context.Context, id uuid.UUID) *future.Future[int] {
	return future.Map(s.GetUser(ctx, id), func(u *user.User) (int, error) {
		if u == nil {
			return 0, nil
		}
		return u.Credits, nil
	})
}

// SetUsername renames id. A different user already holding the name is
// logged; both records keep their ids.
func (s *Service) SetUsername(ctx context.Context, id uuid.UUID, username string) *future.Future[bool] {
	checked := future.Map(s.store.GetUserByName(ctx, username), func(holder *user.User) (struct{}, error) {
		if holder != nil && holder.ID != id {
			slog.Warn("duplicate username",
				"username", username,
				"old_user", holder.ID,
				"new_user", id,
			)
			s.cache.remove(holder.ID)
		}
		return struct{}{}, nil
	})

	return future.Chain(checked, func(struct{}) *future.Future[bool] {
		return future.Map(s.store.SetUsername(ctx, id, username), func(ok bool) (bool, error) {
			if ok {
				s.refresh(id, func(u user.User) user.User { return u.WithUsername(username) })
			}
			return ok, nil
		})
	})
}

func (s *Service) SetCredits(ctx context.Context, id uuid.UUID, credits int) *future.Future[bool] {
	return future.Map(s.store.SetCredits(ctx, id, credits), func(ok bool) (bool, error) {
		if ok {
			s.refresh(id, func(u user.User) user.User { return u.WithCredits(credits) })
		}
		return ok, nil
	})
}

// refresh rewrites a cached record; uncached users are read fresh later.
func (s *Service) refresh(id uuid.UUID, fn func(user.User) user.User) {
	if u, ok := s.cache.byUUID(id); ok {
		s.cache.put(fn(u))
	}
}

// Executor resolves the console for uuid.Nil and the stored player
// otherwise.
func (s *Service) Executor(ctx context.Context, id uuid.UUID) *future.Future[user.Executor] {
	if id == uuid.Nil {
		return future.Resolved(user.Console)
	}

	return future.Map(s.GetUser(ctx, id), func(u *user.User) (user.Executor, error) {
		if u == nil {
			return nil, fmt.Errorf("resolve executor %s: %w", id, ErrUserNotFound)
		}
		return *u, nil
	})
}

// ProcessTransaction persists every record the result changed. The cache
// only sees the new values once storage accepted the whole batch.
//
// Nothing serializes concurrent transactions on the same user: two results
// computed from the same snapshot overwrite each other.
func (s *Service) ProcessTransaction(ctx context.Context, result transaction.Result) *future.Future[bool] {
	updated := result.UpdatedUsers()

	return future.Map(s.store.ApplyTransaction(ctx, updated), func(ok bool) (bool, error) {
		if ok {
			for _, u := range updated {
				s.cache.put(u)
			}
		}
		return ok, nil
	})
}
