package repofake

import (
	"context"
	"strings"

	"github.com/Payphone-Digital/videotube/internal/model"
	"github.com/Payphone-Digital/videotube/internal/repository"
	"gorm.io/gorm"
)

var _ repository.UserStore = (*UserRepo)(nil)

type UserRepo struct {
	s *Store
}

// NewFakeUserRepo returns a user store on its own backing Store.
func NewFakeUserRepo() repository.UserStore {
	return NewStore().Users()
}

func (r *UserRepo) Create(_ context.Context, user *model.User) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}

	user.ID, user.CreatedAt = r.s.id()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.s.users[user.ID] = &stored
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *u
	return &out, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepo) GetByUsernameOrEmail(_ context.Context, username, email string) (*model.User, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	for _, u := range r.s.users {
		if (username != "" && u.Username == username) || (email != "" && strings.EqualFold(u.Email, email)) {
			out := *u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *UserRepo) EmailTakenByOther(_ context.Context, email string, excludeID uint) (bool, error) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	for _, u := range r.s.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) update(id uint, apply func(u *model.User)) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	apply(u)
	return nil
}

func (r *UserRepo) UpdateAccount(_ context.Context, id uint, fullname, email string) error {
	return r.update(id, func(u *model.User) {
		u.Fullname = fullname
		u.Email = email
	})
}

func (r *UserRepo) UpdatePassword(_ context.Context, id uint, hashedPassword string) error {
	return r.update(id, func(u *model.User) { u.Password = hashedPassword })
}

func (r *UserRepo) UpdateAvatar(_ context.Context, id uint, avatar string) error {
	return r.update(id, func(u *model.User) { u.Avatar = avatar })
}

func (r *UserRepo) UpdateCoverImage(_ context.Context, id uint, coverImage string) error {
	return r.update(id, func(u *model.User) { u.CoverImage = coverImage })
}

func (r *UserRepo) SetRefreshToken(_ context.Context, id uint, tokenHash string) error {
	return r.update(id, func(u *model.User) {
		hash := tokenHash
		u.RefreshTokenHash = &hash
	})
}

func (r *UserRepo) ClearRefreshToken(_ context.Context, id uint) error {
	return r.update(id, func(u *model.User) { u.RefreshTokenHash = nil })
}

func (r *UserRepo) SwapRefreshToken(_ context.Context, id uint, presentedHash, newHash string) error {
	r.s.lock.Lock()
	defer r.s.lock.Unlock()

	if err := r.s.takeFailure(); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok || u.RefreshTokenHash == nil || *u.RefreshTokenHash != presentedHash {
		return gorm.ErrRecordNotFound
	}
	hash := newHash
	u.RefreshTokenHash = &hash
	return nil
}

func (r *UserRepo) PushWatchHistory(_ context.Context, id, videoID uint, limit int) error {
	return r.update(id, func(u *model.User) {
		u.WatchHistory = repository.PrependUnique([]uint(u.WatchHistory), videoID, limit)
	})
}

// RefreshTokenHash exposes the stored hash for assertions.
func (r *UserRepo) RefreshTokenHash(id uint) (string, bool) {
	r.s.lock.RLock()
	defer r.s.lock.RUnlock()

	u, ok := r.s.users[id]
	if !ok || u.RefreshTokenHash == nil {
		return "", false
	}
	return *u.RefreshTokenHash, true
}
