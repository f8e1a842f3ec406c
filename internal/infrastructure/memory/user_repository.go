package memory

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	tx txView
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.tx.do(OpUserCreate, func(st *state) error {
		if conflicts(st, u) {
			return domain.ErrDuplicate
		}
		st.users[u.ID] = *u
		st.userOrder = append(st.userOrder, u.ID)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.tx.do(OpUserUpdate, func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrUserNotFound
		}
		if conflicts(st, u) {
			return domain.ErrDuplicate
		}
		st.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.tx.do(OpUserDelete, func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(st.users, id)
		st.userOrder = removeID(st.userOrder, id)
		return nil
	})
}

func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.tx.do("", func(st *state) error {
		for _, id := range st.userOrder {
			u := st.users[id]
			out = append(out, &u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	var n int
	err := r.tx.do("", func(st *state) error {
		n = len(st.users)
		return nil
	})
	return n, err
}

func (r *UserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.tx.do("", func(st *state) error {
		for _, id := range st.userOrder {
			u := st.users[id]
			if match(&u) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func conflicts(st *state, u *entity.User) bool {
	for id, other := range st.users {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username || other.Email == u.Email {
			return true
		}
	}
	return false
}
