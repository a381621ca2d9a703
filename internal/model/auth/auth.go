package auth

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"max.ks1230/finance-manager/internal/entity/user"
	"max.ks1230/finance-manager/internal/model/customerr"
)

type userStorage interface {
	CreateUser(ctx context.Context, username, passwordDigest string) (user.Record, error)
	UserByName(ctx context.Context, username string) (user.Record, error)
}

type Service struct {
	storage userStorage
}

func NewService(storage userStorage) *Service {
	return &Service{storage: storage}
}

func (s *Service) Register(ctx context.Context, username, password string) (user.Record, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return user.Record{}, customerr.ErrInvalidInput
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.Record{}, errors.Wrap(err, "register")
	}

	rec, err := s.storage.CreateUser(ctx, username, string(digest))
	if err != nil {
		return user.Record{}, errors.Wrap(err, "register")
	}
	return rec, nil
}

// Login deliberately reports the same error for an unknown username and a
// wrong password, so usernames cannot be probed.
func (s *Service) Login(ctx context.Context, username, password string) (user.Record, error) {
	rec, err := s.storage.UserByName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.Record{}, customerr.ErrInvalidCredentials
		}
		return user.Record{}, errors.Wrap(err, "login")
	}

	err = bcrypt.CompareHashAndPassword([]byte(rec.PasswordDigest), []byte(password))
	if err != nil {
		return user.Record{}, customerr.ErrInvalidCredentials
	}
	return rec, nil
}
