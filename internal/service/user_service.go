package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	Users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, util.ErrUserNotFound)
	}
	return user, nil
}

// ProfileUpdate carries the mutable profile fields; zero values leave the
// stored value untouched.
type ProfileUpdate struct {
	Name     string
	Password string
	Bio      string
	Skills   []string
}

func (s *UserService) UpdateProfile(id uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, util.ErrUserNotFound)
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Bio != "" {
		user.Bio = update.Bio
	}
	if update.Skills != nil {
		user.Skills = model.StringList(update.Skills)
	}
	if update.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateAvatar(id uint, key, url string) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, util.ErrUserNotFound)
	}

	user.AvatarKey = key
	user.AvatarURL = url
	if err := s.Users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(id uint) error {
	return mapNotFound(s.Users.Delete(id), util.ErrUserNotFound)
}

func (s *UserService) List(page, pageSize int, role string) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return s.Users.List(page, pageSize, role)
}
