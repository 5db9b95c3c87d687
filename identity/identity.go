// Package identity holds the user registry: signup, authentication and
// profile maintenance. Users are never hard-deleted.
package identity

import (
	"errors"
	"strings"
	"time"

	"mealmatch/models"
	"mealmatch/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrInvalidInput   = errors.New("invalid registration data")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrUserNotFound   = errors.New("user not found")
)

type Service struct {
	kv store.Store
}

func NewService(kv store.Store) *Service {
	return &Service{kv: kv}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
	PhotoURL string
}

// Register creates a new account. Emails are case-folded before the
// uniqueness check so two spellings of the same address collide.
func (s *Service) Register(in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := foldEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}
	if in.Role != models.RoleCustomer && in.Role != models.RoleOwner {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.kv.Update(func(tx store.Store) error {
		var users []models.User
		tx.Get(store.KeyUsers, &users)
		for _, u := range users {
			if u.Email == email {
				return ErrEmailTaken
			}
		}
		now := time.Now().UTC()
		user = models.User{
			ID:           uuid.NewString(),
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         in.Role,
			PhotoURL:     in.PhotoURL,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.Put(store.KeyUsers, append(users, user))
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials and returns the matching user.
func (s *Service) Authenticate(email, password string) (*models.User, error) {
	u, ok := s.ByEmail(email)
	if !ok {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return u, nil
}

func (s *Service) ByID(id string) (*models.User, bool) {
	var users []models.User
	s.kv.Get(store.KeyUsers, &users)
	for i := range users {
		if users[i].ID == id {
			return &users[i], true
		}
	}
	return nil, false
}

func (s *Service) ByEmail(email string) (*models.User, bool) {
	email = foldEmail(email)
	var users []models.User
	s.kv.Get(store.KeyUsers, &users)
	for i := range users {
		if users[i].Email == email {
			return &users[i], true
		}
	}
	return nil, false
}

type ProfileUpdate struct {
	Name     string
	Password string
	PhotoURL string
}

// UpdateProfile applies the non-empty fields of upd to the user record.
func (s *Service) UpdateProfile(id string, upd ProfileUpdate) (*models.User, error) {
	var user models.User
	err := s.kv.Update(func(tx store.Store) error {
		var users []models.User
		tx.Get(store.KeyUsers, &users)
		for i := range users {
			if users[i].ID != id {
				continue
			}
			if upd.Name != "" {
				users[i].Name = strings.TrimSpace(upd.Name)
			}
			if upd.Password != "" {
				hash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
				if err != nil {
					return err
				}
				users[i].PasswordHash = string(hash)
			}
			if upd.PhotoURL != "" {
				users[i].PhotoURL = upd.PhotoURL
			}
			users[i].UpdatedAt = time.Now().UTC()
			user = users[i]
			return tx.Put(store.KeyUsers, users)
		}
		return ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func foldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
