package identity

import (
	"testing"

	"mealmatch/models"
	"mealmatch/store"

	"github.com/stretchr/testify/require"
)

func TestRegisterFoldsEmail(t *testing.T) {
	svc := NewService(store.NewMemStore())

	user, err := svc.Register(RegisterInput{
		Name:     "Aiko",
		Email:    "  Aiko@Example.COM ",
		Password: "secret123",
		Role:     models.RoleCustomer,
	})
	require.NoError(t, err)
	require.Equal(t, "aiko@example.com", user.Email)

	got, ok := svc.ByEmail("AIKO@example.com")
	require.True(t, ok)
	require.Equal(t, user.ID, got.ID)

	// a different spelling of the same address collides
	_, err = svc.Register(RegisterInput{
		Name:     "Imposter",
		Email:    "aiko@EXAMPLE.com",
		Password: "other456",
		Role:     models.RoleCustomer,
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(store.NewMemStore())

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.com", Password: "x", Role: models.RoleCustomer}},
		{"missing email", RegisterInput{Name: "A", Password: "x", Role: models.RoleCustomer}},
		{"missing password", RegisterInput{Name: "A", Email: "a@b.com", Role: models.RoleCustomer}},
		{"bad role", RegisterInput{Name: "A", Email: "a@b.com", Password: "x", Role: "driver"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

// The user record goes through JSON serialization on every store write; the
// bcrypt hash has to come back out intact or no one can ever log in.
func TestPasswordHashSurvivesPersistence(t *testing.T) {
	svc := NewService(store.NewMemStore())
	user, err := svc.Register(RegisterInput{
		Name:     "Aiko",
		Email:    "aiko@example.com",
		Password: "secret123",
		Role:     models.RoleCustomer,
	})
	require.NoError(t, err)

	got, ok := svc.ByEmail("aiko@example.com")
	require.True(t, ok)
	require.NotEmpty(t, got.PasswordHash)
	require.Equal(t, user.PasswordHash, got.PasswordHash)
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(store.NewMemStore())
	user, err := svc.Register(RegisterInput{
		Name:     "Kenji",
		Email:    "kenji@example.com",
		Password: "hunter22",
		Role:     models.RoleOwner,
	})
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", user.PasswordHash, "password must be stored hashed")

	got, err := svc.Authenticate("Kenji@Example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate("kenji@example.com", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Authenticate("nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestUpdateProfile(t *testing.T) {
	svc := NewService(store.NewMemStore())
	user, err := svc.Register(RegisterInput{
		Name:     "Aiko",
		Email:    "aiko@example.com",
		Password: "secret123",
		Role:     models.RoleCustomer,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{
		Name:     "Aiko T.",
		Password: "newsecret",
		PhotoURL: "/uploads/aiko.png",
	})
	require.NoError(t, err)
	require.Equal(t, "Aiko T.", updated.Name)
	require.Equal(t, "/uploads/aiko.png", updated.PhotoURL)

	_, err = svc.Authenticate("aiko@example.com", "secret123")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Authenticate("aiko@example.com", "newsecret")
	require.NoError(t, err)

	_, err = svc.UpdateProfile("ghost", ProfileUpdate{Name: "X"})
	require.ErrorIs(t, err, ErrUserNotFound)
}
