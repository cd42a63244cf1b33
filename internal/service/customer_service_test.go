package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodmarket/internal/auth"
	"foodmarket/internal/repository"
)

func newCustomers() (*CustomerService, *auth.Issuer) {
	issuer := auth.NewIssuer("test-secret-0123456789", time.Hour)
	return NewCustomerService(repository.NewMemoryStore(), issuer), issuer
}

func TestSignUpAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, issuer := newCustomers()

	c, token, err := svc.SignUp(ctx, SignUpInput{Email: " John@Example.com", Phone: "9876543210", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", c.Email)
	assert.NotEqual(t, "secret1", c.PasswordHash)
	assert.Empty(t, c.Orders)
	assert.False(t, c.Verified)

	claims, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, c.ID, claims.Subject)
	assert.Equal(t, auth.RoleCustomer, claims.Role)

	_, _, err = svc.SignUp(ctx, SignUpInput{Email: "john@example.com", Phone: "9876543210", Password: "other12"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	token, err = svc.Login(ctx, "JOHN@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login(ctx, "john@example.com", "wrong-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUp_Validation(t *testing.T) {
	svc, _ := newCustomers()

	_, _, err := svc.SignUp(context.Background(), SignUpInput{Email: "not-an-email", Phone: "12", Password: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"Email", "Phone", "Password"}, verr.Fields)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCustomers()
	c, _, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.io", Phone: "1234567", Password: "secret1"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, c.ID, ProfileInput{FirstName: "John", LastName: "Doe", Address: "Main st 12"})
	require.NoError(t, err)
	assert.Equal(t, "John", updated.FirstName)
	assert.Equal(t, "Main st 12", updated.Address)

	_, err = svc.UpdateProfile(ctx, c.ID, ProfileInput{FirstName: "J", LastName: "Doe", Address: "Main st 12"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateProfile(ctx, "ghost", ProfileInput{FirstName: "John", LastName: "Doe", Address: "Main st 12"})
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = svc.Profile(ctx, "ghost")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
