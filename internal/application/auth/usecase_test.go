package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/dto"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/pkg/jwt"
)

const testCompanyID = "00000000-0000-0000-0000-000000000002"

type memUsers struct{ byEmail map[string]*entity.User }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type memCompanies struct{}

func (memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	if id != testCompanyID {
		return nil, domain.ErrNotFound
	}
	return &entity.Company{ID: id, Name: "Cooperativa"}, nil
}

func newAuth() (*AuthUseCase, *memUsers) {
	users := &memUsers{byEmail: map[string]*entity.User{}}
	return NewAuthUseCase(users, memCompanies{}, JWTConfig{Secret: "s3cr3t", ExpMinutes: 5, Issuer: "test"}), users
}

func TestRegisterYLogin(t *testing.T) {
	uc, users := newAuth()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: " Ana@Coop.co ", Password: "clave-segura", CompanyID: testCompanyID})
	require.NoError(t, err)
	assert.Equal(t, "ana@coop.co", u.Email)
	assert.Equal(t, entity.RoleOperador, u.Role)
	assert.NotEqual(t, "clave-segura", users.byEmail["ana@coop.co"].PasswordHash)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@coop.co", Password: "clave-segura"})
	require.NoError(t, err)
	claims, err := jwt.Parse("s3cr3t", res.Token)
	require.NoError(t, err)
	assert.Equal(t, testCompanyID, claims.CompanyID)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	in := dto.RegisterRequest{Email: "a@b.co", Password: "12345678", CompanyID: testCompanyID}

	_, err := uc.RegisterUser(ctx, in)
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_EmpresaInexistente(t *testing.T) {
	uc, _ := newAuth()

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.co", Password: "12345678", CompanyID: "otra"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "12345678", CompanyID: testCompanyID})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@b.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
