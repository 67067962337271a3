package repository

import (
	"context"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// CompanyRepository puerto de lectura de empresas (tenants).
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}
