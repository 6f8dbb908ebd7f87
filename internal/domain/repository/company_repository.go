package repository

import (
	"context"

	"github.com/jhoicas/arba-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia de empresas (agentes).
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}
