package repository

import (
	"context"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/inventory"
)

// IntakeDetail ingreso con nombres de destinación y línea resueltos.
type IntakeDetail struct {
	entity.Intake
	DestinationName *string `db:"destination_name"`
	CoffeeLineName  *string `db:"coffee_line_name"`
}

// StageRepository puerto de las tablas de etapa: un registro por (empresa, lote, etapa).
// Los Upsert actualizan el registro existente o lo crean, y completan ID y fecha.
// Los Get devuelven nil si la etapa no se ha registrado.
type StageRepository interface {
	// Marks lee en una sola consulta las últimas fechas de empaque, tueste y trilla.
	Marks(ctx context.Context, companyID, lotID string) (inventory.StageMarks, error)

	UpsertIntake(ctx context.Context, r *entity.Intake) error
	UpsertTrilling(ctx context.Context, r *entity.Trilling) error
	UpsertRoasting(ctx context.Context, r *entity.Roasting) error
	UpsertCupping(ctx context.Context, r *entity.Cupping) error
	UpsertPackaging(ctx context.Context, r *entity.Packaging) error
	UpsertDispatch(ctx context.Context, r *entity.Dispatch) error
	UpsertInspection(ctx context.Context, r *entity.Inspection) error

	GetIntake(ctx context.Context, companyID, lotID string) (*IntakeDetail, error)
	GetTrilling(ctx context.Context, companyID, lotID string) (*entity.Trilling, error)
	GetRoasting(ctx context.Context, companyID, lotID string) (*entity.Roasting, error)
	GetCupping(ctx context.Context, companyID, lotID string) (*entity.Cupping, error)
	GetPackaging(ctx context.Context, companyID, lotID string) (*entity.Packaging, error)
	GetDispatch(ctx context.Context, companyID, lotID string) (*entity.Dispatch, error)
	GetInspection(ctx context.Context, companyID, lotID string) (*entity.Inspection, error)

	// PackagingObservations blobs de observaciones de todos los empaques de la empresa.
	PackagingObservations(ctx context.Context, companyID string) ([]string, error)
}
