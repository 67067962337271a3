package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
)

// TopLotResult cata reciente con su lote y proveedor.
type TopLotResult struct {
	CuppingID    int64            `db:"cupping_id" json:"cupping_id"`
	LotID        string           `db:"lot_id" json:"lot_id"`
	LotCode      string           `db:"lot_code" json:"lot_code"`
	ProviderName *string          `db:"provider_name" json:"provider_name"`
	TotalScore   *decimal.Decimal `db:"total_score" json:"total_score"`
	IsAccepted   bool             `db:"is_accepted" json:"is_accepted"`
	EvaluatedAt  time.Time        `db:"evaluated_at" json:"evaluated_at"`
}

// TopProviderResult puntaje promedio de catas por proveedor.
type TopProviderResult struct {
	ProviderID    *string          `db:"id" json:"id"`
	Name          *string          `db:"name" json:"name"`
	EvaluatedLots int64            `db:"lotes_evaluados" json:"lotes_evaluados"`
	AverageScore  *decimal.Decimal `db:"puntaje_promedio" json:"puntaje_promedio"`
}

// ProviderHistoryPoint punto del histórico de puntajes de un proveedor.
type ProviderHistoryPoint struct {
	ID          int64            `db:"id" json:"id"`
	TotalScore  *decimal.Decimal `db:"total_score" json:"total_score"`
	EvaluatedAt time.Time        `db:"evaluated_at" json:"evaluated_at"`
	LotCode     string           `db:"lot_code" json:"lot_code"`
}

// CuppingDetail cata con código de lote y proveedor.
type CuppingDetail struct {
	entity.Cupping
	LotCode      string  `db:"lot_code" json:"lot_code"`
	ProviderName *string `db:"provider_name" json:"provider_name"`
}

// QualityRepository consultas del tablero de calidad.
type QualityRepository interface {
	TopLots(ctx context.Context, companyID string, limit int) ([]TopLotResult, error)
	TopProviders(ctx context.Context, companyID string, limit int) ([]TopProviderResult, error)
	ProviderHistory(ctx context.Context, companyID, providerID string) ([]ProviderHistoryPoint, error)
	GetCupping(ctx context.Context, companyID string, id int64) (*CuppingDetail, error)
	// SaveCupping crea la cata si ID == 0; si no, la actualiza y refresca evaluated_at.
	SaveCupping(ctx context.Context, c *entity.Cupping) error
}
