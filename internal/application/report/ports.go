package report

import (
	"context"
	"time"

	"github.com/jhoicas/wms-api/internal/domain/entity"
)

// StockReportGenerator genera la representación PDF del inventario (implementado en infrastructure/pdf).
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, products []*entity.Product, generatedAt time.Time) ([]byte, error)
}
