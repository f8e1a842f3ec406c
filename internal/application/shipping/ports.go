package shipping

import (
	"context"

	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con repos de expediciones y productos atados a ella.
type TxRunner interface {
	RunShipping(ctx context.Context, fn func(
		shipmentRepo repository.ShipmentRepository,
		productRepo repository.ProductRepository,
	) error) error
}
