package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El saldo solo se mueve vía movimientos
// y expediciones; aquí únicamente se fija el saldo inicial al crear.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Unit por defecto "UN", MinQuantity por defecto 10.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.Invalid("code", "code y name son requeridos")
	}
	if in.Quantity < 0 {
		return nil, domain.Invalid("quantity", "no puede ser negativa")
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	unit := in.Unit
	if unit == "" {
		unit = entity.DefaultUnit
	}
	minQty := entity.DefaultMinQuantity
	if in.MinQuantity != nil {
		minQty = *in.MinQuantity
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Unit:        unit,
		Quantity:    in.Quantity,
		MinQuantity: minQty,
		Location:    in.Location,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos descriptivos. Cambiar code a uno existente devuelve ErrDuplicate.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != nil && *in.Code != product.Code {
		other, err := uc.repo.GetByCode(ctx, *in.Code)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		product.Code = *in.Code
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.MinQuantity != nil {
		if *in.MinQuantity < 0 {
			return nil, domain.Invalid("min_quantity", "no puede ser negativa")
		}
		product.MinQuantity = *in.MinQuantity
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto sin historial. Con movimientos o líneas de expedición devuelve ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	referenced, err := uc.repo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

// List lista todos los productos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// ListLowStock lista los productos con quantity <= min_quantity.
func (uc *ProductUseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Stats resumen del catálogo.
func (uc *ProductUseCase) Stats(ctx context.Context) (*dto.StockStatsResponse, error) {
	st, err := uc.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StockStatsResponse{
		TotalProducts: st.TotalProducts,
		TotalItems:    st.TotalItems,
		LowStock:      st.LowStock,
	}, nil
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Unit:        p.Unit,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		Location:    p.Location,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
