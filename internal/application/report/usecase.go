// Package report agrupa las consultas de solo lectura para el panel y las exportaciones
// del inventario (PDF y CSV).
package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/domain/repository"
)

// Límites de las series y listados.
const (
	DefaultSeriesDays    = 7
	MaxSeriesDays        = 90
	DefaultActivityLimit = 10
	MaxActivityLimit     = 100
)

// ReportUseCase consultas agregadas sobre productos, movimientos y usuarios.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	userRepo    repository.UserRepository
	generator   StockReportGenerator
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	userRepo repository.UserRepository,
	generator StockReportGenerator,
) *ReportUseCase {
	return &ReportUseCase{
		productRepo: productRepo,
		movRepo:     movRepo,
		userRepo:    userRepo,
		generator:   generator,
		now:         time.Now,
	}
}

// UserStats cuenta usuarios por estado y rol.
func (uc *ReportUseCase) UserStats(ctx context.Context) (*dto.UserStatsResponse, error) {
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.UserStatsResponse{Total: len(users)}
	for _, u := range users {
		if u.Active {
			out.Active++
		} else {
			out.Inactive++
		}
		if u.IsAdmin() {
			out.Admins++
		} else {
			out.Regular++
		}
	}
	return out, nil
}

// MovementSeries devuelve las unidades de entrada y salida por día de los últimos days días
// (hoy incluido). Los días sin movimientos van en cero.
func (uc *ReportUseCase) MovementSeries(ctx context.Context, days int) (*dto.MovementSeriesResponse, error) {
	if days <= 0 {
		days = DefaultSeriesDays
	}
	if days > MaxSeriesDays {
		days = MaxSeriesDays
	}
	now := uc.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(days - 1))

	totals, err := uc.movRepo.DailyTotals(ctx, from)
	if err != nil {
		return nil, err
	}
	byDay := make(map[time.Time]repository.DailyMovementTotal, len(totals))
	for _, t := range totals {
		byDay[t.Day] = t
	}

	out := &dto.MovementSeriesResponse{
		Labels:  make([]string, 0, days),
		Entries: make([]int, 0, days),
		Exits:   make([]int, 0, days),
	}
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		t := byDay[d]
		out.Labels = append(out.Labels, d.Format("2006-01-02"))
		out.Entries = append(out.Entries, t.Entries)
		out.Exits = append(out.Exits, t.Exits)
	}
	return out, nil
}

// StockByCategory suma el saldo por categoría.
func (uc *ReportUseCase) StockByCategory(ctx context.Context) (*dto.CategoryStockResponse, error) {
	rows, err := uc.productRepo.StockByCategory(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.CategoryStockResponse{Labels: []string{}, Data: []int{}}
	for _, r := range rows {
		label := r.Category
		if label == "" {
			label = "Sin categoría"
		}
		out.Labels = append(out.Labels, label)
		out.Data = append(out.Data, r.Quantity)
	}
	return out, nil
}

// RecentActivity últimos movimientos en formato de actividad.
func (uc *ReportUseCase) RecentActivity(ctx context.Context, limit int) ([]dto.ActivityResponse, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	list, err := uc.movRepo.List(ctx, repository.MovementFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ActivityResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ActivityResponse{
			Type:     m.Type,
			Item:     m.ProductName,
			Quantity: m.Quantity,
			Date:     m.CreatedAt,
		})
	}
	return out, nil
}

// StockReportPDF genera el PDF del inventario actual y su nombre de archivo.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context) ([]byte, string, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	doc, err := uc.generator.GenerateStockReport(ctx, products, now)
	if err != nil {
		return nil, "", fmt.Errorf("report: generar pdf: %w", err)
	}
	return doc, reportFilename(now, "pdf"), nil
}

// StockReportCSV exporta el mismo inventario en CSV (cabecera + una fila por producto).
func (uc *ReportUseCase) StockReportCSV(ctx context.Context) ([]byte, string, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, "", err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"code", "name", "category", "location", "unit", "quantity", "min_quantity", "low_stock"})
	for _, p := range products {
		_ = w.Write(csvRow(p))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("report: escribir csv: %w", err)
	}
	return buf.Bytes(), reportFilename(uc.now(), "csv"), nil
}

func csvRow(p *entity.Product) []string {
	return []string{
		p.Code,
		p.Name,
		p.Category,
		p.Location,
		p.Unit,
		strconv.Itoa(p.Quantity),
		strconv.Itoa(p.MinQuantity),
		strconv.FormatBool(p.IsLowStock()),
	}
}

func reportFilename(t time.Time, ext string) string {
	return fmt.Sprintf("inventario_%s.%s", t.Format("20060102_1504"), ext)
}
