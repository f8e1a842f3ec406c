package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/report"
	"github.com/jhoicas/wms-api/internal/domain/entity"
	"github.com/jhoicas/wms-api/internal/infrastructure/memory"
)

type fakePDF struct {
	products []*entity.Product
}

func (f *fakePDF) GenerateStockReport(_ context.Context, products []*entity.Product, _ time.Time) ([]byte, error) {
	f.products = products
	return []byte("%PDF-fake"), nil
}

func seedStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now().UTC()
	products := []*entity.Product{
		{ID: "p1", Code: "A", Name: "Tornillo", Category: "Ferretería", Quantity: 20, MinQuantity: 5, CreatedAt: now, UpdatedAt: now},
		{ID: "p2", Code: "B", Name: "Cable", Category: "Eléctrico", Quantity: 3, MinQuantity: 10, CreatedAt: now, UpdatedAt: now},
		{ID: "p3", Code: "C", Name: "Tuerca", Category: "Ferretería", Quantity: 7, MinQuantity: 5, CreatedAt: now, UpdatedAt: now},
	}
	for _, p := range products {
		require.NoError(t, store.Products().Create(ctx, p))
	}
	movs := []*entity.Movement{
		{ID: "m1", ProductID: "p1", Type: entity.MovementTypeEntrada, Quantity: 20, UserID: "u", CreatedAt: now.AddDate(0, 0, -2)},
		{ID: "m2", ProductID: "p2", Type: entity.MovementTypeEntrada, Quantity: 5, UserID: "u", CreatedAt: now},
		{ID: "m3", ProductID: "p2", Type: entity.MovementTypeSaida, Quantity: 2, UserID: "u", CreatedAt: now},
		{ID: "m4", ProductID: "p3", Type: entity.MovementTypeAjuste, Quantity: 7, UserID: "u", CreatedAt: now},
		{ID: "m5", ProductID: "p3", Type: entity.MovementTypeEntrada, Quantity: 9, UserID: "u", CreatedAt: now.AddDate(0, 0, -30)},
	}
	for _, m := range movs {
		require.NoError(t, store.Movements().Create(ctx, m))
	}
	users := []*entity.User{
		{ID: "u1", Username: "admin", Email: "a@x", Role: entity.RoleAdmin, Active: true},
		{ID: "u2", Username: "op", Email: "o@x", Role: entity.RoleUser, Active: true},
		{ID: "u3", Username: "old", Email: "d@x", Role: entity.RoleUser, Active: false},
	}
	for _, u := range users {
		require.NoError(t, store.Users().Create(ctx, u))
	}
	return store
}

func newReport(store *memory.Store, pdf report.StockReportGenerator) *report.ReportUseCase {
	return report.NewReportUseCase(store.Products(), store.Movements(), store.Users(), pdf)
}

func TestUserStats(t *testing.T) {
	uc := newReport(seedStore(t), &fakePDF{})

	stats, err := uc.UserStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Active)
	assert.Equal(t, 1, stats.Inactive)
	assert.Equal(t, 1, stats.Admins)
	assert.Equal(t, 2, stats.Regular)
}

func TestMovementSeries(t *testing.T) {
	uc := newReport(seedStore(t), &fakePDF{})

	series, err := uc.MovementSeries(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, series.Labels, report.DefaultSeriesDays)
	last := len(series.Labels) - 1
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), series.Labels[last])
	assert.Equal(t, 5, series.Entries[last])
	assert.Equal(t, 2, series.Exits[last])
	assert.Equal(t, 20, series.Entries[last-2])
	total := 0
	for _, n := range series.Entries {
		total += n
	}
	assert.Equal(t, 25, total, "el movimiento de hace 30 días queda fuera")

	long, err := uc.MovementSeries(context.Background(), 1000)
	require.NoError(t, err)
	assert.Len(t, long.Labels, report.MaxSeriesDays)
}

func TestStockByCategory(t *testing.T) {
	uc := newReport(seedStore(t), &fakePDF{})

	out, err := uc.StockByCategory(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Eléctrico", "Ferretería"}, out.Labels)
	assert.Equal(t, []int{3, 27}, out.Data)
}

func TestRecentActivity(t *testing.T) {
	uc := newReport(seedStore(t), &fakePDF{})

	out, err := uc.RecentActivity(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, entity.MovementTypeEntrada, out[0].Type)
	assert.Equal(t, "Tuerca", out[0].Item)
}

func TestStockReportCSV(t *testing.T) {
	uc := newReport(seedStore(t), &fakePDF{})

	body, name, err := uc.StockReportCSV(context.Background())

	require.NoError(t, err)
	assert.Contains(t, name, ".csv")
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "code", records[0][0])
	assert.Equal(t, []string{"B", "Cable", "Eléctrico", "", "", "3", "10", "true"}, records[1])
}

func TestStockReportPDF(t *testing.T) {
	gen := &fakePDF{}
	uc := newReport(seedStore(t), gen)

	body, name, err := uc.StockReportPDF(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), body)
	assert.Contains(t, name, ".pdf")
	assert.Len(t, gen.products, 3)
}
