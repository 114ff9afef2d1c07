package stock_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appstock "github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
)

func newCatalogFixture() (*memStore, *appstock.CatalogUseCase) {
	store := newMemStore()
	uc := appstock.NewCatalogUseCase(
		&memItemRepo{store: store},
		&memMovementRepo{store: store},
		nil,
	)
	return store, uc
}

// El alta normaliza categoría y unidad desde texto libre y genera el código si
// no viene.
func TestCreateItem_NormalizaYGeneraCodigo(t *testing.T) {
	store, uc := newCatalogFixture()

	item, err := uc.CreateItem(context.Background(), appstock.CreateItemInput{
		Name:          "Cable ADSS 48F",
		Category:      "Fibre Cable",
		UnitOfMeasure: "Meters",
		CurrentStock:  dec("500"),
		MinimumStock:  dec("50"),
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, entity.CategoryFibreCable, item.Category)
	assert.Equal(t, entity.UnitMeters, item.UnitOfMeasure)
	assert.True(t, item.AllocatedStock.IsZero())
	assert.Equal(t, entity.ItemStatusActive, item.Status)
	assert.True(t, dec("50").Equal(item.ReorderLevel), "reorder_level hereda minimum_stock si no viene")

	// Código generado: FIB-<6 dígitos>.
	require.NotEmpty(t, item.ItemCode)
	assert.True(t, strings.HasPrefix(item.ItemCode, "FIB-"), "código %q", item.ItemCode)
	assert.Len(t, item.ItemCode, 10)

	assert.Contains(t, store.items, item.ID)
}

func TestCreateItem_StockInicialNegativo_Rechaza(t *testing.T) {
	_, uc := newCatalogFixture()

	_, err := uc.CreateItem(context.Background(), appstock.CreateItemInput{
		Name:         "Poste 9m",
		Category:     "poles",
		CurrentStock: dec("-1"),
	}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// UpdateItem no puede tocar contadores; solo definición de catálogo.
func TestUpdateItem_ActualizaSoloDefinicion(t *testing.T) {
	store, uc := newCatalogFixture()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "100", "20")

	name := "Cable de fibra 48F"
	reorder := dec("30")
	item, err := uc.UpdateItem(context.Background(), "item-1", appstock.UpdateItemInput{
		Name:         &name,
		ReorderLevel: &reorder,
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, "Cable de fibra 48F", item.Name)
	assert.True(t, dec("30").Equal(item.ReorderLevel))
	assert.True(t, dec("100").Equal(item.CurrentStock), "los contadores no cambian")
	assert.True(t, dec("20").Equal(item.AllocatedStock))
}

func TestUpdateItem_EstadoInvalido_Rechaza(t *testing.T) {
	store, uc := newCatalogFixture()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "100", "0")

	bad := entity.StockItemStatus("archivado")
	_, err := uc.UpdateItem(context.Background(), "item-1", appstock.UpdateItemInput{Status: &bad}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Eliminar solo se permite sin historia en el ledger.
func TestDeleteItem_ConMovimientos_Bloquea(t *testing.T) {
	store, uc := newCatalogFixture()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "100", "0")
	store.movements["mov-1"] = &entity.StockMovement{ID: "mov-1", ItemID: "item-1"}

	err := uc.DeleteItem(context.Background(), "item-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, store.items, "item-1", "el item sigue existiendo")

	// Sin historia sí se elimina.
	store.items["item-2"] = testItem("item-2", "POL-000002", "10", "0")
	require.NoError(t, uc.DeleteItem(context.Background(), "item-2"))
	assert.NotContains(t, store.items, "item-2")
}

func TestLowStock_SoloActivosBajoReorden(t *testing.T) {
	store, uc := newCatalogFixture()

	low := testItem("item-1", "FIB-000001", "5", "0") // reorder 10 -> low
	ok := testItem("item-2", "POL-000002", "50", "0")
	inactive := testItem("item-3", "EQU-000003", "1", "0")
	inactive.Status = entity.ItemStatusInactive
	store.items["item-1"] = low
	store.items["item-2"] = ok
	store.items["item-3"] = inactive

	items, err := uc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "item-1", items[0].ID, "solo cuenta el activo bajo reorden")
}

// El import crea filas válidas y reporta las inválidas con su número de fila
// (cabecera en fila 1).
func TestImportItems_ReportaFilasInvalidas(t *testing.T) {
	store, uc := newCatalogFixture()

	rows := []appstock.ItemImportRow{
		{ItemCode: "FIB-000001", Name: "Cable 24F", Category: "cable", UnitOfMeasure: "m", CurrentStock: dec("100")},
		{ItemCode: "", Name: "Sin código", CurrentStock: dec("10")},
		{ItemCode: "POL-000003", Name: "Poste", Category: "Pole", CurrentStock: dec("-5")},
	}
	report, err := uc.ImportItems(context.Background(), rows, testActor)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Errors, 2)
	assert.Contains(t, report.Errors[0], "fila 3")
	assert.Contains(t, report.Errors[1], "fila 4")
	assert.Len(t, store.items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Normalización de texto libre
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeCategory_AliasYHeuristicas(t *testing.T) {
	cases := []struct {
		raw  string
		want entity.StockCategory
	}{
		{"Fibre Cable", entity.CategoryFibreCable},
		{"fiber_cable", entity.CategoryFibreCable},
		{"Drop Cable ADSS", entity.CategoryFibreCable}, // heurística "cable"
		{"POLES", entity.CategoryPoles},
		{"Wooden Pole 9m", entity.CategoryPoles},
		{"Connector SC/APC", entity.CategoryEquipment},
		{"Micro Duct 7mm", entity.CategoryEquipment},
		{"Dome Closure", entity.CategoryEquipment},
		{"Safety Equipment", entity.CategorySafetyEquipment},
		{"algo rarísimo", entity.CategoryOther},
		{"", entity.CategoryOther},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, appstock.NormalizeCategory(c.raw), "raw=%q", c.raw)
	}
}

func TestNormalizeUnit_AliasYDefault(t *testing.T) {
	cases := []struct {
		raw  string
		want entity.UnitOfMeasure
	}{
		{"m", entity.UnitMeters},
		{"Meters", entity.UnitMeters},
		{"FEET", entity.UnitMeters}, // hojas de campo legacy miden en pies
		{"each", entity.UnitUnits},
		{"pcs", entity.UnitPieces},
		{"Boxes", entity.UnitBoxes},
		{"roll", entity.UnitRolls},
		{"kg", entity.UnitKilograms},
		{"hrs", entity.UnitHours},
		{"???", entity.UnitUnits},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, appstock.NormalizeUnit(c.raw), "raw=%q", c.raw)
	}
}

func TestGenerateItemCode_PrefijoPorCategoria(t *testing.T) {
	code := appstock.GenerateItemCode(entity.CategoryPoles)
	assert.True(t, strings.HasPrefix(code, "POL-"), "código %q", code)
	assert.Len(t, code, 10)

	// Categoría sin letras suficientes cae en OTH.
	code = appstock.GenerateItemCode(entity.StockCategory(""))
	assert.True(t, strings.HasPrefix(code, "OTH-"), "código %q", code)
}
