package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appstock "github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	"github.com/velocityfibre/fibreflow-stock/internal/domain"
	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
)

func newTransferFixture() (*memStore, *appstock.TransferUseCase) {
	store := newMemStore()
	store.projects["proj-1"] = testProject("proj-1", "LAW-001", "Lawley Fase 1")
	store.projects["proj-2"] = testProject("proj-2", "MAM-002", "Mamelodi Fase 2")
	uc := appstock.NewTransferUseCase(&memTxRunner{store: store}, &memProjectRepo{store: store})
	return store, uc
}

// Un traslado escribe las dos patas con el mismo reference_id y deja el stock
// neto intacto.
func TestTransfer_DosPatasEmparejadas(t *testing.T) {
	store, uc := newTransferFixture()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "100", "0")

	result, err := uc.Transfer(context.Background(), appstock.TransferInput{
		ItemID:        "item-1",
		Quantity:      dec("30"),
		FromLocation:  "Almacén Central",
		ToLocation:    "Depósito Lawley",
		FromProjectID: "proj-1",
		ToProjectID:   "proj-2",
	}, testActor)
	require.NoError(t, err)
	require.NotNil(t, result)

	out := store.movements[result.OutMovementID]
	in := store.movements[result.InMovementID]
	require.NotNil(t, out)
	require.NotNil(t, in)

	assert.Equal(t, entity.MovementTransferOut, out.MovementType)
	assert.Equal(t, entity.MovementTransferIn, in.MovementType)
	assert.Equal(t, result.TransferID, out.ReferenceID, "las patas comparten reference_id")
	assert.Equal(t, result.TransferID, in.ReferenceID)
	assert.Equal(t, out.ReferenceNumber, in.ReferenceNumber)

	// La salida encadena con la entrada: 100 -> 70 -> 100.
	assert.True(t, dec("100").Equal(out.PreviousStock))
	assert.True(t, dec("70").Equal(out.NewStock))
	assert.True(t, dec("70").Equal(in.PreviousStock))
	assert.True(t, dec("100").Equal(in.NewStock))

	assert.True(t, dec("100").Equal(store.items["item-1"].CurrentStock), "neto cero sobre el stock")
	assert.Equal(t, "Mamelodi Fase 2", in.ToProjectName)
	assert.Equal(t, "Lawley Fase 1", out.FromProjectName)
}

// Si la pata de salida dejaría stock negativo no se escribe NINGUNA de las dos.
func TestTransfer_SinStock_NoEscribeNinguna(t *testing.T) {
	store, uc := newTransferFixture()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "10", "0")

	_, err := uc.Transfer(context.Background(), appstock.TransferInput{
		ItemID:       "item-1",
		Quantity:     dec("30"),
		FromLocation: "Almacén Central",
		ToLocation:   "Depósito Lawley",
	}, testActor)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, store.movements, "traslado atómico: cero patas escritas")
	assert.True(t, dec("10").Equal(store.items["item-1"].CurrentStock))
}

func TestTransfer_MismaUbicacion_Rechaza(t *testing.T) {
	store, uc := newTransferFixture()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "100", "0")

	_, err := uc.Transfer(context.Background(), appstock.TransferInput{
		ItemID:       "item-1",
		Quantity:     dec("5"),
		FromLocation: "Almacén Central",
		ToLocation:   "Almacén Central",
	}, testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_ProyectoDestinoInexistente_Rechaza(t *testing.T) {
	store, uc := newTransferFixture()
	store.items["item-1"] = testItem("item-1", "FIB-000001", "100", "0")

	_, err := uc.Transfer(context.Background(), appstock.TransferInput{
		ItemID:       "item-1",
		Quantity:     dec("5"),
		FromLocation: "Almacén Central",
		ToLocation:   "Depósito Lawley",
		ToProjectID:  "proj-fantasma",
	}, testActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.movements)
}
