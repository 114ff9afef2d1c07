package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar la operación")
)

// ChunkResult reporta un chunk del import masivo que sí quedó confirmado.
type ChunkResult struct {
	Index       int      // posición del chunk dentro del lote (desde 0)
	MovementIDs []string // IDs de ledger escritos por el chunk
}

// PartialBatchError indica que un import masivo se detuvo a mitad de la
// secuencia de chunks: los chunks en Committed quedaron aplicados y NO deben
// reintentarse; el resto del lote no se escribió. Envuelve el error del chunk
// que falló.
type PartialBatchError struct {
	Committed   []ChunkResult
	FailedChunk int
	Err         error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("import masivo detenido en el chunk %d (%d chunks confirmados): %v",
		e.FailedChunk, len(e.Committed), e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }
