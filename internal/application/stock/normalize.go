package stock

import (
	"strings"
	"unicode"

	"github.com/velocityfibre/fibreflow-stock/internal/domain/entity"
	"golang.org/x/text/cases"
)

// Normalización texto libre → enums cerrados, para los valores que llegan del
// pipeline de import Excel/CSV y de formularios manuales. Insensible a
// mayúsculas, espacios y separadores; un valor sin mapeo cae en OTHER/UNITS en
// lugar de abortar el import.

var categoryAliases = map[string]entity.StockCategory{
	"fibre cable":       entity.CategoryFibreCable,
	"fiber cable":       entity.CategoryFibreCable,
	"cable":             entity.CategoryFibreCable,
	"drop cable":        entity.CategoryFibreCable,
	"poles":             entity.CategoryPoles,
	"pole":              entity.CategoryPoles,
	"equipment":         entity.CategoryEquipment,
	"tools":             entity.CategoryTools,
	"tool":              entity.CategoryTools,
	"consumables":       entity.CategoryConsumables,
	"consumable":        entity.CategoryConsumables,
	"home connections":  entity.CategoryHomeConnections,
	"home connection":   entity.CategoryHomeConnections,
	"network equipment": entity.CategoryNetworkEquipment,
	"safety equipment":  entity.CategorySafetyEquipment,
	"safety":            entity.CategorySafetyEquipment,
	"other":             entity.CategoryOther,
}

var unitAliases = map[string]entity.UnitOfMeasure{
	"m":         entity.UnitMeters,
	"meter":     entity.UnitMeters,
	"meters":    entity.UnitMeters,
	"metres":    entity.UnitMeters,
	"feet":      entity.UnitMeters, // hojas de campo legacy miden en pies
	"each":      entity.UnitUnits,
	"ea":        entity.UnitUnits,
	"unit":      entity.UnitUnits,
	"units":     entity.UnitUnits,
	"pc":        entity.UnitPieces,
	"pcs":       entity.UnitPieces,
	"piece":     entity.UnitPieces,
	"pieces":    entity.UnitPieces,
	"box":       entity.UnitBoxes,
	"boxes":     entity.UnitBoxes,
	"roll":      entity.UnitRolls,
	"rolls":     entity.UnitRolls,
	"set":       entity.UnitSets,
	"sets":      entity.UnitSets,
	"l":         entity.UnitLiters,
	"liter":     entity.UnitLiters,
	"liters":    entity.UnitLiters,
	"litre":     entity.UnitLiters,
	"litres":    entity.UnitLiters,
	"kg":        entity.UnitKilograms,
	"kilogram":  entity.UnitKilograms,
	"kilograms": entity.UnitKilograms,
	"hour":      entity.UnitHours,
	"hours":     entity.UnitHours,
	"hr":        entity.UnitHours,
	"hrs":       entity.UnitHours,
}

// normalizeKey pliega mayúsculas (Unicode case folding) y colapsa cualquier
// separador a un espacio simple.
func normalizeKey(s string) string {
	folded := cases.Fold().String(s)
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.Join(fields, " ")
}

// NormalizeCategory mapea texto libre a una categoría del enum. Tras el
// lookup exacto aplica heurísticas de contención (Cable -> fibre_cable;
// Connector/Duct/Closure -> equipment).
func NormalizeCategory(raw string) entity.StockCategory {
	key := normalizeKey(raw)
	if key == "" {
		return entity.CategoryOther
	}
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	switch {
	case strings.Contains(key, "cable"):
		return entity.CategoryFibreCable
	case strings.Contains(key, "pole"):
		return entity.CategoryPoles
	case strings.Contains(key, "connector"), strings.Contains(key, "duct"), strings.Contains(key, "closure"):
		return entity.CategoryEquipment
	}
	return entity.CategoryOther
}

// NormalizeUnit mapea texto libre a una unidad del enum; default UNITS.
func NormalizeUnit(raw string) entity.UnitOfMeasure {
	if u, ok := unitAliases[normalizeKey(raw)]; ok {
		return u
	}
	return entity.UnitUnits
}
