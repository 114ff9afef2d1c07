package repository

import "github.com/velocityfibre/fibreflow-stock/internal/domain/entity"

// ProjectRepository es el puerto de solo lectura hacia los proyectos, que se
// gestionan fuera de este módulo.
type ProjectRepository interface {
	GetByID(id string) (*entity.Project, error)
}
