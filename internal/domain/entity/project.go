package entity

// Project es el modelo de lectura mínimo de un proyecto de despliegue.
// La gestión de proyectos vive fuera de este módulo; aquí solo se resuelven
// código y nombre para desnormalizarlos en los movimientos.
type Project struct {
	ID          string
	ProjectCode string
	Name        string
}
