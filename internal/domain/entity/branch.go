package entity

import "time"

// Branch representa una sucursal de la cadena. Es el ancla de propiedad de productos
// y de las relaciones deudor/acreedor del clearing.
type Branch struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
