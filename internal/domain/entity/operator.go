package entity

import "time"

// Operator operador de escaneo. Prefix es el prefijo de su credencial: "(PREFIX)codigo".
type Operator struct {
	ID        string
	Name      string
	Prefix    string
	Active    bool
	CreatedAt time.Time
}
