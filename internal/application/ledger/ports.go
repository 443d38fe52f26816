package ledger

import (
	"context"

	"github.com/jhoicas/fabrica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacenamiento, pasando los
// repositorios atados a esa transacción. Si fn devuelve error se hace Rollback y nada de lo
// escrito dentro de fn queda persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(r repository.Repositories) error) error
}
