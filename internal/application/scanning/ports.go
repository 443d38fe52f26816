package scanning

import "context"

// ScanGuard serializa intentos concurrentes sobre el mismo código normalizado.
// unlock siempre es seguro de llamar más de una vez.
type ScanGuard interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
