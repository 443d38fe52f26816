package scanning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fabrica-api/internal/application/dto"
	"github.com/jhoicas/fabrica-api/internal/application/ledger"
	"github.com/jhoicas/fabrica-api/internal/domain"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/domain/scan"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/metrics"
	"github.com/jhoicas/fabrica-api/pkg/logger"
)

const defaultLockWait = 3 * time.Second

// ResolveInput entrada de un escaneo. Operators y Settings son opcionales: si vienen nil se
// leen del almacenamiento (y Settings cae a los valores por defecto del Resolver).
type ResolveInput struct {
	Code         string
	SessionActor string
	Device       string
	Operators    []entity.Operator
	Settings     *entity.ScanSettings
}

// Resolver empareja un código escaneado con líneas de pedido, una sola vez por DisplayKey.
type Resolver struct {
	txRunner ledger.TxRunner
	repos    repository.Repositories
	guard    ScanGuard
	defaults entity.ScanSettings
	lockWait time.Duration
	metrics  *metrics.Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewResolver construye el resolvedor. guard puede ser nil (sin serialización previa).
func NewResolver(txRunner ledger.TxRunner, repos repository.Repositories, guard ScanGuard, defaults entity.ScanSettings, m *metrics.Metrics, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		txRunner: txRunner,
		repos:    repos,
		guard:    guard,
		defaults: defaults,
		lockWait: defaultLockWait,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// prepared código ya interpretado, listo para buscar pedidos.
type prepared struct {
	input      string
	code       string
	operator   string
	device     string
	channel    string
	hasChannel bool
}

// Resolve ejecuta la resolución completa en una transacción.
func (rs *Resolver) Resolve(ctx context.Context, in ResolveInput) (*dto.ScanResult, error) {
	start := time.Now()
	p, res, err := rs.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	if res != nil {
		rs.metrics.ObserveScan("resolve", res.Status, time.Since(start))
		return res, nil
	}

	unlock := rs.lock(ctx, p.code)
	defer unlock()

	err = rs.txRunner.Run(ctx, func(r repository.Repositories) error {
		out, _, err := rs.resolveInTx(ctx, r, p)
		res = out
		return err
	})
	if err != nil {
		return nil, err
	}
	rs.metrics.ObserveScan("resolve", res.Status, time.Since(start))
	return res, nil
}

// prepare normaliza el código y resuelve operador y canal. Un código vacío produce un
// resultado ERROR que no se persiste.
func (rs *Resolver) prepare(ctx context.Context, in ResolveInput) (*prepared, *dto.ScanResult, error) {
	settings, err := rs.settings(ctx, in.Settings)
	if err != nil {
		return nil, nil, err
	}
	operators := in.Operators
	if operators == nil {
		operators, err = rs.repos.Operators.List(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	code := scan.Normalize(in.Code, settings.ScannerSuffix)
	prefix := scan.ExtractOperatorPrefix(code, operators)
	code = prefix.Code
	if code == "" {
		return nil, &dto.ScanResult{
			Status:    entity.ScanStatusError,
			Message:   fmt.Sprintf("%s: código vacío", domain.ErrInvalidInput),
			InputCode: in.Code,
		}, nil
	}
	channel, hasChannel := scan.DetectChannel(code, settings.ChannelMarkers)
	return &prepared{
		input:      in.Code,
		code:       code,
		operator:   scan.ResolveOperator(in.SessionActor, prefix, settings.DefaultOperator),
		device:     in.Device,
		channel:    channel,
		hasChannel: hasChannel,
	}, nil, nil
}

func (rs *Resolver) settings(ctx context.Context, given *entity.ScanSettings) (*entity.ScanSettings, error) {
	if given != nil {
		return given, nil
	}
	saved, err := rs.repos.Settings.GetScanSettings(ctx)
	if err != nil {
		return nil, err
	}
	if saved != nil {
		return saved, nil
	}
	def := rs.defaults
	return &def, nil
}

// lock toma el ScanGuard del código. Si no se obtiene a tiempo se continúa sin él:
// el índice único del registro sigue impidiendo un segundo OK.
func (rs *Resolver) lock(ctx context.Context, code string) func() {
	if rs.guard == nil {
		return func() {}
	}
	lockCtx, cancel := context.WithTimeout(ctx, rs.lockWait)
	defer cancel()
	unlock, err := rs.guard.Lock(lockCtx, "scan:"+code)
	if err != nil {
		rs.log.Warn().Err(err).Str("code", code).Msg("scan guard no disponible, se continúa sin bloqueo")
		return func() {}
	}
	return unlock
}

// resolveInTx aplica la búsqueda y el registro usando los repositorios de la transacción.
// Devuelve también las líneas emparejadas cuando el resultado es OK.
func (rs *Resolver) resolveInTx(ctx context.Context, r repository.Repositories, p *prepared) (*dto.ScanResult, []*entity.Order, error) {
	orders, err := r.Orders.FindByCode(ctx, p.code)
	if err != nil {
		return nil, nil, err
	}

	if len(orders) == 0 {
		prev, err := r.ScanLogs.FirstWithStatus(ctx, p.code, entity.ScanStatusNotFound)
		if err != nil {
			return nil, nil, err
		}
		if prev != nil {
			return rs.duplicate(p, p.code, prev), nil, nil
		}
		entry := rs.newEntry(p, p.code, entity.ScanStatusNotFound)
		entry.Message = "sin pedido para el código"
		if err := r.ScanLogs.Create(ctx, entry); err != nil {
			return nil, nil, err
		}
		return &dto.ScanResult{
			Status:           entity.ScanStatusNotFound,
			Message:          entry.Message,
			InputCode:        p.input,
			DisplayKey:       p.code,
			ResolvedOperator: p.operator,
			Channel:          p.channel,
			ScanID:           entry.ID,
		}, nil, nil
	}

	displayKey := orders[0].DisplayKey()

	if p.hasChannel {
		for _, o := range orders {
			if o.Channel == p.channel {
				continue
			}
			if err := r.Orders.UpdateChannel(ctx, o.OrderID, o.SKU, p.channel); err != nil {
				return nil, nil, err
			}
			o.Channel = p.channel
		}
	}

	prev, err := r.ScanLogs.FirstResolved(ctx, displayKey)
	if err != nil {
		return nil, nil, err
	}
	if prev != nil {
		return rs.duplicate(p, displayKey, prev), nil, nil
	}

	entry := rs.newEntry(p, displayKey, entity.ScanStatusOK)
	entry.OrderID = orders[0].OrderID
	entry.Tracking = orders[0].Tracking
	if entry.Channel == "" {
		entry.Channel = orders[0].Channel
	}
	if err := r.ScanLogs.Create(ctx, entry); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, nil, err
		}
		// Otro escaneo confirmó primero (violación del índice único).
		prev, err := r.ScanLogs.FirstResolved(ctx, displayKey)
		if err != nil {
			return nil, nil, err
		}
		return rs.duplicate(p, displayKey, prev), nil, nil
	}

	keys := make([]dto.OrderKeyResponse, 0, len(orders))
	for _, o := range orders {
		keys = append(keys, dto.OrderKeyResponse{OrderID: o.OrderID, SKU: o.SKU})
	}
	return &dto.ScanResult{
		Status:           entity.ScanStatusOK,
		Message:          fmt.Sprintf("pedido %s encontrado (%d líneas)", displayKey, len(orders)),
		InputCode:        p.input,
		DisplayKey:       displayKey,
		MatchedOrderKeys: keys,
		ResolvedOperator: p.operator,
		Channel:          entry.Channel,
		ScanID:           entry.ID,
	}, orders, nil
}

func (rs *Resolver) newEntry(p *prepared, displayKey, status string) *entity.ScanLog {
	return &entity.ScanLog{
		ID:         uuid.New().String(),
		DisplayKey: displayKey,
		InputCode:  p.input,
		Status:     status,
		Operator:   p.operator,
		Device:     p.device,
		Channel:    p.channel,
		CreatedAt:  rs.now(),
	}
}

func (rs *Resolver) duplicate(p *prepared, displayKey string, prev *entity.ScanLog) *dto.ScanResult {
	res := &dto.ScanResult{
		Status:           entity.ScanStatusDuplicate,
		Message:          fmt.Sprintf("%s ya fue escaneado", displayKey),
		InputCode:        p.input,
		DisplayKey:       displayKey,
		ResolvedOperator: p.operator,
		Channel:          p.channel,
	}
	if prev != nil {
		res.Message = fmt.Sprintf("%s ya fue escaneado por %s", displayKey, prev.Operator)
		res.FirstScan = &dto.FirstScanInfo{
			ScanID:    prev.ID,
			Operator:  prev.Operator,
			Device:    prev.Device,
			ScannedAt: prev.CreatedAt,
		}
	}
	return res
}

// MarkAdjusted convierte una entrada NOT_FOUND en ADJUSTED ligada al pedido indicado,
// tras una resolución manual.
func (rs *Resolver) MarkAdjusted(ctx context.Context, scanID, orderID, actor string) (*entity.ScanLog, error) {
	var out *entity.ScanLog
	err := rs.txRunner.Run(ctx, func(r repository.Repositories) error {
		entry, err := r.ScanLogs.GetByID(ctx, scanID)
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("%w: escaneo %s", domain.ErrNotFound, scanID)
		}
		if entry.Status != entity.ScanStatusNotFound {
			return fmt.Errorf("%w: el escaneo está en estado %s", domain.ErrConflict, entry.Status)
		}
		orders, err := r.Orders.FindByCode(ctx, orderID)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, orderID)
		}
		displayKey := orders[0].DisplayKey()
		if err := r.ScanLogs.MarkAdjusted(ctx, scanID, displayKey, orders[0].OrderID, actor); err != nil {
			return err
		}
		entry.Status = entity.ScanStatusAdjusted
		entry.DisplayKey = displayKey
		entry.OrderID = orders[0].OrderID
		entry.Operator = actor
		out = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.log.Info().Str("scan_id", scanID).Str("order_id", out.OrderID).Str("actor", actor).Msg("escaneo ajustado manualmente")
	return out, nil
}

// List devuelve el registro de escaneos, más recientes primero.
func (rs *Resolver) List(ctx context.Context, limit, offset int) ([]*entity.ScanLog, error) {
	return rs.repos.ScanLogs.List(ctx, limit, offset)
}
