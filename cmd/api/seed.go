package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/fabrica-api/internal/domain/entity"
	"github.com/jhoicas/fabrica-api/internal/domain/repository"
	"github.com/jhoicas/fabrica-api/internal/infrastructure/memory"
	"github.com/jhoicas/fabrica-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// seedDemo carga un catálogo mínimo en el almacenamiento en memoria: una materia prima,
// un producto con receta y dos pedidos abiertos. El saldo entra por el libro.
func seedDemo(ctx context.Context, store *memory.Store, log *logger.Logger) {
	now := time.Now()
	err := store.Run(ctx, func(r repository.Repositories) error {
		items := []*entity.StockItem{
			{Code: "TELA", Name: "Tela algodón (m)", Kind: entity.KindRawMaterial, Unit: "M", MinQty: decimal.NewFromInt(20)},
			{Code: "CAMISETA-M", Name: "Camiseta talla M", Kind: entity.KindFinishedProduct, Unit: "UN"},
		}
		for _, it := range items {
			it.CreatedAt, it.UpdatedAt = now, now
			if err := r.Items.Create(ctx, it); err != nil {
				return err
			}
		}
		if err := r.Movements.Create(ctx, &entity.StockMovement{
			ID: uuid.NewString(), ItemCode: "TELA", ItemNameSnapshot: items[0].Name,
			Origin: entity.OriginInventoryCount, QtyDelta: decimal.NewFromInt(100), Ref: "SEED", Actor: "seed", CreatedAt: now,
		}); err != nil {
			return err
		}
		if err := r.Items.AddQuantity(ctx, "TELA", decimal.NewFromInt(100)); err != nil {
			return err
		}
		if err := r.Recipes.Replace(ctx, &entity.Recipe{
			ProductCode: "CAMISETA-M",
			Components:  []entity.RecipeComponent{{ComponentCode: "TELA", QtyPerUnit: decimal.RequireFromString("1.5")}},
		}); err != nil {
			return err
		}
		if err := r.SkuLinks.Upsert(ctx, &entity.SkuLink{ImportedSKU: "ML-CAM-M", MasterSKU: "CAMISETA-M", CreatedAt: now}); err != nil {
			return err
		}
		for _, o := range []*entity.Order{
			{OrderID: "PED-1001", SKU: "ML-CAM-M", Tracking: "BR100200300", Status: entity.OrderStatusNormal},
			{OrderID: "PED-1002", SKU: "CAMISETA-M", Tracking: "BR100200301", Status: entity.OrderStatusNormal},
		} {
			o.CreatedAt, o.UpdatedAt = now, now
			if err := r.Orders.Create(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("carga de datos demo")
		return
	}
	log.Info().Msg("datos demo cargados (driver memory)")
}
