package repository

// Repositories agrupa los repositorios atados a una misma conexión o transacción.
type Repositories struct {
	Items     StockItemRepository
	Movements StockMovementRepository
	Recipes   RecipeRepository
	Orders    OrderRepository
	ScanLogs  ScanLogRepository
	SkuLinks  SkuLinkRepository
	Operators OperatorRepository
	Settings  SettingsRepository
}
