package inventoryrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSTATE codes of transactions PostgreSQL aborted to break a lock cycle or a
// serialization failure. Both are lost races.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// DefaultCASAttempts bounds the compare-and-swap loop of a single Reserve call.
const DefaultCASAttempts = 5

// GormInventoryRepository implements InventoryRepository using GORM.
//
// Each Reserve or Release call updates one row, and the row stays locked until the
// surrounding transaction ends. A reservation reads the row, then updates it only if
// the version it read is still current, and retries when another writer got there
// first. Callers holding several keys reserve them in inventory.Key order.
type GormInventoryRepository struct {
	db          *gorm.DB
	casAttempts int
}

func NewGormInventoryRepository(db *gorm.DB, casAttempts int) *GormInventoryRepository {
	if casAttempts <= 0 {
		casAttempts = DefaultCASAttempts
	}
	return &GormInventoryRepository{db: db, casAttempts: casAttempts}
}

// Put sets the available quantity of a key, creating the row when needed.
func (r *GormInventoryRepository) Put(ctx context.Context, unit inventory.Unit) error {
	if err := unit.WarehouseID.Validate(); err != nil {
		return err
	}
	if unit.AvailableQty < 0 {
		return errs.NewValueIsOutOfRangeError("availableQty", unit.AvailableQty, 0, "unbounded")
	}

	dto := UnitDTO{WarehouseID: unit.WarehouseID.Bytes(), SKUID: unit.SKUID, AvailableQty: unit.AvailableQty}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "warehouse_id"}, {Name: "sku_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"available_qty": unit.AvailableQty,
			"version":       gorm.Expr("inventory_units.version + 1"),
		}),
	}).Create(&dto).Error
}

// Snapshot reads every warehouse row of skuIDs in one statement.
func (r *GormInventoryRepository) Snapshot(ctx context.Context, skuIDs []string) (inventory.Snapshot, error) {
	if len(skuIDs) == 0 {
		return inventory.NewSnapshot(), nil
	}

	var dtos []UnitDTO
	if err := r.db.WithContext(ctx).Where("sku_id IN ?", skuIDs).Find(&dtos).Error; err != nil {
		return inventory.Snapshot{}, err
	}

	units := make([]inventory.Unit, 0, len(dtos))
	for _, dto := range dtos {
		units = append(units, toDomain(dto))
	}
	return inventory.NewSnapshot(units...), nil
}

func (r *GormInventoryRepository) AvailableQty(ctx context.Context, key inventory.Key) (int, error) {
	dto, err := r.read(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dto.AvailableQty, nil
}

// Reserve returns false without error when fewer than qty units are available.
func (r *GormInventoryRepository) Reserve(ctx context.Context, key inventory.Key, qty int) (bool, error) {
	if qty <= 0 {
		return false, errs.NewValueIsOutOfRangeError("qty", qty, 1, "unbounded")
	}

	for range r.casAttempts {
		dto, err := r.read(ctx, key)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if dto.AvailableQty < qty {
			return false, nil
		}

		swapped, err := r.swap(ctx, key, dto.Version, qty)
		if err != nil {
			return false, asConflict(key, err)
		}
		if swapped {
			return true, nil
		}
	}

	return false, fmt.Errorf("%w: %s/%s after %d attempts",
		errs.ErrReservationConflict, key.WarehouseID, key.SKUID, r.casAttempts)
}

// Release adds qty back. It is a single relative update, so it never conflicts.
func (r *GormInventoryRepository) Release(ctx context.Context, key inventory.Key, qty int) error {
	if qty <= 0 {
		return errs.NewValueIsOutOfRangeError("qty", qty, 1, "unbounded")
	}

	result := r.db.WithContext(ctx).Model(&UnitDTO{}).
		Where("warehouse_id = ? AND sku_id = ?", key.WarehouseID.Bytes(), key.SKUID).
		Updates(map[string]any{
			"available_qty": gorm.Expr("available_qty + ?", qty),
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("inventory", key.WarehouseID.String()+"/"+key.SKUID)
	}
	return nil
}

func (r *GormInventoryRepository) read(ctx context.Context, key inventory.Key) (UnitDTO, error) {
	var dto UnitDTO
	err := r.db.WithContext(ctx).
		First(&dto, "warehouse_id = ? AND sku_id = ?", key.WarehouseID.Bytes(), key.SKUID).Error
	return dto, err
}

// swap decrements by qty only if the row is still at version and holds enough stock.
func (r *GormInventoryRepository) swap(ctx context.Context, key inventory.Key, version int64, qty int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&UnitDTO{}).
		Where("warehouse_id = ? AND sku_id = ? AND version = ? AND available_qty >= ?",
			key.WarehouseID.Bytes(), key.SKUID, version, qty).
		Updates(map[string]any{
			"available_qty": gorm.Expr("available_qty - ?", qty),
			"version":       version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// asConflict turns deadlock and serialization aborts into errs.ErrReservationConflict
// so the caller re-plans instead of failing.
func asConflict(key inventory.Key, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return fmt.Errorf("%w: %s/%s: %w", errs.ErrReservationConflict, key.WarehouseID, key.SKUID, err)
	}
	return err
}
