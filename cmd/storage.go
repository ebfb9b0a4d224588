package cmd

import (
	"context"
	"fmt"

	"fulfillment/internal/adapters/out/carrierrates"
	"fulfillment/internal/adapters/out/memory"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/ratecardrepo"
	"fulfillment/internal/adapters/out/postgres/serviceabilityrepo"
	"fulfillment/internal/adapters/out/postgres/warehouserepo"
	"fulfillment/internal/adapters/out/yamlconfig"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// storage is what the composition root needs from a storage mode.
type storage struct {
	newUoW     func() ports.UnitOfWork
	orders     queries.OrderReader
	catalog    ports.ServiceabilityCatalog
	warehouses ports.WarehouseDirectory
	rateCards  carrierrates.CardSource
}

func newMemoryStorage(configs Config, seed yamlconfig.Seed) (storage, error) {
	store := memory.NewStore(configs.CASAttempts)
	for _, u := range seed.Inventory {
		if err := store.Arena.Put(u); err != nil {
			return storage{}, fmt.Errorf("seed inventory: %w", err)
		}
	}
	uowFactory := memory.NewUnitOfWorkFactory(store)

	return storage{
		newUoW:     uowFactory.Create,
		orders:     store.Orders,
		catalog:    memory.NewServiceabilityCatalog(seed.Serviceability...),
		warehouses: memory.NewWarehouseDirectory(seed.Warehouses...),
		rateCards:  memory.NewRateCards(seed.RateCards...),
	}, nil
}

func newPostgresStorage(ctx context.Context, configs Config, db *gorm.DB, seed yamlconfig.Seed) (storage, error) {
	if err := postgres.Migrate(db); err != nil {
		return storage{}, fmt.Errorf("migrate: %w", err)
	}

	s := storage{
		newUoW:     postgres.NewGormUnitOfWorkFactory(db, configs.CASAttempts).Create,
		orders:     orderrepo.NewGormOrderRepository(db, nil),
		catalog:    serviceabilityrepo.NewGormServiceabilityRepository(db),
		warehouses: warehouserepo.NewGormWarehouseRepository(db),
		rateCards:  ratecardrepo.NewGormRateCardRepository(db),
	}
	if !configs.SeedReferenceData {
		return s, nil
	}

	existing, err := s.warehouses.All(ctx)
	if err != nil {
		return storage{}, err
	}
	if len(existing) > 0 {
		return s, nil
	}
	if err = seedPostgres(ctx, db, seed); err != nil {
		return storage{}, fmt.Errorf("seed reference data: %w", err)
	}
	return s, nil
}

// seedPostgres writes the reference data in one transaction.
func seedPostgres(ctx context.Context, db *gorm.DB, seed yamlconfig.Seed) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		warehouses := warehouserepo.NewGormWarehouseRepository(tx)
		for _, w := range seed.Warehouses {
			if err := warehouses.Add(ctx, w); err != nil {
				return err
			}
		}
		stock := inventoryrepo.NewGormInventoryRepository(tx, 0)
		for _, u := range seed.Inventory {
			if err := stock.Put(ctx, u); err != nil {
				return err
			}
		}
		catalog := serviceabilityrepo.NewGormServiceabilityRepository(tx)
		for _, r := range seed.Serviceability {
			if err := catalog.Upsert(ctx, r); err != nil {
				return err
			}
		}
		cards := ratecardrepo.NewGormRateCardRepository(tx)
		for _, c := range seed.RateCards {
			if err := cards.Save(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}
