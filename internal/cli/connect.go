package cli

import (
	"github.com/hybrid-blog-api/internal/database"
	"github.com/hybrid-blog-api/internal/models"
)

// openStore connects to one store with its own driver
func (o *RootOptions) openStore(store models.StoreName) (*database.DB, error) {
	if store == models.StoreA {
		return database.New(&o.cfg.StoreA, models.StoreA, database.DriverStoreA, o.log)
	}
	return database.New(&o.cfg.StoreB, models.StoreB, database.DriverStoreB, o.log)
}

// openBoth connects to both stores, closing A if B fails
func (o *RootOptions) openBoth() (*database.DB, *database.DB, error) {
	dbA, err := o.openStore(models.StoreA)
	if err != nil {
		return nil, nil, err
	}
	dbB, err := o.openStore(models.StoreB)
	if err != nil {
		dbA.Close()
		return nil, nil, err
	}
	return dbA, dbB, nil
}
