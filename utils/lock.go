package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/ipnlife/clinic_backend/config"
)

// ObtainStoreStockLock serializes multi-statement inventory reconciliation
// for one store. The caller must Release the returned lock after commit or
// rollback. Redis being down fails the operation before any write happens.
func ObtainStoreStockLock(ctx context.Context, storeId int, moduleName string, functionName string) (*redislock.Lock, error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		config.LogError(logger, moduleName, functionName, "Redis lock not initialized", storeId, errors.New("redis lock is nil"))
		return nil, errors.New("service not ready (redis lock not initialized)")
	}
	lockKey := fmt.Sprintf("stockLock:%d", storeId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain stock lock for store", storeId, err)
		return nil, errors.New("could not obtain stock lock for store")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining stock lock for store", storeId, err)
		return nil, err
	}
	return lock, nil
}
