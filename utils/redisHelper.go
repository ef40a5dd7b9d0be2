package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/mmsoftworks/campusfees_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* Redis list cache for catalog reference data.
Only the small, rarely-changing lists (branches, semesters, sessions) are
cached. Aggregates (summary, ledger) are always recomputed from the DB. */

// store list under "<TypeName>List"
func StoreRedisList[T any](obj any) error {
	key := GetTypeName[T]() + "List"
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// retrieve list, nil result means cache miss
func RetrieveRedisList[T any]() ([]*T, error) {
	key := GetTypeName[T]() + "List"
	var results []*T
	exists, err := config.GetRedisObject(key, &results)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return results, nil
}

// invalidate list cache after any write to the cached entity
func RemoveRedisList[T any]() error {
	key := GetTypeName[T]() + "List"
	return config.RemoveRedisKey(key)
}
