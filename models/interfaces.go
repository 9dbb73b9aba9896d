package models

type CacheRecordRepositoryInterface interface {
	Get() (*CacheRecord, error)
	Upsert(rec *CacheRecord) error
	Delete() (bool, error)
}
