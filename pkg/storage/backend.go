package storage

// Backend is a minimal bucketed key-value store used to archive analysis
// reports. Values are raw []byte; callers choose the serialization.
// Get returns (nil, nil) when the bucket or key does not exist, so a
// missing report is not an error.
type Backend interface {
	CreateBucket(name []byte) error
	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)
	Delete(bucket, key []byte) error
	ForEach(bucket []byte, fn func(k, v []byte) error) error
	Close() error
}
