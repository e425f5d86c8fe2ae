package utils

const (
	DefaultDataBucket    = "oss-data"
	DefaultRootDirectory = "oss/blocks"
	MaxBatchWorkers      = 32
)

const (
	DefaultListMax     = 1000
	DefaultDeleteMax   = 1000
	DefaultContentType = "application/octet-stream"
)
