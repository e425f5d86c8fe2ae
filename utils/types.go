package utils

const (
	Extension = ".data"
)

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	RootDirectory string
	Workers       int
}

type WithClientOption interface {
	WithEndpoint(endpoint string) WithOption
	WithAccessKey(accessKey string) WithOption
	WithSecretKey(secretKey string) WithOption
	WithBucket(bucket string) WithOption
	WithRootDirectory(rootDirectory string) WithOption
	WithWorkers(workers int) WithOption
}

type WithOption func(options *Config) error
