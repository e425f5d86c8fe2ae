package oss

import (
	"net/http"
	"strings"
	"time"

	"github.com/glin-gogogo/go-oss-datastore/utils"
	logging "github.com/ipfs/go-log"
)

var log = logging.Logger("oss")

const (
	// MetaPrefix marks user-defined object metadata, on write (prepended to
	// caller keys) and on read (stripped from response headers).
	MetaPrefix = "x-oss-meta-"

	// ossHeaderPrefix selects the headers that participate in signing.
	ossHeaderPrefix = "x-oss-"

	copySourceHeader = "x-oss-copy-source"

	DefaultSignedURLExpiry = time.Minute
)

type Method string

const (
	MethodGet    Method = "GET"
	MethodPut    Method = "PUT"
	MethodHead   Method = "HEAD"
	MethodDelete Method = "DELETE"
)

// Client is an immutable handle on one bucket of one endpoint. It is safe to
// share across goroutines; retarget with WithBucket instead of mutating a
// shared instance.
type Client struct {
	keyID     string
	keySecret string
	endpoint  string
	bucket    string
	transport Transport
}

type WithOssOption struct{}

func (o *WithOssOption) WithEndpoint(endpoint string) utils.WithOption {
	return func(options *utils.Config) error {
		options.Endpoint = endpoint
		return nil
	}
}

func (o *WithOssOption) WithAccessKey(accessKey string) utils.WithOption {
	return func(options *utils.Config) error {
		options.AccessKey = accessKey
		return nil
	}
}

func (o *WithOssOption) WithSecretKey(secretKey string) utils.WithOption {
	return func(options *utils.Config) error {
		options.SecretKey = secretKey
		return nil
	}
}

func (o *WithOssOption) WithBucket(bucket string) utils.WithOption {
	return func(options *utils.Config) error {
		options.Bucket = bucket

		if options.Bucket == "" {
			options.Bucket = utils.DefaultDataBucket
		}
		return nil
	}
}

func (o *WithOssOption) WithRootDirectory(rootDirectory string) utils.WithOption {
	return func(options *utils.Config) error {
		options.RootDirectory = rootDirectory

		if options.RootDirectory == "" {
			options.RootDirectory = utils.DefaultRootDirectory
		}
		return nil
	}
}

func (o *WithOssOption) WithWorkers(workers int) utils.WithOption {
	return func(options *utils.Config) error {
		options.Workers = workers

		if options.Workers <= 0 {
			options.Workers = utils.MaxBatchWorkers
		}
		return nil
	}
}

func New(opts ...utils.WithOption) (*Client, error) {
	cfg := new(utils.Config)
	for _, o := range opts {
		if err := o(cfg); err != nil {
			return nil, err
		}
	}

	return NewFromConfig(*cfg), nil
}

func NewFromConfig(cfg utils.Config) *Client {
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = utils.DefaultDataBucket
	}

	return &Client{
		keyID:     cfg.AccessKey,
		keySecret: cfg.SecretKey,
		endpoint:  cfg.Endpoint,
		bucket:    bucket,
		transport: newRestyTransport(),
	}
}

// WithBucket returns a copy of the client aimed at another bucket. The copy
// shares the transport, so pooled connections are reused.
func (c *Client) WithBucket(bucket string) *Client {
	clone := *c
	clone.bucket = bucket
	return &clone
}

// WithTransport returns a copy of the client using the given transport.
func (c *Client) WithTransport(t Transport) *Client {
	clone := *c
	clone.transport = t
	return &clone
}

func (c *Client) Bucket() string {
	return c.bucket
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// date renders the current wall-clock time the way the service expects it,
// RFC 1123 with a literal GMT zone.
func (c *Client) date() string {
	return time.Now().UTC().Format(http.TimeFormat)
}

// url builds the fully addressed request URL. The bucket and object key are
// inserted as given; escaping them is the caller's responsibility.
func (c *Client) url(object, query string) string {
	scheme := "http"
	host := c.endpoint
	if strings.HasPrefix(c.endpoint, "https://") {
		scheme = "https"
		host = strings.TrimPrefix(host, "https://")
	} else {
		host = strings.TrimPrefix(host, "http://")
	}

	u := scheme + "://" + c.bucket + "." + host + "/" + object
	if query != "" {
		u += "?" + query
	}
	return u
}
