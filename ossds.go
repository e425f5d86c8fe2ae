package ossds

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/glin-gogogo/go-oss-datastore/oss"
	"github.com/glin-gogogo/go-oss-datastore/utils"
	ds "github.com/ipfs/go-datastore"
	dsQuery "github.com/ipfs/go-datastore/query"
	logging "github.com/ipfs/go-log"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("ossds")

// OssDataStore exposes one bucket prefix as an ipfs datastore. The bucket
// namespace is flat, so keys map straight to "<root>/<key>.data" objects.
type OssDataStore struct {
	client        *oss.Client
	rootDirectory string
	numWorkers    int
}

func New(cfg utils.Config) (*OssDataStore, error) {
	opt := &oss.WithOssOption{}
	client, err := oss.New(
		opt.WithEndpoint(cfg.Endpoint),
		opt.WithAccessKey(cfg.AccessKey),
		opt.WithSecretKey(cfg.SecretKey),
		opt.WithBucket(cfg.Bucket),
		opt.WithRootDirectory(cfg.RootDirectory),
		opt.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg.RootDirectory, cfg.Workers), nil
}

// NewWithClient wraps an already-built client, e.g. one with a custom
// transport.
func NewWithClient(client *oss.Client, rootDirectory string, workers int) *OssDataStore {
	if rootDirectory == "" {
		rootDirectory = utils.DefaultRootDirectory
	}
	if workers <= 0 {
		workers = utils.MaxBatchWorkers
	}
	return &OssDataStore{
		client:        client,
		rootDirectory: rootDirectory,
		numWorkers:    workers,
	}
}

func (d *OssDataStore) objectPath(k ds.Key) string {
	return path.Join(d.rootDirectory, k.String()[1:]+utils.Extension)
}

func notFound(err error) bool {
	var ossErr *oss.Error
	return errors.As(err, &ossErr) && ossErr.StatusCode == 404
}

func (d *OssDataStore) Put(ctx context.Context, k ds.Key, value []byte) error {
	if !utils.KeyIsValid(k) {
		return fmt.Errorf("when putting '%q': %w", k, utils.ErrInvalidKey)
	}
	return d.client.PutObject(ctx, value, d.objectPath(k), nil)
}

func (d *OssDataStore) Get(ctx context.Context, k ds.Key) ([]byte, error) {
	if !utils.KeyIsValid(k) {
		return nil, ds.ErrNotFound
	}

	res, err := d.client.GetObject(ctx, d.objectPath(k), nil, nil)
	if err != nil {
		if notFound(err) {
			return nil, ds.ErrNotFound
		}
		return nil, err
	}
	return res.Content, nil
}

func (d *OssDataStore) Has(ctx context.Context, k ds.Key) (bool, error) {
	_, err := d.GetSize(ctx, k)
	if err != nil {
		if errors.Is(err, ds.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetSize resolves the size from a one-entry listing, so no body transfer is
// needed.
func (d *OssDataStore) GetSize(ctx context.Context, k ds.Key) (int, error) {
	if !utils.KeyIsValid(k) {
		return -1, ds.ErrNotFound
	}

	objectPath := d.objectPath(k)
	page, err := d.client.ListDetails(ctx, oss.ListOptions{Prefix: objectPath, MaxKeys: 1})
	if err != nil {
		return -1, err
	}

	for _, obj := range page.Objects {
		if obj.Key != objectPath {
			continue
		}
		size, serr := strconv.Atoi(obj.Size)
		if serr != nil {
			return -1, utils.ErrQueryBadData
		}
		return size, nil
	}
	return -1, ds.ErrNotFound
}

func (d *OssDataStore) Delete(ctx context.Context, k ds.Key) error {
	if !utils.KeyIsValid(k) {
		return nil
	}

	err := d.client.DeleteObject(ctx, d.objectPath(k))
	if err != nil && notFound(err) {
		err = nil
	}
	return err
}

func (d *OssDataStore) Query(ctx context.Context, q dsQuery.Query) (dsQuery.Results, error) {
	if q.Orders != nil || q.Filters != nil {
		return nil, fmt.Errorf("ossds: filters or orders are not supported")
	}

	prefix := d.rootDirectory
	if p := strings.TrimPrefix(q.Prefix, "/"); p != "" {
		prefix = path.Join(prefix, p)
	}
	limit := q.Limit + q.Offset
	if limit == 0 || limit > utils.DefaultListMax {
		limit = utils.DefaultListMax
	}

	page, err := d.client.ListDetails(ctx, oss.ListOptions{Prefix: prefix, MaxKeys: limit})
	if err != nil {
		return nil, err
	}

	index := q.Offset
	nextValue := func() (dsQuery.Result, bool) {
		for index >= len(page.Objects) {
			if !page.IsTruncated || page.NextMarker == "" {
				return dsQuery.Result{}, false
			}

			index -= len(page.Objects)
			page, err = d.client.ListDetails(ctx, oss.ListOptions{
				Prefix:  prefix,
				Marker:  page.NextMarker,
				MaxKeys: utils.DefaultListMax,
			})
			if err != nil {
				return dsQuery.Result{Error: err}, false
			}
		}

		obj := page.Objects[index]
		dsKey, ok := utils.Decode(d.rootDirectory, obj.Key)
		if !ok {
			return dsQuery.Result{Error: utils.ErrQueryBadData}, false
		}
		size, serr := strconv.Atoi(obj.Size)
		if serr != nil {
			return dsQuery.Result{Error: utils.ErrQueryBadData}, false
		}

		entry := dsQuery.Entry{
			Key:  dsKey.String(),
			Size: size,
		}
		if !q.KeysOnly {
			res, gerr := d.client.GetObject(ctx, obj.Key, nil, nil)
			if gerr != nil {
				return dsQuery.Result{Error: gerr}, false
			}
			entry.Value = res.Content
		}

		index++
		return dsQuery.Result{Entry: entry}, true
	}

	return dsQuery.ResultsFromIterator(q, dsQuery.Iterator{
		Close: func() error {
			return nil
		},
		Next: nextValue,
	}), nil
}

func (d *OssDataStore) Sync(_ context.Context, _ ds.Key) error {
	return nil
}

func (d *OssDataStore) Close() error {
	return nil
}

// GetSignURL mints a presigned URL for the raw object key.
func (d *OssDataStore) GetSignURL(_ context.Context, objectKey string, method oss.Method, expire time.Duration) (string, error) {
	return d.client.SignedURL(objectKey, method, expire)
}

type ossBatch struct {
	d          *OssDataStore
	ops        map[string]batchOp
	numWorkers int
}

type batchOp struct {
	val    []byte
	delete bool
}

func (d *OssDataStore) Batch(_ context.Context) (ds.Batch, error) {
	return &ossBatch{
		d:          d,
		ops:        make(map[string]batchOp),
		numWorkers: d.numWorkers,
	}, nil
}

func (b *ossBatch) Put(_ context.Context, k ds.Key, val []byte) error {
	b.ops[k.String()] = batchOp{
		val:    val,
		delete: false,
	}
	return nil
}

func (b *ossBatch) Delete(_ context.Context, k ds.Key) error {
	b.ops[k.String()] = batchOp{
		val:    nil,
		delete: true,
	}
	return nil
}

// Commit flushes the recorded operations through a bounded worker pool.
func (b *ossBatch) Commit(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.numWorkers)

	for k, op := range b.ops {
		key := ds.NewKey(k)
		op := op
		g.Go(func() error {
			if op.delete {
				return b.d.Delete(gctx, key)
			}
			return b.d.Put(gctx, key, op.val)
		})
	}

	if err := g.Wait(); err != nil {
		log.Errorf("ossds: batch commit failed: %v", err)
		return err
	}
	return nil
}
