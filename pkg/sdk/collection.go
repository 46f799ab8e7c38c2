package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/crmkit-dev/crmkit/internal/record"
	"github.com/crmkit-dev/crmkit/pkg/store"
)

// Collection is the remote Entity Store for one table. Reads degrade to
// empty or absent results when the service misbehaves, so listing screens
// keep rendering; writes propagate every failure because the user's
// mutation must never silently no-op.
type Collection[T store.Entity[T], P store.Patch[T]] struct {
	client      *Client
	codec       record.Codec[T]
	encodePatch func(P) ([]byte, error)
}

// NewCollection binds a typed collection to a table on the client.
func NewCollection[T store.Entity[T], P store.Patch[T]](c *Client, codec record.Codec[T], encodePatch func(P) ([]byte, error)) *Collection[T, P] {
	return &Collection[T, P]{client: c, codec: codec, encodePatch: encodePatch}
}

func (col *Collection[T, P]) recordsPath() string {
	return "/api/tables/" + col.codec.Table() + "/records"
}

// GetAll fetches every record. Any failure is logged and degraded to an
// empty collection.
func (col *Collection[T, P]) GetAll(ctx context.Context) ([]T, error) {
	body, status, err := col.client.do(ctx, http.MethodGet, col.recordsPath(), nil)
	if err != nil || status != http.StatusOK {
		col.logDegraded("list", err, status)
		return []T{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		col.logDegraded("list", err, status)
		return []T{}, nil
	}
	records := make([]T, 0, len(raw))
	for _, msg := range raw {
		rec, err := col.codec.DecodeRecord(msg)
		if err != nil {
			col.logDegraded("list", err, status)
			return []T{}, nil
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetByID fetches one record. A 404 and any failure both degrade to an
// absent result; failures are logged.
func (col *Collection[T, P]) GetByID(ctx context.Context, id int) (*T, error) {
	body, status, err := col.client.do(ctx, http.MethodGet, col.recordsPath()+"/"+strconv.Itoa(id), nil)
	if err != nil {
		col.logDegraded("get", err, status)
		return nil, nil
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		col.logDegraded("get", serverError(status, body), status)
		return nil, nil
	}

	rec, err := col.codec.DecodeRecord(body)
	if err != nil {
		col.logDegraded("get", err, status)
		return nil, nil
	}
	return &rec, nil
}

// Create posts the draft in persistence shape and returns the stored record
// with its assigned identifier.
func (col *Collection[T, P]) Create(ctx context.Context, draft T) (T, error) {
	var zero T
	payload, err := col.codec.EncodeRecord(draft)
	if err != nil {
		return zero, err
	}
	body, status, err := col.client.do(ctx, http.MethodPost, col.recordsPath(), payload)
	if err != nil {
		return zero, fmt.Errorf("creating %s record: %w", col.codec.Table(), err)
	}
	if status != http.StatusOK {
		return zero, serverError(status, body)
	}
	return col.codec.DecodeRecord(body)
}

// Update patches the record and returns the merged result. A 404 maps back
// to store.ErrNotFound so callers see the same error as with the embedded
// engine.
func (col *Collection[T, P]) Update(ctx context.Context, id int, patch P) (T, error) {
	var zero T
	payload, err := col.encodePatch(patch)
	if err != nil {
		return zero, err
	}
	body, status, err := col.client.do(ctx, http.MethodPatch, col.recordsPath()+"/"+strconv.Itoa(id), payload)
	if err != nil {
		return zero, fmt.Errorf("updating %s record %d: %w", col.codec.Table(), id, err)
	}
	if status == http.StatusNotFound {
		return zero, store.NotFound(col.codec.Table(), id)
	}
	if status != http.StatusOK {
		return zero, serverError(status, body)
	}
	return col.codec.DecodeRecord(body)
}

// Delete removes the record. A 404 maps back to store.ErrNotFound.
func (col *Collection[T, P]) Delete(ctx context.Context, id int) error {
	body, status, err := col.client.do(ctx, http.MethodDelete, col.recordsPath()+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return fmt.Errorf("deleting %s record %d: %w", col.codec.Table(), id, err)
	}
	if status == http.StatusNotFound {
		return store.NotFound(col.codec.Table(), id)
	}
	if status != http.StatusOK {
		return serverError(status, body)
	}
	return nil
}

func (col *Collection[T, P]) logDegraded(op string, err error, status int) {
	col.client.log.Warn("read degraded to empty result",
		zap.String("table", col.codec.Table()),
		zap.String("op", op),
		zap.Int("status", status),
		zap.Error(err))
}
