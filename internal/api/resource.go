// Package api exposes the record service over HTTP: one CRUD resource per
// entity table, speaking the persistence shape on the wire, plus the
// dashboard overview endpoint. This is the surface the remote client in
// pkg/sdk talks to.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crmkit-dev/crmkit/internal/record"
	"github.com/crmkit-dev/crmkit/pkg/store"
)

// Resource serves one entity table. The wire format is the persistence
// shape; the store works in domain shape, so every request and response
// passes through the codec's field mapping.
type Resource[T store.Entity[T], P store.Patch[T]] struct {
	Store       store.Store[T, P]
	Codec       record.Codec[T]
	DecodePatch func([]byte) (P, error)
	Log         *zap.Logger
}

// Register mounts the resource under /tables/<table>/records.
func (r *Resource[T, P]) Register(g *gin.RouterGroup) {
	if r.Log == nil {
		r.Log = zap.NewNop()
	}
	grp := g.Group("/tables/" + r.Codec.Table() + "/records")
	grp.GET("", r.List)
	grp.GET("/:id", r.Get)
	grp.POST("", r.Create)
	grp.PATCH("/:id", r.Update)
	grp.DELETE("/:id", r.Delete)
}

func (r *Resource[T, P]) List(c *gin.Context) {
	records, err := r.Store.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]json.RawMessage, len(records))
	for i, rec := range records {
		encoded, err := r.Codec.EncodeRecord(rec)
		if err != nil {
			r.logCodec("encode", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out[i] = encoded
	}
	c.JSON(http.StatusOK, out)
}

func (r *Resource[T, P]) Get(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	rec, err := r.Store.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	encoded, err := r.Codec.EncodeRecord(*rec)
	if err != nil {
		r.logCodec("encode", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", encoded)
}

func (r *Resource[T, P]) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draft, err := r.Codec.DecodeRecord(body)
	if err != nil {
		r.logCodec("decode", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := r.Store.Create(c.Request.Context(), draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	encoded, err := r.Codec.EncodeRecord(created)
	if err != nil {
		r.logCodec("encode", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", encoded)
}

func (r *Resource[T, P]) Update(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch, err := r.DecodePatch(body)
	if err != nil {
		r.logCodec("decode", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := r.Store.Update(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	encoded, err := r.Codec.EncodeRecord(updated)
	if err != nil {
		r.logCodec("encode", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", encoded)
}

func (r *Resource[T, P]) Delete(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := r.Store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// recordID parses the :id path parameter. Identifiers cross the boundary
// as decimal text and must parse back to a positive integer.
func recordID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return 0, false
	}
	return id, true
}

// logCodec records a field-mapping failure crossing the wire boundary.
func (r *Resource[T, P]) logCodec(op string, err error) {
	r.Log.Warn("record codec failure",
		zap.String("table", r.Codec.Table()),
		zap.String("op", op),
		zap.Error(err))
}
