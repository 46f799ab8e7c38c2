package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crmkit-dev/crmkit/internal/record"
	"github.com/crmkit-dev/crmkit/internal/report"
	"github.com/crmkit-dev/crmkit/pkg/crm"
	"github.com/crmkit-dev/crmkit/pkg/store"
)

// Stores bundles the three entity stores the record service serves.
type Stores struct {
	Contacts   store.Store[crm.Contact, crm.ContactPatch]
	Deals      store.Store[crm.Deal, crm.DealPatch]
	Activities store.Store[crm.Activity, crm.ActivityPatch]
}

// NewRouter builds the gin engine with the three table resources, the
// dashboard endpoint, health and Prometheus metrics.
func NewRouter(s Stores, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors())
	r.Use(requestID())
	r.Use(observeRequests())

	apiGroup := r.Group("/api")
	{
		contacts := &Resource[crm.Contact, crm.ContactPatch]{
			Store:       s.Contacts,
			Codec:       record.ContactCodec{},
			DecodePatch: record.DecodeContactPatch,
			Log:         log,
		}
		contacts.Register(apiGroup)

		deals := &Resource[crm.Deal, crm.DealPatch]{
			Store:       s.Deals,
			Codec:       record.DealCodec{},
			DecodePatch: record.DecodeDealPatch,
			Log:         log,
		}
		deals.Register(apiGroup)

		activities := &Resource[crm.Activity, crm.ActivityPatch]{
			Store:       s.Activities,
			Codec:       record.ActivityCodec{},
			DecodePatch: record.DecodeActivityPatch,
			Log:         log,
		}
		activities.Register(apiGroup)

		apiGroup.GET("/dashboard", dashboard(report.Stores{
			Contacts:   s.Contacts,
			Deals:      s.Deals,
			Activities: s.Activities,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// dashboard serves the composed overview read from all three stores.
func dashboard(s report.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := report.BuildOverview(c.Request.Context(), s)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, overview)
	}
}

// cors mirrors the headers the SPA development server needs.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestID tags every request so client retries can be correlated in logs.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
