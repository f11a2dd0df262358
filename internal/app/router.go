package app

import (
	"net/http"

	_ "vatrefunder/api/swagger" // swagger docs
	"vatrefunder/internal/handler"
	"vatrefunder/internal/middleware"
	"vatrefunder/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter registers every route. hub may be nil, in which case /ws is not served.
func NewRouter(c *Container, hub *websocket.Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = c.Config.Server.AllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if hub != nil {
		router.GET("/ws", func(ctx *gin.Context) {
			websocket.ServeWs(hub, ctx)
		})
	}

	root := router.Group("")
	handler.NewReferenceHandler(c.Services.Reference).RegisterRoutes(root)
	handler.NewInvoiceHandler(c.Services.Invoice, c.Services.Import).RegisterRoutes(root)
	handler.NewVoucherHandler(c.Services.Voucher).RegisterRoutes(root)
	handler.NewVatHandler().RegisterRoutes(root)
	handler.NewExportHandler(c.Services.Export).RegisterRoutes(root)
	handler.NewAuditHandler(c.Services.Audit).RegisterRoutes(root)

	return router
}
