// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"paperroom/access-api/db"
	"paperroom/access-api/middleware"
	"paperroom/access-api/security"
	"paperroom/access-api/service"
	"paperroom/access-api/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB           *gorm.DB
	Router       *gin.Engine
	Argon        *security.ArgonHash
	Gates        *service.GateResolver
	Verification *service.Verification
	Views        *service.Views
	S3           *storage.S3Client
}

func NewRouter() (*API, error) {
	a := &API{}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = database

	makeLogger()

	a.Argon = security.New()
	a.Gates = &service.GateResolver{DB: database}
	a.Verification = service.NewVerification(database, a.Argon, security.NewAuthCodeGenerator(nil), service.SMTPMailSender{})
	a.Views = service.NewViews(database)

	if viper.GetString("aws.bucket") != "" {
		s3, err := storage.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
		a.S3 = s3
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(database)
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/users/login	-> Logs in an owner and returns a JWT cookie
		users.POST("/login", a.UserLogin)
	}

	verification := main.Group("/verification", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/verification	-> Checks credentials and issues a one-time code
		verification.POST("", a.VerificationRequest)

		// GET /api/verification	-> Validates an issued code
		verification.GET("", a.VerificationValidate)
	}

	links := main.Group("/links")
	{
		// GET /api/links/:linkID	-> Returns a link for the viewer page
		links.GET("/:linkID", cacheFor(10), a.LinkFetch)
	}

	datarooms := main.Group("/datarooms")
	{
		// GET /api/datarooms/:id	-> Returns a dataroom for the viewer page
		datarooms.GET("/:id", cacheFor(10), a.DataroomFetch)

		// POST /api/datarooms/:id/name	-> Renames a dataroom (owner only)
		datarooms.POST("/:id/name", jwt, middleware.BodySizeLimiter(1<<20), a.DataroomUpdateName)
	}

	views := main.Group("/views", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/views		-> Grants a viewing session
		views.POST("", a.ViewCreate)
	}

	if a.S3 != nil {
		documents := main.Group("/documents")
		{
			// GET /api/documents/:viewID	-> Redirects a granted view to its document
			documents.GET("/:viewID", a.DocumentServe)

			// POST /api/documents		-> Uploads a new document (owner only)
			documents.POST("", jwt, middleware.BodySizeLimiter(maxUploadSize), a.DocumentUpload)
		}
	}

	service.TokenCleanup(viper.GetDuration("verification.cleanup_interval"), database)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
