// api/routes/router.go
package routes

import (
	"context"
	"net/http"
	"time"

	"salonly/internal/auth"
	"salonly/internal/bookings"
	"salonly/internal/cancellation"
	"salonly/internal/notifications"
	"salonly/internal/refunds"
	"salonly/internal/salons"
	"salonly/internal/shared/config"
	"salonly/internal/shared/database"
	"salonly/pkg/cache"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	// Cross-feature services, filled in during setup
	cacheService  cache.Service
	salonService  salons.Service
	refundService refunds.Service
	noticeSink    cancellation.NoticePublisher
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetRefundService injects the refund pipeline created in main
func (r *Router) SetRefundService(svc refunds.Service) {
	r.refundService = svc
}

// SetNoticePublisher injects the cancellation-notice publisher created in main
func (r *Router) SetNoticePublisher(publisher cancellation.NoticePublisher) {
	r.noticeSink = publisher
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.cacheService = cache.NewService(r.db.GetRedisClient())

	r.setupHealthRoutes(engine)

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)
		r.setupSalonRoutes(api)
		r.setupBookingRoutes(api)
		r.setupCancellationRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "salonly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "salonly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController, r.config)

	authRouter.SetupRoutes(rg)
}

// setupSalonRoutes configures salon and offering management routes
func (r *Router) setupSalonRoutes(rg *gin.RouterGroup) {
	salonRepo := salons.NewRepository(r.db.GetPostgreSQL())
	salonService := salons.NewService(salonRepo, r.cacheService)
	salonController := salons.NewController(salonService)

	// Keep the service around for cross-feature adapters
	r.salonService = salonService

	salons.SetupSalonRoutes(rg, salonController)
}

// setupBookingRoutes configures booking routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	bookingService := bookings.NewService(bookingRepo, &salonServiceAdapter{salons: r.salonService})
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupCancellationRoutes configures the cancellation engine routes
func (r *Router) setupCancellationRoutes(rg *gin.RouterGroup) {
	policy, err := cancellation.LoadPolicy(r.config.Cancellation.PolicyName, r.config.Cancellation.TierSpec)
	if err != nil {
		panic("invalid cancellation policy configuration: " + err.Error())
	}
	engine, err := cancellation.NewEngine(policy)
	if err != nil {
		panic("invalid cancellation policy configuration: " + err.Error())
	}

	cancellationRepo := cancellation.NewRepository(r.db.GetPostgreSQL())
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())

	cancellationService := cancellation.NewService(
		engine,
		cancellationRepo,
		bookingRepo,
		&salonDirectoryAdapter{salons: r.salonService},
		r.refundService,
		r.noticeSink,
		r.cacheService,
		r.config.Redis.ReasonsTTL,
	)
	cancellationController := cancellation.NewController(cancellationService)

	cancellation.SetupCancellationRoutes(rg, cancellationController)
}

// salonServiceAdapter exposes the salons service through the narrow interface
// the bookings package depends on.
type salonServiceAdapter struct {
	salons salons.Service
}

func (a *salonServiceAdapter) GetOfferingInfo(ctx context.Context, offeringID uuid.UUID) (*bookings.OfferingInfo, error) {
	offering, err := a.salons.GetOffering(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	info, err := a.salons.GetSalonInfo(ctx, offering.SalonID)
	if err != nil {
		return nil, err
	}

	return &bookings.OfferingInfo{
		ID:              offering.ID,
		SalonID:         offering.SalonID,
		Name:            offering.Name,
		PricePaisa:      offering.PricePaisa,
		DurationMinutes: offering.DurationMinutes,
		Active:          offering.Active,
		SalonAccepting:  salons.SalonStatus(info.Status).AcceptsBookings(),
	}, nil
}

func (a *salonServiceAdapter) GetSalonOwner(ctx context.Context, salonID uuid.UUID) (uuid.UUID, error) {
	info, err := a.salons.GetSalonInfo(ctx, salonID)
	if err != nil {
		return uuid.Nil, err
	}
	return info.OwnerID, nil
}

// salonDirectoryAdapter exposes the salons service through the cancellation
// package's directory interface.
type salonDirectoryAdapter struct {
	salons salons.Service
}

func (a *salonDirectoryAdapter) GetSalonView(ctx context.Context, salonID uuid.UUID) (*cancellation.SalonView, error) {
	info, err := a.salons.GetSalonInfo(ctx, salonID)
	if err != nil {
		return nil, err
	}
	return &cancellation.SalonView{
		ID:       info.ID,
		OwnerID:  info.OwnerID,
		Name:     info.Name,
		Timezone: info.Timezone,
	}, nil
}

// ContactResolver builds the notification-side contact lookup from the salon
// and user stores.
func (r *Router) ContactResolver() notifications.ContactResolver {
	return &contactResolverAdapter{
		salons: r.salonService,
		users:  auth.NewRepository(r.db.GetPostgreSQL()),
	}
}

type contactResolverAdapter struct {
	salons salons.Service
	users  auth.Repository
}

func (a *contactResolverAdapter) SalonContact(ctx context.Context, salonID uuid.UUID) (*notifications.SalonContact, error) {
	info, err := a.salons.GetSalonInfo(ctx, salonID)
	if err != nil {
		return nil, err
	}

	owner, err := a.users.GetUserByID(ctx, info.OwnerID.String())
	if err != nil {
		return nil, err
	}

	return &notifications.SalonContact{
		SalonName:  info.Name,
		OwnerName:  owner.FullName(),
		OwnerEmail: owner.Email,
	}, nil
}
