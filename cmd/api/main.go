package main

import (
	"os"
	"sharedcal/cmd/internal/domain/sqlite"
	"sharedcal/cmd/internal/domain/sqlite/repository"
	"sharedcal/cmd/internal/integration/webpush"
	"sharedcal/cmd/internal/routes"
	"sharedcal/cmd/internal/service"
	"sharedcal/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	validators.Register(validate)

	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Init SQLite
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./database.db"
	}
	db, err := sqlite.Init(dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	subRepo := repository.NewPushSubscriptionRepository(db)

	// Push notifications are best-effort: without VAPID keys the app runs
	// with delivery disabled.
	var notifier service.NotificationSink
	vapidPublicKey := ""
	sender, err := webpush.NewSender(subRepo)
	if err != nil {
		log.Warnf("push notifications disabled: %v", err)
	} else {
		notifier = sender
		vapidPublicKey = sender.VapidPublicKey()
	}

	// Getting services
	userService := service.NewUserService(userRepo, validate)
	apptService := service.NewAppointmentService(apptRepo, userRepo, validate, notifier)
	pushService := service.NewPushService(subRepo, validate)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	apptRoutes := routes.NewAppointmentDefault(apptService)
	pushRoutes := routes.NewPushDefault(pushService, vapidPublicKey)

	e := echo.New()
	e.Use(middleware.CORS())

	// Appointments
	e.GET("/api/appointments", apptRoutes.GetAppointments)
	e.POST("/api/appointments", apptRoutes.CreateAppointment)
	e.PATCH("/api/appointments/:id", apptRoutes.UpdateAppointment)
	e.DELETE("/api/appointments/:id", apptRoutes.DeleteAppointment)

	// Pseudo-entity "Calendar": everything visible on a given date
	e.GET("/api/calendar", apptRoutes.GetCalendar)

	// Users
	e.GET("/api/users", userRoutes.GetUsers)
	e.GET("/api/users/:id", userRoutes.GetUser)
	e.POST("/api/users", userRoutes.CreateUser)
	e.POST("/api/users/login", userRoutes.CreateLogin)

	// Push subscriptions
	e.POST("/api/push/subscriptions", pushRoutes.CreateSubscription)
	e.GET("/api/push/vapid-key", pushRoutes.GetVapidKey)

	port := os.Getenv("PORT")
	if port == "" {
		port = "6060"
	}
	err = e.Start(":" + port)
	if err != nil {
		e.Logger.Fatal(err)
	}
}
