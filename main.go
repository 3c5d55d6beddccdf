package main

import (
	"log"

	"vportal/config"
	"vportal/database"
	"vportal/remotestore"
	"vportal/repository"
	adminRoutes "vportal/routers/adminRoutes"
	authRoutes "vportal/routers/authRoutes"
	checklistRoutes "vportal/routers/checklistRoutes"
	voucherRoutes "vportal/routers/voucherRoutes"
	"vportal/utils"
	"vportal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	store := remotestore.New(
		config.AppConfig.RemoteStoreURL,
		config.AppConfig.RemoteStoreAnonKey,
		config.AppConfig.RemoteStoreServiceKey,
	)
	if !store.Enabled() {
		log.Println("WARNING: remote table store is not configured, voucher endpoints will fail")
	}

	engine := workflow.NewEngine(
		repository.NewVoucherRequestRepo(store),
		repository.NewVoucherCodeRepo(store),
	)

	app := fiber.New()

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	voucherRoutes.SetupVoucherRoutes(app, engine)
	adminRoutes.SetupAdminRoutes(app, engine)
	checklistRoutes.SetupChecklistRoutes(app)

	if scheduler := utils.StartReconcileScheduler(engine); scheduler != nil {
		defer scheduler.Stop()
	}

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
