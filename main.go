package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"myvoice-be/ai"
	"myvoice-be/config"
	"myvoice-be/controllers"
	"myvoice-be/geo"
	"myvoice-be/middlewares"
	"myvoice-be/pipeline"
	"myvoice-be/routes"
	"myvoice-be/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var (
		kv          store.KV
		redisClient *redis.Client
	)
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = "redis"
	}
	switch backend {
	case "redis":
		client, err := config.ConnectRedis()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		redisClient = client
		kv = store.NewRedisKV(client)
	case "mongo":
		db, err := config.ConnectMongo()
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		kv = store.NewMongoKV(db)
	case "memory":
		kv = store.NewMemoryKV()
	default:
		log.Fatalf("Unknown STORAGE_BACKEND %q", backend)
	}

	issues := store.NewIssueStore(kv)
	if err := issues.LoadOrSeed(context.Background()); err != nil {
		log.Fatalf("Failed to load issues: %v", err)
	}
	users := store.NewUserStore(kv)

	aiClient, err := ai.NewClient(ai.Config{})
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}

	// The demo deployment has no real positioning hardware; it serves the
	// fixed demo fix and the simulated geocoder's address.
	locator := &geo.SimulatedLocator{Position: geo.Position{Lat: geo.SentinelLat, Lng: geo.SentinelLng}}
	resolver := geo.NewResolver(locator, geo.NewSimulatedGeocoder(), 0)

	scanner := pipeline.NewScanner(issues, aiClient, &pipeline.HTTPFetcher{})

	reportLimit := 5
	if v, err := strconv.Atoi(os.Getenv("REPORT_LIMIT_PER_DAY")); err == nil && v > 0 {
		reportLimit = v
	}
	var reportCounter middlewares.RateCounter
	if redisClient != nil {
		reportCounter = middlewares.NewRedisCounter(redisClient)
	} else {
		log.Printf("Report rate limiting disabled: STORAGE_BACKEND=%s has no Redis client", backend)
	}

	r := gin.Default()

	routes.AuthRoutes(r, controllers.NewAuthController(users))
	routes.IssueRoutes(r, controllers.NewIssueController(issues, users, scanner))
	routes.ReportRoutes(r,
		controllers.NewReportController(aiClient, resolver, issues, users),
		middlewares.ReportRateLimiter(reportCounter, reportLimit))
	routes.ChatRoutes(r, controllers.NewChatController(aiClient))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
