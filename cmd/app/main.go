package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/nhom6/oufood-backend/internal/cart"
	"github.com/nhom6/oufood-backend/internal/checkout"
	"github.com/nhom6/oufood-backend/internal/config"
	"github.com/nhom6/oufood-backend/internal/cuisine"
	"github.com/nhom6/oufood-backend/internal/gateway"
	"github.com/nhom6/oufood-backend/internal/order"
	"github.com/nhom6/oufood-backend/internal/restaurant"
	"github.com/nhom6/oufood-backend/internal/review"
	"github.com/nhom6/oufood-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	bootstrapSchema(db)

	userHandler := user.NewHandler(user.NewService(user.NewPostgresRepository(db)))

	restaurantService := restaurant.NewService(restaurant.NewPostgresRepository(db))
	restaurantHandler := restaurant.NewHandler(restaurantService)

	cuisineService := cuisine.NewService(cuisine.NewPostgresRepository(db))
	cuisineHandler := cuisine.NewHandler(cuisineService)

	reviewHandler := review.NewHandler(review.NewService(review.NewPostgresRepository(db)))

	cartService := cart.NewService(newCartStore(cfg, db))
	cartHandler := cart.NewHandler(cartService)

	orderRepo := order.NewPostgresRepository(db)
	orderHandler := order.NewHandler(order.NewService(orderRepo), restaurantService)

	signers := map[string]gateway.Signer{}
	if cfg.MoMo.SecretKey != "" {
		signers[checkout.ProviderMoMo] = gateway.NewMoMoSigner(cfg.MoMo)
	}
	if cfg.VNPay.HashSecret != "" {
		signers[checkout.ProviderVNPay] = gateway.NewVNPaySigner(cfg.VNPay)
	}
	if len(signers) == 0 {
		log.Println("warning: no payment provider configured, checkout will fail")
	}

	orchestrator := checkout.NewOrchestrator(cartService, cuisineService, signers, orderRepo)
	checkoutHandler := checkout.NewHandler(orchestrator)

	userHandler.RegisterPublicRoutes(app)
	restaurantHandler.RegisterPublicRoutes(app)
	cuisineHandler.RegisterPublicRoutes(app)
	reviewHandler.RegisterPublicRoutes(app)
	// gateway callbacks authenticate through their signature, not a token
	checkoutHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	reviewHandler.RegisterProtectedRoutes(app)

	log.Fatal(app.Listen(cfg.Addr))
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		log.Fatalf("cannot open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("cannot reach database: %v", err)
	}
	return db
}

// newCartStore keeps carts in Redis when an address is configured and falls
// back to the carts table otherwise.
func newCartStore(cfg config.Config, db *sql.DB) cart.Store {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		return cart.NewRedisStore(client)
	}
	return cart.NewPostgresStore(db)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT,
		avatar TEXT,
		role TEXT NOT NULL DEFAULT 'CUSTOMER',
		created_at TIMESTAMP NOT NULL DEFAULT now(),
		updated_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		restaurant_id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT,
		location TEXT,
		introduce TEXT,
		image TEXT,
		tags TEXT[] NOT NULL DEFAULT '{}',
		user_id INT NOT NULL REFERENCES users(user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cuisine_types (
		cuisine_type_id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		restaurant_id INT NOT NULL REFERENCES restaurants(restaurant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cuisines (
		cuisine_id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price NUMERIC NOT NULL,
		image TEXT,
		description TEXT,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		count INT NOT NULL DEFAULT 0 CHECK (count >= 0),
		cuisine_type_id INT NOT NULL REFERENCES cuisine_types(cuisine_type_id),
		food_type TEXT,
		beverage_type TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT now(),
		updated_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		user_id INT PRIMARY KEY REFERENCES users(user_id),
		data JSONB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'NEW',
		receiver_name TEXT NOT NULL,
		receiver_phone TEXT NOT NULL,
		receiver_address TEXT NOT NULL,
		user_id INT NOT NULL REFERENCES users(user_id),
		created_at TIMESTAMP NOT NULL DEFAULT now(),
		updated_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_details (
		detail_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id),
		cuisine_id INT NOT NULL REFERENCES cuisines(cuisine_id),
		quantity INT NOT NULL CHECK (quantity > 0),
		note TEXT,
		unit_price NUMERIC NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		payment_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id),
		total NUMERIC NOT NULL,
		status TEXT NOT NULL DEFAULT 'UNPAID',
		payment_ref TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		review_id SERIAL PRIMARY KEY,
		content TEXT,
		rate INT NOT NULL CHECK (rate BETWEEN 1 AND 5),
		user_id INT NOT NULL REFERENCES users(user_id),
		restaurant_id INT NOT NULL REFERENCES restaurants(restaurant_id),
		created_at TIMESTAMP NOT NULL DEFAULT now()
	)`,
}

// bootstrapSchema creates missing tables on startup. The UNIQUE constraint on
// payments.payment_ref is load-bearing: it is what makes duplicate gateway
// callbacks resolve to a single order.
func bootstrapSchema(db *sql.DB) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("schema bootstrap failed: %v", err)
		}
	}
}
