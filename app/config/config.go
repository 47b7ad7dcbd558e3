package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB            *sql.DB
	Port          string
	PublicBaseURL string
	JWTSecret     string
}

var AppConfig *Config

// LoadEnv loads a .env file if one exists. Real environments (Docker, CI)
// set variables directly, so a missing file is not an error.
func LoadEnv() {
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			log.Printf("Loaded environment from %s", envFile)
			return
		}
	}
}

// GetEnv returns the named environment variable or the given default.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// InitDB opens the Postgres connection pool and builds the global config.
func InitDB() {
	host := GetEnv("DB_HOST", "localhost")
	port, err := strconv.Atoi(GetEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatal("Invalid DB_PORT:", err)
	}
	user := GetEnv("DB_USER", "postgres")
	password := GetEnv("DB_PASSWORD", "")
	dbname := GetEnv("DB_NAME", "schoolpay")
	sslmode := GetEnv("DB_SSLMODE", "disable")

	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s connect_timeout=10",
		host, port, user, dbname, sslmode)
	if password != "" {
		psqlInfo += " password=" + password
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}

	AppConfig = &Config{
		DB:            db,
		Port:          GetEnv("PORT", "8080"),
		PublicBaseURL: GetEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		JWTSecret:     GetEnv("JWT_SECRET", "schoolpay-secret-key"),
	}
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
