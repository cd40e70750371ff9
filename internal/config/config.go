package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds the runtime configuration. Each field corresponds to an
// environment variable. Required variables are enforced with must();
// optional subsystems (object storage, SMS gateway, broker) use plain
// Getenv and degrade gracefully when unset.
type Config struct {
	Env          string // application environment (dev/test/prod)
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host
	DBPort       string // database port
	DBName       string // database name

	DBMaxOpenConns int // connection pool ceiling
	DBMaxIdleConns int // idle connections kept in the pool
	DBConnLifeMin  int // connection lifetime in minutes before recycling

	JWTSecret    string // secret used to sign access tokens
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	S3Endpoint  string // object storage endpoint (host:port)
	S3AccessKey string // object storage access key
	S3SecretKey string // object storage secret key
	S3Bucket    string // bucket receiving uploads
	S3UseSSL    bool   // connect to storage over TLS

	SMSBaseURL string // outbound SMS gateway base URL
	SMSAPIKey  string // SMS gateway api token
	SMSSender  string // sender name stamped on outbound messages

	AMQPURL string // broker URL for payment events (optional)
}

// Load reads configuration from environment variables. Missing required
// variables abort startup with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"),
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),

		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 25),
		DBConnLifeMin:  envInt("DB_CONN_LIFETIME_MIN", 30),

		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3UseSSL:    envBool("S3_USE_SSL", true),

		SMSBaseURL: os.Getenv("SMS_BASEURL"),
		SMSAPIKey:  os.Getenv("SMS_APIKEY"),
		SMSSender:  getenv("SMS_SENDER", "FleetLease"),

		AMQPURL: os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}
