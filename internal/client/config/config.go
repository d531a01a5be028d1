package config

import "time"

// Image store backends.
const (
	ImageStoreCloudinary = "cloudinary"
	ImageStoreS3         = "s3"
)

// Cloudinary holds the unsigned-upload settings for the image host.
type Cloudinary struct {
	CloudName    string `json:"cloud_name" env:"CLOUDINARY_CLOUD_NAME"`
	UploadPreset string `json:"upload_preset" env:"CLOUDINARY_UPLOAD_PRESET"`
	// APIBase is overridable for tests; production uses the public API.
	APIBase string `json:"api_base" env:"CLOUDINARY_API_BASE"`
}

// S3 configures the S3-compatible alternative image store (MinIO in dev).
type S3 struct {
	Bucket        string `json:"bucket" env:"LOSTFOUND_S3_BUCKET"`
	Region        string `json:"region" env:"LOSTFOUND_S3_REGION"`
	Endpoint      string `json:"endpoint" env:"LOSTFOUND_S3_ENDPOINT"`
	AccessKey     string `json:"access_key" env:"LOSTFOUND_S3_ACCESS_KEY"`
	SecretKey     string `json:"secret_key" env:"LOSTFOUND_S3_SECRET_KEY"`
	PublicBaseURL string `json:"public_base_url" env:"LOSTFOUND_S3_PUBLIC_BASE_URL"`
}

// Config holds runtime settings for the lost-and-found CLI.
//
// Units: RequestTimeout and StatusCheckInterval are time.Duration values.
type Config struct {
	APIBaseURL          string        `env:"LOSTFOUND_API_URL"`
	DBPath              string        `env:"LOSTFOUND_DB_PATH"`
	RequestTimeout      time.Duration `env:"LOSTFOUND_REQUEST_TIMEOUT"`
	StatusCheckInterval time.Duration `env:"LOSTFOUND_STATUS_CHECK_INTERVAL"`
	LogLevel            string        `env:"LOSTFOUND_LOG_LEVEL"`
	LogBackend          string        `env:"LOSTFOUND_LOG_BACKEND"`
	ImageStore          string        `env:"LOSTFOUND_IMAGE_STORE"`
	Cloudinary          Cloudinary
	S3                  S3
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.DBPath = "lostfound.db"
	c.RequestTimeout = 15 * time.Second
	c.StatusCheckInterval = 5 * time.Minute
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.ImageStore = ImageStoreCloudinary
	c.Cloudinary.APIBase = "https://api.cloudinary.com/v1_1"
	c.S3.Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
