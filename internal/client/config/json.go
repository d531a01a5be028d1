package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/lostfound/internal/flagx"
	"github.com/dmitrijs2005/lostfound/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	DBPath              string         `json:"db_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	StatusCheckInterval timex.Duration `json:"status_check_interval"`
	LogLevel            string         `json:"log_level"`
	LogBackend          string         `json:"log_backend"`
	ImageStore          string         `json:"image_store"`
	Cloudinary          Cloudinary     `json:"cloudinary"`
	S3                  S3             `json:"s3"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// flagx.ConfigFile. Fields missing from the file keep their current value.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.ImageStore, jc.ImageStore)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StatusCheckInterval.Duration > 0 {
		cfg.StatusCheckInterval = jc.StatusCheckInterval.Duration
	}

	setString(&cfg.Cloudinary.CloudName, jc.Cloudinary.CloudName)
	setString(&cfg.Cloudinary.UploadPreset, jc.Cloudinary.UploadPreset)
	setString(&cfg.Cloudinary.APIBase, jc.Cloudinary.APIBase)

	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	setString(&cfg.S3.PublicBaseURL, jc.S3.PublicBaseURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
