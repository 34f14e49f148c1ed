// Package config resolves process-wide configuration once at startup.
// Components receive the values they need explicitly; nothing reads the
// environment after LoadConfig returns.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the lingomap server.
//
// Fields:
//   - Addr: HTTP bind address, derived from PORT.
//   - SQLitePath: path of the SQLite database file.
//   - JWTSecret: HMAC secret for signing tokens (HS256).
//   - TokenTTL: bearer token lifetime.
//   - GeoJSONURL: remote source of country boundary polygons.
//   - StaticDir: optional directory of frontend assets to serve at /.
//   - AudioDir: directory for the filesystem audio store.
//   - S3Endpoint / S3Region / S3Bucket / S3AccessKey / S3SecretKey:
//     object storage settings; when S3Bucket is set the S3 store is used
//     for audio instead of AudioDir.
type Config struct {
	Addr       string
	SQLitePath string
	JWTSecret  string
	TokenTTL   time.Duration
	GeoJSONURL string
	StaticDir  string

	AudioDir    string
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates Config with development defaults.
// NOTE: JWTSecret here is insecure and must be overridden outside dev.
func (c *Config) LoadDefaults() {
	c.Addr = ":5000"
	c.SQLitePath = "data/lingomap.db"
	c.JWTSecret = "lingomap-dev-secret"
	c.TokenTTL = time.Hour
	c.GeoJSONURL = "https://raw.githubusercontent.com/holtzy/D3-graph-gallery/master/DATA/world.geojson"
	c.AudioDir = "data/audio"
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config by applying defaults and then overlaying
// values from the environment.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.parseEnv()
	return cfg
}

func (c *Config) parseEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Addr = ":" + v
	}
	setString(&c.SQLitePath, "LINGOMAP_DB_PATH")
	setString(&c.JWTSecret, "LINGOMAP_JWT_SECRET")
	setString(&c.GeoJSONURL, "LINGOMAP_GEOJSON_URL")
	setString(&c.StaticDir, "LINGOMAP_STATIC_DIR")
	setString(&c.AudioDir, "LINGOMAP_AUDIO_DIR")
	setString(&c.S3Endpoint, "LINGOMAP_S3_ENDPOINT")
	setString(&c.S3Region, "LINGOMAP_S3_REGION")
	setString(&c.S3Bucket, "LINGOMAP_S3_BUCKET")
	setString(&c.S3AccessKey, "LINGOMAP_S3_ACCESS_KEY")
	setString(&c.S3SecretKey, "LINGOMAP_S3_SECRET_KEY")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
