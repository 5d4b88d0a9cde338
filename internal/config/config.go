package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
	DemoData       bool   `json:"demoData" mapstructure:"demoData"`
}

// SQLiteConfig holds sqlite storage backend settings
type SQLiteConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	InMemory bool   `json:"inMemory" mapstructure:"inMemory"`
}

// WebsocketConfig holds websocket storage backend settings
type WebsocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the persistence backend
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	Websocket WebsocketConfig `json:"websocket" mapstructure:"websocket"`
}

// CanvasConfig holds the layout canvas geometry settings
type CanvasConfig struct {
	GridSize      float64 `json:"gridSize" mapstructure:"gridSize"`
	Scale         float64 `json:"scale" mapstructure:"scale"`
	ZoomMin       float64 `json:"zoomMin" mapstructure:"zoomMin"`
	ZoomMax       float64 `json:"zoomMax" mapstructure:"zoomMax"`
	ZoomWheelStep float64 `json:"zoomWheelStep" mapstructure:"zoomWheelStep"`
}

// GeoConfig anchors the local canvas to a geographic origin
type GeoConfig struct {
	OriginLon float64 `json:"originLon" mapstructure:"originLon"`
	OriginLat float64 `json:"originLat" mapstructure:"originLat"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("canvas.gridSize", 5)
	viper.SetDefault("canvas.scale", 10)
	viper.SetDefault("canvas.zoomMin", 0.1)
	viper.SetDefault("canvas.zoomMax", 5.0)
	viper.SetDefault("canvas.zoomWheelStep", 0.05)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./layouts")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.memory.demoData", false)
	viper.SetDefault("storage.sqlite.path", "./havenplan.db")
	viper.SetDefault("storage.sqlite.inMemory", false)
	viper.SetDefault("storage.websocket.url", "ws://localhost:5001/relay")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "havenplan")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "havenplan-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.exportIntervalSeconds", 30)

	viper.SetDefault("geo.originLon", 4.4777)
	viper.SetDefault("geo.originLat", 51.9244)

	viper.SetConfigName("havenplan.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetFloat64 returns a float config value.
func GetFloat64(key string) float64 {
	return viper.GetFloat64(key)
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
			DemoData:       viper.GetBool("storage.memory.demoData"),
		},
		SQLite: SQLiteConfig{
			Path:     viper.GetString("storage.sqlite.path"),
			InMemory: viper.GetBool("storage.sqlite.inMemory"),
		},
		Websocket: WebsocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetCanvasConfig returns the canvas geometry settings.
func GetCanvasConfig() CanvasConfig {
	return CanvasConfig{
		GridSize:      viper.GetFloat64("canvas.gridSize"),
		Scale:         viper.GetFloat64("canvas.scale"),
		ZoomMin:       viper.GetFloat64("canvas.zoomMin"),
		ZoomMax:       viper.GetFloat64("canvas.zoomMax"),
		ZoomWheelStep: viper.GetFloat64("canvas.zoomWheelStep"),
	}
}

// GetGeoConfig returns the geographic anchor settings.
func GetGeoConfig() GeoConfig {
	return GeoConfig{
		OriginLon: viper.GetFloat64("geo.originLon"),
		OriginLat: viper.GetFloat64("geo.originLat"),
	}
}
