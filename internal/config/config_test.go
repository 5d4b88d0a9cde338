package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"canvas": { "gridSize": 10 },
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "havenplan.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, 10.0, viper.GetFloat64("canvas.gridSize"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "havenplan.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, 5.0, viper.GetFloat64("canvas.gridSize"))
	assert.Equal(t, 10.0, viper.GetFloat64("canvas.scale"))
	assert.Equal(t, 0.1, viper.GetFloat64("canvas.zoomMin"))
	assert.Equal(t, 5.0, viper.GetFloat64("canvas.zoomMax"))
	assert.Equal(t, 0.05, viper.GetFloat64("canvas.zoomWheelStep"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "postgres", viper.GetString("db.password"))
	assert.Equal(t, "havenplan", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./layouts", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, false, viper.GetBool("storage.memory.compressOutput"))
	assert.Equal(t, "./havenplan.db", viper.GetString("storage.sqlite.path"))
	assert.Equal(t, "ws://localhost:5001/relay", viper.GetString("storage.websocket.url"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
	assert.Equal(t, "havenplan-metrics", viper.GetString("influx.org"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetFloat64(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testFloat", 2.5)
	assert.Equal(t, 2.5, GetFloat64("testFloat"))
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "havenplan.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./layouts", cfg.Memory.OutputDir)
	assert.Equal(t, false, cfg.Memory.CompressOutput)
	assert.Equal(t, "./havenplan.db", cfg.SQLite.Path)
	assert.Equal(t, "ws://localhost:5001/relay", cfg.Websocket.URL)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": true },
			"sqlite": { "path": "/tmp/haven.db", "inMemory": true },
			"websocket": { "url": "ws://relay.example:9000/relay", "secret": "s3cret" }
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "havenplan.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, true, sc.Memory.CompressOutput)
	assert.Equal(t, "/tmp/haven.db", sc.SQLite.Path)
	assert.Equal(t, true, sc.SQLite.InMemory)
	assert.Equal(t, "ws://relay.example:9000/relay", sc.Websocket.URL)
	assert.Equal(t, "s3cret", sc.Websocket.Secret)
}

func TestGetCanvasConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "havenplan.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetCanvasConfig()
	assert.Equal(t, 5.0, cfg.GridSize)
	assert.Equal(t, 10.0, cfg.Scale)
	assert.Equal(t, 0.1, cfg.ZoomMin)
	assert.Equal(t, 5.0, cfg.ZoomMax)
	assert.Equal(t, 0.05, cfg.ZoomWheelStep)
}

func TestGetGeoConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{ "geo": { "originLon": 5.121, "originLat": 52.09 } }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "havenplan.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	gc := GetGeoConfig()
	assert.Equal(t, 5.121, gc.OriginLon)
	assert.Equal(t, 52.09, gc.OriginLat)
}
