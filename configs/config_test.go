package configs

import (
	"testing"
	"time"

	"github.com/Vishnukant2275/easyorderin/entity"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OTP_TTL", "")
	t.Setenv("OTP_MAX_ATTEMPTS", "")
	t.Setenv("ORDER_RETENTION", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg := LoadConfig()
	assert.False(t, cfg.IsDevelopment(), "production unless told otherwise")
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 3, cfg.OTPMaxAttempts)
	assert.Equal(t, 30*24*time.Hour, cfg.OrderRetention)
	assert.False(t, cfg.OTPDebug)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("OTP_DEBUG", "true")
	t.Setenv("OTP_MAX_ATTEMPTS", "5")
	t.Setenv("ORDER_RETENTION", "-1h")
	t.Setenv("CORS_ORIGINS", " https://a.example.com, ,https://b.example.com")
	t.Setenv("STAFF_RESTAURANT_ID", "4")

	cfg := LoadConfig()
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.True(t, cfg.OTPDebug)
	assert.Equal(t, 5, cfg.OTPMaxAttempts)
	assert.Equal(t, 30*24*time.Hour, cfg.OrderRetention, "non-positive durations fall back")
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, uint(4), cfg.StaffRestaurantID)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"production placeholder", Config{AppEnv: "production", JWTSecret: "changeme"}, true},
		{"production empty", Config{AppEnv: "production"}, true},
		{"production real secret", Config{AppEnv: "production", JWTSecret: "9f3b1c"}, false},
		{"development placeholder", Config{AppEnv: "development", JWTSecret: "changeme"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOpenDB_Sqlite(t *testing.T) {
	db, err := OpenDB("sqlite", "file:configs_open?mode=memory&cache=shared", false)
	if !assert.NoError(t, err) {
		return
	}
	assert.NoError(t, SetupDatabase(db))
	_, err = OpenDB("oracle", "x", false)
	assert.Error(t, err)
}

func TestSeedDemo_Idempotent(t *testing.T) {
	db, err := OpenDB("sqlite", "file:configs_seed?mode=memory&cache=shared", false)
	if !assert.NoError(t, err) {
		return
	}
	if !assert.NoError(t, SetupDatabase(db)) {
		return
	}

	first, err := SeedDemo(db, zap.NewNop())
	assert.NoError(t, err)
	second, err := SeedDemo(db, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var tables, items int64
	db.Model(&entity.Table{}).Where("restaurant_id = ?", first.ID).Count(&tables)
	db.Model(&entity.MenuItem{}).Where("restaurant_id = ?", first.ID).Count(&items)
	assert.Equal(t, int64(10), tables)
	assert.Equal(t, int64(4), items)

	cfg := &Config{StaffEmail: "owner@example.com", StaffPassword: "secret1", StaffRestaurantID: first.ID}
	assert.NoError(t, SeedStaff(db, cfg, zap.NewNop()))
	assert.NoError(t, SeedStaff(db, cfg, zap.NewNop()))
	var staff int64
	db.Model(&entity.Staff{}).Count(&staff)
	assert.Equal(t, int64(1), staff)
}
