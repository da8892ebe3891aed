package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pokerroom-server/internal/util"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("PRS_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("PRS_TURN_TIMEOUT", "60")
	defer clear2()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("debug", cfg.Log.Level)
	a.True(cfg.Log.DisableAccessLogs)
	a.Equal(5, cfg.StartGameDelay)
	a.Equal(60, cfg.TurnTimeout)
	a.Equal(60*time.Second, cfg.TurnTimeoutDuration())

	// ensure that it's only loaded once
	_ = os.Setenv("PRS_TURN_TIMEOUT", "90")
	// ensure we aren't using a pointer
	cfg.TurnTimeout = 15
	cfg = Instance()
	a.Equal(60, cfg.TurnTimeout)
}

func TestDefaults(t *testing.T) {
	clear := util.SetEnv("PRS_CONFIG_FILE", "testdata/missing.yaml")
	defer clear()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal("info", cfg.Log.Level)
	a.Equal(10, cfg.StartGameDelay)
	a.Equal(45, cfg.TurnTimeout)
	a.Equal(10*time.Second, cfg.StartGameDelayDuration())
}
