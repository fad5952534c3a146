package scheduler

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jzx17/gosched/pkg/faults"
	"github.com/jzx17/gosched/pkg/retry"
	"github.com/jzx17/gosched/pkg/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, retry.DefaultMaxAttempts, cfg.Contention.MaxAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "zero value", cfg: Config{}},
		{name: "negative timeout", cfg: Config{ShutdownTimeout: -1}, wantErr: true},
		{
			name:    "negative attempts",
			cfg:     Config{Contention: retry.ContentionPolicy{MaxAttempts: -1}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	resolved := (&Config{}).resolve()

	assert.Equal(t, runtime.GOMAXPROCS(0), resolved.Workers)
	assert.Equal(t, retry.DefaultMaxAttempts, resolved.Contention.MaxAttempts)
	assert.NotNil(t, resolved.Contention.Backoff)
	assert.NotNil(t, resolved.Logger)
	assert.IsType(t, &faults.LogHandler{}, resolved.FaultHandler)

	handler := faults.NewChannelHandler(1)
	resolved = (&Config{Workers: 3, FaultHandler: handler}).resolve()
	assert.Equal(t, 3, resolved.Workers)
	assert.Same(t, handler, resolved.FaultHandler)
}
