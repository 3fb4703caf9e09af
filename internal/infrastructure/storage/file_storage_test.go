package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveAndRead(t *testing.T) {
	s := NewLocalFileStorage(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "Acme/run-1.xlsx", []byte("data")))
	assert.True(t, s.Exists(ctx, "Acme/run-1.xlsx"))
	assert.False(t, s.Exists(ctx, "Acme/run-1.xlsx.tmp"))

	got, err := s.Read(ctx, "Acme/run-1.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	// overwrite
	require.NoError(t, s.Save(ctx, "Acme/run-1.xlsx", []byte("new")))
	got, err = s.Read(ctx, "Acme/run-1.xlsx")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestLocalFileStorage_RejectsEscapingPaths(t *testing.T) {
	s := NewLocalFileStorage(t.TempDir(), zap.NewNop())
	ctx := context.Background()

	assert.Error(t, s.Save(ctx, "../outside.xlsx", []byte("x")))
	_, err := s.Read(ctx, "../../etc/passwd")
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ManSan Raj Traders", "ManSan_Raj_Traders"},
		{"../A&B/C", "ABC"},
		{"  ", "unnamed"},
		{"Shop-1_main", "Shop-1_main"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.input))
		})
	}
}
