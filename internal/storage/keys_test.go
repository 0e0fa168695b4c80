package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoemakerdr/ellie/pkg/ids"
)

func TestKeys(t *testing.T) {
	project := ids.MustParseProjectID("0A1b2C3d4E5f")
	id := ids.NewRevisionID(project, 3)

	t.Run("deterministic and distinct per artifact", func(t *testing.T) {
		assert.Equal(t, "revisions/0A1b2C3d4E5f/3.json", SnapshotKey(id))
		assert.Equal(t, "revisions/0A1b2C3d4E5f/3.html", ResultKey(id))
		assert.NotEqual(t, SnapshotKey(id), ResultKey(id))
	})

	t.Run("legacy encoding addresses the same objects", func(t *testing.T) {
		legacy := ids.MustParseProjectID("00c0ffee00c0ffee")
		currentID := ids.NewRevisionID(legacy.Upgrade(), 0)
		legacyID := ids.NewRevisionID(legacy, 0)

		assert.Equal(t, SnapshotKey(currentID), SnapshotKey(legacyID))
		assert.Equal(t, ResultKey(currentID), ResultKey(legacyID))
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{Region: "us-east-1", Bucket: "ellie-artifacts"},
		},
		{
			name:    "missing region",
			cfg:     Config{Bucket: "ellie-artifacts"},
			wantErr: true,
		},
		{
			name:    "missing bucket",
			cfg:     Config{Region: "us-east-1"},
			wantErr: true,
		},
		{
			name: "negative expiry",
			cfg: Config{
				Region:              "us-east-1",
				Bucket:              "ellie-artifacts",
				UploadExpirySeconds: -1,
			},
			wantErr: true,
		},
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

func TestConfig_SetDefaults(t *testing.T) {
	cfg := Config{Region: "us-east-1", Bucket: "ellie-artifacts"}
	cfg.SetDefaults()

	assert.Equal(t, 300, cfg.UploadExpirySeconds)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 30, cfg.RequestTimeoutSeconds)
}
