package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"testing"
	"time"

	appconfig "duet-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinarySignUpload(t *testing.T) {
	signer := NewCloudinarySigner(appconfig.CloudinaryConfig{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "shhh",
	})
	fixed := time.Unix(1700000000, 0)
	signer.now = func() time.Time { return fixed }

	sig, err := signer.SignUpload(context.Background(), "trips")
	require.NoError(t, err)
	assert.Equal(t, "cloudinary", sig.Provider)
	assert.Equal(t, int64(1700000000), sig.Timestamp)
	assert.Equal(t, "demo", sig.CloudName)
	assert.Equal(t, "key123", sig.APIKey)

	// Cloudinary signs the sorted params joined by & with the secret
	// appended, SHA-1 hex.
	sum := sha1.Sum([]byte("folder=trips&timestamp=1700000000" + "shhh"))
	assert.Equal(t, hex.EncodeToString(sum[:]), sig.Signature)
}

func TestCloudinarySignUploadNoFolder(t *testing.T) {
	signer := NewCloudinarySigner(appconfig.CloudinaryConfig{APISecret: "shhh"})
	fixed := time.Unix(1700000000, 0)
	signer.now = func() time.Time { return fixed }

	sig, err := signer.SignUpload(context.Background(), "")
	require.NoError(t, err)

	sum := sha1.Sum([]byte("timestamp=1700000000" + "shhh"))
	assert.Equal(t, hex.EncodeToString(sum[:]), sig.Signature)
}

func TestNewMediaSignerUnknownProvider(t *testing.T) {
	_, err := NewMediaSigner(appconfig.MediaConfig{Provider: "ftp"})
	assert.Error(t, err)
}
