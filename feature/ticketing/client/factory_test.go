package client_test

import (
	"testing"
	"time"

	"stagesync/feature/ticketing/client"
	"stagesync/feature/ticketing/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableProviders(t *testing.T) {
	factory := client.NewFactory(5 * time.Second)

	types := factory.AvailableProviders()
	require.Len(t, types, 2)

	// Registration order is presentation order for configuration UIs.
	assert.Equal(t, client.TypeREST, types[0].Tag)
	assert.Equal(t, client.TypeSandbox, types[1].Tag)
	for _, pt := range types {
		assert.NotEmpty(t, pt.DisplayName)
	}
}

func TestBuildKnownTypes(t *testing.T) {
	factory := client.NewFactory(5 * time.Second)

	for _, tag := range []string{client.TypeREST, client.TypeSandbox} {
		cl, err := factory.Build(&models.Provider{ProviderType: tag, APIKey: "k"})
		require.NoError(t, err, tag)
		assert.NotNil(t, cl, tag)
	}
}

func TestBuildUnknownType(t *testing.T) {
	factory := client.NewFactory(5 * time.Second)

	cl, err := factory.Build(&models.Provider{ProviderType: "carrier-pigeon"})
	assert.Nil(t, cl)
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrUnknownProviderType)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}
