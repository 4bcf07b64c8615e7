package api_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vocdoni/zkplex/api"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := []byte(`{"k":12,"strategy":"bitd"}`)
	enveloped := api.EncodeEnvelope(payload)
	require.NotEqual(t, payload, enveloped)

	decoded, err := api.DecodeEnvelope(enveloped)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestDecodeEnvelopeRejectsGarbage(t *testing.T) {
	_, err := api.DecodeEnvelope([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
}
