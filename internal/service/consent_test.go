package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boddenberg/rij-wellness-bfa/internal/domain"
)

func TestConsent_RecordAndList(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := newUser()

	rows, err := e.consents.Record(ctx, user, domain.ConsentRequest{AudioRecording: true, LocationTracking: true},
		"203.0.113.7", "Mozilla/5.0")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	listed, err := e.consents.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	byType := map[domain.ConsentType]domain.ConsentRecord{}
	for _, r := range listed {
		byType[r.ConsentType] = r
		assert.Equal(t, domain.ConsentVersion, r.Version)
		assert.Len(t, r.IPHash, 64)
		assert.NotContains(t, r.IPHash, "203.0.113.7")
		assert.NotEqual(t, r.IPHash, r.UserAgentHash)
	}
	assert.True(t, byType[domain.ConsentAudioRecording].Consented)
	assert.False(t, byType[domain.ConsentBiometricData].Consented)
	assert.True(t, byType[domain.ConsentLocationTracking].Consented)
}

func TestConsent_DigestIsStableAndKeyed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a, err := e.consents.Record(ctx, newUser(), domain.ConsentRequest{}, "198.51.100.1", "")
	require.NoError(t, err)
	b, err := e.consents.Record(ctx, newUser(), domain.ConsentRequest{}, "198.51.100.1", "")
	require.NoError(t, err)

	assert.Equal(t, a[0].IPHash, b[0].IPHash)
	assert.Empty(t, a[0].UserAgentHash)

	empty, err := e.consents.List(ctx, newUser())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
