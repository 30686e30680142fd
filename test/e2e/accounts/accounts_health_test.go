package accounts_test

import (
	"testing"
)

func TestLivezEndpoint(t *testing.T) {
	client := setupAccountsContainer(t)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	client := setupAccountsContainer(t)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	if health.Checks != nil {
		t.Logf("store check: %s", health.Checks.Store)
	}
}
