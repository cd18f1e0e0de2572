package config

import "testing"

func TestLoadTestConfigTargetsTestResources(t *testing.T) {
	cfg := LoadTestConfig()

	if cfg.Database.Name != "garrison_test" {
		t.Errorf("test database = %q, must never be the live database", cfg.Database.Name)
	}
	if cfg.JWT.Secret != "test-secret" {
		t.Errorf("test JWT secret = %q", cfg.JWT.Secret)
	}
	if cfg.Server.Port == 8080 {
		t.Error("test server port must not collide with the default port")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("POSTGRES_DB", "garrison_override")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LEDGER_SNAPSHOT_CRON", "30 3 * * *")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Name != "garrison_override" {
		t.Errorf("database name = %q, want garrison_override", cfg.Database.Name)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Reports.SnapshotSpec != "30 3 * * *" {
		t.Errorf("snapshot spec = %q", cfg.Reports.SnapshotSpec)
	}
}
