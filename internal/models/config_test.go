package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDecodeConfigDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := DecodeConfig(v)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http.addr = %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Errorf("http.shutdown_timeout = %s", cfg.HTTP.ShutdownTimeout)
	}
	if !cfg.Orders.StrictTransitions {
		t.Error("strict transitions should default to true")
	}
	if cfg.Database.MaxConns != 25 || cfg.Database.MinConns != 5 {
		t.Errorf("pool sizes = %d/%d", cfg.Database.MaxConns, cfg.Database.MinConns)
	}
}

func TestDecodeConfigFromYAML(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	yaml := `
storage:
  driver: memory
orders:
  strict_transitions: false
events:
  driver: amqp
http:
  read_timeout: 3s
`
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	cfg, err := DecodeConfig(v)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Storage.Driver != "memory" || cfg.Orders.StrictTransitions || cfg.Events.Driver != "amqp" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.HTTP.ReadTimeout != 3*time.Second {
		t.Fatalf("read_timeout = %s", cfg.HTTP.ReadTimeout)
	}
}

func TestDecodeConfigRejectsUnknownStorage(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("storage.driver", "mysql")
	if _, err := DecodeConfig(v); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}

func TestLoadDishCatalog(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{
			name:    "valid",
			content: "name,description,price,category\nPastel,Queijo,7.50,snack\nSuco,,6,drink\n",
			want:    2,
		},
		{
			name:    "bad price",
			content: "name,description,price\nPastel,Queijo,abc\n",
			wantErr: true,
		},
		{
			name:    "negative price",
			content: "name,description,price\nPastel,Queijo,-1\n",
			wantErr: true,
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".csv")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			dishes, err := LoadDishCatalog(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("case %d: err = %v, wantErr %v", i, err, tt.wantErr)
			}
			if len(dishes) != tt.want {
				t.Fatalf("dishes = %d, want %d", len(dishes), tt.want)
			}
		})
	}
}
