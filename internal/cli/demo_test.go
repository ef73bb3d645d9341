package cli

import (
	"testing"

	"github.com/rs/zerolog"

	"quantrisk/internal/config"
)

func TestDemoPricerConstructs(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Paths = 2000
	app := &App{Config: cfg, Logger: zerolog.Nop()}

	p, err := app.demoPricer()
	if err != nil {
		t.Fatalf("demoPricer error: %v", err)
	}
	price, err := p.Price()
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	if price <= 0 {
		t.Fatalf("demo book should have positive value, got %v", price)
	}
}

func TestRootCmdWiresSubcommands(t *testing.T) {
	root := NewRootCmd(config.Default(), zerolog.Nop())

	for _, name := range []string{"price", "greeks", "runs"} {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("root command should expose %q", name)
		}
	}
	if !root.PersistentFlags().HasFlags() {
		t.Fatal("root command should carry the engine flags")
	}
}
