package main

import (
	"testing"

	"github.com/spf13/viper"
)

func TestAdminEmailDefault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setDefaults()
	if email := viper.GetString("auth.admin_email"); email != "admin@auraheart.com" {
		t.Fatalf("default administrator email = %q", email)
	}
}

func TestShippedSettings(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if err := loadSettings(); err != nil {
		t.Fatal(err)
	}
	if email := viper.GetString("auth.admin_email"); email != "admin@auraheart.com" {
		t.Fatalf("administrator email = %q", email)
	}
	if id := viper.GetString("app_id"); id != "auraheart-v2" {
		t.Fatalf("app id = %q", id)
	}
}
