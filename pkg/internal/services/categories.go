package services

import (
	"github.com/spf13/viper"
)

// Category is an entry of the catalogue members browse pins by.
type Category struct {
	Alias string `json:"alias" mapstructure:"alias"`
	Name  string `json:"name" mapstructure:"name"`
	Icon  string `json:"icon" mapstructure:"icon"`
}

var defaultCategories = []Category{
	{Alias: "all", Name: "Tudo"},
	{Alias: "aesthetic", Name: "Estética"},
	{Alias: "vibe", Name: "Vibe"},
	{Alias: "aura", Name: "Aura"},
}

func ListCategory() ([]Category, error) {
	if !viper.IsSet("content.categories") {
		return defaultCategories, nil
	}
	var categories []Category
	if err := viper.UnmarshalKey("content.categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
