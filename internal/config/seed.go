package config

import (
	"fmt"
	"os"
	"strings"

	"hotel/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

type seedFile struct {
	Rooms []struct {
		Number      string `yaml:"number"`
		Type        string `yaml:"type"`
		PricePerDay string `yaml:"price_per_day"`
		Description string `yaml:"description"`
	} `yaml:"rooms"`
	Services []struct {
		Name  string `yaml:"name"`
		Price string `yaml:"price"`
	} `yaml:"services"`
	Users []struct {
		Login      string `yaml:"login"`
		Credential string `yaml:"credential"`
		Role       string `yaml:"role"`
	} `yaml:"users"`
}

// LoadSeed reads the bootstrap rooms, services and users. Prices are decimal strings.
func LoadSeed(path string) (models.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Seed{}, err
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.Seed{}, fmt.Errorf("parse seed %s: %w", path, err)
	}

	var seed models.Seed
	for _, r := range file.Rooms {
		price, err := decimal.NewFromString(r.PricePerDay)
		if err != nil {
			return models.Seed{}, fmt.Errorf("room %q: invalid price %q", r.Number, r.PricePerDay)
		}
		seed.Rooms = append(seed.Rooms, models.Room{
			Number:      r.Number,
			Type:        r.Type,
			PricePerDay: price,
			Description: r.Description,
		})
	}
	for _, s := range file.Services {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			return models.Seed{}, fmt.Errorf("service %q: invalid price %q", s.Name, s.Price)
		}
		seed.Services = append(seed.Services, models.Service{Name: s.Name, Price: price})
	}
	for _, u := range file.Users {
		if u.Role == "" {
			u.Role = string(models.RoleUser)
		}
		seed.Users = append(seed.Users, models.SeedUser{
			Login:      u.Login,
			Credential: u.Credential,
			Role:       models.Role(strings.ToLower(u.Role)),
		})
	}

	if err := ValidateSeed(seed); err != nil {
		return models.Seed{}, err
	}
	return seed, nil
}

func ValidateSeed(seed models.Seed) error {
	rooms := make(map[string]bool)
	for _, r := range seed.Rooms {
		if r.Number == "" {
			return fmt.Errorf("room with empty number")
		}
		if rooms[r.Number] {
			return fmt.Errorf("duplicate room number found: %s", r.Number)
		}
		if r.PricePerDay.IsNegative() {
			return fmt.Errorf("room %s has negative price", r.Number)
		}
		rooms[r.Number] = true
	}

	services := make(map[string]bool)
	for _, s := range seed.Services {
		if s.Name == "" {
			return fmt.Errorf("service with empty name")
		}
		if services[s.Name] {
			return fmt.Errorf("duplicate service name found: %s", s.Name)
		}
		if s.Price.IsNegative() {
			return fmt.Errorf("service %s has negative price", s.Name)
		}
		services[s.Name] = true
	}

	for _, u := range seed.Users {
		if u.Login == "" || u.Credential == "" {
			return fmt.Errorf("user entry requires login and credential")
		}
		if models.ParseRole(string(u.Role)) != u.Role {
			return fmt.Errorf("user %s has unknown role %q", u.Login, u.Role)
		}
	}
	return nil
}
