package models

// SeedUser is a user entry of the bootstrap file. Credential is stored as given.
type SeedUser struct {
	Login      string `yaml:"login"`
	Credential string `yaml:"credential"`
	Role       Role   `yaml:"role"`
}

// Seed holds the initial rooms, services and users loaded on first start.
type Seed struct {
	Rooms    []Room     `yaml:"rooms"`
	Services []Service  `yaml:"services"`
	Users    []SeedUser `yaml:"users"`
}
