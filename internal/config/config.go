package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host     string   `koanf:"host"`
	Listen   string   `koanf:"listen"`
	Card     Card     `koanf:"card"`
	Refresh  Refresh  `koanf:"refresh"`
	Google   Google   `koanf:"google"`
	Database Database `koanf:"db"`
}

// Card is the raw card configuration served to the dashboard. It is kept as
// loosely-typed fields here; pkg/card parses and validates it.
type Card struct {
	Title            string   `koanf:"title"`
	InitialView      string   `koanf:"initialview"`
	InitialTime      string   `koanf:"initialtime"`
	ShowNowIndicator bool     `koanf:"shownowindicator"`
	Height           string   `koanf:"height"`
	Calendars        []string `koanf:"calendars"`
	Persons          []Person `koanf:"persons"`
}

type Person struct {
	Name      string   `koanf:"name"`
	Calendars []string `koanf:"calendars"`
	Color     string   `koanf:"color"`
	Icon      string   `koanf:"icon"`
}

// Refresh configures the periodic state tick that re-fetches event sources.
type Refresh struct {
	Schedule string `koanf:"schedule"`
}

type Google struct {
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
	TokenFile    string `koanf:"tokenfile"`
}

type Database struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Host:   "http://localhost:3000",
		Listen: ":8181",
		Refresh: Refresh{
			Schedule: "@every 5m",
		},
		Google: Google{
			TokenFile: "google_token.json",
		},
		Database: Database{
			Driver: "sqlite",
			DSN:    "file:calpane.db",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CALPANE_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CALPANE_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
