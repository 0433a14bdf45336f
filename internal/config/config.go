package config

import (
	"errors"
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
	API       API       `koanf:"api"`
	Cache     Cache     `koanf:"cache"`
	Sync      Sync      `koanf:"sync"`
	Scheduler Scheduler `koanf:"scheduler"`
	Server    Server    `koanf:"server"`
}

type API struct {
	SemesterURL    string `koanf:"semesterurl"`
	EventsURL      string `koanf:"eventsurl"`
	TimeoutSeconds int    `koanf:"timeoutseconds"`
}

type Cache struct {
	Dir string `koanf:"dir"`
}

type Sync struct {
	SemesterMaxAgeHours    int `koanf:"semestermaxagehours"`
	EventsMaxAgeHours      int `koanf:"eventsmaxagehours"`
	RefreshCooldownSeconds int `koanf:"refreshcooldownseconds"`
}

type Scheduler struct {
	Enabled  bool   `koanf:"enabled"`
	Schedule string `koanf:"schedule"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		API: API{
			TimeoutSeconds: 10,
		},
		Cache: Cache{
			Dir: "./data",
		},
		Sync: Sync{
			SemesterMaxAgeHours:    24,
			EventsMaxAgeHours:      6,
			RefreshCooldownSeconds: 30,
		},
		Scheduler: Scheduler{
			Enabled:  true,
			Schedule: "@every 1h",
		},
		Server: Server{
			Addr: ":8181",
		},
	}, "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "CAMPUSCAL_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "CAMPUSCAL_")), "_", ".")
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
