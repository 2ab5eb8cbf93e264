package card

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/calpane/calpane/pkg/groups"
	log "github.com/sirupsen/logrus"
)

const defaultInitialTime = "00:00:00"

// ConfigurationError marks malformed card configuration. It is fatal: the
// card does not render, a static message is shown instead.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "invalid card configuration: " + e.Msg
}

// PersonConfig groups several calendars under one name in the filter bar.
type PersonConfig struct {
	Name      string   `json:"name"`
	Calendars []string `json:"calendars"`
	Color     string   `json:"color,omitempty"`
	Icon      string   `json:"icon,omitempty"`
}

// Config is the host-supplied card configuration.
type Config struct {
	Title            string         `json:"title,omitempty"`
	InitialView      string         `json:"initial_view,omitempty"`
	InitialTime      string         `json:"initial_time,omitempty"`
	ShowNowIndicator bool           `json:"show_now_indicator,omitempty"`
	Height           string         `json:"height,omitempty"`
	Calendars        []string       `json:"calendars,omitempty"`
	Persons          []PersonConfig `json:"persons,omitempty"`
}

// ParseConfig decodes and normalizes a raw configuration object.
func ParseConfig(raw []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, &ConfigurationError{Msg: err.Error()}
	}
	if err := cfg.Normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize applies defaults and validates the configuration in place.
func (c *Config) Normalize() error {
	if c.InitialView == "" {
		c.InitialView = "dayGridMonth"
	}
	c.InitialTime = normalizeInitialTime(c.InitialTime)

	if len(c.Calendars) == 0 && len(c.Persons) == 0 {
		return &ConfigurationError{Msg: "at least one calendar or person is required"}
	}
	for i, p := range c.Persons {
		if strings.TrimSpace(p.Name) == "" {
			return &ConfigurationError{Msg: fmt.Sprintf("person %d has no name", i)}
		}
	}
	return nil
}

// Persons as resolver input.
func (c *Config) persons() []groups.Person {
	persons := make([]groups.Person, 0, len(c.Persons))
	for _, p := range c.Persons {
		persons = append(persons, groups.Person{
			Name:      p.Name,
			Calendars: p.Calendars,
			Color:     p.Color,
			Icon:      p.Icon,
		})
	}
	return persons
}

// normalizeInitialTime validates HH:MM[:SS] with each component range
// checked. An invalid value silently falls back to 00:00:00 rather than
// erroring.
func normalizeInitialTime(value string) string {
	if value == "" {
		return defaultInitialTime
	}

	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		log.Debugf("ignoring invalid initial_time %q", value)
		return defaultInitialTime
	}
	if len(parts) == 2 {
		parts = append(parts, "00")
	}

	limits := []int{23, 59, 59}
	components := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > limits[i] {
			log.Debugf("ignoring invalid initial_time %q", value)
			return defaultInitialTime
		}
		components[i] = n
	}

	return fmt.Sprintf("%02d:%02d:%02d", components[0], components[1], components[2])
}
