package env

import (
	"errors"
	"fmt"
	"os"
	"time"

	"midnight_slots/internal/config"
	"midnight_slots/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	slotConfigEnvName = "SLOT_CONFIG"
	defaultSlotConfig = "config.yaml"
)

// Тайминги показа по умолчанию, мс
var (
	defaultFrameMs = 60
	defaultStopsMs = []int{900, 1400, 1850}
	defaultPopMs   = 260
)

type slotFile struct {
	Reveal struct {
		FrameMs *int  `yaml:"frame_ms"`
		StopsMs []int `yaml:"stops_ms"`
		PopMs   *int  `yaml:"pop_ms"`
	} `yaml:"reveal"`
}

type slotConfig struct {
	frame time.Duration
	stops []time.Duration
	pop   time.Duration
}

// SlotConfigPath путь к YAML из окружения либо config.yaml
func SlotConfigPath() string {
	if p := os.Getenv(slotConfigEnvName); len(p) != 0 {
		return p
	}
	return defaultSlotConfig
}

// NewSlotConfigFromYAML читает тайминги показа барабанов.
// Отсутствующий файл не ошибка: берутся значения по умолчанию.
func NewSlotConfigFromYAML(path string) (config.SlotConfig, error) {
	var f slotFile

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read slot config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse slot config: %w", err)
		}
	}

	return newSlotConfig(f)
}

func newSlotConfig(f slotFile) (*slotConfig, error) {
	frameMs := defaultFrameMs
	if f.Reveal.FrameMs != nil {
		frameMs = *f.Reveal.FrameMs
	}
	popMs := defaultPopMs
	if f.Reveal.PopMs != nil {
		popMs = *f.Reveal.PopMs
	}
	stopsMs := defaultStopsMs
	if f.Reveal.StopsMs != nil {
		stopsMs = f.Reveal.StopsMs
	}

	if frameMs <= 0 {
		return nil, errors.New("reveal.frame_ms must be positive")
	}
	if popMs < 0 {
		return nil, errors.New("reveal.pop_ms must not be negative")
	}
	if len(stopsMs) != model.Reels {
		return nil, fmt.Errorf("reveal.stops_ms must have %d entries", model.Reels)
	}

	stops := make([]time.Duration, len(stopsMs))
	for i, ms := range stopsMs {
		if ms < 0 || (i > 0 && ms < stopsMs[i-1]) {
			return nil, errors.New("reveal.stops_ms must be non-negative and ascending")
		}
		stops[i] = time.Duration(ms) * time.Millisecond
	}

	return &slotConfig{
		frame: time.Duration(frameMs) * time.Millisecond,
		stops: stops,
		pop:   time.Duration(popMs) * time.Millisecond,
	}, nil
}

func (c *slotConfig) FrameInterval() time.Duration {
	return c.frame
}

// ReelStops копия, чтобы вызывающий не мог поменять конфиг
func (c *slotConfig) ReelStops() []time.Duration {
	out := make([]time.Duration, len(c.stops))
	copy(out, c.stops)
	return out
}

func (c *slotConfig) PopDuration() time.Duration {
	return c.pop
}
