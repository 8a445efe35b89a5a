package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/thermoguard/internal/domain"
)

//go:embed default.yaml
var defaultYAML []byte

// File is a decoded seed dataset.
type File struct {
	Customers []domain.Customer       `yaml:"customers"`
	Vendors   []domain.Vendor         `yaml:"vendors"`
	Users     []domain.User           `yaml:"users"`
	Devices   []domain.Device         `yaml:"devices"`
	Rules     []domain.AutomationRule `yaml:"rules"`
	Activity  []Activity              `yaml:"activity"`
}

// Activity is a feed entry stamped relative to load time.
type Activity struct {
	ID      string        `yaml:"id"`
	Type    string        `yaml:"type"`
	Message string        `yaml:"message"`
	Age     time.Duration `yaml:"age"`
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(path, data)
}

// Parse validates and decodes seed YAML. name labels error positions.
//
// The returned error wraps a *LoadError listing every problem found.
func Parse(name string, data []byte) (*File, error) {
	if errs := checkShape(name, data); len(errs) > 0 {
		return nil, &LoadError{Name: name, Errors: errs}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Name: name, Errors: []ValidationError{{Code: ErrEmpty, Message: "seed is empty"}}}
		}
		return nil, &LoadError{Name: name, Errors: []ValidationError{{Code: ErrDecode, Message: err.Error()}}}
	}

	if errs := f.Validate(); len(errs) > 0 {
		return nil, &LoadError{Name: name, Errors: errs}
	}

	return &f, nil
}

// Default returns the embedded demo dataset.
func Default() (*File, error) {
	return Parse("default.yaml", defaultYAML)
}

// MustDefault is Default for callers that cannot recover from a broken
// build.
func MustDefault() *File {
	f, err := Default()
	if err != nil {
		panic(err)
	}
	return f
}

// Build produces the initial snapshot. Device histories start empty,
// lastUpdated and activity timestamps are relative to now, and a device
// without a status gets the one its temperature implies.
func (f *File) Build(now time.Time) domain.Snapshot {
	devices := make([]domain.Device, len(f.Devices))
	for i, d := range f.Devices {
		if d.Status == "" {
			d.Status = domain.BandedStatus(d.Temperature, d.ThresholdMin, d.ThresholdMax)
		}
		d.LastUpdated = now
		d.History = []domain.Reading{}
		devices[i] = d
	}

	rules := make([]domain.AutomationRule, len(f.Rules))
	for i, r := range f.Rules {
		r.Actions = append([]domain.RuleAction{}, r.Actions...)
		rules[i] = r
	}

	activity := make([]domain.ActivityEntry, len(f.Activity))
	for i, a := range f.Activity {
		activity[i] = domain.ActivityEntry{
			ID:        a.ID,
			Type:      a.Type,
			Message:   a.Message,
			Timestamp: now.Add(-a.Age),
		}
	}

	return domain.Snapshot{
		Users:         append([]domain.User{}, f.Users...),
		Customers:     append([]domain.Customer{}, f.Customers...),
		Vendors:       append([]domain.Vendor{}, f.Vendors...),
		Devices:       devices,
		Alerts:        []domain.Alert{},
		Jobs:          []domain.Job{},
		Notifications: []domain.NotificationLog{},
		Rules:         rules,
		Activity:      activity,
	}
}
