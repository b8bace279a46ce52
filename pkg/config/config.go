package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when the config file does not exist.
var ErrNotFound = errors.New("config: file not found")

// Load reads a YAML config file into dst, then overlays environment
// variables declared via `env` struct tags. An `envDefault` tag supplies a
// fallback when neither the file nor the environment sets the field.
//
// Example:
//
//	type Config struct {
//	    Addr   string        `yaml:"addr" env:"HTTP_ADDR" envDefault:":8080"`
//	    DSN    string        `yaml:"sentry_dsn" env:"SENTRY_DSN"`
//	    Grace  time.Duration `yaml:"grace" env:"SHUTDOWN_GRACE"`
//	}
//
//	var cfg Config
//	err := config.Load("config.yaml", &cfg)
func Load(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return applyEnv(dst)
}

// FromEnv fills dst from environment variables and envDefault tags only,
// without reading a file. Useful for twelve-factor deployments.
func FromEnv(dst any) error {
	return applyEnv(dst)
}

func applyEnv(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: target must be a struct pointer, got %T", dst)
	}
	return overlayStruct(rv.Elem())
}

func overlayStruct(rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		fv := rv.Field(i)

		if fv.Kind() == reflect.Struct && field.Tag.Get("env") == "" {
			if err := overlayStruct(fv); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("env")
		if key == "" {
			continue
		}
		raw, ok := os.LookupEnv(key)
		if !ok {
			if fv.IsZero() {
				raw, ok = field.Tag.Lookup("envDefault")
			}
			if !ok {
				continue
			}
		}
		if err := setField(fv, raw); err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
	}
	return nil
}

func setField(fv reflect.Value, raw string) error {
	if fv.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", fv.Type())
	}
	return nil
}
