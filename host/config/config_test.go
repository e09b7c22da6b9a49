package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "pwmctl.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg=%+v want %+v", cfg, Default())
	}
	if cfg.Transport != TransportI2C || cfg.I2C.Bus != "/dev/i2c-1" || cfg.I2C.Address != 0x71 {
		t.Fatalf("unexpected i2c defaults: %+v", cfg)
	}
	if cfg.Serial.Device != "/dev/ttyACM0" || cfg.Serial.Baud != 115200 || cfg.Serial.ReadTimeout != 200*time.Millisecond {
		t.Fatalf("unexpected serial defaults: %+v", cfg.Serial)
	}
}

func TestLoad_Values(t *testing.T) {
	path := writeTempConfig(t, `
transport: serial
i2c:
  bus: /dev/i2c-3
  address: 0x42
serial:
  device: /dev/ttyUSB1
  read_timeout: 1s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Transport != TransportSerial {
		t.Fatalf("transport=%q", cfg.Transport)
	}
	if cfg.I2C.Bus != "/dev/i2c-3" || cfg.I2C.Address != 0x42 {
		t.Fatalf("i2c=%+v", cfg.I2C)
	}
	if cfg.Serial.Device != "/dev/ttyUSB1" || cfg.Serial.ReadTimeout != time.Second {
		t.Fatalf("serial=%+v", cfg.Serial)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"bad transport", "transport: can\n", `transport must be "i2c" or "serial", got "can"`},
		{"bad address", "i2c:\n  address: 0x80\n", "i2c.address 0x80 out of range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.yaml))
			if err == nil {
				t.Fatalf("expected error %q, got nil", tc.want)
			}
			if err.Error() != tc.want {
				t.Fatalf("error=%q want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	if _, err := Load(writeTempConfig(t, "transport: [\n")); err == nil {
		t.Fatal("expected parse error")
	}
}
