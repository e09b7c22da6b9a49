package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"pwmnode/host/client"
	"pwmnode/host/config"
	"pwmnode/host/serial"
	"pwmnode/protocol"
)

var (
	configPath  = flag.String("config", "", "YAML config file")
	transport   = flag.String("transport", "", "Transport: i2c or serial (overrides config)")
	bus         = flag.String("bus", "", "I2C bus device (overrides config)")
	address     = flag.Uint("address", 0, "I2C address of the node (overrides config)")
	device      = flag.String("device", "", "Serial device path (overrides config)")
	readTimeout = flag.Duration("timeout", 0, "Serial reply timeout (overrides config)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [command args...]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "With no command, starts an interactive shell.")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		printHelp(os.Stderr)
	}
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := connect(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, c.Close())
	}()

	if len(args) > 0 {
		return execute(c, args, os.Stdout)
	}
	return repl(c, os.Stdin, os.Stdout)
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	if *transport != "" {
		cfg.Transport = *transport
	}
	if *bus != "" {
		cfg.I2C.Bus = *bus
	}
	if *address != 0 {
		cfg.I2C.Address = uint16(*address)
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *readTimeout > 0 {
		cfg.Serial.ReadTimeout = *readTimeout
	}
	return cfg, cfg.Validate()
}

func connect(cfg config.Config) (*client.Client, error) {
	switch cfg.Transport {
	case config.TransportSerial:
		port, err := serial.Open(&serial.Config{
			Device:      cfg.Serial.Device,
			Baud:        cfg.Serial.Baud,
			ReadTimeout: cfg.Serial.ReadTimeout,
		})
		if err != nil {
			return nil, err
		}
		if err := port.Flush(); err != nil {
			return nil, multierr.Append(errors.Wrap(err, "flush serial port"), port.Close())
		}
		// Give the node a moment after the port opens
		time.Sleep(100 * time.Millisecond)
		return client.New(client.NewBridgeTransport(port, cfg.Serial.ReadTimeout)), nil
	default:
		t, err := client.OpenI2C(cfg.I2C.Bus, cfg.I2C.Address)
		if err != nil {
			return nil, err
		}
		return client.New(t), nil
	}
}

func repl(c *client.Client, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "pwmctl "+protocol.Version+" (type 'help' for commands, 'quit' to exit)")
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		switch args[0] {
		case "quit", "exit", "q":
			return nil
		}
		if err := execute(c, args, out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
	return errors.Wrap(scanner.Err(), "read input")
}

func execute(c *client.Client, args []string, out io.Writer) error {
	cmd, args := args[0], args[1:]

	switch cmd {
	case "help", "?":
		printHelp(out)
		return nil

	case "begin":
		return c.Begin()

	case "duty":
		if len(args) != 2 {
			return errors.New("usage: duty <channel 1-5> <percent>")
		}
		ch, err := parseUint(args[0], 8)
		if err != nil {
			return err
		}
		duty, err := parseUint(args[1], 8)
		if err != nil {
			return err
		}
		return c.SetDuty(int(ch)-1, uint8(duty))

	case "freq":
		if len(args) != 1 {
			return errors.New("usage: freq <hz>")
		}
		hz, err := parseUint(args[0], 32)
		if err != nil {
			return err
		}
		return c.SetFrequency(uint32(hz))

	case "duties":
		duties, err := c.Duties()
		if err != nil {
			return err
		}
		for i, d := range duties {
			fmt.Fprintf(out, "ch%d: %d%%\n", i+1, d)
		}
		return nil

	case "frequency":
		hz, err := c.Frequency()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d Hz\n", hz)
		return nil

	case "enable":
		return c.Enable()

	case "disable":
		return c.Disable()

	case "led":
		if len(args) != 4 {
			return errors.New("usage: led <channel 1-2> <r> <g> <b>")
		}
		var vals [4]uint64
		for i, a := range args {
			v, err := parseUint(a, 8)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		return c.SetLED(int(vals[0])-1, uint8(vals[1]), uint8(vals[2]), uint8(vals[3]))

	default:
		return errors.Errorf("unknown command %q (type 'help' for commands)", cmd)
	}
}

func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, errors.Wrapf(err, "bad number %q", s)
	}
	return v, nil
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "\nCommands:")
	fmt.Fprintln(out, "  begin                    - Send BEGIN_PWM")
	fmt.Fprintln(out, "  duty <ch> <percent>      - Set duty cycle of channel 1-5 (0-100)")
	fmt.Fprintln(out, "  freq <hz>                - Set shared frequency (whole kHz, 1-255 kHz)")
	fmt.Fprintln(out, "  duties                   - Read back all duty cycles")
	fmt.Fprintln(out, "  frequency                - Read back the frequency")
	fmt.Fprintln(out, "  enable | disable         - Turn all outputs on or off")
	fmt.Fprintln(out, "  led <ch> <r> <g> <b>     - Set LED channel 1-2 colour (serial only)")
	fmt.Fprintln(out, "  quit/exit/q              - Exit the shell")
	fmt.Fprintln(out)
}
