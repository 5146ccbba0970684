// Command yeelight sends a single command to a Yeelight bulb over the LAN
// and prints its reply.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/denwilliams/go-yeelight-mqtt/internal/config"
	"github.com/denwilliams/go-yeelight-mqtt/internal/logging"
	"github.com/denwilliams/go-yeelight-mqtt/internal/yeelight"
	"github.com/spf13/cobra"
)

var (
	flagHost     string
	flagPort     int
	flagBulb     string
	flagID       int32
	flagDuration int32
	flagTimeout  time.Duration
	flagLogLevel string
	flagMode     string
	flagLine     bool

	app = &cobra.Command{
		Use:           `yeelight`,
		Short:         "control a Yeelight bulb over the LAN",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return logging.Init(flagLogLevel)
		},
	}
)

func init() {
	f := app.PersistentFlags()
	f.StringVarP(&flagHost, `host`, `H`, ``, `bulb address, overrides YEELIGHT_HOST`)
	f.IntVarP(&flagPort, `port`, `p`, 0, `bulb port (default 55443)`)
	f.StringVarP(&flagBulb, `bulb`, `b`, config.DefaultBulb, `named bulb from the configuration`)
	f.Int32Var(&flagID, `id`, 1, `correlation id of the request`)
	f.Int32VarP(&flagDuration, `duration`, `d`, 0, `smooth transition in milliseconds, 0 for sudden`)
	f.DurationVarP(&flagTimeout, `timeout`, `t`, 5*time.Second, `connect and reply timeout`)
	f.StringVarP(&flagLogLevel, `log-level`, `L`, `error`, `log level, one of: [debug,info,warn,error]`)
	f.BoolVar(&flagLine, `line`, false, `read the reply until its line terminator instead of a single read`)

	cmdOn.Flags().StringVarP(&flagMode, `mode`, `m`, ``, `power on mode: [normal,ct,rgb,hsv,flow,night]`)

	app.AddCommand(cmdToggle, cmdOn, cmdOff, cmdBright, cmdCT, cmdRGB, cmdHSV, cmdGet, cmdName)
}

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "An error occurred:", err)
		os.Exit(1)
	}
}

var (
	cmdToggle = &cobra.Command{
		Use:   `toggle`,
		Short: "toggle power",
		Args:  cobra.NoArgs,
		RunE: run(func(args []string) (*yeelight.Command, error) {
			return yeelight.NewToggle(flagID), nil
		}),
	}

	cmdOn = &cobra.Command{
		Use:   `on`,
		Short: "switch on",
		Args:  cobra.NoArgs,
		RunE: run(func(args []string) (*yeelight.Command, error) {
			var mode *yeelight.PowerOnMode
			if flagMode != "" {
				m, err := yeelight.ParsePowerOnMode(flagMode)
				if err != nil {
					return nil, err
				}
				mode = &m
			}
			return yeelight.NewSetPower(flagID, true, mode, effect()), nil
		}),
	}

	cmdOff = &cobra.Command{
		Use:   `off`,
		Short: "switch off",
		Args:  cobra.NoArgs,
		RunE: run(func(args []string) (*yeelight.Command, error) {
			return yeelight.NewSetPower(flagID, false, nil, effect()), nil
		}),
	}

	cmdBright = &cobra.Command{
		Use:   `bright <percent>`,
		Short: "set brightness (1-100)",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(args []string) (*yeelight.Command, error) {
			v, err := strconv.ParseInt(args[0], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("brightness: %w", err)
			}
			return yeelight.NewSetBrightness(flagID, int8(v), effect()), nil
		}),
	}

	cmdCT = &cobra.Command{
		Use:   `ct <kelvin>`,
		Short: "set color temperature (1700-6500)",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(args []string) (*yeelight.Command, error) {
			v, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("color temperature: %w", err)
			}
			return yeelight.NewSetColorTemp(flagID, int32(v), effect()), nil
		}),
	}

	cmdRGB = &cobra.Command{
		Use:   `rgb <r> <g> <b>`,
		Short: "set color from 0-255 channels",
		Args:  cobra.ExactArgs(3),
		RunE: run(func(args []string) (*yeelight.Command, error) {
			var ch [3]int8
			for i, a := range args {
				v, err := strconv.ParseUint(a, 10, 8)
				if err != nil {
					return nil, fmt.Errorf("channel %d: %w", i, err)
				}
				ch[i] = int8(uint8(v))
			}
			return yeelight.NewSetRGB(flagID, ch[0], ch[1], ch[2], effect()), nil
		}),
	}

	cmdHSV = &cobra.Command{
		Use:   `hsv <hue> <sat>`,
		Short: "set hue (0-359) and saturation (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(args []string) (*yeelight.Command, error) {
			h, err := strconv.ParseInt(args[0], 10, 16)
			if err != nil {
				return nil, fmt.Errorf("hue: %w", err)
			}
			s, err := strconv.ParseInt(args[1], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("saturation: %w", err)
			}
			return yeelight.NewSetHSV(flagID, int16(h), int8(s), effect()), nil
		}),
	}

	cmdGet = &cobra.Command{
		Use:   `get [property...]`,
		Short: "read properties, all of them when none are named",
		RunE: run(func(args []string) (*yeelight.Command, error) {
			if len(args) == 0 {
				return yeelight.NewGetProp(flagID, yeelight.Properties()...), nil
			}
			props := make([]yeelight.Property, len(args))
			for i, a := range args {
				p, err := yeelight.ParseProperty(a)
				if err != nil {
					return nil, err
				}
				props[i] = p
			}
			return yeelight.NewGetProp(flagID, props...), nil
		}),
	}

	cmdName = &cobra.Command{
		Use:   `name <name>`,
		Short: "store a name on the bulb (ASCII only)",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(args []string) (*yeelight.Command, error) {
			return yeelight.NewSetName(flagID, args[0]), nil
		}),
	}
)

func effect() yeelight.TransitionEffect {
	if flagDuration > 0 {
		return yeelight.Smooth(flagDuration)
	}
	return yeelight.Sudden
}

// run builds one command from the arguments and performs one exchange.
func run(build func(args []string) (*yeelight.Command, error)) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		cmd, err := build(args)
		if err != nil {
			return err
		}

		bulbCfg, err := target()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
		defer cancel()

		conn, err := yeelight.NewDialer(bulbCfg).Dial(ctx)
		if err != nil {
			return err
		}
		defer conn.Close()

		x := &yeelight.Exchanger{Logger: logging.Sink{}}
		send := x.Send
		if flagLine {
			send = x.SendLine
		}
		response, err := send(cmd, conn)
		if err != nil {
			return err
		}
		fmt.Printf("Got response: %s", response)
		return nil
	}
}

// target resolves the bulb from configuration and flags.
func target() (yeelight.Config, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return yeelight.Config{}, err
	}

	b, ok := cfg.Bulb(flagBulb)
	if flagHost != "" {
		b.Host = flagHost
		ok = true
	}
	if !ok || b.Host == "" {
		return yeelight.Config{}, fmt.Errorf("no address for bulb %q, set --host or YEELIGHT_HOST", flagBulb)
	}
	if flagPort != 0 {
		b.Port = flagPort
	}
	b.DialTimeout = flagTimeout
	b.IOTimeout = flagTimeout
	return b, nil
}
