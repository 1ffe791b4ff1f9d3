package cmd

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/openlabtools/hidlink/apiclient"
	"github.com/openlabtools/hidlink/apitypes"
	"github.com/openlabtools/hidlink/registry"
	"github.com/openlabtools/hidlink/report"
	"github.com/openlabtools/hidlink/send"
)

// Send transmits one report, either through a local device or through a
// running hidlink server when --addr is given.
type Send struct {
	Device   int    `help:"Device index" default:"0" env:"HIDLINK_DEVICE"`
	Type     string `help:"Report type: echo, output, feature (or 0/2/3)" default:"output"`
	ID       int    `help:"Report ID (0..255); nonzero IDs overwrite byte 0 of the report" default:"0"`
	Report   string `arg:"" help:"Report bytes, hex encoded (e.g. 05aabb)"`
	Addr     string `help:"Send through the server at this address instead of a local device" env:"HIDLINK_ADDR"`
	Password string `help:"Server password; use '-' to be prompted" env:"HIDLINK_PASSWORD"`
}

func (c *Send) Run(logger *slog.Logger) error {
	typ, err := parseType(c.Type)
	if err != nil {
		return err
	}
	if c.ID < 0 || c.ID > 255 {
		return fmt.Errorf("report ID must be in 0..255")
	}
	payload, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(c.Report), "0x"))
	if err != nil {
		return fmt.Errorf("report must be hex encoded: %w", err)
	}

	if c.Addr != "" {
		return c.sendRemote(typ, payload)
	}
	return c.sendLocal(typ, payload, logger)
}

func (c *Send) sendRemote(typ int, payload []byte) error {
	password := c.Password
	if password == "-" {
		p, err := promptPassword()
		if err != nil {
			return err
		}
		password = p
	}

	var client *apiclient.Client
	if password != "" {
		client = apiclient.NewWithPassword(c.Addr, password)
	} else {
		client = apiclient.New(c.Addr)
	}

	resp, err := client.Send(c.Device, typ, c.ID, payload)
	if err != nil {
		return err
	}
	printResult(resp.Code, resp.Name, resp.Description)
	return nil
}

func (c *Send) sendLocal(typ int, payload []byte, logger *slog.Logger) error {
	reg := registry.New()
	defer reg.Close()
	if _, err := reg.Rescan(); err != nil {
		return fmt.Errorf("device scan failed: %w", err)
	}

	sender := send.New(reg, nil, os.Stdout, logger)
	result, err := sender.Send(c.Device, report.Type(typ), c.ID, payload)
	if err != nil {
		return err
	}
	printResult(result.Code, result.Name, result.Description)
	return nil
}

func printResult(code int64, name, description string) {
	if code == 0 {
		fmt.Println("ok")
		return
	}
	fmt.Printf("failed: code=%d name=%s description=%s\n", code, name, description)
}

func parseType(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	return apitypes.ParseReportType(s)
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal; pass the password via --password or HIDLINK_PASSWORD")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
