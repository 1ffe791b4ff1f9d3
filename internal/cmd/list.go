package cmd

import (
	"fmt"
	"log/slog"

	"github.com/openlabtools/hidlink/apiclient"
	"github.com/openlabtools/hidlink/transport"
)

// List prints the HID devices visible locally, or registered on a server
// when --addr is given.
type List struct {
	Addr     string `help:"List devices registered on the server at this address" env:"HIDLINK_ADDR"`
	Password string `help:"Server password; use '-' to be prompted" env:"HIDLINK_PASSWORD"`
}

func (c *List) Run(logger *slog.Logger) error {
	if c.Addr != "" {
		return c.listRemote()
	}

	infos, err := transport.Enumerate()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no HID devices found")
		return nil
	}
	for i, info := range infos {
		fmt.Printf("%3d  %s\n", i, info)
	}
	return nil
}

func (c *List) listRemote() error {
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

	resp, err := client.DeviceList()
	if err != nil {
		return err
	}
	if len(resp.Devices) == 0 {
		fmt.Println("no devices registered")
		return nil
	}
	for _, d := range resp.Devices {
		fmt.Printf("%3d  %s %s:%s %q (%s)\n", d.Index, d.Path, d.Vid, d.Pid, d.Name, d.Transport)
	}
	return nil
}
