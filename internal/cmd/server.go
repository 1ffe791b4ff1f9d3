package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"

	"github.com/openlabtools/hidlink/internal/configpaths"
	"github.com/openlabtools/hidlink/internal/log"
	"github.com/openlabtools/hidlink/internal/server/api"
	"github.com/openlabtools/hidlink/internal/server/api/auth"
	"github.com/openlabtools/hidlink/internal/server/api/handler"
	"github.com/openlabtools/hidlink/registry"
	"github.com/openlabtools/hidlink/send"
	"github.com/openlabtools/hidlink/transport"
	"github.com/openlabtools/hidlink/virtual"
)

const keyFileName = "hidlink.key.txt"

// Server runs the control API server over the local device registry.
type Server struct {
	Api            api.ServerConfig `embed:"" prefix:"api."`
	VirtualDevices int              `help:"Number of loopback devices to register (for testing without hardware)" default:"0" env:"HIDLINK_VIRTUAL_DEVICES"`
	NoAuth         bool             `help:"Disable PSK authentication (local use only)" default:"false" env:"HIDLINK_NO_AUTH"`
}

// Run is called by kong when the server command is executed.
func (s *Server) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServer(ctx, logger)
}

// StartServer brings up the registry and the API server and blocks until
// the context is canceled.
func (s *Server) StartServer(ctx context.Context, logger *slog.Logger) error {
	if !s.NoAuth {
		password, err := loadOrCreateKey(logger)
		if err != nil {
			return err
		}
		s.Api.Password = password
	}

	reg := registry.New()
	defer reg.Close()

	if n, err := reg.Rescan(); err != nil {
		logger.Warn("device scan failed", "error", err)
	} else {
		logger.Info("native devices registered", "count", n)
	}

	for i := 0; i < s.VirtualDevices; i++ {
		dev := virtual.New()
		d := reg.Register(virtual.Info(i), transport.NewVendorTimed(dev))
		logger.Info("loopback device registered", "index", d.Index)
	}

	echo := log.NewEchoWriter(logger, slog.LevelInfo)
	sender := send.New(reg, nil, echo, logger)

	apiSrv := api.New(s.Api, logger)
	r := apiSrv.Router()
	r.Register("ping", handler.Ping())
	r.Register("device/list", handler.DeviceList(reg))
	r.Register("device/rescan", handler.DeviceRescan(reg))
	r.Register("device/{index}/send", handler.DeviceSend(sender))

	if err := apiSrv.Start(); err != nil {
		logger.Error("failed to start control API server", "error", err)
		return err
	}
	defer apiSrv.Close()

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// loadOrCreateKey reads the API password from the key file, generating and
// persisting a fresh one on first run.
func loadOrCreateKey(logger *slog.Logger) (string, error) {
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve key file path: %w", err)
	}
	keyFilePath := path.Join(dir, keyFileName)

	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	}

	pwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generate API password: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(pwd), 0o600); err != nil {
		return "", fmt.Errorf("write API password file: %w", err)
	}
	logger.Info("generated control API password", "path", keyFilePath)
	logger.Info("-------------------------------------")
	logger.Info(pwd)
	logger.Info("-------------------------------------")
	logger.Info("Change it at any time by editing the file")
	return pwd, nil
}
