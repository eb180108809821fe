package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"disp32x8-server/cmd/config"
	"disp32x8-server/cmd/disp32x8/wire"
	"disp32x8-server/internal/infra/node"

	"github.com/spf13/pflag"
)

var (
	logLevelMapping = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
)

func main() {
	config.RegisterFlags(pflag.CommandLine)
	pflag.Parse()

	config := config.LoadConfig()

	level := logLevelMapping[config.General.LogLevel]
	baseHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true, Level: level, ReplaceAttr: slogReplaceAttr})
	handler := baseHandler.WithAttrs([]slog.Attr{slog.String("version", node.Version)})
	slog.SetDefault(slog.New(handler))
	slog.Info("disp32x8 is initializing", slog.Any("node", node.GetNodeInfo()))
	slog.Debug("config loaded", "data", config)

	shutdownOtel := func() error { return nil }
	if config.OTel.Enabled {
		shutdownOtel = startOTel(config.OTel.Endpoint)
	}

	app := handleWireInjector(wire.InitializeApplication()).(*wire.Application)

	if err := app.SensorHistory.Subscribe(); err != nil {
		slog.Error("failed to subscribe to sensor history replies", slog.Any("error", err))
		panic(err)
	}

	appCtx, cancelFn := context.WithCancel(context.Background())
	if err := app.Manager.Start(appCtx, config.ToDevices()); err != nil {
		slog.Error("failed to start display loops", slog.Any("error", err))
		panic(err)
	}

	if err := app.Commands.Subscribe(); err != nil {
		slog.Error("failed to subscribe to commands", slog.Any("error", err))
		panic(err)
	}

	go app.HTTPServer.Run()

	signalChannel := make(chan os.Signal, 2)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)

	<-signalChannel
	slog.Info("shutting down")

	app.HTTPServer.Shutdown()
	cancelFn()
	app.Manager.Wait()
	app.MQTTClient.Disconnect()

	if err := shutdownOtel(); err != nil {
		slog.Error("shutting down OTel providers", slog.Any("error", err))
	}

	slog.Info("good bye!!!")
	os.Exit(0)
}

func slogReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source := a.Value.Any().(*slog.Source)
		source.File = filepath.Base(source.File)
		return slog.Any(a.Key, source)
	}
	return a
}

func handleWireInjector(value any, err error) any {
	if err != nil {
		panic(err)
	}

	return value
}
