package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"disp32x8-server/internal/display/communication"
	"disp32x8-server/internal/display/domain"
	"disp32x8-server/internal/infra/mqtt"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

func main() {
	var (
		broker   = pflag.String("broker", "tcp://localhost:1883", "MQTT broker address")
		username = pflag.String("username", "", "MQTT username")
		password = pflag.String("password", "", "MQTT password")
		deviceID = pflag.Int("device", 0, "target device id")
		position = pflag.String("position", "scroll", "scroll, left, center, right, beep or time")
		topic    = pflag.String("topic", "disp32x8/commands", "commands topic")
		results  = pflag.String("result-topic", "disp32x8/commands/result", "command results topic")
		timeout  = pflag.Duration("timeout", 10*time.Second, "time to wait for the result")
		verbose  = pflag.Bool("verbose", false, "debug logging")
	)
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s --device ID [flags] MESSAGE\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if pflag.NArg() != 1 || *deviceID == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	mqttClient, err := mqtt.NewSimpleClient(mqtt.SimpleClientOpts{
		Broker:   *broker,
		ClientID: "disp32x8-send-" + uuid.NewString()[:8],
		Username: *username,
		Password: *password, //pragma: allowlist secret
	})
	if err != nil {
		slog.Error("connecting to broker", slog.Any("error", err))
		os.Exit(1)
	}
	defer mqttClient.Disconnect()

	publisher := communication.NewCommandPublisher(mqttClient, communication.CommandTopics{
		Commands: *topic,
		Results:  *results,
	})
	if err := publisher.Subscribe(); err != nil {
		slog.Error("subscribing to results", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := publisher.Send(ctx, domain.Command{
		DeviceID: domain.DeviceID(*deviceID),
		Message:  pflag.Arg(0),
		Position: *position,
	})
	if err != nil {
		slog.Error("sending command", slog.Any("error", err))
		os.Exit(1)
	}

	if !result.Status {
		reason := "unknown"
		if result.Reason != nil {
			reason = *result.Reason
		}
		fmt.Fprintf(os.Stderr, "rejected: %s\n", reason)
		os.Exit(1)
	}
	fmt.Println("queued")
}
