// Command socklog-console is an interactive client for exercising a log
// collector.
//
// It connects a Logger to a collector and exposes the logging levels and
// connection controls as console commands, so protocol behavior (handshake,
// queueing, reconnect) can be observed by hand.
//
// Usage:
//
//	socklog-console [flags]
//
// Flags:
//
//	-host string     Collector address as "domain:port"
//	-config string   Path to a YAML config file
//	-ssl             Connect with TLS
//	-insecure        Skip certificate verification (testing only)
//	-discover        Pick the first collector found via mDNS
//
// Examples:
//
//	# Connect to a local collector
//	socklog-console -host 127.0.0.1:7071
//
//	# Use a config file
//	socklog-console -config socklog.yaml
//
//	# Find a collector on the local network
//	socklog-console -discover
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/typhonjs/socklog-go/pkg/discovery"
	"github.com/typhonjs/socklog-go/pkg/socklog"
	"github.com/typhonjs/socklog-go/pkg/wire"
)

func main() {
	host := flag.String("host", "", "collector address as \"domain:port\"")
	configPath := flag.String("config", "", "path to a YAML config file")
	ssl := flag.Bool("ssl", false, "connect with TLS")
	insecure := flag.Bool("insecure", false, "skip certificate verification (testing only)")
	discover := flag.Bool("discover", false, "pick the first collector found via mDNS")
	flag.Parse()

	log.SetFlags(0)

	cfg, err := buildConfig(*configPath, *host, *ssl, *insecure, *discover)
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	logger, err := socklog.New(cfg)
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	defer logger.Close()

	logger.OnConnected(func(c socklog.Config) {
		fmt.Printf("\r* session established with %s\n", c.Host)
	})
	logger.OnDisconnected(func(c socklog.Config) {
		fmt.Printf("\r* disconnected from %s\n", c.Host)
	})

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "socklog> ",
		HistoryFile:     "/tmp/socklog-console.history",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		log.Fatalf("error: %v", err)
	}
	defer rl.Close()

	fmt.Printf("connected console to %s (type 'help' for commands)\n", cfg.Host)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !dispatch(logger, line) {
			return
		}
	}
}

// buildConfig assembles the logger config from file, flags and discovery.
// Flags override file values; discovery overrides both.
func buildConfig(configPath, host string, ssl, insecure, discover bool) (socklog.Config, error) {
	var cfg socklog.Config

	if configPath != "" {
		loaded, err := socklog.LoadConfig(configPath)
		if err != nil {
			return socklog.Config{}, err
		}
		cfg = loaded
	} else {
		cfg = socklog.DefaultConfig(host)
	}

	if host != "" {
		cfg.Host = host
	}
	if ssl {
		cfg.SSL = true
	}
	if insecure {
		cfg.InsecureSkipVerify = true
	}

	if discover {
		collector, err := discoverCollector()
		if err != nil {
			return socklog.Config{}, err
		}
		fmt.Printf("discovered %q at %s\n", collector.InstanceName, collector.Addr())

		cfg.Host = collector.Addr()
		cfg.SSL = collector.SSL
		serializer, err := socklog.SerializerByName(collector.Serializer)
		if err != nil {
			return socklog.Config{}, err
		}
		cfg.Serializer = serializer
	}

	if cfg.Host == "" {
		return socklog.Config{}, fmt.Errorf("no collector: pass -host, -config or -discover")
	}
	return cfg, nil
}

// discoverCollector browses mDNS and returns the first collector found.
func discoverCollector() (*discovery.Collector, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fmt.Println("browsing for collectors...")

	found, err := discovery.Browse(ctx)
	if err != nil {
		return nil, err
	}

	select {
	case collector, ok := <-found:
		if !ok {
			return nil, fmt.Errorf("no collector found")
		}
		return collector, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("no collector found")
	}
}

// dispatch executes one console command. It returns false when the console
// should exit.
func dispatch(logger *socklog.Logger, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "help", "?":
		printHelp()

	case "trace", "debug", "info", "warn", "error", "fatal":
		level, err := wire.ParseLevel(cmd)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return true
		}
		if rest == "" {
			fmt.Println("usage: " + cmd + " <message>")
			return true
		}
		logger.Log(level, rest)

	case "connect":
		logger.Connect()

	case "disconnect":
		logger.Disconnect()

	case "status":
		fmt.Printf("status: %s, queued: %d\n", logger.Status(), logger.QueueDepth())

	case "quit", "exit":
		return false

	default:
		fmt.Printf("unknown command %q (type 'help')\n", cmd)
	}

	return true
}

func printHelp() {
	fmt.Print(`Commands:
  trace <message>   send a trace level record
  debug <message>   send a debug level record
  info <message>    send an info level record
  warn <message>    send a warn level record
  error <message>   send an error level record
  fatal <message>   send a fatal level record
  connect           connect to the collector
  disconnect        disconnect and discard queued records
  status            show connection status and queue depth
  quit              exit the console
`)
}
