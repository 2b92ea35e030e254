package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/PLudrak/mozaiker/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("mozaiker-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("mozaiker-mcp - MCP server for building photo mosaics")
			fmt.Println()
			fmt.Println("Usage: mozaiker-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  MOZAIKER_LOG_LEVEL=debug    Log level (debug, info, warn, error; default warn)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// stdout carries the protocol, logs go to stderr.
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("MOZAIKER_LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("mozaiker MCP server starting")

	server.Version = Version
	srv := server.New(log)
	if err := srv.Run(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
