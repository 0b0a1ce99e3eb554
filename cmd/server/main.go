package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/ringdrop/internal/config"
	"github.com/kiliankoe/ringdrop/internal/logging"
	"github.com/kiliankoe/ringdrop/internal/ws"
	staticserver "github.com/kiliankoe/ringdrop/static"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const version = "v0.3.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`ringdrop - jump before the ring falls

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT              Port to listen on (default: 8080)
  CORS_ORIGINS      Comma separated allowed origins (default: *)
  LOG_LEVEL         debug, info, warn, error (default: info)
  LOG_FORMAT        console or json (default: console)
  TIMING_FILE       YAML timing profile (optional)
  FALL_MS           Cue length until the ring drops (default: 3300)
  WINDOW_START_MS   Earliest successful jump (default: 3000)
  WINDOW_END_MS     Latest successful jump (default: 3300)
  MIN_DELAY_MS      Shortest wait before the cue (default: 1000)
  MAX_DELAY_MS      Longest wait before the cue (default: 4000)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("ringdrop %s\n", version)
		return
	}

	// config warnings are written with these until the configured level applies
	_ = logging.Setup("info", "console", os.Stdout)
	cfg, err := config.Load()
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	sock := ws.New(cfg.Timing(), nil)
	sock.Routes(r)
	io := sock.Mount(r)
	defer io.Close()

	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowCredentials: true,
	}).Handler(r)

	log.Info().Str("port", port).Int("fall_ms", cfg.FallMs).Msg("listening")
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
