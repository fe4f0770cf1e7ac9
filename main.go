package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/taskflow/internal/aggregate"
	"github.com/example/taskflow/internal/backend"
	"github.com/example/taskflow/internal/undo"
	apimod "github.com/example/taskflow/modules/api"
	taskflowmod "github.com/example/taskflow/modules/taskflow"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	defaults := backend.DefaultConfig()
	storage := backend.Config{
		DBPath:         getEnv("DB_PATH", defaults.DBPath),
		DBDebug:        getEnvBool("DB_DEBUG", false),
		FallbackDriver: getEnv("KV_DRIVER", defaults.FallbackDriver),
		KVPath:         getEnv("KV_PATH", defaults.KVPath),
		RedisAddr:      getEnv("REDIS_ADDR", defaults.RedisAddr),
		RedisPrefix:    getEnv("REDIS_PREFIX", defaults.RedisPrefix),
		ForceFallback:  getEnvBool("FORCE_FALLBACK", false),
	}
	httpPort := getEnvInt("HTTP_PORT", 3000)
	undoWindow := getEnvDuration("UNDO_WINDOW", undo.DefaultWindow)
	seed := getEnvBool("SEED", true)
	capacities := aggregate.Capacities{
		"private": getEnvInt("CAPACITY_PRIVATE", 240),
		"work":    getEnvInt("CAPACITY_WORK", 360),
	}

	log.Println("=== Taskflow ===")
	log.Printf("Database: %s", storage.DBPath)
	log.Printf("Fallback store: %s", storage.FallbackDriver)
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Undo window: %s", undoWindow)

	// Create modules
	taskflowModule := taskflowmod.NewModule(taskflowmod.Config{
		Backend:    storage,
		UndoWindow: undoWindow,
		Seed:       seed,
		Capacities: capacities,
	})
	apiModule := apimod.NewModule(httpPort)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Register modules
	app.Register(taskflowModule)
	app.Register(apiModule)

	// Start modules
	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	// Wire up dependencies after start
	apiModule.SetEngine(taskflowModule.GetEngine())

	printStartupInfo(httpPort)

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", port)
	log.Println("Endpoints:")
	log.Println("  GET    /health                              - Health check")
	log.Println("  GET    /api/v1/snapshot                     - Everything stored")
	log.Println("  POST   /api/v1/tasks                        - Create task")
	log.Println("  PATCH  /api/v1/tasks/:id                    - Update task")
	log.Println("  POST   /api/v1/tasks/:id/{complete,toggle,snooze,restore}")
	log.Println("  POST   /api/v1/tasks/delete                 - Soft delete tasks")
	log.Println("  POST   /api/v1/undo                         - Undo the last delete")
	log.Println("  GET    /api/v1/projects/:id/timeline[.svg]  - Gantt layout")
	log.Println("  GET    /api/v1/workspaces/:ws/{inbox,today,planned,search,capacity,projects}")
	log.Println("  GET    /api/v1/export, POST /api/v1/import  - JSON interchange")
	log.Println("")
	log.Println("Services (via NATS request-reply): services.taskflow.*")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
