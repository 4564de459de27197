package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/simulation"
	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/dungeon/v1alpha1"
	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/stream"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/run"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
)

var (
	grpcPort   int
	streamPort int
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC and websocket servers",
	Long: `Start the RunService gRPC server and the websocket snapshot stream.
Viewers connect to ws://host:<stream-port>/runs/stream?run=<run id>.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (env DUNGEON_GRPC_PORT)")
	serverCmd.Flags().IntVar(&streamPort, "stream-port", 0, "websocket port, 0 disables (env DUNGEON_STREAM_PORT)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.GRPCPort = grpcPort
	}
	if cmd.Flags().Changed("stream-port") {
		cfg.StreamPort = streamPort
	}
	log := newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	progressionService, release, err := newProgression(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer release()

	bus := events.NewBus()
	bus.SubscribeFunc(simulation.EventRunEnd, 0, func(_ context.Context, e events.Event) error {
		if notice, ok := e.(*simulation.RunEndNotice); ok {
			log.WithFields(logrus.Fields{
				"run_id":  notice.Outcome.RunID,
				"victory": notice.Outcome.Victory,
				"depth":   notice.Outcome.DepthReached,
			}).Info("run ended")
		}
		return nil
	})

	hub := stream.NewHub()
	runService, err := run.NewOrchestrator(&run.Config{
		Progression: progressionService,
		IDGenerator: idgen.NewUUID("run"),
		Clock:       clock.New(),
		Profile:     cfg.Profile,
		MaxDepth:    cfg.MaxDepth,
		EventBus:    bus,
		Listeners:   []run.TickListener{hub},
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to create run orchestrator: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	logOpts := []grpc_logging.Option{
		grpc_logging.WithLogOnEvents(grpc_logging.FinishCall),
	}
	recoveryOpts := []grpc_recovery.Option{
		grpc_recovery.WithRecoveryHandler(func(p any) error {
			log.WithField("panic", p).Error("recovered from panic in handler")
			return status.Error(codes.Internal, "internal error")
		}),
	}
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(log), logOpts...),
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(log), logOpts...),
			grpc_recovery.StreamServerInterceptor(recoveryOpts...),
		),
	)

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		RunService:         runService,
		ProgressionService: progressionService,
	})
	if err != nil {
		return fmt.Errorf("failed to create run handler: %w", err)
	}
	v1alpha1.RegisterRunServiceServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 2)
	go func() {
		log.WithField("port", cfg.GRPCPort).Info("gRPC server starting")
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	var httpSrv *http.Server
	if cfg.StreamPort > 0 {
		streamHandler, err := stream.NewHandler(&stream.HandlerConfig{
			Hub:        hub,
			RunService: runService,
			Logger:     log,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream handler: %w", err)
		}

		mux := http.NewServeMux()
		mux.Handle("/runs/stream", streamHandler)
		mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		httpSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.StreamPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.WithField("port", cfg.StreamPort).Info("stream server starting")
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("failed to serve stream: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		healthServer.Shutdown()
		if httpSrv != nil {
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("stream server shutdown failed")
			}
		}

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			log.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			log.Info("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		srv.Stop()
		return err
	}
}

// interceptorLogger adapts logrus to the grpc-middleware logging interface
func interceptorLogger(l logrus.FieldLogger) grpc_logging.Logger {
	return grpc_logging.LoggerFunc(func(_ context.Context, lvl grpc_logging.Level, msg string, fields ...any) {
		f := make(logrus.Fields, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			f[fmt.Sprint(fields[i])] = fields[i+1]
		}
		entry := l.WithFields(f)

		switch lvl {
		case grpc_logging.LevelDebug:
			entry.Debug(msg)
		case grpc_logging.LevelInfo:
			entry.Info(msg)
		case grpc_logging.LevelWarn:
			entry.Warn(msg)
		case grpc_logging.LevelError:
			entry.Error(msg)
		default:
			entry.Info(msg)
		}
	})
}
