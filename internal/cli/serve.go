package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/rl1809/stockroom/internal/adapter/handler"
	"github.com/rl1809/stockroom/internal/adapter/handler/pb"
	"github.com/rl1809/stockroom/internal/adapter/notify"
	"github.com/rl1809/stockroom/internal/core/service"
)

const shutdownTimeout = 5 * time.Second

func NewServeCommand(opts *RootOptions) *cobra.Command {
	var httpAddr, grpcAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and gRPC APIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, opts, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			if httpAddr == "" {
				httpAddr = a.cfg.HTTPAddr
			}
			if grpcAddr == "" {
				grpcAddr = a.cfg.GRPCAddr
			}

			httpLis, err := net.Listen("tcp", httpAddr)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to listen", err)
			}
			grpcLis, err := net.Listen("tcp", grpcAddr)
			if err != nil {
				httpLis.Close()
				return WrapExitError(ExitCommandError, "failed to listen", err)
			}

			return serve(ctx, a, httpLis, grpcLis)
		},
	}

	cmd.Flags().StringVar(&httpAddr, "http", "", "HTTP listen address (default $STOCKROOM_HTTP_ADDR)")
	cmd.Flags().StringVar(&grpcAddr, "grpc", "", "gRPC listen address (default $STOCKROOM_GRPC_ADDR)")
	return cmd
}

// serve runs both APIs over one session until ctx is cancelled, then shuts
// them down and drains pending notifications.
func serve(ctx context.Context, a *app, httpLis, grpcLis net.Listener) error {
	queue := notify.NewQueue(notify.NewLogNotifier(a.log), a.cfg.NotifyQueueSize, a.log)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		queue.Run()
		a.log.Info("notification queue drained")
		return nil
	})

	session, err := a.session(ctx, service.WithNotifier(queue))
	if err != nil {
		queue.Close()
		g.Wait()
		httpLis.Close()
		grpcLis.Close()
		return err
	}

	grpcServer := grpc.NewServer()
	pb.RegisterPOSServer(grpcServer, handler.NewGRPCHandler(session, a.log))

	httpServer := &http.Server{
		Handler:           handler.NewHTTPHandler(session, a.log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		a.log.WithField("addr", grpcLis.Addr().String()).Info("gRPC server listening")
		if err := grpcServer.Serve(grpcLis); !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		a.log.WithField("addr", httpLis.Addr().String()).Info("HTTP server listening")
		if err := httpServer.Serve(httpLis); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		a.log.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		a.log.Info("gRPC server stopped")

		queue.Close()
		return err
	})

	return g.Wait()
}
