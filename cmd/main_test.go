package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/lightswitch/internal/adapters/http/api"
	"github.com/okian/lightswitch/internal/adapters/http/swagger"
	"github.com/okian/lightswitch/internal/config"
	"github.com/okian/lightswitch/pkg/logger"
	"github.com/okian/lightswitch/pkg/metrics"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			t.Setenv("LIGHTSWITCH_ADDR", ":8080")
			t.Setenv("LIGHTSWITCH_RESTART_ENABLED", "false")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RestartEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When testing service creation", func() {
			srv := &http.Server{}

			convey.Convey("Then service should be creatable with defaults", func() {
				svc := newService(config.New(), logger.Get(), srv)
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And graceful restarts should be wired", func() {
				cfg := config.New()
				cfg.RestartGraceful = true
				svc := newService(cfg, logger.Get(), srv)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it returns once the context ends", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given main application integration", t, func() {
		dir := filepath.Join(t.TempDir(), "Files")
		convey.So(os.Mkdir(dir, 0o755), convey.ShouldBeNil)
		convey.So(os.WriteFile(filepath.Join(dir, "report.txt"), []byte("numbers"), 0o600), convey.ShouldBeNil)
		t.Setenv("LIGHTSWITCH_FILES_DIR", dir)

		convey.Convey("When the full handler is built from configuration", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)

			svc := newService(cfg, logger.Get(), &http.Server{})
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			ts := httptest.NewServer(newHandler(ctx, cfg, svc, logger.Get()))
			defer ts.Close()

			convey.Convey("Then API, docs and metrics routes are served", func() {
				for _, path := range []string{
					api.RouteStatus,
					api.RouteLightswitch,
					api.RouteFiles,
					api.RouteLaunch,
					api.RouteDownload + "?name=report.txt",
					api.RouteEndpoints,
					api.RouteMetrics,
					swagger.RouteDocs,
					swagger.RouteOpenAPI,
				} {
					resp, err := http.Get(ts.URL + path)
					convey.So(err, convey.ShouldBeNil)
					resp.Body.Close()
					convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
					convey.So(resp.Header.Get(api.RequestIDHeader), convey.ShouldNotBeEmpty)
				}
			})

			convey.Convey("And only the seven API routes are listed", func() {
				convey.So(svc.Registry().Len(), convey.ShouldEqual, 7)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			t.Setenv("LIGHTSWITCH_REGISTRATION_POLICY", "sometimes")

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
