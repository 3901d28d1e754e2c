package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "lightswitch")
				So(manager.subsystem, ShouldEqual, "api")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("files"),
				WithHistogramBuckets([]float64{1, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordDownload(10)

			Convey("Then metric names and labels should reflect them", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_files_downloads_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(nil),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "lightswitch")
				So(manager.subsystem, ShouldEqual, "api")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording file store activity", func() {
			m.RecordFilesListed(3)
			m.RecordFilesListed(2)
			m.RecordFileListError()
			m.RecordDownload(100)
			m.RecordDownload(0)
			m.RecordDownloadMiss()
			m.RecordDownloadRejected()

			Convey("Then the counters should add up", func() {
				So(testutil.ToFloat64(m.filesListed), ShouldEqual, 5)
				So(testutil.ToFloat64(m.fileListErrors), ShouldEqual, 1)
				So(testutil.ToFloat64(m.downloads), ShouldEqual, 2)
				So(testutil.ToFloat64(m.downloadBytes), ShouldEqual, 100)
				So(testutil.ToFloat64(m.downloadMisses), ShouldEqual, 1)
				So(testutil.ToFloat64(m.downloadRejectNames), ShouldEqual, 1)
			})
		})

		Convey("When recording HTTP activity", func() {
			m.RecordHTTPRequest("files", "GET", "200", 1.5)
			m.RecordHTTPRequest("files", "GET", "200", 2.5)
			m.RecordHTTPError("download", "GET", "not_found", "medium")

			Convey("Then labelled series should be populated", func() {
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("files", "GET", "200")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.errorsByEndpoint.WithLabelValues("download", "GET", "not_found")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorsByType.WithLabelValues("not_found", "medium")), ShouldEqual, 1)
			})
		})

		Convey("When recording registry and lifecycle state", func() {
			m.UpdateRegistrySize(7)
			m.RecordRestartScheduled()
			m.RecordRestartRejected()
			m.SetStartTime(1700000000)

			Convey("Then gauges and counters should hold the values", func() {
				So(testutil.ToFloat64(m.registrySize), ShouldEqual, 7)
				So(testutil.ToFloat64(m.restartsScheduled), ShouldEqual, 1)
				So(testutil.ToFloat64(m.restartsRejected), ShouldEqual, 1)
				So(testutil.ToFloat64(m.startTimeSeconds), ShouldEqual, 1700000000)
			})
		})

		Convey("When recording system metrics", func() {
			So(func() {
				m.UpdateSystemMemoryUsage(1 << 20)
				m.UpdateSystemGoroutineCount(12)
				m.RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(m.systemGoroutineCount), ShouldEqual, 12)
		})
	})
}

func TestGlobalRegistry(t *testing.T) {
	Convey("Given the process-wide registry", t, func() {
		RecordHTTPRequest("status", "GET", "200", 0.2)
		UpdateRegistrySize(7)

		Convey("Then it exposes lightswitch metrics only", func() {
			So(Default(), ShouldNotBeNil)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "lightswitch_api_"), ShouldBeTrue)
			}
		})
	})
}
