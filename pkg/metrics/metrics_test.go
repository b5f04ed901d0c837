package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with empty or zero options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should hold and creation should succeed", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestScoringRecorders(t *testing.T) {
	Convey("Given the scoring recorders", t, func() {
		Convey("When recording submissions, updates, and rejections", func() {
			So(func() {
				RecordScoresSubmitted(3)
				RecordScoreUpdated()
				RecordScoreRejected("already_scored")
				RecordScoreRejected("invalid_item")
			}, ShouldNotPanic)
		})

		Convey("When recording aggregation latencies", func() {
			So(func() {
				RecordGroupRerank(5.0)
				RecordFinalRerank(12.0)
				RecordQualificationsCreated(8)
			}, ShouldNotPanic)
		})

		Convey("When recording edge values", func() {
			So(func() {
				RecordScoresSubmitted(0)
				RecordGroupRerank(0.0)
				RecordFinalRerank(30000.0)
			}, ShouldNotPanic)
		})
	})
}

func TestQueueAndWorkerRecorders(t *testing.T) {
	Convey("Given the queue and worker recorders", t, func() {
		Convey("When recording queue activity", func() {
			So(func() {
				UpdateQueueSize(10)
				UpdateQueueCapacity(1000)
				UpdateQueueUtilization(0.01)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
			}, ShouldNotPanic)
		})

		Convey("When recording worker activity", func() {
			So(func() {
				UpdateWorkerActiveCount(4)
				RecordWorkerProcessingLatency(2.5)
				RecordWorkerError()
			}, ShouldNotPanic)
		})

		Convey("When recording notification outcomes", func() {
			So(func() {
				RecordNotificationDispatched()
				RecordNotificationDropped()
			}, ShouldNotPanic)
		})
	})
}

func TestHTTPRecorders(t *testing.T) {
	Convey("Given the HTTP recorders", t, func() {
		Convey("When recording requests and durations", func() {
			So(func() {
				RecordHTTPRequest("/healthz", "GET", "200")
				RecordHTTPRequest("/api/submissions/{id}/scores", "POST", "201")
				RecordHTTPRequestDuration("/healthz", "GET", "200", 1.0)
				RecordHTTPRequestDuration("", "", "200", 10.0)
			}, ShouldNotPanic)
		})
	})
}

func TestRecorderConcurrency(t *testing.T) {
	Convey("Given concurrent recorder usage", t, func() {
		done := make(chan bool, 8)
		for i := 0; i < 8; i++ {
			go func() {
				for j := 0; j < 100; j++ {
					RecordScoresSubmitted(1)
					UpdateQueueSize(j)
					RecordGroupRerank(float64(j))
					RecordHTTPRequest("/stats", "GET", "200")
				}
				done <- true
			}()
		}
		for i := 0; i < 8; i++ {
			<-done
		}

		Convey("Then it should handle concurrent access without panics", func() {
			So(true, ShouldBeTrue)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should be non-nil and gatherable", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})
	})
}
