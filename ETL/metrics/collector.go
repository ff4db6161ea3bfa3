package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// Collector хранит метрики ETL-процесса
type Collector struct {
	logger *utils.ETLLogger

	stagedRows    *prometheus.CounterVec
	mergedRows    *prometheus.CounterVec
	droppedRows   *prometheus.CounterVec
	writeFailures *prometheus.CounterVec
	runs          *prometheus.CounterVec

	martRows    *prometheus.GaugeVec
	lastRunTime prometheus.Gauge
	runDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewCollector создает и регистрирует метрики в собственном реестре
func NewCollector(logger *utils.ETLLogger) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		logger:   logger,
		registry: registry,

		stagedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_etl_staged_records_total",
			Help: "Записи, прочитанные из staging-области",
		}, []string{"family"}),

		mergedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_etl_merged_rows_total",
			Help: "Новые строки, добавленные в операционную БД",
		}, []string{"table"}),

		droppedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_etl_dropped_rows_total",
			Help: "Строки, отброшенные фильтром обязательных полей",
		}, []string{"table"}),

		writeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_etl_write_failures_total",
			Help: "Ошибки записи таблиц",
		}, []string{"stage", "table"}),

		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tourism_etl_runs_total",
			Help: "Запуски ETL по итоговому статусу",
		}, []string{"status"}),

		martRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tourism_etl_mart_rows",
			Help: "Строки, записанные в таблицу витрины последним запуском",
		}, []string{"table"}),

		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tourism_etl_last_run_timestamp_seconds",
			Help: "Время завершения последнего запуска",
		}),

		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tourism_etl_run_duration_seconds",
			Help:    "Длительность запуска ETL",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}

	registry.MustRegister(
		c.stagedRows,
		c.mergedRows,
		c.droppedRows,
		c.writeFailures,
		c.runs,
		c.martRows,
		c.lastRunTime,
		c.runDuration,
		collectors.NewGoCollector(),
	)

	return c
}

// RecordStaged учитывает записи семейства, прочитанные из staging
func (c *Collector) RecordStaged(family string, n int) {
	c.stagedRows.WithLabelValues(family).Add(float64(n))
}

// RecordMerged учитывает строки, добавленные слиянием
func (c *Collector) RecordMerged(table string, n int) {
	c.mergedRows.WithLabelValues(table).Add(float64(n))
}

// RecordDropped учитывает строки, отброшенные при построении витрины
func (c *Collector) RecordDropped(table string, n int) {
	c.droppedRows.WithLabelValues(table).Add(float64(n))
}

// RecordWriteFailure учитывает ошибку записи таблицы на этапе stage (merge или load)
func (c *Collector) RecordWriteFailure(stage, table string) {
	c.writeFailures.WithLabelValues(stage, table).Inc()
}

// SetMartRows фиксирует количество строк, записанных в таблицу витрины
func (c *Collector) SetMartRows(table string, n int) {
	c.martRows.WithLabelValues(table).Set(float64(n))
}

// ObserveRun фиксирует итог запуска
func (c *Collector) ObserveRun(status string, duration time.Duration) {
	c.runs.WithLabelValues(status).Inc()
	c.runDuration.Observe(duration.Seconds())
	c.lastRunTime.SetToCurrentTime()
}

// Handler возвращает HTTP-обработчик /metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve публикует /metrics на addr до отмены ctx
func (c *Collector) Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	c.logger.Info("Сервер метрик запущен на %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		c.logger.Error("Ошибка сервера метрик: %v", err)
	}
}
