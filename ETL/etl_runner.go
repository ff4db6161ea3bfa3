package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/LilVoxy/tourism_etl/ETL/config"
	"github.com/LilVoxy/tourism_etl/ETL/extractors"
	"github.com/LilVoxy/tourism_etl/ETL/load"
	"github.com/LilVoxy/tourism_etl/ETL/metrics"
	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/operational"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
	"github.com/LilVoxy/tourism_etl/ETL/transform"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// operationalStore - операционная БД глазами раннера
type operationalStore interface {
	operational.KeyStore
	Snapshot(ctx context.Context) (*models.OperationalSnapshot, error)
}

// Stages выбирает этапы запуска
type Stages struct {
	Merge bool // staging -> операционная БД
	Mart  bool // операционная БД -> витрина
}

var allStages = Stages{Merge: true, Mart: true}

type ETLRunner struct {
	config        config.ETLConfig
	dbConnections *config.DBConnections
	logger        *utils.ETLLogger
	extractor     *extractors.Extractor
	operational   operationalStore
	transformer   *transform.Transformer
	loadManager   *load.LoadManager
	etlLogRepo    models.ETLLogRepository
	metrics       *metrics.Collector
	now           func() time.Time
}

// NewETLRunner создает новый экземпляр ETLRunner и проверяет схемы хранилищ
func NewETLRunner(ctx context.Context, etlConfig config.ETLConfig) (*ETLRunner, error) {
	logger, err := utils.NewETLLogger(etlConfig.EnableDetailedLogging, etlConfig.LogDir)
	if err != nil {
		return nil, err
	}
	logger.Info("Инициализация ETL Runner")

	policy, err := transform.ParseConflictPolicy(etlConfig.DimensionConflictPolicy)
	if err != nil {
		return nil, err
	}

	// Подключаемся к базам данных
	connections, err := config.ConnectDatabases(ctx, etlConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базам данных: %w", err)
	}

	apiStore, manualStore, err := staging.OpenStores(ctx, etlConfig.Staging)
	if err != nil {
		config.CloseDatabases(connections)
		return nil, fmt.Errorf("ошибка открытия staging-области: %w", err)
	}
	source := staging.NewBlobSourceFromConfig(apiStore, manualStore, etlConfig.Staging, logger)

	opStore := operational.NewStore(connections.OperationalDB, connections.OperationalDriver, etlConfig.BatchSize, logger)
	martStore := load.NewDuckDBStore(connections.MartDB, logger)
	etlLogRepo := models.NewSQLETLLogRepository(connections.OperationalDB, connections.OperationalDriver)

	// Схемы создаются идемпотентно при каждом старте
	if err := opStore.CreateSchema(ctx); err != nil {
		config.CloseDatabases(connections)
		return nil, err
	}
	if err := etlLogRepo.CreateETLLogTable(ctx); err != nil {
		config.CloseDatabases(connections)
		return nil, fmt.Errorf("ошибка при создании таблицы логов ETL: %w", err)
	}
	if err := martStore.CreateSchema(ctx); err != nil {
		config.CloseDatabases(connections)
		return nil, err
	}

	runner := newRunner(etlConfig, logger, extractors.NewExtractor(source, logger), opStore, martStore,
		transform.NewTransformer(policy, logger), etlLogRepo)
	runner.dbConnections = connections
	return runner, nil
}

func newRunner(
	etlConfig config.ETLConfig,
	logger *utils.ETLLogger,
	extractor *extractors.Extractor,
	opStore operationalStore,
	martStore load.MartStore,
	transformer *transform.Transformer,
	etlLogRepo models.ETLLogRepository,
) *ETLRunner {
	return &ETLRunner{
		config:      etlConfig,
		logger:      logger,
		extractor:   extractor,
		operational: opStore,
		transformer: transformer,
		loadManager: load.NewLoadManager(martStore, logger),
		etlLogRepo:  etlLogRepo,
		metrics:     metrics.NewCollector(logger),
		now:         time.Now,
	}
}

// Close закрывает соединения с базами данных
func (r *ETLRunner) Close() {
	r.logger.Info("Завершение работы ETL Runner")
	config.CloseDatabases(r.dbConnections)
	r.logger.Close()
}

// ExecuteETL выполняет полный ETL процесс
func (r *ETLRunner) ExecuteETL(ctx context.Context) (*models.ETLRunLog, error) {
	return r.Execute(ctx, allStages)
}

// Execute выполняет выбранные этапы и фиксирует итог в журнале запусков.
// Ошибки отдельных семейств и таблиц дают статус partial, ошибки этапа - failed.
func (r *ETLRunner) Execute(ctx context.Context, stages Stages) (*models.ETLRunLog, error) {
	startTime := r.now()
	runID := uuid.NewString()
	r.logger.LogETLStart(runID)
	logger := r.logger.With("run_id", runID)

	var partial []error
	var stageErr error

	// Создаем запись в журнале ETL. Без записи запуск все равно выполняется,
	// но получает статус partial, а итог в журнал не пишется.
	logID, err := r.etlLogRepo.CreateLogEntry(ctx, runID, startTime)
	if err != nil {
		logger.Error("Ошибка при создании записи в журнале ETL: %v", err)
		partial = append(partial, fmt.Errorf("журнал запусков: %w", err))
		logID = 0
	}

	runLog := &models.ETLRunLog{
		ID:        logID,
		RunID:     runID,
		StartTime: startTime,
		Status:    models.RunStatusInProgress,
	}

	// 1. Extract + слияние в операционную БД
	if stages.Merge {
		partial = append(partial, r.mergeStage(ctx, runLog, logger)...)
	}

	// 2. Снимок, построение и загрузка витрины
	if stages.Mart {
		if err := ctx.Err(); err != nil {
			stageErr = fmt.Errorf("запуск прерван перед построением витрины: %w", err)
		} else {
			errs, err := r.martStage(ctx, runLog, logger)
			partial = append(partial, errs...)
			stageErr = err
		}
	}

	switch {
	case stageErr != nil:
		runLog.Status = models.RunStatusFailed
		runLog.ErrorMessage = joinMessages(append([]error{stageErr}, partial...))
	case len(partial) > 0:
		runLog.Status = models.RunStatusPartial
		runLog.ErrorMessage = joinMessages(partial)
	default:
		runLog.Status = models.RunStatusSuccess
	}

	r.finishRun(runLog, startTime)
	logger.LogETLComplete(startTime, runLog.Status, runLog.TotalInserted(), runLog.MartTablesWritten)

	if stageErr != nil {
		return runLog, stageErr
	}
	return runLog, nil
}

func (r *ETLRunner) mergeStage(ctx context.Context, runLog *models.ETLRunLog, logger *utils.ETLLogger) []error {
	staged, errs := r.extractor.Extract(ctx)

	r.metrics.RecordStaged(string(staging.FamilyPlaces), len(staged.Places))
	r.metrics.RecordStaged(string(staging.FamilyReviews), len(staged.Reviews))
	r.metrics.RecordStaged(string(staging.FamilyTweets), len(staged.Tweets))
	r.metrics.RecordStaged(string(staging.FamilyIncome), len(staged.Incomes))
	r.metrics.RecordStaged(string(staging.FamilyExpense), len(staged.Expenses))

	report := operational.MergeAll(ctx, r.operational, staged, logger)
	for table, n := range report.Inserted {
		r.metrics.RecordMerged(table, n)
	}
	for _, t := range operational.AllTables {
		if _, ok := report.Inserted[t.Name]; !ok {
			r.metrics.RecordWriteFailure("merge", t.Name)
		}
	}

	runLog.PlacesInserted = report.Inserted[operational.PlacesTable.Name]
	runLog.ReviewsInserted = report.Inserted[operational.ReviewsTable.Name]
	runLog.TweetsInserted = report.Inserted[operational.TweetsTable.Name]
	runLog.IncomeInserted = report.Inserted[operational.IncomeTable.Name]
	runLog.ExpenseInserted = report.Inserted[operational.ExpenseTable.Name]

	logger.Info("Слияние завершено: добавлено %d строк", report.Total())
	return append(errs, report.Errors...)
}

func (r *ETLRunner) martStage(ctx context.Context, runLog *models.ETLRunLog, logger *utils.ETLLogger) ([]error, error) {
	// Без полного снимка витрина не строится: измерения заменяются целиком
	snap, err := r.operational.Snapshot(ctx)
	if err != nil {
		logger.Error("Ошибка чтения снимка операционной БД, витрина не обновляется: %v", err)
		return nil, fmt.Errorf("снимок операционной БД: %w", err)
	}

	mart := r.transformer.Build(snap)
	for table, n := range mart.Dropped {
		r.metrics.RecordDropped(table, n)
	}

	report := r.loadManager.Load(ctx, mart)
	for table, n := range report.Rows {
		r.metrics.SetMartRows(table, n)
	}
	for table := range report.Failed {
		r.metrics.RecordWriteFailure("load", table)
	}

	runLog.MartTablesWritten = len(report.Written)
	runLog.MartTablesFailed = len(report.Failed)

	if err := report.Err(); err != nil {
		return []error{err}, nil
	}
	return nil, nil
}

// finishRun фиксирует итог запуска в журнале и метриках
func (r *ETLRunner) finishRun(runLog *models.ETLRunLog, startTime time.Time) {
	runLog.EndTime = r.now()
	runLog.ExecutionTimeSeconds = runLog.EndTime.Sub(startTime).Seconds()

	// Журнал обновляется даже после отмены контекста запуска
	if runLog.ID != 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.etlLogRepo.UpdateLogEntry(ctx, runLog); err != nil {
			r.logger.Error("Ошибка при обновлении записи в журнале ETL: %v", err)
		}
	}

	r.metrics.ObserveRun(runLog.Status, runLog.EndTime.Sub(startTime))
}

func joinMessages(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// StartScheduler запускает планировщик для регулярного выполнения ETL
func (r *ETLRunner) StartScheduler(ctx context.Context) error {
	scheduler := gocron.NewScheduler(time.UTC)
	// Следующий запуск не начинается, пока не завершен текущий
	scheduler.SingletonModeAll()

	var job *gocron.Scheduler
	if r.config.DailyAt != "" {
		r.logger.Info("Запуск планировщика ETL ежедневно в %s UTC", r.config.DailyAt)
		job = scheduler.Every(1).Day().At(r.config.DailyAt)
	} else {
		r.logger.Info("Запуск планировщика ETL с интервалом %v", r.config.RunInterval)
		job = scheduler.Every(r.config.RunInterval)
	}

	_, err := job.Do(func() {
		r.logger.Info("Запланированный запуск ETL процесса")
		if _, err := r.ExecuteETL(ctx); err != nil {
			r.logger.Error("Ошибка при выполнении запланированного ETL: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке планировщика: %w", err)
	}

	if r.config.MetricsAddr != "" {
		go r.metrics.Serve(ctx, r.config.MetricsAddr)
	}

	// Запускаем планировщик
	scheduler.StartAsync()

	// Ожидаем сигнал остановки из контекста
	<-ctx.Done()

	// Останавливаем планировщик, дожидаясь текущего запуска
	scheduler.Stop()
	r.logger.Info("Планировщик ETL остановлен")
	return nil
}

func main() {
	// Параметры командной строки
	modePtr := flag.String("mode", "scheduled", "Режим работы: scheduled, once, schema, merge или mart")
	configPtr := flag.String("config", "", "Путь к YAML-файлу конфигурации (по умолчанию ETL_CONFIG)")
	flag.Parse()

	log.Println("Запуск ETL Runner в режиме:", *modePtr)

	var stages Stages
	switch *modePtr {
	case "once", "scheduled":
		stages = allStages
	case "merge":
		stages = Stages{Merge: true}
	case "mart":
		stages = Stages{Mart: true}
	case "schema":
	default:
		log.Println("Неизвестный режим работы:", *modePtr)
		log.Println("Доступные режимы: scheduled, once, schema, merge, mart")
		os.Exit(1)
	}

	var etlConfig config.ETLConfig
	var err error
	if *configPtr != "" {
		etlConfig, err = config.LoadConfig(*configPtr)
	} else {
		etlConfig, err = config.GetConfig()
	}
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	// Контекст отменяется при получении сигнала завершения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, err := NewETLRunner(ctx, etlConfig)
	if err != nil {
		log.Fatalf("Ошибка при создании ETL Runner: %v", err)
	}
	defer runner.Close()

	switch *modePtr {
	case "schema":
		log.Println("Схемы операционной БД, журнала и витрины созданы")
	case "scheduled":
		if err := runner.StartScheduler(ctx); err != nil {
			log.Printf("Ошибка планировщика: %v", err)
		}
	default:
		runLog, err := runner.Execute(ctx, stages)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Ошибка при выполнении ETL: %v", err)
		}
		if runLog != nil {
			log.Printf("Запуск %s завершен со статусом %s", runLog.RunID, runLog.Status)
		}
	}

	log.Println("ETL Runner завершил работу")
}
