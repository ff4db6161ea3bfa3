package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ETLLogger представляет логгер для ETL-процесса
type ETLLogger struct {
	logger    zerolog.Logger
	file      *os.File
	isVerbose bool
}

// NewETLLogger создает новый экземпляр логгера для ETL.
// Сообщения пишутся в консоль и в файл etl_log_YYYY-MM-DD.log в каталоге logDir.
func NewETLLogger(verbose bool, logDir string) (*ETLLogger, error) {
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("etl_log_%s.log", currentTime)
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать каталог логов: %w", err)
		}
		logFileName = logDir + string(os.PathSeparator) + logFileName
	}

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o666)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть или создать файл лога: %w", err)
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	l := newLogger(zerolog.MultiLevelWriter(console, file), verbose)
	l.file = file
	return l, nil
}

// NewWriterLogger создает логгер, пишущий только в указанный writer
func NewWriterLogger(w io.Writer, verbose bool) *ETLLogger {
	return newLogger(w, verbose)
}

// NewNopLogger создает логгер, который ничего не пишет
func NewNopLogger() *ETLLogger {
	return &ETLLogger{logger: zerolog.Nop()}
}

func newLogger(w io.Writer, verbose bool) *ETLLogger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("component", "etl").
		Logger()

	return &ETLLogger{
		logger:    logger,
		isVerbose: verbose,
	}
}

// With возвращает дочерний логгер с дополнительным полем
func (l *ETLLogger) With(key, value string) *ETLLogger {
	return &ETLLogger{
		logger:    l.logger.With().Str(key, value).Logger(),
		file:      l.file,
		isVerbose: l.isVerbose,
	}
}

// Close закрывает файл лога
func (l *ETLLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Info логирует информационное сообщение
func (l *ETLLogger) Info(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

// Warn логирует предупреждение
func (l *ETLLogger) Warn(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

// Error логирует сообщение об ошибке
func (l *ETLLogger) Error(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *ETLLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}
	l.logger.Debug().Msgf(format, v...)
}

// LogETLStart логирует начало ETL-процесса
func (l *ETLLogger) LogETLStart(runID string) {
	l.Info("Начало выполнения ETL-процесса (run_id=%s)", runID)
}

// LogETLComplete логирует завершение ETL-процесса
func (l *ETLLogger) LogETLComplete(startTime time.Time, status string, inserted int, tablesWritten int) {
	l.Info("ETL-процесс завершён со статусом %s. Длительность: %v", status, time.Since(startTime))
	l.Info("Добавлено в операционную БД: %d строк, записано таблиц витрины: %d", inserted, tablesWritten)
}

// LogExtractStart логирует начало фазы извлечения данных
func (l *ETLLogger) LogExtractStart() {
	l.Info("Начало фазы Extract (чтение staging-области)")
}

// LogExtractComplete логирует завершение фазы извлечения данных
func (l *ETLLogger) LogExtractComplete(places, reviews, tweets, incomes, expenses int, duration time.Duration) {
	l.Info("Фаза Extract завершена. Длительность: %v", duration)
	l.Info("Извлечено: %d мест, %d отзывов, %d публикаций, %d поступлений, %d расходов",
		places, reviews, tweets, incomes, expenses)
}
