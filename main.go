// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/tourism_etl/ETL/config"
	"github.com/LilVoxy/tourism_etl/ETL/models"
	"github.com/LilVoxy/tourism_etl/ETL/staging"
	"github.com/LilVoxy/tourism_etl/ETL/utils"
	"github.com/LilVoxy/tourism_etl/routes"
	"github.com/LilVoxy/tourism_etl/websocket"
)

func main() {
	log.Println("Запуск сервера...")

	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatalf("❌ Ошибка конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Журнал запусков хранится в операционной БД
	db, driver, err := config.ConnectOperational(ctx, cfg.Operational)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к операционной БД: %v", err)
	}
	defer db.Close()

	journal := models.NewSQLETLLogRepository(db, driver)
	if err := journal.CreateETLLogTable(ctx); err != nil {
		log.Fatalf("❌ Ошибка создания таблицы журнала: %v", err)
	}

	// Ручной ввод пишет в ту же staging-область, которую читает ETL
	apiStore, manualStore, err := staging.OpenStores(ctx, cfg.Staging)
	if err != nil {
		log.Fatalf("❌ Ошибка открытия staging-области: %v", err)
	}
	source := staging.NewBlobSourceFromConfig(apiStore, manualStore, cfg.Staging, utils.NewNopLogger())
	writer := staging.NewWriter(source, cfg.Staging.Compress)

	// Запускаем менеджер ленты запусков
	wsManager := websocket.NewManager(journal, 0)
	go wsManager.Run(ctx)

	router := mux.NewRouter()
	routes.SetupRoutes(router, journal, writer, wsManager)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Printf("✅ Сервер запущен на %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Ошибка запуска сервера: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	log.Println("⚠️ Получен сигнал завершения, останавливаем сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Ошибка остановки сервера: %v", err)
	}

	log.Println("👋 Сервер остановлен")
}
