package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/LilVoxy/tourism_etl/ETL/utils"
)

// DBConnections содержит подключения к базам данных
type DBConnections struct {
	OperationalDB     *sql.DB
	OperationalDriver string
	MartDB            *sql.DB
}

// OperationalDSN формирует строку подключения к операционной БД и имя драйвера database/sql
func OperationalDSN(c DatabaseConfig) (driver string, dsn string) {
	if c.Driver == "postgres" {
		// Учетные данные экранируются: пароль может содержать '@', ':' или '/'
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:     "/" + c.DBName,
			RawQuery: "sslmode=disable",
		}
		return utils.DriverPostgres, u.String()
	}
	return utils.DriverMySQL, fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// ConnectOperational устанавливает подключение к операционной БД
func ConnectOperational(ctx context.Context, c DatabaseConfig) (*sql.DB, string, error) {
	driver, dsn := OperationalDSN(c)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка подключения к операционной базе данных: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("не удалось установить соединение с операционной базой данных: %w", err)
	}
	return db, driver, nil
}

// ConnectMart открывает файл витрины DuckDB
func ConnectMart(ctx context.Context, c MartConfig) (*sql.DB, error) {
	db, err := sql.Open("duckdb", c.Path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия витрины DuckDB: %w", err)
	}

	// DuckDB допускает только одного писателя на файл
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось открыть витрину DuckDB %q: %w", c.Path, err)
	}
	return db, nil
}

// ConnectDatabases устанавливает подключения к операционной БД и витрине
func ConnectDatabases(ctx context.Context, config ETLConfig) (*DBConnections, error) {
	operationalDB, driver, err := ConnectOperational(ctx, config.Operational)
	if err != nil {
		return nil, err
	}

	martDB, err := ConnectMart(ctx, config.Mart)
	if err != nil {
		// Закрываем первое подключение при ошибке
		operationalDB.Close()
		return nil, err
	}

	log.Println("Успешное подключение к операционной БД и витрине")
	return &DBConnections{
		OperationalDB:     operationalDB,
		OperationalDriver: driver,
		MartDB:            martDB,
	}, nil
}

// CloseDatabases закрывает подключения к базам данных
func CloseDatabases(connections *DBConnections) {
	if connections == nil {
		return
	}

	if connections.OperationalDB != nil {
		if err := connections.OperationalDB.Close(); err != nil {
			log.Printf("Ошибка при закрытии соединения с операционной базой данных: %v", err)
		}
	}

	if connections.MartDB != nil {
		if err := connections.MartDB.Close(); err != nil {
			log.Printf("Ошибка при закрытии витрины DuckDB: %v", err)
		}
	}

	log.Println("Соединения с базами данных закрыты")
}
